package source

import (
	"context"
	"fmt"
	"image"
	"math"
	"strconv"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const minDPI = 36

// Request asks for a page (1-based) at a render scale.
type Request struct {
	Page  int
	Scale float64
}

type pageKey struct {
	page  int
	scale float64
}

// PageCache holds rasterized pages of one document, sized for a card of
// CardWidth pixels times the requested scale.
type PageCache struct {
	src       Source
	locator   string
	cardWidth float64
	maxDPI    int

	group singleflight.Group

	mu      sync.RWMutex
	bitmaps map[pageKey]*image.RGBA
}

func NewPageCache(src Source, locator string, cardWidth float64, maxDPI int) *PageCache {
	return &PageCache{
		src:       src,
		locator:   locator,
		cardWidth: cardWidth,
		maxDPI:    maxDPI,
		bitmaps:   make(map[pageKey]*image.RGBA),
	}
}

// Lookup returns a bitmap only if it is already loaded.
func (c *PageCache) Lookup(page int, scale float64) (*image.RGBA, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.bitmaps[pageKey{page, scale}]
	return img, ok
}

// Len is the number of loaded bitmaps.
func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bitmaps)
}

// Get returns the bitmap for page at scale, rasterizing it once.
func (c *PageCache) Get(page int, scale float64) (*image.RGBA, error) {
	if img, ok := c.Lookup(page, scale); ok {
		return img, nil
	}

	key := strconv.Itoa(page) + "@" + strconv.FormatFloat(scale, 'g', -1, 64)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if img, ok := c.Lookup(page, scale); ok {
			return img, nil
		}
		img, err := c.rasterize(page, scale)
		if err != nil {
			return nil, &AssetError{Locator: c.locator, Page: page, Err: err}
		}
		c.mu.Lock()
		c.bitmaps[pageKey{page, scale}] = img
		c.mu.Unlock()
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*image.RGBA), nil
}

func (c *PageCache) rasterize(page int, scale float64) (*image.RGBA, error) {
	if n := c.src.PageCount(); page < 1 || page > n {
		return nil, fmt.Errorf("page out of range, document has %d", n)
	}
	index := page - 1

	w, h, err := c.src.GetPageDimensions(index)
	if err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty page bounds %gx%g", w, h)
	}

	targetW := int(math.Round(c.cardWidth * scale))
	targetH := int(math.Round(float64(targetW) * h / w))

	// Page bounds are in points, 72 per inch.
	dpi := int(math.Ceil(72 * float64(targetW) / w))
	if dpi > c.maxDPI {
		dpi = c.maxDPI
	}
	if dpi < minDPI {
		dpi = minDPI
	}

	img, err := c.src.RenderPage(index, dpi)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst, nil
}

// Ready resolves once a preload finishes.
type Ready struct {
	done chan struct{}
	err  error
}

// Done is closed when loading has finished.
func (r *Ready) Done() <-chan struct{} { return r.done }

// Wait blocks until loading finishes or ctx ends, returning the first load error.
func (r *Ready) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Preload rasterizes reqs with at most workers in flight. The first failure
// cancels the rest.
func (c *PageCache) Preload(ctx context.Context, reqs []Request, workers int) *Ready {
	r := &Ready{done: make(chan struct{})}
	go func() {
		defer close(r.done)
		g, gctx := errgroup.WithContext(ctx)
		if workers > 0 {
			g.SetLimit(workers)
		}
		for _, req := range reqs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				_, err := c.Get(req.Page, req.Scale)
				return err
			})
		}
		r.err = g.Wait()
	}()
	return r
}
