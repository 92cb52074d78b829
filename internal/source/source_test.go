package source

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSource struct {
	pages   int
	fail    int
	renders atomic.Int32
	closed  atomic.Bool
}

func (f *fakeSource) PageCount() int { return f.pages }

func (f *fakeSource) GetPageDimensions(index int) (float64, float64, error) {
	return 360, 640, nil
}

func (f *fakeSource) RenderPage(index int, dpi int) (image.Image, error) {
	f.renders.Add(1)
	time.Sleep(5 * time.Millisecond)
	if index+1 == f.fail {
		return nil, errors.New("corrupt page")
	}
	img := image.NewRGBA(image.Rect(0, 0, 360*dpi/72, 640*dpi/72))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img, nil
}

func (f *fakeSource) Close() error {
	f.closed.Store(true)
	return nil
}

func TestCacheSingleLoad(t *testing.T) {
	var opens atomic.Int32
	src := &fakeSource{pages: 3}
	cache := NewCache(func(ctx context.Context, locator string) (Source, error) {
		opens.Add(1)
		time.Sleep(10 * time.Millisecond)
		return src, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := cache.Get(context.Background(), "deck.pdf")
			if err != nil || got != Source(src) {
				t.Errorf("Get = %v, %v", got, err)
			}
		}()
	}
	wg.Wait()

	if n := opens.Load(); n != 1 {
		t.Errorf("document opened %d times, want 1", n)
	}
	if err := cache.Close(); err != nil || !src.closed.Load() {
		t.Errorf("Close = %v, closed %v", err, src.closed.Load())
	}
}

func TestCacheFailureNotCached(t *testing.T) {
	calls := 0
	cache := NewCache(func(ctx context.Context, locator string) (Source, error) {
		calls++
		if calls == 1 {
			return nil, os.ErrNotExist
		}
		return &fakeSource{pages: 1}, nil
	})

	_, err := cache.Get(context.Background(), "missing.pdf")
	var ae *AssetError
	if !errors.As(err, &ae) || ae.Locator != "missing.pdf" || ae.Page != 0 {
		t.Fatalf("err = %v, want document AssetError", err)
	}
	if !errors.Is(err, ErrAssetLoad) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err does not match both ErrAssetLoad and the cause: %v", err)
	}

	if _, err := cache.Get(context.Background(), "missing.pdf"); err != nil {
		t.Errorf("retry after failure: %v", err)
	}
}

func TestCacheCanceledCallerDoesNotFailOthers(t *testing.T) {
	src := &fakeSource{pages: 2}
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	cache := NewCache(func(ctx context.Context, locator string) (Source, error) {
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return src, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx, "deck.pdf")
		first <- err
	}()
	<-started

	second := make(chan error, 1)
	go func() {
		got, err := cache.Get(context.Background(), "deck.pdf")
		if err == nil && got != Source(src) {
			err = errors.New("wrong document")
		}
		second <- err
	}()

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) || !errors.Is(err, ErrAssetLoad) {
		t.Errorf("canceled caller err = %v, want context.Canceled asset error", err)
	}
	close(release)
	if err := <-second; err != nil {
		t.Errorf("second caller: %v", err)
	}
	if got, err := cache.Get(context.Background(), "deck.pdf"); err != nil || got != Source(src) {
		t.Errorf("cached Get = %v, %v", got, err)
	}
}

func TestPageCacheSingleRasterize(t *testing.T) {
	src := &fakeSource{pages: 4}
	pc := NewPageCache(src, "deck.pdf", 500, 300)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := pc.Get(2, 2); err != nil {
				t.Errorf("Get: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := src.renders.Load(); n != 1 {
		t.Errorf("page rendered %d times, want 1", n)
	}
	img, ok := pc.Lookup(2, 2)
	if !ok {
		t.Fatal("page 2 not cached")
	}
	if b := img.Bounds(); b.Dx() != 1000 || b.Dy() != 1778 {
		t.Errorf("bitmap %dx%d, want 1000x1778", b.Dx(), b.Dy())
	}
	if _, ok := pc.Lookup(2, 1); ok {
		t.Error("scale 1 cached without a request")
	}
}

func TestPageCacheOutOfRange(t *testing.T) {
	pc := NewPageCache(&fakeSource{pages: 2}, "deck.pdf", 500, 150)
	_, err := pc.Get(3, 1)
	var ae *AssetError
	if !errors.As(err, &ae) || ae.Page != 3 {
		t.Errorf("err = %v, want AssetError for page 3", err)
	}
}

func TestPreload(t *testing.T) {
	src := &fakeSource{pages: 5}
	pc := NewPageCache(src, "deck.pdf", 100, 72)

	reqs := []Request{{1, 1}, {2, 1}, {3, 2}, {4, 1}, {5, 1}}
	ready := pc.Preload(context.Background(), reqs, 2)
	if err := ready.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if pc.Len() != len(reqs) {
		t.Errorf("loaded %d bitmaps, want %d", pc.Len(), len(reqs))
	}
	select {
	case <-ready.Done():
	default:
		t.Error("Done not closed after Wait")
	}
}

func TestPreloadFailure(t *testing.T) {
	src := &fakeSource{pages: 5, fail: 3}
	pc := NewPageCache(src, "deck.pdf", 100, 72)

	reqs := []Request{{1, 1}, {2, 1}, {3, 1}, {4, 1}, {5, 1}}
	err := pc.Preload(context.Background(), reqs, 1).Wait(context.Background())
	var ae *AssetError
	if !errors.As(err, &ae) || ae.Page != 3 {
		t.Fatalf("err = %v, want AssetError for page 3", err)
	}
	if _, ok := pc.Lookup(5, 1); ok {
		t.Error("page 5 loaded after the failure")
	}
}

func TestReadyWaitContext(t *testing.T) {
	r := &Ready{done: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait = %v, want context.Canceled", err)
	}
}

func TestImageSource(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png", "notes.txt"} {
		path := filepath.Join(dir, name)
		if name == "notes.txt" {
			os.WriteFile(path, []byte("skip"), 0644)
			continue
		}
		img := image.NewRGBA(image.Rect(0, 0, 90, 160))
		img.Set(0, 0, color.White)
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		png.Encode(f, img)
		f.Close()
	}

	src, err := (&Opener{}).Open(context.Background(), "file://"+dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	if src.PageCount() != 2 {
		t.Fatalf("PageCount = %d, want 2", src.PageCount())
	}
	w, h, err := src.GetPageDimensions(0)
	if err != nil || w != 90 || h != 160 {
		t.Errorf("dimensions = %v x %v, %v", w, h, err)
	}
	if _, err := src.RenderPage(2, 72); err == nil {
		t.Error("out of range page rendered")
	}
}

func TestOpenerRejectsUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.docx")
	os.WriteFile(path, []byte("x"), 0644)
	if _, err := (&Opener{}).Open(context.Background(), path); err == nil {
		t.Error("opened an unsupported file")
	}
	if _, err := (&Opener{}).Open(context.Background(), "s3://bucket/deck.pdf"); err == nil {
		t.Error("opened s3 locator without a store")
	}
}
