package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/pdfshowcase/internal/composer"
	"github.com/ivlev/pdfshowcase/internal/config"
	"github.com/ivlev/pdfshowcase/internal/renderer"
	"github.com/ivlev/pdfshowcase/internal/scene"
	"github.com/ivlev/pdfshowcase/internal/source"
	"github.com/ivlev/pdfshowcase/internal/storage"
	"github.com/ivlev/pdfshowcase/internal/system"
	"github.com/ivlev/pdfshowcase/internal/timeline"
	"github.com/ivlev/pdfshowcase/internal/video"
)

// Store uploads finished videos to s3:// outputs.
type Store interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

type VideoProject struct {
	Config   *config.Config
	Showcase *config.Showcase
	Sources  *source.Cache
	Encoder  video.Opener
	// Store is required only for s3:// outputs.
	Store Store
	// BenchmarkLog receives one line per run when ShowStats is set.
	BenchmarkLog string
}

func NewVideoProject(cfg *config.Config, sc *config.Showcase, sources *source.Cache, enc video.Opener, store Store) *VideoProject {
	return &VideoProject{
		Config:       cfg,
		Showcase:     sc,
		Sources:      sources,
		Encoder:      enc,
		Store:        store,
		BenchmarkLog: "benchmark.log",
	}
}

// Prepared is everything needed to render, short of the page bitmaps.
type Prepared struct {
	Source   source.Source
	Pages    []int
	Timeline *timeline.Timeline
	Composer *composer.Composer
	Viewport scene.Viewport
}

// Prepare validates the input, opens the document and compiles the timeline.
func (p *VideoProject) Prepare(ctx context.Context) (*Prepared, error) {
	cfg, sc := p.Config, p.Showcase
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	src, err := p.Sources.Get(ctx, sc.Src)
	if err != nil {
		return nil, err
	}
	total := src.PageCount()
	if err := sc.CheckPageRange(total); err != nil {
		return nil, err
	}

	vp := scene.DefaultViewport(cfg.FPS, cfg.Width, cfg.Height)
	vp.FocusWidth = cfg.FocusWidth
	vp.MaxLayers = cfg.MaxLayers
	vp.AspectRatio = aspectRatio(cfg.AspectRatio, src)

	pages := timeline.ResolvePages(cfg.PagePolicy, sc.PageSource(total))
	if err := sc.CheckActivePages(pages); err != nil {
		return nil, err
	}
	tl := timeline.Compile(sc.Items(), pages)

	text := composer.Text{
		Title:            sc.Title,
		Subtitle:         sc.Subtitle,
		PageTitles:       sc.PageTitles,
		PageDescriptions: sc.PageDescriptions,
	}
	if cfg.QR && (strings.HasPrefix(sc.Src, "http://") || strings.HasPrefix(sc.Src, "https://")) {
		text.QR = sc.Src
	}

	return &Prepared{
		Source:   src,
		Pages:    pages,
		Timeline: tl,
		Composer: composer.New(tl, pages, vp, text, sc.EstimateFrames()),
		Viewport: vp,
	}, nil
}

// aspectRatio prefers the configured ratio, then the first page, then 9:16.
func aspectRatio(configured float64, src source.Source) float64 {
	if configured > 0 {
		return configured
	}
	if src.PageCount() > 0 {
		if w, h, err := src.GetPageDimensions(0); err == nil && w > 0 && h > 0 {
			return w / h
		}
	}
	return 9.0 / 16.0
}

// Run renders the showcase to Config.OutputVideo. On any failure the
// partial output is removed.
func (p *VideoProject) Run(ctx context.Context) error {
	startTime := time.Now()

	prep, err := p.Prepare(ctx)
	if err != nil {
		return err
	}
	cfg, sc := p.Config, p.Showcase
	comp := prep.Composer
	frames := comp.Total()

	fmt.Println("--- [PROJECT: SHOWCASE ENGINE] ---")
	fmt.Printf("[*] Источник: %s | Страниц: %d | В показе: %v\n", sc.Src, prep.Source.PageCount(), prep.Pages)
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Кадров: %d (%.1fs)\n", cfg.Width, cfg.Height, cfg.FPS, frames, float64(frames)/float64(cfg.FPS))
	fmt.Printf("[*] Сцен: %d | Акцентов: %d\n", len(prep.Timeline.Entries), prep.Timeline.Highlights)
	fmt.Println("-----------------------------")

	// 1. Подготовка страниц
	preloadStart := time.Now()
	pageCache := source.NewPageCache(prep.Source, sc.Src, prep.Viewport.CardWidth, cfg.DPI)
	var reqs []source.Request
	for _, r := range comp.RequiredPages() {
		reqs = append(reqs, source.Request{Page: r.Page, Scale: r.Scale})
	}
	if err := pageCache.Preload(ctx, reqs, cfg.Workers).Wait(ctx); err != nil {
		return err
	}
	preloadTime := time.Since(preloadStart)
	fmt.Printf("[*] Подготовлено изображений страниц: %d\n", pageCache.Len())

	r, err := renderer.New(prep.Viewport, comp.Text(), pageCache)
	if err != nil {
		return err
	}

	// 2. Рендеринг и кодирование
	target, err := p.tempOutput()
	if err != nil {
		return err
	}
	settings := video.Settings{
		Output:    target,
		Width:     cfg.Width,
		Height:    cfg.Height,
		FPS:       cfg.FPS,
		Frames:    frames,
		Encoder:   cfg.VideoEncoder,
		Quality:   cfg.Quality,
		AudioPath: cfg.AudioPath,
	}
	if cfg.AudioPath != "" {
		settings.AudioFilter = composer.VolumeFilter(frames, cfg.FPS)
	}

	renderStart := time.Now()
	enc, err := p.Encoder.Open(ctx, settings)
	if err != nil {
		os.Remove(target)
		return fmt.Errorf("ошибка запуска кодировщика: %w", err)
	}
	if err := renderFrames(ctx, comp, r, enc, cfg.Workers); err != nil {
		enc.Abort()
		os.Remove(target)
		return err
	}
	if err := enc.Close(); err != nil {
		os.Remove(target)
		return fmt.Errorf("ошибка сборки финального видео: %w", err)
	}
	renderTime := time.Since(renderStart)

	// 3. Публикация
	publishStart := time.Now()
	if err := p.publish(ctx, target); err != nil {
		os.Remove(target)
		return err
	}
	publishTime := time.Since(publishStart)

	fmt.Printf("[+++] Готово: %s\n", cfg.OutputVideo)

	if cfg.ShowStats {
		totalTime := time.Since(startTime)
		fps := float64(frames) / totalTime.Seconds()
		report := fmt.Sprintf(
			"--- [PERFORMANCE REPORT] ---\n"+
				"Build: %s\n"+
				"Total Time: %.2fs\n"+
				"Page Preload: %.2fs\n"+
				"Rendering + Encoding: %.2fs\n"+
				"Publishing: %.2fs\n"+
				"Frames: %d\n"+
				"Effective FPS: %.2f\n"+
				"----------------------------\n",
			cfg.BuildVersion, totalTime.Seconds(), preloadTime.Seconds(), renderTime.Seconds(), publishTime.Seconds(), frames, fps,
		)
		fmt.Print(report)

		logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Frames: %d | Total: %.2fs | Preload: %.2fs | Render: %.2fs | FPS: %.2f\n",
			time.Now().Format("2006-01-02 15:04:05"),
			cfg.BuildVersion,
			filepath.Base(sc.Src),
			frames,
			totalTime.Seconds(),
			preloadTime.Seconds(),
			renderTime.Seconds(),
			fps,
		)
		p.appendBenchmark(logEntry)
	}
	return nil
}

func (p *VideoProject) appendBenchmark(entry string) {
	if p.BenchmarkLog == "" {
		return
	}
	f, err := os.OpenFile(p.BenchmarkLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("[!] Не удалось записать %s: %v\n", p.BenchmarkLog, err)
		return
	}
	defer f.Close()
	f.WriteString(entry)
}

// tempOutput is where the encoder writes before the result is published.
// Local outputs are renamed into place, so the file sits next to them.
func (p *VideoProject) tempOutput() (string, error) {
	out := p.Config.OutputVideo
	ext := filepath.Ext(out)
	if ext == "" {
		ext = ".mp4"
	}
	if storage.IsURI(out) {
		f, err := os.CreateTemp("", "pdfshowcase_*"+ext)
		if err != nil {
			return "", err
		}
		f.Close()
		return f.Name(), nil
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", err
	}
	return strings.TrimSuffix(out, filepath.Ext(out)) + ".part" + ext, nil
}

func (p *VideoProject) publish(ctx context.Context, tmp string) error {
	out := p.Config.OutputVideo
	if !storage.IsURI(out) {
		return os.Rename(tmp, out)
	}
	if p.Store == nil {
		return fmt.Errorf("no object store configured for %s", out)
	}
	bucket, key, err := storage.ParseURI(out)
	if err != nil {
		return err
	}
	if exists, err := p.Store.Exists(ctx, bucket, key); err == nil && exists {
		fmt.Printf("[!] %s уже существует и будет перезаписан\n", out)
	}

	f, err := os.Open(tmp)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)
	defer f.Close()

	fmt.Printf("[*] Загрузка в %s...\n", out)
	if err := p.Store.Put(ctx, bucket, key, f, "video/mp4"); err != nil {
		return fmt.Errorf("upload %s: %w", out, err)
	}
	return nil
}

type rendered struct {
	index int
	img   *image.RGBA
}

// renderFrames paints frames on workers goroutines and hands them to enc
// in frame order. At most 2*workers frames are held at once. The first
// error stops every goroutine.
func renderFrames(ctx context.Context, comp *composer.Composer, r *renderer.Renderer, enc video.Encoder, workers int) error {
	total := comp.Total()
	if workers <= 0 {
		workers = 1
	}
	vp := comp.Viewport()
	rect := image.Rect(0, 0, vp.Width, vp.Height)

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	results := make(chan rendered, workers)
	inflight := make(chan struct{}, workers*2)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < total; i++ {
			select {
			case inflight <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			painter := r.NewPainter()
			defer painter.Close()

			for i := range jobs {
				img := system.GetImage(rect)
				if err := painter.Paint(img, comp.Frame(i)); err != nil {
					system.PutImage(img)
					return fmt.Errorf("frame %d: %w", i, err)
				}
				select {
				case results <- rendered{i, img}:
				case <-gctx.Done():
					system.PutImage(img)
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	g.Go(func() error {
		pending := make(map[int]*image.RGBA)
		next := 0
		step := vp.FPS * 5
		for res := range results {
			pending[res.index] = res.img
			for {
				img, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				err := enc.WriteFrame(img)
				system.PutImage(img)
				if err != nil {
					return fmt.Errorf("frame %d: %w", next, err)
				}
				<-inflight
				next++
				if next%step == 0 || next == total {
					fmt.Printf("[>] Кадров: %d/%d\n", next, total)
				}
			}
		}
		if next != total {
			if err := gctx.Err(); err != nil {
				return err
			}
			return errors.New("renderer stopped before the last frame")
		}
		return nil
	})

	return g.Wait()
}
