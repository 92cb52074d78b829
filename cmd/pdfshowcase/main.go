package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ivlev/pdfshowcase/internal/config"
	"github.com/ivlev/pdfshowcase/internal/engine"
	"github.com/ivlev/pdfshowcase/internal/source"
	"github.com/ivlev/pdfshowcase/internal/storage"
	"github.com/ivlev/pdfshowcase/internal/system"
	"github.com/ivlev/pdfshowcase/internal/timeline"
	"github.com/ivlev/pdfshowcase/internal/video"
)

var BuildVersion = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[!] Не удалось прочитать .env: %v", err)
	}

	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	inputDir := envOr("PDFSHOWCASE_INPUT_DIR", "input")
	outputDir := envOr("PDFSHOWCASE_OUTPUT_DIR", "output")
	for _, d := range []string{filepath.Join(inputDir, "audio"), filepath.Join(inputDir, "pdf"), outputDir} {
		os.MkdirAll(d, 0755)
	}

	defaults := config.Default()

	inputPtr := flag.String("input", "", "Файл показа (YAML/JSON): src, title, pages, highlights, script...")
	srcPtr := flag.String("src", "", "Документ: путь, file://, http(s):// или s3:// (по умолчанию: самый свежий PDF в input/pdf/)")
	outputPtr := flag.String("output", "", "Путь к видео или s3://bucket/key (если пусто, генерируется в output/)")
	titlePtr := flag.String("title", "", "Заголовок показа")
	subtitlePtr := flag.String("subtitle", "", "Подзаголовок показа")
	pagesPtr := flag.String("pages", "", "Страницы в колоде через запятую, например 1,2,5")
	highlightsPtr := flag.String("highlights", "", "Страницы-акценты через запятую, например 3,5,7")
	widthPtr := flag.Int("width", defaults.Width, "Ширина")
	heightPtr := flag.Int("height", defaults.Height, "Высота")
	fpsPtr := flag.Int("fps", defaults.FPS, "FPS")
	workersPtr := flag.Int("workers", 0, "Потоки рендеринга (0 - по числу ядер и памяти)")
	dpiPtr := flag.Int("dpi", defaults.DPI, "Максимальный DPI растеризации страниц")
	audioPtr := flag.String("audio", "", "Путь к аудио (по умолчанию: самый свежий файл в input/audio/)")
	mutePtr := flag.Bool("mute", false, "Без фоновой музыки")
	presetPtr := flag.String("preset", "", "Пресет формата: 16:9, 1080p, 720p, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	encoderPtr := flag.String("encoder", "", "Энкодер H.264 (по умолчанию: лучший доступный)")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	focusWidthPtr := flag.Float64("focus-width", defaults.FocusWidth, "Ширина страницы в фокусе, px")
	aspectPtr := flag.Float64("aspect", 0, "Соотношение сторон страницы (ширина/высота, 0 - по первой странице)")
	layersPtr := flag.Int("layers", defaults.MaxLayers, "Максимум страниц в стопке")
	policyPtr := flag.String("page-policy", string(defaults.PagePolicy), "Приоритет набора страниц: explicit-first или script-first")
	qrPtr := flag.Bool("qr", false, "QR-код ссылки на документ в финальной сцене (для http(s) источников)")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности и дописать его в benchmark.log")
	planPtr := flag.Bool("plan", false, "Только показать план сцен, без рендеринга")
	exportPtr := flag.String("export-script", "", "Сохранить сценарий (сцены) в YAML и выйти")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := loadShowcase(*inputPtr, inputDir)
	if err != nil {
		log.Fatalf("[-] Ошибка файла показа: %v", err)
	}
	if *srcPtr != "" {
		sc.Src = *srcPtr
	}
	if *titlePtr != "" {
		sc.Title = *titlePtr
	}
	if *subtitlePtr != "" {
		sc.Subtitle = *subtitlePtr
	}
	if pages, err := parsePages(*pagesPtr); err != nil {
		log.Fatalf("[-] -pages: %v", err)
	} else if pages != nil {
		sc.Pages = pages
	}
	if highlights, err := parsePages(*highlightsPtr); err != nil {
		log.Fatalf("[-] -highlights: %v", err)
	} else if highlights != nil {
		sc.Highlights = highlights
	}
	if sc.Src == "" {
		latest, err := system.FindLatestPDF(filepath.Join(inputDir, "pdf"))
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите PDF в %s/pdf/", err, inputDir)
		}
		sc.Src = latest
		fmt.Printf("[*] Выбран файл: %s\n", sc.Src)
	}

	if err := sc.Validate(); err != nil {
		log.Fatalf("[-] Неверные параметры показа: %v", err)
	}

	if *exportPtr != "" {
		if err := exportScript(sc, *exportPtr); err != nil {
			log.Fatalf("[-] Ошибка записи сценария: %v", err)
		}
		fmt.Printf("[+++] Успех! Сценарий сохранен: %s\n", *exportPtr)
		return
	}

	width, height := *widthPtr, *heightPtr
	if *presetPtr != "" {
		w, h, ok := config.PresetSize(*presetPtr)
		if !ok {
			log.Fatalf("[-] Неизвестный пресет: %s", *presetPtr)
		}
		width, height = w, h
	}

	policy, err := timeline.ParsePagePolicy(*policyPtr)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}

	workers := *workersPtr
	if workers <= 0 {
		workers = system.RecommendedWorkers(width, height)
	}

	cfg := &config.Config{
		InputPath:    sc.Src,
		OutputVideo:  *outputPtr,
		Width:        width,
		Height:       height,
		FPS:          *fpsPtr,
		Workers:      workers,
		DPI:          *dpiPtr,
		Preset:       *presetPtr,
		ShowStats:    *statsPtr,
		BuildVersion: BuildVersion,
		FocusWidth:   *focusWidthPtr,
		AspectRatio:  *aspectPtr,
		MaxLayers:    *layersPtr,
		PagePolicy:   policy,
		QR:           *qrPtr,
	}
	if cfg.OutputVideo == "" {
		cfg.OutputVideo = defaultOutput(outputDir, sc.Src)
	}

	var store *storage.S3
	if storage.IsURI(sc.Src) || storage.IsURI(cfg.OutputVideo) {
		store, err = storage.NewS3(ctx, storage.S3Config{
			Region:       os.Getenv("PDFSHOWCASE_S3_REGION"),
			Profile:      os.Getenv("PDFSHOWCASE_S3_PROFILE"),
			Endpoint:     os.Getenv("PDFSHOWCASE_S3_ENDPOINT"),
			UsePathStyle: envBool("PDFSHOWCASE_S3_PATH_STYLE"),
		})
		if err != nil {
			log.Fatalf("[-] Ошибка настройки S3: %v", err)
		}
	}

	opener := &source.Opener{}
	var publisher engine.Store
	if store != nil {
		opener.Store = store
		publisher = store
	}
	sources := source.NewCache(opener.Open)
	defer sources.Close()

	project := engine.NewVideoProject(cfg, sc, sources, &video.FFmpegEncoder{}, publisher)

	if *planPtr {
		prep, err := project.Prepare(ctx)
		if err != nil {
			log.Fatalf("[-] Ошибка проекта: %v", err)
		}
		fmt.Printf("[*] Страницы: %v\n", prep.Pages)
		printPlan(os.Stdout, prep.Timeline, prep.Composer, cfg.FPS)
		return
	}

	cfg.VideoEncoder = *encoderPtr
	if cfg.VideoEncoder == "" {
		cfg.VideoEncoder = system.GetBestH264Encoder(ctx)
		if cfg.VideoEncoder != "libx264" {
			fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", cfg.VideoEncoder)
		}
	}
	cfg.Quality = *qualityPtr
	if cfg.Quality == 0 {
		cfg.Quality = config.DefaultQuality(cfg.VideoEncoder)
	}

	if !*mutePtr {
		cfg.AudioPath = *audioPtr
		if cfg.AudioPath == "" {
			if latest, err := system.FindLatestAudio(filepath.Join(inputDir, "audio")); err == nil {
				cfg.AudioPath = latest
				fmt.Printf("[*] Выбрано аудио: %s\n", cfg.AudioPath)
			}
		}
	}
	if cfg.AudioPath != "" {
		videoDur := float64(sc.EstimateFrames()) / float64(cfg.FPS)
		if audioDur, err := system.GetAudioDuration(ctx, cfg.AudioPath); err != nil {
			log.Printf("[!] Не удалось получить длительность аудио: %v", err)
		} else if audioDur < videoDur {
			fmt.Printf("[*] Аудио (%.1fs) короче видео (%.1fs), будет зациклено\n", audioDur, videoDur)
		}
	}

	if err := project.Run(ctx); err != nil {
		var ve *config.ValidationError
		if errors.As(err, &ve) {
			log.Fatalf("[-] Неверные параметры: %v", err)
		}
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", cfg.OutputVideo)
}

func loadShowcase(path, inputDir string) (*config.Showcase, error) {
	if path == "" {
		latest, err := system.FindLatestShowcase(filepath.Join(inputDir, "showcase"))
		if err != nil {
			return &config.Showcase{}, nil
		}
		fmt.Printf("[*] Выбран файл показа: %s\n", latest)
		path = latest
	}
	return config.LoadShowcase(path)
}

// defaultOutput names the video after the document and the current time.
func defaultOutput(dir, src string) string {
	base := filepath.Base(strings.TrimRight(src, "/"))
	nameOnly := strings.TrimSuffix(base, filepath.Ext(base))
	cleanName := strings.ReplaceAll(nameOnly, " ", "_")
	if cleanName == "" || cleanName == "." {
		cleanName = "showcase"
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.mp4", cleanName, timestamp))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}
