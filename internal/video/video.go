// Package video streams rendered frames into ffmpeg.
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// ErrAborted is returned by Close after Abort.
var ErrAborted = errors.New("encoding aborted")

// Settings describe one output file.
type Settings struct {
	Output        string
	Width, Height int
	FPS           int
	// Frames is the exact number of frames that will be written.
	Frames  int
	Encoder string
	Quality int
	// AudioPath is looped under the video when set; AudioFilter is applied
	// to it (the volume envelope).
	AudioPath   string
	AudioFilter string
}

// Duration is the length of the output in seconds.
func (s Settings) Duration() float64 {
	if s.FPS <= 0 {
		return 0
	}
	return float64(s.Frames) / float64(s.FPS)
}

// Encoder consumes frames in order.
type Encoder interface {
	WriteFrame(img *image.RGBA) error
	// Close finishes the file.
	Close() error
	// Abort stops encoding; the output is left incomplete.
	Abort() error
}

// Opener starts encoders.
type Opener interface {
	Open(ctx context.Context, s Settings) (Encoder, error)
}

// FFmpegEncoder runs the ffmpeg binary, feeding it raw RGBA on stdin.
type FFmpegEncoder struct {
	// Binary defaults to "ffmpeg" from PATH.
	Binary string
}

func (e *FFmpegEncoder) Open(ctx context.Context, s Settings) (Encoder, error) {
	if s.Width <= 0 || s.Height <= 0 || s.FPS <= 0 {
		return nil, fmt.Errorf("invalid video settings %dx%d@%d", s.Width, s.Height, s.FPS)
	}
	bin := e.Binary
	if bin == "" {
		bin = "ffmpeg"
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, bin, buildArgs(s)...)
	st := &stream{cmd: cmd, cancel: cancel, width: s.Width, height: s.Height}
	cmd.Stderr = &st.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	st.stdin = stdin

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	return st, nil
}

func buildArgs(s Settings) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", s.Width, s.Height),
		"-framerate", fmt.Sprintf("%d", s.FPS),
		"-i", "-",
	}

	if s.AudioPath != "" {
		args = append(args, "-stream_loop", "-1", "-i", s.AudioPath)
		args = append(args, "-map", "0:v", "-map", "1:a")
		if s.AudioFilter != "" {
			args = append(args, "-af", s.AudioFilter)
		}
		args = append(args, "-c:a", "aac", "-b:a", "192k", "-shortest")
	}

	args = append(args,
		"-t", fmt.Sprintf("%f", s.Duration()),
		"-r", fmt.Sprintf("%d", s.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", s.Encoder,
	)

	// Качество в зависимости от энкодера
	switch s.Encoder {
	case "h264_videotoolbox":
		bitrate := s.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", s.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", s.Quality), "-preset", "medium")
	}

	args = append(args, "-movflags", "+faststart", s.Output)
	return args
}

type stream struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	stdin  io.WriteCloser
	stderr bytes.Buffer

	width, height int
	once          sync.Once
	err           error
}

func (s *stream) WriteFrame(img *image.RGBA) error {
	if b := img.Bounds(); b.Dx() != s.width || b.Dy() != s.height {
		return fmt.Errorf("frame %dx%d, encoder expects %dx%d", b.Dx(), b.Dy(), s.width, s.height)
	}
	if err := writeRawRGBA(s.stdin, img); err != nil {
		return fmt.Errorf("write raw error: %w", err)
	}
	return nil
}

func (s *stream) Close() error {
	s.once.Do(func() {
		defer s.cancel()
		closeErr := s.stdin.Close()
		if err := s.cmd.Wait(); err != nil {
			s.err = fmt.Errorf("ffmpeg wait error: %w, output: %s", err, tail(s.stderr.String(), 2000))
			return
		}
		s.err = closeErr
	})
	return s.err
}

func (s *stream) Abort() error {
	s.once.Do(func() {
		s.cancel()
		s.stdin.Close()
		// ffmpeg is killed; its exit status carries nothing useful.
		_ = s.cmd.Wait()
		s.err = ErrAborted
	})
	return nil
}

// writeRawRGBA writes tightly packed rows, copying only when the image is
// a sub-image with a wider stride.
func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	if img.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		packed := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(packed, packed.Bounds(), img, bounds.Min, draw.Src)
		img = packed
	}
	_, err := w.Write(img.Pix)
	return err
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
