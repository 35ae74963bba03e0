package texture

import (
	"context"
	"image"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/ghostmaze/internal/engine/gfx"
	"github.com/Faultbox/ghostmaze/internal/logger"
)

// DefaultMaxSize bounds the side of uploaded textures.
const DefaultMaxSize = 4096

// placeholder is shown until the real image arrives, and for good if it
// never does.
var placeholder = []byte{0, 0, 255, 255}

// Uploader creates and fills GPU textures. gfx.Context satisfies it.
type Uploader interface {
	CreateTexture() gfx.Texture
	UploadTexture(t gfx.Texture, width, height int, rgba []byte, s gfx.Sampling)
}

// Handle refers to a texture that may still be loading. Its methods must
// only be called from the render thread.
type Handle struct {
	Path string

	tex    gfx.Texture
	loaded bool
	err    error
}

// Texture returns the GPU texture. It is valid immediately and shows the
// placeholder until the image has been uploaded.
func (h *Handle) Texture() gfx.Texture {
	return h.tex
}

// Loaded reports whether the real image has been uploaded.
func (h *Handle) Loaded() bool {
	return h.loaded
}

// Err returns the load error, if loading failed.
func (h *Handle) Err() error {
	return h.err
}

type result struct {
	h   *Handle
	img *image.RGBA
	err error
}

// Loader decodes images on background goroutines. GPU uploads only happen
// in Poll and Wait, which must run on the render thread.
type Loader struct {
	up      Uploader
	read    func(path string) ([]byte, error)
	maxSize int
	handles map[string]*Handle
	results chan result
	pending int

	done      chan struct{}
	closeOnce sync.Once
	workers   sync.WaitGroup
}

// NewLoader creates a loader that uploads through up.
func NewLoader(up Uploader) *Loader {
	return &Loader{
		up:      up,
		read:    os.ReadFile,
		maxSize: DefaultMaxSize,
		handles: make(map[string]*Handle),
		results: make(chan result, 8),
		done:    make(chan struct{}),
	}
}

// SetMaxSize changes the largest texture side; larger images are scaled.
func (l *Loader) SetMaxSize(n int) {
	l.maxSize = n
}

// SetReader changes how image files are read. read is called from
// background goroutines.
func (l *Loader) SetReader(read func(path string) ([]byte, error)) {
	l.read = read
}

// Load returns a handle for path and starts decoding it. Repeated loads of
// the same path share one handle.
func (l *Loader) Load(path string) *Handle {
	if h, ok := l.handles[path]; ok {
		return h
	}

	h := &Handle{Path: path, tex: l.up.CreateTexture()}
	l.up.UploadTexture(h.tex, 1, 1, placeholder, gfx.SamplingFor(1, 1))
	l.handles[path] = h
	l.pending++

	read, maxSize := l.read, l.maxSize
	l.workers.Add(1)
	go func() {
		defer l.workers.Done()
		var img *image.RGBA
		data, err := read(path)
		if err == nil {
			img, err = Decode(path, data, maxSize)
		}
		select {
		case l.results <- result{h: h, img: img, err: err}:
		case <-l.done:
		}
	}()
	return h
}

// Close abandons loads that have not been applied and waits for their
// decoders to exit. Handles keep whatever texture they show.
func (l *Loader) Close() {
	l.closeOnce.Do(func() { close(l.done) })
	l.workers.Wait()
}

// Pending returns the number of loads not yet applied by Poll or Wait.
func (l *Loader) Pending() int {
	return l.pending
}

// Poll uploads every image that has finished decoding without blocking and
// returns how many loads completed.
func (l *Loader) Poll() int {
	done := 0
	for l.pending > 0 {
		select {
		case r := <-l.results:
			l.apply(r)
			done++
		default:
			return done
		}
	}
	return done
}

// Wait blocks until every pending load has been applied or ctx is done.
func (l *Loader) Wait(ctx context.Context) error {
	for l.pending > 0 {
		select {
		case r := <-l.results:
			l.apply(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (l *Loader) apply(r result) {
	l.pending--
	if r.err != nil {
		r.h.err = r.err
		logger.Warn("texture load failed, keeping placeholder",
			zap.String("path", r.h.Path),
			zap.Error(r.err),
		)
		return
	}

	w, h := r.img.Rect.Dx(), r.img.Rect.Dy()
	s := gfx.SamplingFor(w, h)
	l.up.UploadTexture(r.h.tex, w, h, r.img.Pix, s)
	r.h.loaded = true
	logger.Debug("texture loaded",
		zap.String("path", r.h.Path),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Bool("mipmap", s.Mipmap),
	)
}
