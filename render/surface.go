package render

import (
	"io"
	"sync"

	"github.com/TFMV/insights/errors"
)

// Surface is the drawing layer. The engine only hands it complete frames;
// how they are drawn is up to the host.
type Surface interface {
	Apply(frame *Frame) error
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(frame *Frame) error

// Apply calls f.
func (f SurfaceFunc) Apply(frame *Frame) error {
	return f(frame)
}

// Recorder is a headless surface that keeps every frame it receives.
type Recorder struct {
	mu     sync.Mutex
	frames []*Frame
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Apply records frame.
func (r *Recorder) Apply(frame *Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
	return nil
}

// Last returns the most recent frame or nil.
func (r *Recorder) Last() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

// Count returns the number of frames applied.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Export encodes the last frame to w with options.
func (r *Recorder) Export(w io.Writer, options *OutputOptions) (int64, error) {
	data, err := Encode(r.Last(), options)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), errors.Wrap(err, "write frame")
	}
	return int64(n), nil
}
