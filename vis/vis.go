// Package vis receives snapshots of the global embedding as the engine
// progresses. Rendering is left to the Sink implementation; the package
// ships a no-op sink, a structured-logging sink and an in-memory recorder.
package vis

import (
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/tear"
)

// Frame is one snapshot of the global embedding.
type Frame struct {
	// Y is the N×d' embedding.
	Y *mat.Dense
	// Colors is the interior colour of every point.
	Colors []float64
	// CmapInterior names the colour map for Colors.
	CmapInterior string
	// Tear holds the boundary colours; nil when not coloured.
	Tear *tear.Coloring
	// CmapBoundary names the colour map for Tear.
	CmapBoundary string
	// Title describes the phase, e.g. "Iter_3".
	Title string
}

// Sink consumes frames. Errors abort the run.
type Sink interface {
	GlobalEmbedding(f Frame) error
}

// Noop discards every frame.
type Noop struct{}

// GlobalEmbedding does nothing.
func (Noop) GlobalEmbedding(Frame) error { return nil }

// LogSink logs the extent and tear statistics of every frame.
type LogSink struct {
	Logger *log.Logger
}

// GlobalEmbedding logs one line per frame at debug level.
func (s LogSink) GlobalEmbedding(f Frame) error {
	l := s.Logger
	if l == nil {
		l = log.Default()
	}
	kv := []interface{}{"title", f.Title}
	if f.Y != nil {
		r, c := f.Y.Dims()
		kv = append(kv, "points", r)
		col := make([]float64, r)
		for j := 0; j < c && r > 0; j++ {
			mat.Col(col, j, f.Y)
			kv = append(kv, axis(j)+"_min", floats.Min(col), axis(j)+"_max", floats.Max(col))
		}
	}
	if f.Tear != nil {
		kv = append(kv, "tear_points", f.Tear.Count())
	}
	l.Debug("global embedding", kv...)
	return nil
}

func axis(j int) string {
	if j < 3 {
		return string("xyz"[j])
	}
	return "d" + strconv.Itoa(j)
}

// Recorder keeps a copy of every frame. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
}

// GlobalEmbedding stores a deep copy of Y and the frame metadata.
func (r *Recorder) GlobalEmbedding(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.Y != nil {
		f.Y = mat.DenseCopyOf(f.Y)
	}
	f.Colors = append([]float64(nil), f.Colors...)
	r.frames = append(r.frames, f)
	return nil
}

// Titles returns the titles of the recorded frames in order.
func (r *Recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.frames))
	for i, f := range r.frames {
		out[i] = f.Title
	}
	return out
}

// Frames returns the recorded frames.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}
