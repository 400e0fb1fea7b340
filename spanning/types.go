package spanning

import (
	"errors"

	"github.com/katalvlaran/lvstitch/core"
)

// ErrInvalidGraph indicates a nil graph.
var ErrInvalidGraph = errors.New("spanning: graph is nil")

// ErrUnknownMethod indicates an unsupported Method value.
var ErrUnknownMethod = errors.New("spanning: unknown method")

// ErrSplitTarget indicates an unreachable tree count for Split.
var ErrSplitTarget = errors.New("spanning: split target out of range")

// MethodPrim selects Prim's algorithm (grow each tree from a root using a min-heap).
const MethodPrim = "prim"

// MethodKruskal selects Kruskal's algorithm (sort all edges and union-find).
const MethodKruskal = "kruskal"

// Options configures forest computation.
type Options struct {
	// Method to use: MethodPrim or MethodKruskal.
	Method string

	// Maximum selects a maximum spanning forest (edges ranked by −weight).
	Maximum bool
}

// Option configures Options.
type Option func(*Options)

// WithMethod sets the algorithm Method.
func WithMethod(m string) Option {
	return func(o *Options) { o.Method = m }
}

// WithMaximum requests a maximum spanning forest.
func WithMaximum() Option {
	return func(o *Options) { o.Maximum = true }
}

// DefaultOptions returns a minimum spanning forest via Kruskal.
func DefaultOptions() Options {
	return Options{Method: MethodKruskal}
}

// Forest runs the configured algorithm and returns the spanning forest as a
// graph over the same vertices, plus its total weight.
func Forest(g *core.Graph, opts ...Option) (*core.Graph, float64, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	switch o.Method {
	case MethodKruskal:
		return Kruskal(g, o.Maximum)
	case MethodPrim:
		return Prim(g, o.Maximum)
	default:
		return nil, 0, ErrUnknownMethod
	}
}

// MaximumForest is Forest(g, WithMaximum()) with the given method.
func MaximumForest(g *core.Graph, method string) (*core.Graph, float64, error) {
	return Forest(g, WithMethod(method), WithMaximum())
}

// rank returns the ordering key of a weight under the maximum flag.
func rank(w float64, maximum bool) float64 {
	if maximum {
		return -w
	}

	return w
}
