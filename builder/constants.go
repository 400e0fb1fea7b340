package builder

// Shapes understood by Generate.
const (
	// ShapeStrip is a flat width×height rectangle in the z=0 plane.
	ShapeStrip = "strip"
	// ShapeRing is an open cylinder of the given radius and height.
	ShapeRing = "ring"
)

// Method names used to prefix errors.
const (
	MethodGenerate = "Generate"
	MethodSample   = "Sample"
)

// IntrinsicDim is the manifold dimension of every shape.
const IntrinsicDim = 2

// Minimum sizes.
const (
	// MinPoints is the smallest dataset Generate accepts.
	MinPoints = 8
	// MinViews is the smallest number of views.
	MinViews = 1
	// MinNeighbors is the smallest view domain (IntrinsicDim+1 points).
	MinNeighbors = IntrinsicDim + 1
)

// Defaults for the CLI and DefaultConfig.
const (
	DefaultPoints    = 400
	DefaultViews     = 24
	DefaultNeighbors = 40
	defaultWidth     = 4.0
	defaultHeight    = 1.0
	defaultRadius    = 1.0
	defaultShift     = 5.0
)
