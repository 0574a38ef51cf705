package raster

import "errors"

// Programming errors returned by the pipeline. Degenerate geometry is never
// reported through these; it is counted in Stats and skipped.
var (
	ErrInvalidDecl     = errors.New("raster: invalid varying declaration")
	ErrVertexIndex     = errors.New("raster: primitive vertex index out of range")
	ErrNonPositiveW    = errors.New("raster: clip w must be positive")
	ErrIndexOutOfRange = errors.New("raster: index references missing vertex")
	ErrIndexCount      = errors.New("raster: index count does not match topology")
	ErrNoTarget        = errors.New("raster: no render target")
	ErrNoShader        = errors.New("raster: no shader")
	ErrUnknownTopology = errors.New("raster: unknown topology")
)
