package godqg

import "errors"

// Errors
var (
	ErrBadVtxIndex     = errors.New("vertex index out of range")
	ErrBadColouring    = errors.New("bad vertex colouring")
	ErrBadGraphFile    = errors.New("unrecognized graph file format")
	ErrGraphSizeNeeded = errors.New("graph size required but not given")
	ErrNoGenerators    = errors.New("empty generator set")
	ErrBadPerm         = errors.New("bad permutation")
	ErrLitsExhausted   = errors.New("formula exceeds solver literal range")
	ErrSolverOutput    = errors.New("unrecognized solver output")
	ErrBadCatalogParam = errors.New("bad catalog param")
	ErrCatalogVersion  = errors.New("catalog version is incompatible")
)
