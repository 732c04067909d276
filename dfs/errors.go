// Package dfs implements the flexible-mesh time-series container: a binary
// file holding a fixed mesh and one or more named items sampled per element
// per time step. Reads are random access, writes are strictly sequential in
// nested (time step, item) order.
package dfs

import "errors"

// Common errors
var (
	ErrContainerOpen = errors.New("cannot open container file")
	ErrCreateFailed  = errors.New("cannot create container file")
	ErrCorruptFile   = errors.New("corrupt container file")
	ErrWriteOrder    = errors.New("out-of-order item time step write")
	ErrReadOnly      = errors.New("container opened read-only")
	ErrClosed        = errors.New("container is closed")
)
