package dfsu

import (
	"errors"

	"github.com/hydroscale/meshts/dfs"
	"github.com/hydroscale/meshts/mesh"
)

// Errors raised by this package, plus the provider errors surfaced through
// it so callers can match everything with errors.Is against one package.
var (
	ErrItemNotFound        = errors.New("item name not found in container")
	ErrShapeMismatch       = errors.New("data shape disagrees with container")
	ErrUnsupportedGeometry = errors.New("unsupported geometry kind")

	ErrContainerOpen = dfs.ErrContainerOpen
	ErrCreateFailed  = dfs.ErrCreateFailed
	ErrInvalidCode   = mesh.ErrInvalidCode
)
