package menu

import "errors"

// Sentinel errors.
var (
	ErrNilSource   = errors.New("menu: catalog source is nil")
	ErrNilRenderer = errors.New("menu: renderer is nil")
	ErrNoCatalog   = errors.New("menu: no catalog path configured")
	ErrRender      = errors.New("menu: render failed")
)
