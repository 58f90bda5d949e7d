package render

import "errors"

// ErrEmptyFrame is returned when saving before anything was rendered.
var ErrEmptyFrame = errors.New("render: no frame rendered")
