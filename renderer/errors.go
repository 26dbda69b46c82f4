package renderer

import "errors"

var (
	ErrNoTracers        = errors.New("renderer: no tracers attached")
	ErrSceneNotDefined  = errors.New("renderer: no scene defined")
	ErrCameraNotDefined = errors.New("renderer: no camera defined")
	ErrRenderInProgress = errors.New("renderer: render already in progress")
)
