package physics

import "errors"

var (
	ErrDegenerateShape  = errors.New("degenerate shape")
	ErrNonConvexShape   = errors.New("shape is not convex")
	ErrUnknownBody      = errors.New("unknown body handle")
	ErrInvalidMaterial  = errors.New("invalid response material")
	ErrInvalidDimension = errors.New("invalid body dimensions")
)
