package form3

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrUnknownPrimitive is returned when a registry name is not registered.
	ErrUnknownPrimitive = errors.New("unknown primitive")
	// ErrDuplicatePrimitive is returned when a name or short name is registered twice.
	ErrDuplicatePrimitive = errors.New("primitive already registered")
	// ErrDegenerateSkeleton is returned when a skeleton has zero length edges.
	ErrDegenerateSkeleton = errors.New("skeleton has zero length edges")
)

// ShapeError is returned when a shape constructor rejects its parameters.
type ShapeError struct {
	panicObj interface{}
	stack    string
}

func (s *ShapeError) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

// Stack returns the stack trace captured when the constructor failed.
func (s *ShapeError) Stack() string { return s.stack }

// recoverShape turns a constructor panic into a *ShapeError stored in err.
// It must be deferred directly.
func recoverShape(err *error) {
	if a := recover(); a != nil {
		*err = &ShapeError{
			panicObj: a,
			stack:    string(debug.Stack()),
		}
	}
}
