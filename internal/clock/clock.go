package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies the current time. Product status is derived from it at
// request time, so tests can pin the boundary instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// NewSystem returns the wall clock.
func NewSystem() Clock { return systemClock{} }

var Module = fx.Module("clock",
	fx.Provide(NewSystem),
)
