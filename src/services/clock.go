package services

import "time"

// Clock supplies message timestamps; tests substitute a fixed or
// stepping implementation to control display order.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

var SystemClock Clock = systemClock{}
