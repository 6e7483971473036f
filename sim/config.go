package sim

import (
	"math"
)

const (
	// DefaultHorizonHours bounds a run when attendees are still queued.
	DefaultHorizonHours = 8.0
	// MillisPerTick is the simulated span of one tick (one minute).
	MillisPerTick = 60_000
)

// Config groups the parameters of a single simulation run.
type Config struct {
	NumAttendees   int     // attendees in the arrival schedule (must be > 0)
	NumKiosks      int     // identical servers, one queue each (must be > 0)
	SecondsAtKiosk float64 // service duration shared by all kiosks (must be > 0)
	HorizonHours   float64 // 0 = DefaultHorizonHours
}

// Validate rejects non-positive or non-finite values.
func (c Config) Validate() error {
	if c.NumKiosks <= 0 {
		return invalid("kiosks", "must be greater than 0, got %d", c.NumKiosks)
	}
	if c.NumAttendees <= 0 {
		return invalid("attendees", "must be greater than 0, got %d", c.NumAttendees)
	}
	if math.IsNaN(c.SecondsAtKiosk) || math.IsInf(c.SecondsAtKiosk, 0) || c.SecondsAtKiosk <= 0 {
		return invalid("seconds-at-kiosk", "must be a positive number, got %v", c.SecondsAtKiosk)
	}
	if math.IsNaN(c.HorizonHours) || math.IsInf(c.HorizonHours, 0) || c.HorizonHours < 0 {
		return invalid("horizon-hours", "must be a non-negative number, got %v", c.HorizonHours)
	}
	return nil
}

// Hours returns the configured horizon, applying the default.
func (c Config) Hours() float64 {
	if c.HorizonHours == 0 {
		return DefaultHorizonHours
	}
	return c.HorizonHours
}

// HorizonTicks is the number of simulated minutes after which a run stops
// regardless of remaining attendees.
func (c Config) HorizonTicks() int64 {
	return int64(math.Ceil(c.Hours() * 60))
}

// HorizonMs converts a horizon in hours to milliseconds.
func HorizonMs(hours float64) float64 {
	return hours * 60 * MillisPerTick
}
