// Package scheduler provides the timer sources that drive transfer confirmation.
package scheduler

import (
	"time"

	domainService "blockpoints-bridge/internal/domain/service"
)

// Compile-time check
var _ domainService.Scheduler = Real{}

// Real schedules callbacks on the runtime timer wheel.
type Real struct{}

// Now returns the current UTC time.
func (Real) Now() time.Time {
	return time.Now().UTC()
}

// AfterFunc wraps time.AfterFunc; *time.Timer already satisfies Timer.
func (Real) AfterFunc(d time.Duration, f func()) domainService.Timer {
	return time.AfterFunc(d, f)
}
