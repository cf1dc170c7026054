// Package timestep implements an adaptive fixed-timestep controller: it
// measures wall time spent in a physics step and raises or lowers the
// physics frequency within [10, configured] Hz to keep steps affordable
// without starving the frame loop. It is host-owned but conceptually part
// of the core.
package timestep

import "time"

const (
	minHz = 10.0

	// accumulatorCap bounds the host's frame-time accumulator to prevent
	// the spiral-of-death failure mode where a slow frame causes ever more
	// catch-up steps.
	accumulatorCap = 0.25
)

// Controller tracks the currently active physics frequency and adjusts it
// based on measured step duration, when scaling is enabled.
type Controller struct {
	configuredHz float64
	actualHz     float64
	scaling      bool
}

// New returns a Controller starting at configuredHz. If scaling is false,
// ReportStepDuration never changes the frequency.
func New(configuredHz float64, scaling bool) *Controller {
	if configuredHz < minHz {
		configuredHz = minHz
	}
	return &Controller{
		configuredHz: configuredHz,
		actualHz:     configuredHz,
		scaling:      scaling,
	}
}

// Hz is the currently active physics frequency.
func (c *Controller) Hz() float64 {
	return c.actualHz
}

// FixedStep is 1/Hz(), the duration of one physics step at the current
// frequency.
func (c *Controller) FixedStep() float64 {
	return 1.0 / c.actualHz
}

// ReportStepDuration feeds the measured wall-clock duration of the most
// recent Step call back into the controller: if the step took longer than
// the fixed step and Hz is above the floor, drop by 1 Hz; if it took less
// than half the fixed step and Hz is below the configured ceiling, raise
// by 1 Hz.
func (c *Controller) ReportStepDuration(stepTime time.Duration) {
	if !c.scaling {
		return
	}

	fixedStep := c.FixedStep()
	stepSeconds := stepTime.Seconds()

	if stepSeconds > fixedStep && c.actualHz > minHz {
		c.actualHz -= 1
	} else if stepSeconds < 0.5*fixedStep && c.actualHz < c.configuredHz {
		c.actualHz += 1
	}
}

// CapFrameTime clamps a measured real frame duration to accumulatorCap
// seconds, guarding against the spiral-of-death failure mode where a slow
// frame triggers ever more catch-up steps.
func CapFrameTime(frameTime time.Duration) time.Duration {
	capped := time.Duration(accumulatorCap * float64(time.Second))
	if frameTime > capped {
		return capped
	}
	return frameTime
}
