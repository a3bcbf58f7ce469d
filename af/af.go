/*
DESCRIPTION
  af.go implements the contrast-detection autofocus state machine: a coarse
  scan across the full VCM range, a fine scan around the coarse peak, and a
  locked state that resets on contrast drift.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package af implements the contrast-detection autofocus state machine.
package af

// State is one of the AF state machine's phases.
type State int

const (
	Idle State = iota
	CoarseScan
	FineScan
	Locked
	Reset
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case CoarseScan:
		return "CoarseScan"
	case FineScan:
		return "FineScan"
	case Locked:
		return "Locked"
	case Reset:
		return "Reset"
	default:
		return "Unknown"
	}
}

// Mode selects how the lens is driven.
type Mode int

const (
	Manual Mode = iota
	Auto
	Continuous
)

func (m Mode) String() string {
	switch m {
	case Manual:
		return "Manual"
	case Auto:
		return "Auto"
	case Continuous:
		return "Continuous"
	default:
		return "Unknown"
	}
}

// Default step sizes and the fine-scan window, in VCM units.
const (
	CoarseStep = 30
	FineStep   = 1

	// FineScanFraction is the +/- range around the coarse best that the fine
	// scan explores, expressed as a fraction of the VCM range.
	FineScanFraction = 0.05

	// MaxChange is the contrast-drift threshold past which a Locked state
	// resets.
	MaxChange = 0.5

	// peakThreshold is the fraction of the best contrast a new reading must
	// reach to still count as "still climbing".
	peakThreshold = 0.9
)

// Af holds the running state of one autofocus scan.
type Af struct {
	State State

	Focus       uint32
	BestFocus   uint32
	MaxContrast float64
	PrevContrast float64

	LowStep, HighStep, MaxStep uint32

	mode  Mode
	speed float64

	lockedContrast float64
}

// New returns an Af with the VCM range [low, high].
func New(low, high uint32) *Af {
	return &Af{
		State:     Idle,
		LowStep:   low,
		HighStep:  high,
		MaxStep:   high,
		Focus:     low,
		BestFocus: low,
		mode:      Auto,
	}
}

// SetMode sets the focus mode.
func (a *Af) SetMode(m Mode) { a.mode = m }

// GetMode returns the current focus mode.
func (a *Af) GetMode() Mode { return a.mode }

// SetWindows is a no-op placeholder for the focus-region selection the
// hardware contrast scorer uses; Af itself is agnostic to window geometry.
func (a *Af) SetWindows(x0, y0, x1, y1 int) {}

// SetRange updates the VCM scan range.
func (a *Af) SetRange(low, high uint32) {
	a.LowStep, a.HighStep = low, high
	a.MaxStep = high
}

// SetSpeed records a scan speed. Advance does not read it: the scan steps
// are always CoarseStep and FineStep.
func (a *Af) SetSpeed(s float64) { a.speed = s }

// Trigger starts a coarse scan from Idle (or restarts one from Locked).
func (a *Af) Trigger() {
	a.State = CoarseScan
	a.Focus = a.LowStep
	a.BestFocus = a.LowStep
	a.MaxContrast = 0
}

// Cancel returns to Idle without changing the current lens position.
func (a *Af) Cancel() { a.State = Idle }

// Advance steps the state machine forward given this frame's measured scene
// contrast, and returns the lens position to drive and the resulting state.
func (a *Af) Advance(contrast float64) (uint32, State) {
	switch a.State {
	case Idle:
		return a.Focus, a.State

	case CoarseScan:
		a.stepScan(contrast, CoarseStep)
		if a.Focus > a.HighStep {
			a.State = FineScan
			lo, hi := a.fineRange()
			a.LowStep, a.HighStep = lo, hi
			a.Focus = lo
			a.MaxContrast = 0
		}
		return a.Focus, a.State

	case FineScan:
		a.stepScan(contrast, FineStep)
		if a.Focus > a.HighStep {
			a.State = Locked
			a.Focus = a.BestFocus
			a.lockedContrast = a.MaxContrast
		}
		return a.Focus, a.State

	case Locked:
		if a.lockedContrast > 0 && absf(contrast-a.lockedContrast)/a.lockedContrast > MaxChange {
			a.State = Reset
		}
		return a.Focus, a.State

	case Reset:
		a.Focus = a.LowStep
		a.BestFocus = 0
		a.MaxContrast = 0
		a.State = Idle
		return a.Focus, a.State
	}
	return a.Focus, a.State
}

// stepScan advances one step of either the coarse or fine scan: the global
// best is only replaced by a strictly higher reading, and the scan keeps
// stepping while the current reading is still within peakThreshold of that
// best; otherwise it settles on the best position found.
func (a *Af) stepScan(contrast float64, step uint32) {
	a.PrevContrast = contrast
	if contrast > a.MaxContrast {
		a.MaxContrast = contrast
		a.BestFocus = a.Focus
	}
	if contrast >= a.MaxContrast*peakThreshold {
		a.Focus += step
		return
	}
	// Force termination of this scan phase by pushing Focus past HighStep;
	// the caller transitions on the next Advance call.
	a.Focus = a.HighStep + 1
}

func (a *Af) fineRange() (low, high uint32) {
	span := uint32(float64(a.MaxStep-a.LowStep) * FineScanFraction)
	if a.BestFocus > span {
		low = a.BestFocus - span
	}
	high = a.BestFocus + span
	if high > a.MaxStep {
		high = a.MaxStep
	}
	return low, high
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
