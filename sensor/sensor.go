/*
DESCRIPTION
  sensor.go provides the sensor gain-code<->gain conversion helper and the
  recognized sensor control ids, modeled after the gain/quality tables a
  camera device driver exposes for its control ranges.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package sensor provides the gain-code<->gain conversion helper and the
// recognized sensor control ids.
package sensor

// ControlID identifies a sensor-facing control.
type ControlID int

// Recognized sensor control ids; the IPA never writes any other id.
const (
	Exposure ControlID = iota
	AnalogueGain
	VBlank
)

func (c ControlID) String() string {
	switch c {
	case Exposure:
		return "EXPOSURE"
	case AnalogueGain:
		return "ANALOGUE_GAIN"
	case VBlank:
		return "VBLANK"
	default:
		return "UNKNOWN"
	}
}

// Range describes a sensor control's reported [min, max] bounds, as
// delivered by the hardware control ranges at configure time.
type Range struct {
	Min, Max int32
}

// Helper converts between linear analogue gain and the sensor's native gain
// code. Most sensors use a simple linear gain-code scheme of the form
// code = (gain - 1) * stepsPerUnit, clamped to the reported control range;
// Helper models that common case.
type Helper struct {
	StepsPerUnit float64
	CodeRange    Range
}

// NewHelper returns a Helper for a sensor reporting stepsPerUnit gain-code
// increments per unit of linear gain, clamped to codeRange.
func NewHelper(stepsPerUnit float64, codeRange Range) Helper {
	return Helper{StepsPerUnit: stepsPerUnit, CodeRange: codeRange}
}

// GainCode converts a linear gain (>= 1.0) to the sensor's gain code.
func (h Helper) GainCode(gain float64) int32 {
	code := int32((gain - 1) * h.StepsPerUnit)
	if code < h.CodeRange.Min {
		code = h.CodeRange.Min
	}
	if code > h.CodeRange.Max {
		code = h.CodeRange.Max
	}
	return code
}

// Gain converts a sensor gain code back to linear gain.
func (h Helper) Gain(code int32) float64 {
	if h.StepsPerUnit == 0 {
		return 1
	}
	return 1 + float64(code)/h.StepsPerUnit
}
