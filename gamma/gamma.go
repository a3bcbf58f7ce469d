/*
DESCRIPTION
  gamma.go builds the 256-entry gamma lookup table the parameter assembler
  writes to the hardware's contrast/gamma block.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package gamma builds the hardware gamma lookup table from a target gamma
// value.
package gamma

import "math"

// DefaultTarget is the constant gamma the Orchestrator uses while the
// Contrast control is unset (0).
const DefaultTarget = 1.1

// MinDynamic and MaxDynamic bound the dynamic gamma target the Orchestrator
// maps the Contrast control onto. AGC does not set a gamma target.
const (
	MinDynamic = 1.0
	MaxDynamic = 1.4
)

// lutScale is the fixed-point scale of the hardware's gamma LUT entries.
const lutScale = 8191

// LUTSize is the number of entries in the gamma lookup table.
const LUTSize = 256

// BuildLUT writes a LUTSize-entry LUT mapping i in [0, LUTSize) to
// round((i/(LUTSize-1))^(1/gammaTarget) * lutScale).
func BuildLUT(gammaTarget float64) [LUTSize]uint16 {
	var lut [LUTSize]uint16
	for i := 0; i < LUTSize; i++ {
		norm := float64(i) / (LUTSize - 1)
		v := math.Pow(norm, 1/gammaTarget) * lutScale
		lut[i] = uint16(math.Round(v))
	}
	return lut
}
