/*
DESCRIPTION
  weights.go provides the per-zone metering weight presets (CentreWeighted,
  Spot, Matrix) that AGC uses to bias its luma estimate toward the centre of
  frame, a single spot, or an unweighted average.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package agc

// centreWeights15 is the 15-zone centre-to-outside weight preset named in
// the application-controls contract. It is applied radially over the 16x12
// analysis grid: each zone's weight is taken from the band its normalized
// squared distance from the grid centre falls into.
var centreWeights15 = [15]float64{3, 3, 3, 2, 2, 2, 2, 1, 1, 1, 1, 0, 0, 0, 0}

// CentreWeighted biases the luma estimate toward the centre of frame,
// matching the application-controls CentreWeighted metering mode.
func CentreWeighted(idx, w, h int) float64 {
	x, y := idx%w, idx/w
	cx, cy := float64(w-1)/2, float64(h-1)/2
	dx, dy := (float64(x)-cx)/cx, (float64(y)-cy)/cy
	dist := dx*dx + dy*dy // Normalized squared radial distance, 0 at centre.

	band := int(dist * float64(len(centreWeights15)-1))
	if band < 0 {
		band = 0
	}
	if band >= len(centreWeights15) {
		band = len(centreWeights15) - 1
	}
	return centreWeights15[band]
}

// Spot weights only the single centre-most zone.
func Spot(idx, w, h int) float64 {
	cx, cy := (w-1)/2, (h-1)/2
	x, y := idx%w, idx/w
	if x == cx && y == cy {
		return 1
	}
	return 0
}

// Matrix weights every zone equally.
func Matrix(idx, w, h int) float64 { return 1 }
