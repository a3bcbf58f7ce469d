/*
DESCRIPTION
  awb.go implements the grey-world auto-white-balance algorithm: trimmed-mean
  R/B gain estimation over the valid zones of a frame, plus a correlated
  colour temperature estimate.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package awb implements the grey-world auto-white-balance algorithm.
package awb

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/ipa/zone"
)

// minValidZones is the lowest number of valid zones AWB will trust; below
// this, the previous result is reused unchanged.
const minValidZones = 10

// trimFraction is the fraction discarded from each end of the sorted zone
// lists before averaging (a symmetric 25% trim keeps the middle 50%).
const trimFraction = 0.25

// gainMin and gainMax bound the R/B gains after clamping.
const (
	gainMin = 0.125
	gainMax = 8.0
)

// ccm is the matrix used to map mean (R, G, B) to CIE XYZ for the CCT
// estimate.
var ccm = [3][3]float64{
	{-0.14282, 1.54924, -0.95641},
	{-0.32466, 1.57837, -0.73191},
	{-0.68202, 0.77073, 0.56332},
}

// Result is the output of one AWB pass.
type Result struct {
	TemperatureK float64
	RedGain      float64
	GreenGain    float64
	BlueGain     float64
}

// Process runs the grey-world algorithm over zones, returning a new Result.
// If fewer than minValidZones zones are valid, prev is returned unchanged
// and a warning is logged (the AlgorithmDegenerate case).
func Process(log logging.Logger, prev Result, zones []zone.Zone) Result {
	valid := zone.ValidZones(zones)
	if len(valid) < minValidZones {
		if log != nil {
			log.Warning("awb: too few valid zones, reusing previous result", "valid", len(valid))
		}
		return prev
	}

	byGR := append([]zone.Zone(nil), valid...)
	sort.Slice(byGR, func(i, j int) bool { return ratio(byGR[i].GSum, byGR[i].RSum) < ratio(byGR[j].GSum, byGR[j].RSum) })

	byGB := append([]zone.Zone(nil), valid...)
	sort.Slice(byGB, func(i, j int) bool { return ratio(byGB[i].GSum, byGB[i].BSum) < ratio(byGB[j].GSum, byGB[j].BSum) })

	trimmedR := trim(byGR)
	trimmedB := trim(byGB)

	sumGForR, sumR := sumGreenAndChannel(trimmedR, func(z zone.Zone) float64 { return z.RSum })
	sumGForB, sumB := sumGreenAndChannel(trimmedB, func(z zone.Zone) float64 { return z.BSum })

	rGain := clamp(safeDiv(sumGForR, sumR, gainMax), gainMin, gainMax)
	bGain := clamp(safeDiv(sumGForB, sumB, gainMax), gainMin, gainMax)

	// CCT is estimated from the mean (R, G, B) of the zones retained for the
	// red-gain trim; either trimmed set would do, they overlap heavily.
	meanR, meanG, meanB := meanRGB(trimmedR)
	cct := estimateCCT(meanR, meanG, meanB)

	return Result{
		TemperatureK: cct,
		RedGain:      rGain,
		GreenGain:    1.0,
		BlueGain:     bGain,
	}
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// trim discards the bottom and top trimFraction of a sorted zone slice,
// returning the middle retained portion.
func trim(sorted []zone.Zone) []zone.Zone {
	n := len(sorted)
	cut := int(float64(n) * trimFraction)
	if 2*cut >= n {
		return sorted
	}
	return sorted[cut : n-cut]
}

func sumGreenAndChannel(zones []zone.Zone, channel func(zone.Zone) float64) (sumG, sumC float64) {
	for _, z := range zones {
		sumG += z.GSum
		sumC += channel(z)
	}
	return
}

// safeDiv divides a/b, returning fallback when b is zero (the degenerate
// "sum R or sum B is zero" case, which clamps the gain to its maximum).
func safeDiv(a, b, fallback float64) float64 {
	if b == 0 {
		return fallback
	}
	return a / b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// meanRGB returns the per-zone mean (R, G, B), following the teacher's own
// use of gonum/stat.Mean for averaging per-frame scores (cmd/rv/probe.go).
func meanRGB(zones []zone.Zone) (r, g, b float64) {
	var rs, gs, bs []float64
	for _, z := range zones {
		if z.Counted == 0 {
			continue
		}
		c := float64(z.Counted)
		rs = append(rs, z.RSum/c)
		gs = append(gs, z.GSum/c)
		bs = append(bs, z.BSum/c)
	}
	if len(rs) == 0 {
		return 0, 0, 0
	}
	return stat.Mean(rs, nil), stat.Mean(gs, nil), stat.Mean(bs, nil)
}

func estimateCCT(r, g, b float64) float64 {
	x := ccm[0][0]*r + ccm[0][1]*g + ccm[0][2]*b
	y := ccm[1][0]*r + ccm[1][1]*g + ccm[1][2]*b
	z := ccm[2][0]*r + ccm[2][1]*g + ccm[2][2]*b

	sum := x + y + z
	if sum == 0 {
		return 0
	}
	cx := x / sum
	cy := y / sum

	denom := 0.1858 - cy
	if denom == 0 {
		return 0
	}
	n := (cx - 0.3320) / denom
	return 449*n*n*n + 3525*n*n + 6823.3*n + 5520.33
}
