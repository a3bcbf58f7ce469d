/*
DESCRIPTION
  agc.go implements the mean-based auto-exposure/gain-control algorithm:
  an iterative refinement against a normalized luma target, exponential
  filtering of the resulting exposure, and a shutter-first shutter/gain
  split.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package agc implements the mean-based auto-exposure/gain-control
// algorithm.
package agc

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/ipa/awb"
	"github.com/ausocean/ipa/zone"
)

// Target normalized luma (Y*), and its refinement bounds.
const (
	yTarget           = 0.4
	maxRefineIter     = 8
	refineConvergeGap = 1.01
	maxExtraPerIter   = 10.0

	// KNumStartup is the number of initial frames for which the exposure
	// filter runs at full strength (alpha = 1.0).
	KNumStartup = 10

	filterAlpha     = 0.2
	nearTargetBand  = 0.2 // +/-20% of target counts as "within range".
	convergenceBand = 0.01
)

// Ranges bounds the exposure/gain search space, seeded from the hardware
// control ranges reported at configure time.
type Ranges struct {
	MinExposureLines uint32
	MaxExposureLines uint32
	MinGain          float64
	MaxGain          float64
	MinShutter       time.Duration
	MaxShutter       time.Duration
	LineDuration     time.Duration
}

// State is the running AGC state, owned by the frame orchestrator across
// frames.
type State struct {
	ExposureLines    uint32
	AnalogueGain     float64
	FilteredExposure time.Duration
	PrevExposure     time.Duration
	FrameCount       uint64

	lastRatio float64 // |filtered/target - 1| from the most recent Process call.
}

// Converged reports whether the most recent Process call found the filtered
// exposure within 1% of its target.
func (s *State) Converged() bool { return s.lastRatio < convergenceBand }

// Weights assigns a metering weight to each analysis zone; see the weights.go
// presets for CentreWeighted/Spot/Matrix.
type Weights func(idx, w, h int) float64

// Process runs one AGC iteration and returns the exposure in sensor lines
// and the analogue gain to apply. State is mutated in place so the caller
// can inspect FilteredExposure/Converged afterwards. hist is not read: the
// luma estimate comes from zones alone, so an empty histogram does not
// change the result.
func Process(state *State, ranges Ranges, hist zone.Histogram, zones []zone.Zone, gains awb.Result, weights Weights) (exposureLines uint32, gain float64) {
	if state.PrevExposure == 0 {
		state.PrevExposure = ranges.MinShutter
	}

	currentGain := 1.0
	for i := 0; i < maxRefineIter; i++ {
		initialY := computeInitialY(zones, currentGain, gains, weights)
		extra := yTarget / (initialY + 0.001)
		if extra > maxExtraPerIter {
			extra = maxExtraPerIter
		}
		currentGain *= extra
		if extra < refineConvergeGap {
			break
		}
	}

	target := time.Duration(float64(state.PrevExposure) * currentGain)
	maxTarget := time.Duration(float64(ranges.MaxShutter) * ranges.MaxGain)
	if target > maxTarget {
		target = maxTarget
	}

	alpha := filterAlpha
	switch {
	case state.FrameCount < KNumStartup:
		alpha = 1.0
	case state.FilteredExposure != 0 && withinBand(state.FilteredExposure, target, nearTargetBand):
		alpha = math.Sqrt(filterAlpha)
	}

	if state.FilteredExposure == 0 {
		state.FilteredExposure = target
	} else {
		state.FilteredExposure = time.Duration(float64(state.FilteredExposure)*(1-alpha) + float64(target)*alpha)
	}

	if target > 0 {
		state.lastRatio = math.Abs(float64(state.FilteredExposure)/float64(target) - 1)
	}

	shutter := clampDuration(time.Duration(float64(state.FilteredExposure)/ranges.MinGain), ranges.MinShutter, ranges.MaxShutter)
	g := clampFloat(float64(state.FilteredExposure)/float64(shutter), ranges.MinGain, ranges.MaxGain)

	exposureLines = shutterToLines(shutter, ranges)
	exposureLines = clampLines(exposureLines, ranges.MinExposureLines, ranges.MaxExposureLines)

	state.ExposureLines = exposureLines
	state.AnalogueGain = g
	state.PrevExposure = shutter
	state.FrameCount++

	return exposureLines, g
}

// computeInitialY estimates the normalized scene luma under currentGain and
// the current AWB gains, as a per-zone weighted mean (gonum/stat.Mean, as
// the teacher averages per-frame scores in cmd/rv/probe.go).
func computeInitialY(zones []zone.Zone, currentGain float64, gains awb.Result, weights Weights) float64 {
	if weights == nil {
		weights = CentreWeighted
	}

	var lumas, ws []float64
	for i, z := range zones {
		if z.Counted == 0 {
			continue
		}
		w := weights(i, zone.AnalysisGridW, zone.AnalysisGridH)
		if w == 0 {
			continue
		}
		c := float64(z.Counted)
		r := z.RSum / c
		g := z.GSum / c
		b := z.BSum / c
		luma := 0.299*r*gains.RedGain + 0.587*g*gains.GreenGain + 0.114*b*gains.BlueGain
		lumas = append(lumas, luma*currentGain)
		ws = append(ws, w*c)
	}
	if len(lumas) == 0 {
		return 0
	}
	return stat.Mean(lumas, ws) / 255
}

func withinBand(a, b time.Duration, band float64) bool {
	if b == 0 {
		return false
	}
	ratio := float64(a) / float64(b)
	return ratio > 1-band && ratio < 1+band
}

func clampDuration(v, lo, hi time.Duration) time.Duration {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampLines(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func shutterToLines(shutter time.Duration, ranges Ranges) uint32 {
	if ranges.LineDuration <= 0 {
		return 0
	}
	return uint32(float64(shutter) / float64(ranges.LineDuration))
}
