/*
DESCRIPTION
  histogram.go provides the Histogram type, which derives luma quantiles
  and quantile-restricted means from the per-frame luma distribution.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package zone

import "gonum.org/v1/gonum/floats"

// histBins is the number of bins in a Histogram (B in the spec's notation).
const histBins = 256

// Histogram is an ordered sequence of histBins bin counts with a lazily
// computed cumulative array of length histBins+1, cum[0] == 0 and
// cum[histBins] == total.
type Histogram struct {
	bins [histBins]uint32
	cum  []uint64 // Computed lazily by cumulative().
}

// Total returns the sum of all bin counts.
func (h *Histogram) Total() uint64 {
	c := h.cumulative()
	return c[histBins]
}

func (h *Histogram) cumulative() []uint64 {
	if h.cum != nil {
		return h.cum
	}
	cum := make([]uint64, histBins+1)
	for i := 0; i < histBins; i++ {
		cum[i+1] = cum[i] + uint64(h.bins[i])
	}
	h.cum = cum
	return cum
}

// Quantile returns the smallest bin index b in [0, histBins] such that
// cum[b]/cum[histBins] >= q.
func (h *Histogram) Quantile(q float64) int {
	cum := h.cumulative()
	total := cum[histBins]
	if total == 0 {
		return histBins
	}
	target := q * float64(total)
	for b := 0; b <= histBins; b++ {
		if float64(cum[b]) >= target {
			return b
		}
	}
	return histBins
}

// InterQuantileMean returns the arithmetic mean of bin values weighted by
// their counts, restricted to the range [Quantile(qLo), Quantile(qHi)].
// An empty histogram returns histBins-0.5, a "very bright" reading; AGC
// does not consume this value.
func (h *Histogram) InterQuantileMean(qLo, qHi float64) float64 {
	if h.Total() == 0 {
		return histBins - 0.5
	}

	lo, hi := h.Quantile(qLo), h.Quantile(qHi)
	if lo > hi {
		lo, hi = hi, lo
	}

	var values, weights []float64
	for b := lo; b < hi && b < histBins; b++ {
		if h.bins[b] == 0 {
			continue
		}
		values = append(values, float64(b))
		weights = append(weights, float64(h.bins[b]))
	}
	if len(values) == 0 {
		return histBins - 0.5
	}

	sumW := floats.Sum(weights)
	var sum float64
	for i, v := range values {
		sum += v * weights[i]
	}
	return sum / sumW
}

// CumulativeFreq returns a linear interpolation of the cumulative array at
// the fractional bin index bin.
func (h *Histogram) CumulativeFreq(bin float64) float64 {
	cum := h.cumulative()
	if bin <= 0 {
		return float64(cum[0])
	}
	if bin >= histBins {
		return float64(cum[histBins])
	}
	lo := int(bin)
	frac := bin - float64(lo)
	return float64(cum[lo])*(1-frac) + float64(cum[lo+1])*frac
}
