/*
DESCRIPTION
  zone.go provides the Zone type and the stats-to-zones extraction that
  downsamples the ISP's raw statistics grid into the fixed analysis grid
  used by the 3A algorithms.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package zone provides the Zone accumulator type and histogram used by the
// 3A algorithms, and the downsampling extraction that builds them from the
// ISP's raw per-cell statistics.
package zone

import (
	"github.com/pkg/errors"

	"github.com/ausocean/ipa/grid"
	"github.com/ausocean/ipa/statsbuf"
)

// Fixed analysis grid dimensions; the ISP's native grid is always
// downsampled into this coarser grid before any algorithm sees it.
const (
	AnalysisGridW = 16
	AnalysisGridH = 12
)

// MinCellsPerZoneRatio is the saturation-ratio threshold above which a raw
// ISP cell is excluded from the analysis grid it contributes to. Expressed
// in the hardware's 0-255 fixed-point fraction: 255*20/100.
const MinCellsPerZoneRatio = 255 * 20 / 100

// MinZonesCounted and MinGreenLevel gate whether a zone is usable by AWB.
const (
	MinZonesCounted = 16
	MinGreenLevel   = 16
)

// Zone is one analysis-grid cell's accumulated Bayer statistics.
type Zone struct {
	RSum, GSum, BSum float64
	Counted          int
	Uncounted        int
}

// Valid reports whether z has enough counted cells and enough green signal
// to be usable by AWB.
func (z Zone) Valid() bool {
	return z.Counted >= MinZonesCounted && z.GSum/float64(z.Counted) >= MinGreenLevel
}

// ValidZones filters zones down to those satisfying Valid.
func ValidZones(zones []Zone) []Zone {
	out := make([]Zone, 0, len(zones))
	for _, z := range zones {
		if z.Counted > 0 && z.Valid() {
			out = append(out, z)
		}
	}
	return out
}

// Extract downsamples the ISP's native grid of AWB records into the fixed
// AnalysisGridW x AnalysisGridH zone grid, and builds the luma histogram
// over the same counted cells. It never retains records beyond the call.
func Extract(records []statsbuf.AwbRecord, g grid.Grid) ([]Zone, Histogram, error) {
	if len(records) != g.Width*g.Height {
		return nil, Histogram{}, errors.New("zone: record count does not match grid dimensions")
	}

	zones := make([]Zone, AnalysisGridW*AnalysisGridH)
	var hist Histogram

	for cy := 0; cy < g.Height; cy++ {
		// Map this raw cell row onto an analysis grid row.
		zy := cy * AnalysisGridH / g.Height
		if zy >= AnalysisGridH {
			zy = AnalysisGridH - 1
		}
		for cx := 0; cx < g.Width; cx++ {
			rec := records[cy*g.Width+cx]
			if rec.SatRatio > MinCellsPerZoneRatio {
				continue
			}

			zx := cx * AnalysisGridW / g.Width
			if zx >= AnalysisGridW {
				zx = AnalysisGridW - 1
			}

			green := (float64(rec.GrAvg) + float64(rec.GbAvg)) / 2
			z := &zones[zy*AnalysisGridW+zx]
			z.RSum += float64(rec.RAvg)
			z.GSum += green
			z.BSum += float64(rec.BAvg)
			z.Counted++

			hist.bins[clampBin(green)]++
		}
	}

	return zones, hist, nil
}

func clampBin(v float64) int {
	b := int(v + 0.5)
	if b < 0 {
		return 0
	}
	if b > histBins-1 {
		return histBins - 1
	}
	return b
}
