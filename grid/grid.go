/*
DESCRIPTION
  grid.go provides the statistics grid descriptor and the BDS-output-size to
  grid-descriptor fitting algorithm used by the frame orchestrator's
  configure step.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package grid provides the statistics grid descriptor and the algorithm
// that resolves an arbitrary ISP output size to a valid grid.
package grid

// Hardware limits on the per-cell block size, in log2 units.
const (
	minBlockLog2 = 3
	maxBlockLog2 = 7

	// CellWMax and CellHMax bound the number of analysis cells along each
	// axis that the statistics hardware can produce.
	CellWMax = 160
	CellHMax = 56

	// minCoverage is the fraction of the BDS output area a chosen grid must
	// cover before configure logs a coverage warning.
	minCoverage = 0.8
)

// Grid describes a statistics grid: a regular array of Width x Height cells,
// each covering a 2^BlockWidthLog2 x 2^BlockHeightLog2 block of pixels,
// starting at pixel (XStart, YStart).
type Grid struct {
	Width           int
	Height          int
	BlockWidthLog2  int
	BlockHeightLog2 int
	XStart          int
	YStart          int
}

// Valid reports whether g satisfies the grid descriptor invariants relative
// to an image of size imgW x imgH.
func (g Grid) Valid(imgW, imgH int) bool {
	if g.BlockWidthLog2 < minBlockLog2 || g.BlockWidthLog2 > maxBlockLog2 {
		return false
	}
	if g.BlockHeightLog2 < minBlockLog2 || g.BlockHeightLog2 > maxBlockLog2 {
		return false
	}
	if g.Width*(1<<g.BlockWidthLog2) > imgW {
		return false
	}
	if g.Height*(1<<g.BlockHeightLog2) > imgH {
		return false
	}
	if g.XStart+g.Width*(1<<g.BlockWidthLog2) > imgW {
		return false
	}
	return true
}

// Resolve chooses block-size log2 exponents for width and height that
// minimize the absolute pixel error between the resulting cell grid and the
// BDS output size (w, h), subject to the CellWMax/CellHMax cap on cell
// count. Ties are broken by iteration order, i.e. the smaller log2 wins.
//
// It returns the resolved Grid (XStart/YStart left at 0 — the caller may
// offset them to centre the grid) and the fraction of the BDS output area
// the chosen grid covers.
func Resolve(w, h int) (Grid, float64) {
	bestBW, bestBH := minBlockLog2, minBlockLog2
	bestErr := -1

	for bw := minBlockLog2; bw <= maxBlockLog2; bw++ {
		cellW := w >> uint(bw)
		if cellW > CellWMax {
			cellW = CellWMax
		}
		for bh := minBlockLog2; bh <= maxBlockLog2; bh++ {
			cellH := h >> uint(bh)
			if cellH > CellHMax {
				cellH = CellHMax
			}

			gridW := cellW << uint(bw)
			gridH := cellH << uint(bh)
			err := abs(gridW-w) + abs(gridH-h)
			if bestErr < 0 || err < bestErr {
				bestErr = err
				bestBW, bestBH = bw, bh
			}
		}
	}

	cellW := w >> uint(bestBW)
	if cellW > CellWMax {
		cellW = CellWMax
	}
	cellH := h >> uint(bestBH)
	if cellH > CellHMax {
		cellH = CellHMax
	}

	g := Grid{
		Width:           cellW,
		Height:          cellH,
		BlockWidthLog2:  bestBW,
		BlockHeightLog2: bestBH,
	}

	area := float64(w * h)
	var coverage float64
	if area > 0 {
		gridArea := float64(cellW<<uint(bestBW)) * float64(cellH<<uint(bestBH))
		coverage = gridArea / area
		if coverage > 1 {
			coverage = 1
		}
	}

	return g, coverage
}

// LowCoverage reports whether coverage (as returned by Resolve) is below the
// threshold at which configure should warn that the chosen grid covers too
// little of the BDS output area.
func LowCoverage(coverage float64) bool { return coverage < minCoverage }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
