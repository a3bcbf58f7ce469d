/*
DESCRIPTION
  grid_test.go tests the BDS-output-size to grid-descriptor resolution.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolve720p(t *testing.T) {
	got, coverage := Resolve(1280, 720)

	want := Grid{Width: 160, Height: 45, BlockWidthLog2: 3, BlockHeightLog2: 4}
	if !cmp.Equal(got, want) {
		t.Errorf("grid mismatch\nwant: %+v\ngot: %+v", want, got)
	}
	if coverage != 1 {
		t.Errorf("coverage = %v, want 1 (exact fit)", coverage)
	}
	if !got.Valid(1280, 720) {
		t.Errorf("resolved grid failed Valid(1280, 720)")
	}
}

func TestResolveStaysWithinCellCaps(t *testing.T) {
	// A large BDS output must never resolve to a grid exceeding the
	// hardware's per-axis cell count limits.
	got, _ := Resolve(4096, 2160)

	if got.Width > CellWMax {
		t.Errorf("Width = %d, exceeds CellWMax %d", got.Width, CellWMax)
	}
	if got.Height > CellHMax {
		t.Errorf("Height = %d, exceeds CellHMax %d", got.Height, CellHMax)
	}
}

func TestLowCoverage(t *testing.T) {
	if LowCoverage(0.9) {
		t.Errorf("LowCoverage(0.9) = true, want false")
	}
	if !LowCoverage(0.5) {
		t.Errorf("LowCoverage(0.5) = false, want true")
	}
}

func TestGridValidRejectsBadBlockLog2(t *testing.T) {
	g := Grid{Width: 10, Height: 10, BlockWidthLog2: 2, BlockHeightLog2: 4}
	if g.Valid(1000, 1000) {
		t.Errorf("Valid() = true for out-of-range BlockWidthLog2")
	}
}

func TestGridValidRejectsOversizedGrid(t *testing.T) {
	g := Grid{Width: 200, Height: 50, BlockWidthLog2: 3, BlockHeightLog2: 3}
	if g.Valid(1280, 720) {
		t.Errorf("Valid() = true for a grid wider than the image")
	}
}
