/*
DESCRIPTION
  zone_test.go tests the stats-to-zones downsampling extraction and the
  Zone/ValidZones helpers.

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

import (
	"testing"

	"github.com/ausocean/ipa/grid"
	"github.com/ausocean/ipa/statsbuf"
)

func uniformRecords(n int, rec statsbuf.AwbRecord) []statsbuf.AwbRecord {
	out := make([]statsbuf.AwbRecord, n)
	for i := range out {
		out[i] = rec
	}
	return out
}

func TestExtractOneToOneGrid(t *testing.T) {
	g := grid.Grid{Width: AnalysisGridW, Height: AnalysisGridH}
	records := uniformRecords(g.Width*g.Height, statsbuf.AwbRecord{GrAvg: 100, RAvg: 110, BAvg: 90, GbAvg: 100, SatRatio: 0})

	zones, hist, err := Extract(records, g)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(zones) != AnalysisGridW*AnalysisGridH {
		t.Fatalf("len(zones) = %d, want %d", len(zones), AnalysisGridW*AnalysisGridH)
	}

	for i, z := range zones {
		if z.Counted != 1 {
			t.Fatalf("zone %d Counted = %d, want 1", i, z.Counted)
		}
		if z.RSum != 110 || z.BSum != 90 || z.GSum != 100 {
			t.Fatalf("zone %d sums = (%v,%v,%v), want (110,100,90)", i, z.RSum, z.GSum, z.BSum)
		}
	}

	if got, want := hist.Total(), uint64(g.Width*g.Height); got != want {
		t.Errorf("hist.Total() = %d, want %d", got, want)
	}
}

func TestExtractExcludesSaturatedCells(t *testing.T) {
	g := grid.Grid{Width: AnalysisGridW, Height: AnalysisGridH}
	records := uniformRecords(g.Width*g.Height, statsbuf.AwbRecord{GrAvg: 100, RAvg: 100, BAvg: 100, GbAvg: 100, SatRatio: 255})

	zones, hist, err := Extract(records, g)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for i, z := range zones {
		if z.Counted != 0 {
			t.Fatalf("zone %d Counted = %d, want 0 (all cells saturated)", i, z.Counted)
		}
	}
	if hist.Total() != 0 {
		t.Errorf("hist.Total() = %d, want 0", hist.Total())
	}
}

func TestExtractRecordCountMismatch(t *testing.T) {
	g := grid.Grid{Width: AnalysisGridW, Height: AnalysisGridH}
	_, _, err := Extract(uniformRecords(1, statsbuf.AwbRecord{}), g)
	if err == nil {
		t.Fatal("expected an error for mismatched record/grid size")
	}
}

func TestZoneValid(t *testing.T) {
	valid := Zone{Counted: MinZonesCounted, GSum: MinGreenLevel * MinZonesCounted}
	if !valid.Valid() {
		t.Errorf("expected zone at the thresholds to be valid")
	}

	tooFewCells := Zone{Counted: MinZonesCounted - 1, GSum: MinGreenLevel * MinZonesCounted}
	if tooFewCells.Valid() {
		t.Errorf("expected zone below MinZonesCounted to be invalid")
	}

	tooDark := Zone{Counted: MinZonesCounted, GSum: 1}
	if tooDark.Valid() {
		t.Errorf("expected zone below MinGreenLevel to be invalid")
	}
}

func TestValidZonesFiltersEmptyAndInvalid(t *testing.T) {
	zones := []Zone{
		{Counted: 0},
		{Counted: MinZonesCounted, GSum: MinGreenLevel * MinZonesCounted}, // valid
		{Counted: 1, GSum: 1},                                             // invalid, too dark / too few
	}
	got := ValidZones(zones)
	if len(got) != 1 {
		t.Fatalf("ValidZones returned %d zones, want 1", len(got))
	}
}

func TestHistogramQuantileAndMean(t *testing.T) {
	var h Histogram
	h.bins[50] = 2
	h.bins[150] = 2

	if total := h.Total(); total != 4 {
		t.Fatalf("Total() = %d, want 4", total)
	}

	mean := h.InterQuantileMean(0, 1)
	if mean < 50 || mean > 150 {
		t.Errorf("InterQuantileMean(0,1) = %v, want within [50,150]", mean)
	}
}

func TestHistogramEmptyIsTreatedAsBright(t *testing.T) {
	var h Histogram
	if got := h.InterQuantileMean(0.1, 0.9); got != histBins-0.5 {
		t.Errorf("InterQuantileMean on empty histogram = %v, want %v", got, histBins-0.5)
	}
	if got := h.Quantile(0.5); got != histBins {
		t.Errorf("Quantile on empty histogram = %v, want %v", got, histBins)
	}
}

func TestHistogramCumulativeFreq(t *testing.T) {
	var h Histogram
	h.bins[10] = 4
	h.bins[20] = 6
	if got := h.CumulativeFreq(0); got != 0 {
		t.Errorf("CumulativeFreq(0) = %v, want 0", got)
	}
	if got := h.CumulativeFreq(histBins); got != 10 {
		t.Errorf("CumulativeFreq(histBins) = %v, want 10", got)
	}
}
