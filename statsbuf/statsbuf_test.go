/*
DESCRIPTION
  statsbuf_test.go tests statistics buffer decoding: the mandatory AWB
  block, optional AE/histogram blocks, and the revision/size/meas_type
  error paths.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package statsbuf

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func encodeHeader(measType uint32, cellCount int) []byte {
	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(buf[0:4], measType)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(cellCount))
	return buf
}

func encodeAwbRecord(rec AwbRecord) []byte {
	buf := make([]byte, awbRecordSize)
	buf[0], buf[1], buf[2], buf[3], buf[4] = rec.GrAvg, rec.RAvg, rec.BAvg, rec.GbAvg, rec.SatRatio
	return buf
}

func TestDecodeAwbOnly(t *testing.T) {
	rec := AwbRecord{GrAvg: 10, RAvg: 20, BAvg: 30, GbAvg: 40, SatRatio: 0}

	buf := encodeHeader(MeasAWB, 2)
	buf = append(buf, encodeAwbRecord(rec)...)
	buf = append(buf, encodeAwbRecord(rec)...)

	got, err := Decode(RevisionV2, buf, 2)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := Stats{MeasType: MeasAWB, Awb: []AwbRecord{rec, rec}}
	if !cmp.Equal(got, want) {
		t.Errorf("Decode() mismatch\nwant: %+v\ngot: %+v", want, got)
	}
}

func TestDecodeWithAeAndHistogram(t *testing.T) {
	rec := AwbRecord{GrAvg: 1, RAvg: 2, BAvg: 3, GbAvg: 4, SatRatio: 5}

	buf := encodeHeader(MeasAE|MeasAWB|MeasHist, 1)
	buf = append(buf, 128) // AE exposure mean for the one cell.
	buf = append(buf, encodeAwbRecord(rec)...)

	histLen := make([]byte, 4)
	binary.LittleEndian.PutUint32(histLen, 2)
	buf = append(buf, histLen...)
	bin0 := make([]byte, 4)
	bin1 := make([]byte, 4)
	binary.LittleEndian.PutUint32(bin0, 7)
	binary.LittleEndian.PutUint32(bin1, 9)
	buf = append(buf, bin0...)
	buf = append(buf, bin1...)

	got, err := Decode(RevisionV1, buf, 1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := Stats{
		MeasType:  MeasAE | MeasAWB | MeasHist,
		ExpMean:   []uint8{128},
		Awb:       []AwbRecord{rec},
		Histogram: []uint32{7, 9},
	}
	if !cmp.Equal(got, want) {
		t.Errorf("Decode() mismatch\nwant: %+v\ngot: %+v", want, got)
	}
}

func TestDecodeUnsupportedRevision(t *testing.T) {
	buf := encodeHeader(MeasAWB, 0)
	_, err := Decode(Revision(99), buf, 0)
	if err == nil {
		t.Fatal("expected an error for an unrecognized revision")
	}
}

func TestDecodeMissingAwbBit(t *testing.T) {
	buf := encodeHeader(MeasAE, 1)
	buf = append(buf, 0)
	_, err := Decode(RevisionV2, buf, 1)
	if err == nil {
		t.Fatal("expected an error when meas_type lacks the AWB bit")
	}
}

func TestDecodeBufferTooShort(t *testing.T) {
	rec := AwbRecord{}
	buf := encodeHeader(MeasAWB, 2)
	buf = append(buf, encodeAwbRecord(rec)...) // Only one of the two declared records.

	_, err := Decode(RevisionV2, buf, 2)
	if err == nil {
		t.Fatal("expected an error for a buffer too short for its declared cell count")
	}
}

func TestDecodeDeclaredCellsSmallerThanRequested(t *testing.T) {
	buf := encodeHeader(MeasAWB, 1)
	buf = append(buf, encodeAwbRecord(AwbRecord{})...)

	_, err := Decode(RevisionV2, buf, 2)
	if err == nil {
		t.Fatal("expected an error when declared cell count is smaller than the requested count")
	}
}
