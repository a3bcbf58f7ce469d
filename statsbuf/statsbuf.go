/*
DESCRIPTION
  statsbuf.go decodes the ISP's inbound statistics buffer: a fixed,
  revision-gated byte layout holding the AE exposure-mean block, the AWB
  per-cell record block, and an optional histogram block.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package statsbuf decodes the ISP's inbound statistics buffer into the
// typed blocks the 3A algorithms consume. The wire layout is a fixed,
// revision-gated byte blob; this package never retains the passed slice
// beyond the Decode call.
package statsbuf

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Revision identifies the statistics buffer's wire layout. The IPA accepts
// only revisions it knows about, per the hardware-revision gating contract.
type Revision uint32

// Known hardware revisions. Any other value fails decode with
// ErrUnsupportedHardware.
const (
	RevisionV1 Revision = 1
	RevisionV2 Revision = 2
)

// Measurement-type bitmask bits identifying which modules produced stats in
// a given buffer.
const (
	MeasAE   uint32 = 1 << 0
	MeasAWB  uint32 = 1 << 1
	MeasHist uint32 = 1 << 2
)

// awbRecordSize is the encoded size of one AwbRecord: gr_avg, r_avg, b_avg,
// gb_avg, sat_ratio (5 bytes) plus a 3-byte pad, per the §6 wire contract.
const awbRecordSize = 8

// headerSize is meas_type (4 bytes) + cell count (4 bytes).
const headerSize = 8

// ErrUnsupportedHardware is returned by Decode when revision is not one of
// the known Revision constants.
var ErrUnsupportedHardware = errors.New("statsbuf: unsupported hardware revision")

// ErrInvalidStats is returned by Decode when buf is smaller than the
// declared layout requires, or meas_type lacks a bit Decode was asked to
// require.
var ErrInvalidStats = errors.New("statsbuf: invalid stats buffer")

// AwbRecord is one per-cell AWB statistics record.
type AwbRecord struct {
	GrAvg    uint8
	RAvg     uint8
	BAvg     uint8
	GbAvg    uint8
	SatRatio uint8
}

// Stats is the decoded contents of one statistics buffer.
type Stats struct {
	MeasType  uint32
	ExpMean   []uint8
	Awb       []AwbRecord
	Histogram []uint32 // Empty if MeasHist is not set.
}

// Decode parses buf according to revision, requiring cellCount AWB/AE
// records. It fails with ErrUnsupportedHardware for an unrecognized
// revision, and ErrInvalidStats if buf is too small or meas_type lacks the
// AWB bit (the IPA cannot run any 3A algorithm without AWB cell data).
func Decode(revision Revision, buf []byte, cellCount int) (Stats, error) {
	switch revision {
	case RevisionV1, RevisionV2:
	default:
		return Stats{}, errors.Wrapf(ErrUnsupportedHardware, "revision %d", revision)
	}

	if len(buf) < headerSize {
		return Stats{}, errors.Wrap(ErrInvalidStats, "buffer shorter than header")
	}

	measType := binary.LittleEndian.Uint32(buf[0:4])
	declaredCells := int(binary.LittleEndian.Uint32(buf[4:8]))
	if declaredCells < cellCount {
		return Stats{}, errors.Wrap(ErrInvalidStats, "declared cell count smaller than requested")
	}
	if measType&MeasAWB == 0 {
		return Stats{}, errors.Wrap(ErrInvalidStats, "meas_type missing AWB bit")
	}

	off := headerSize

	var expMean []uint8
	if measType&MeasAE != 0 {
		if len(buf) < off+cellCount {
			return Stats{}, errors.Wrap(ErrInvalidStats, "buffer too small for AE block")
		}
		expMean = append(expMean, buf[off:off+cellCount]...)
		off += cellCount
	}

	awbBytes := cellCount * awbRecordSize
	if len(buf) < off+awbBytes {
		return Stats{}, errors.Wrap(ErrInvalidStats, "buffer too small for AWB block")
	}
	awb := make([]AwbRecord, cellCount)
	for i := 0; i < cellCount; i++ {
		rec := buf[off+i*awbRecordSize:]
		awb[i] = AwbRecord{
			GrAvg:    rec[0],
			RAvg:     rec[1],
			BAvg:     rec[2],
			GbAvg:    rec[3],
			SatRatio: rec[4],
		}
	}
	off += awbBytes

	var hist []uint32
	if measType&MeasHist != 0 {
		if len(buf) < off+4 {
			return Stats{}, errors.Wrap(ErrInvalidStats, "buffer too small for histogram length")
		}
		nbins := int(binary.LittleEndian.Uint32(buf[off : off+4]))
		off += 4
		if len(buf) < off+4*nbins {
			return Stats{}, errors.Wrap(ErrInvalidStats, "buffer too small for histogram body")
		}
		hist = make([]uint32, nbins)
		for i := 0; i < nbins; i++ {
			hist[i] = binary.LittleEndian.Uint32(buf[off+4*i : off+4*i+4])
		}
	}

	return Stats{
		MeasType:  measType,
		ExpMean:   expMean,
		Awb:       awb,
		Histogram: hist,
	}, nil
}
