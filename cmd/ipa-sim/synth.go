/*
DESCRIPTION
  synth.go builds synthetic statistics buffers for ipa-sim's smoke-test
  scenes, in the same wire layout statsbuf.Decode expects.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"encoding/binary"

	"github.com/ausocean/ipa/statsbuf"
)

// cell is one synthetic AWB record, expressed as plain bytes.
type cell struct {
	gr, r, b, gb, satRatio uint8
}

// buildStatsBuf encodes a revision-2 statistics buffer of cellCount
// identical cells, with no AE or histogram block.
func buildStatsBuf(cellCount int, c cell) []byte {
	const awbRecordSize = 8
	buf := make([]byte, 8+cellCount*awbRecordSize)

	binary.LittleEndian.PutUint32(buf[0:4], statsbuf.MeasAWB)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(cellCount))

	for i := 0; i < cellCount; i++ {
		off := 8 + i*awbRecordSize
		buf[off+0] = c.gr
		buf[off+1] = c.r
		buf[off+2] = c.b
		buf[off+3] = c.gb
		buf[off+4] = c.satRatio
	}
	return buf
}

// greyScene is a flat mid-grey scene: AGC should converge toward its Y*
// target and AWB's R/B gains should settle near 1.0.
func greyScene(cellCount int) []byte {
	return buildStatsBuf(cellCount, cell{gr: 100, r: 100, b: 100, gb: 100, satRatio: 0})
}

// redCastScene is a scene with a strong red colour cast: AWB should raise
// its blue gain and lower its red gain to compensate.
func redCastScene(cellCount int) []byte {
	return buildStatsBuf(cellCount, cell{gr: 90, r: 180, b: 60, gb: 90, satRatio: 0})
}
