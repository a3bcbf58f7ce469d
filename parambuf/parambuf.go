/*
DESCRIPTION
  parambuf.go encodes the outbound parameter buffer: zero-then-write
  per-module payloads (AWB gains, AEC window, CPROC, gamma LUT, and the
  remaining fixed-default ISP blocks) plus the enable/config bitmasks that
  tell the hardware which modules to (re)configure this frame.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package parambuf encodes the outbound ISP parameter buffer from the
// algorithm outputs computed each frame.
package parambuf

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Module bits, shared by module_en_update/module_ens/module_cfg_update.
const (
	ModuleAWB   uint32 = 1 << 0
	ModuleAEC   uint32 = 1 << 1
	ModuleHist  uint32 = 1 << 2
	ModuleBLS   uint32 = 1 << 3
	ModuleCCM   uint32 = 1 << 4
	ModuleCPROC uint32 = 1 << 5
	ModuleBNR   uint32 = 1 << 6
	ModuleLSC   uint32 = 1 << 7
	ModuleDPCC  uint32 = 1 << 8
	ModuleFLT   uint32 = 1 << 9
	ModuleDPF   uint32 = 1 << 10
	ModuleIE    uint32 = 1 << 11
	ModuleBDM   uint32 = 1 << 12
	ModuleGamma uint32 = 1 << 13

	allModules = ModuleAWB | ModuleAEC | ModuleHist | ModuleBLS | ModuleCCM |
		ModuleCPROC | ModuleBNR | ModuleLSC | ModuleDPCC | ModuleFLT |
		ModuleDPF | ModuleIE | ModuleBDM | ModuleGamma
)

// Fixed defaults for the modules the IPA does not actively drive.
const (
	blsDefault       = 0
	ccmIdentityScale = 256 // Q8 fixed-point identity diagonal.
	dpfStrength      = 0
	ieEffect         = 0
	bdmThreshold     = 4

	awbGainScale = 256 // Q8 fixed-point scale for AWB gain registers.
	awbGainMin   = 128
	awbGainMax   = 512
)

// headerSize is the three leading bitmask fields.
const headerSize = 12

// gammaLUTSize must match gamma.LUTSize; duplicated here to avoid a
// dependency cycle between parambuf and gamma.
const gammaLUTSize = 256

// bodySize is the total payload length after the header: AWB gains (2
// uint16), AEC window (4 uint16), histogram weights (1 byte per analysis
// zone, 16*12), BLS (1 uint16), CCM (9 uint16), CPROC (4 uint8), BNR (1
// uint8 reserved), LSC (1 uint8 reserved), DPCC (1 uint8 reserved), FLT (1
// uint8 reserved), DPF strength (1 uint8), gamma LUT (256 uint16), IE
// effect (1 uint8), BDM threshold (1 uint8).
const (
	histZones = 16 * 12
	bodySize  = 2*2 + 4*2 + histZones + 2 + 9*2 + 4 + 1 + 1 + 1 + 1 + 1 + gammaLUTSize*2 + 1 + 1
)

// Size is the total encoded parameter buffer length Encode produces.
const Size = headerSize + bodySize

// Window is the AEC measurement window, in statistics-grid cell coordinates.
type Window struct {
	X0, Y0, X1, Y1 uint16
}

// CPROC holds the contrast-processing block's four 0-255 fixed-point knobs.
type CPROC struct {
	Contrast, Brightness, Saturation, Hue uint8
}

// Frame bundles everything Encode needs to assemble one parameter buffer.
type Frame struct {
	AwbRedGain, AwbBlueGain float64
	AecWindow               Window
	HistWeights             []uint8 // len must be 0 (all-1s default) or histZones.
	Cproc                   CPROC
	GammaLUT                [gammaLUTSize]uint16
	ModulesChanged          uint32 // Which modules actually changed this frame.
}

// Encode zero-fills a Size-byte buffer and writes every module's payload,
// in the fixed layout order, returning the populated bytes. modulesChanged
// (frame.ModulesChanged) sets module_en_update/module_cfg_update; all
// modules are always enabled in module_ens once configured.
func Encode(frame Frame) ([]byte, error) {
	if len(frame.HistWeights) != 0 && len(frame.HistWeights) != histZones {
		return nil, errors.Errorf("parambuf: histogram weights length %d, want 0 or %d", len(frame.HistWeights), histZones)
	}

	buf := make([]byte, Size)

	binary.LittleEndian.PutUint32(buf[0:4], frame.ModulesChanged)
	binary.LittleEndian.PutUint32(buf[4:8], allModules)
	binary.LittleEndian.PutUint32(buf[8:12], frame.ModulesChanged)

	off := headerSize

	binary.LittleEndian.PutUint16(buf[off:off+2], quantizeGain(frame.AwbRedGain))
	binary.LittleEndian.PutUint16(buf[off+2:off+4], quantizeGain(frame.AwbBlueGain))
	off += 4

	binary.LittleEndian.PutUint16(buf[off:off+2], frame.AecWindow.X0)
	binary.LittleEndian.PutUint16(buf[off+2:off+4], frame.AecWindow.Y0)
	binary.LittleEndian.PutUint16(buf[off+4:off+6], frame.AecWindow.X1)
	binary.LittleEndian.PutUint16(buf[off+6:off+8], frame.AecWindow.Y1)
	off += 8

	for i := 0; i < histZones; i++ {
		w := uint8(1)
		if len(frame.HistWeights) == histZones {
			w = frame.HistWeights[i]
		}
		buf[off+i] = w
	}
	off += histZones

	binary.LittleEndian.PutUint16(buf[off:off+2], blsDefault)
	off += 2

	for i := 0; i < 9; i++ {
		v := uint16(0)
		if i == 0 || i == 4 || i == 8 {
			v = ccmIdentityScale
		}
		binary.LittleEndian.PutUint16(buf[off+2*i:off+2*i+2], v)
	}
	off += 9 * 2

	buf[off] = frame.Cproc.Contrast
	buf[off+1] = frame.Cproc.Brightness
	buf[off+2] = frame.Cproc.Saturation
	buf[off+3] = frame.Cproc.Hue
	off += 4

	off += 4 // BNR, LSC, DPCC, FLT reserved-default bytes, already zeroed.

	buf[off] = dpfStrength
	off += 1

	for i := 0; i < gammaLUTSize; i++ {
		binary.LittleEndian.PutUint16(buf[off+2*i:off+2*i+2], frame.GammaLUT[i])
	}
	off += gammaLUTSize * 2

	buf[off] = ieEffect
	off++
	buf[off] = bdmThreshold
	off++

	return buf, nil
}

// quantizeGain maps a linear AWB gain to the hardware's Q8-scaled register
// value, clamped to [128, 512] (i.e. [0.5x, 2.0x]).
func quantizeGain(gain float64) uint16 {
	v := gain * awbGainScale
	if v < awbGainMin {
		v = awbGainMin
	}
	if v > awbGainMax {
		v = awbGainMax
	}
	return uint16(v)
}
