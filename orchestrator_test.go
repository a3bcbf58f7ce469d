/*
DESCRIPTION
  orchestrator_test.go tests the Frame Orchestrator: init/configure error
  paths, the manual-override application controls, and the invalid-stats
  recovery path.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ipa

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/ausocean/ipa/config"
	"github.com/ausocean/ipa/sensor"
	"github.com/ausocean/ipa/statsbuf"
)

const testAwbRecordSize = 8

func buildUniformStatsBuf(cellCount int, gr, r, b, gb, satRatio uint8) []byte {
	buf := make([]byte, 8+cellCount*testAwbRecordSize)
	binary.LittleEndian.PutUint32(buf[0:4], statsbuf.MeasAWB)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(cellCount))
	for i := 0; i < cellCount; i++ {
		off := 8 + i*testAwbRecordSize
		buf[off+0] = gr
		buf[off+1] = r
		buf[off+2] = b
		buf[off+3] = gb
		buf[off+4] = satRatio
	}
	return buf
}

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()

	orc, err := Init(nil, statsbuf.RevisionV2)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	err = orc.Configure(ConfigureParams{
		StreamSize:    Size{Width: 1280, Height: 720},
		BdsOutputSize: Size{Width: 1280, Height: 720},
		ControlRanges: map[sensor.ControlID]sensor.Range{
			sensor.Exposure:     {Min: 1, Max: 2000},
			sensor.AnalogueGain: {Min: 0, Max: 240},
		},
		ControlDelays: map[sensor.ControlID]int{
			sensor.Exposure:     2,
			sensor.AnalogueGain: 1,
		},
		GainHelper:   sensor.NewHelper(16, sensor.Range{Min: 0, Max: 240}),
		LineDuration: 16800 * time.Nanosecond,
		MinShutter:   100 * time.Microsecond,
		MaxShutter:   33 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	return orc
}

func TestInitRejectsUnsupportedRevision(t *testing.T) {
	_, err := Init(nil, statsbuf.Revision(99))
	if err == nil {
		t.Fatal("expected an error for an unrecognized revision")
	}
	ierr, ok := err.(*Error)
	if !ok || ierr.Kind != UnsupportedHardware {
		t.Errorf("err = %v, want an UnsupportedHardware *Error", err)
	}
}

func TestConfigureRequiresControlRanges(t *testing.T) {
	orc, err := Init(nil, statsbuf.RevisionV2)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	err = orc.Configure(ConfigureParams{
		StreamSize:    Size{Width: 1280, Height: 720},
		BdsOutputSize: Size{Width: 1280, Height: 720},
		ControlRanges: map[sensor.ControlID]sensor.Range{},
	})
	ierr, ok := err.(*Error)
	if !ok || ierr.Kind != MissingControl {
		t.Errorf("err = %v, want a MissingControl *Error", err)
	}
	if orc.Configured() {
		t.Error("Configured() = true after a failed Configure call")
	}
}

func TestOnStatsReadyPublishesMetadataReady(t *testing.T) {
	orc := newTestOrchestrator(t)
	orc.Admit(1)

	buf := buildUniformStatsBuf(orc.CellCount(), 100, 100, 100, 100, 0)
	if err := orc.OnStatsReady(1, buf, 33*time.Millisecond); err != nil {
		t.Fatalf("OnStatsReady: %v", err)
	}

	select {
	case ev := <-orc.Events():
		if ev.Kind != MetadataReady || ev.FrameID != 1 {
			t.Errorf("event = %+v, want {MetadataReady, 1}", ev)
		}
	default:
		t.Fatal("no event published")
	}

	if _, ok := orc.Metadata(1); !ok {
		t.Error("Metadata(1) not found after a successful OnStatsReady")
	}
}

func TestManualExposureOverrideDoesNotError(t *testing.T) {
	orc := newTestOrchestrator(t)
	orc.ApplyConfig(&config.Config{AeEnable: false, ExposureTime: 10000, AnalogueGain: 2.0})
	orc.Admit(1)

	buf := buildUniformStatsBuf(orc.CellCount(), 100, 100, 100, 100, 0)
	if err := orc.OnStatsReady(1, buf, 33*time.Millisecond); err != nil {
		t.Fatalf("OnStatsReady with manual exposure: %v", err)
	}
}

func TestColourGainsOverrideWinsOverAwb(t *testing.T) {
	orc := newTestOrchestrator(t)
	orc.ApplyConfig(&config.Config{AeEnable: true, AwbEnable: true, ColourGainR: 1.8, ColourGainB: 0.6})
	orc.Admit(1)

	// A strong red cast that would otherwise push AWB's gains in the
	// opposite direction of the override.
	buf := buildUniformStatsBuf(orc.CellCount(), 90, 180, 60, 90, 0)
	if err := orc.OnStatsReady(1, buf, 33*time.Millisecond); err != nil {
		t.Fatalf("OnStatsReady: %v", err)
	}

	md, ok := orc.Metadata(1)
	if !ok {
		t.Fatal("Metadata(1) not found")
	}
	if md.ColourGainR != 1.8 || md.ColourGainB != 0.6 {
		t.Errorf("ColourGains = (%v,%v), want the configured override (1.8,0.6)", md.ColourGainR, md.ColourGainB)
	}
}

func TestAwbDegenerateReusesPreviousGains(t *testing.T) {
	orc := newTestOrchestrator(t)
	orc.Admit(1)

	// Every cell fully saturated: no zone is counted, so AWB must reuse the
	// Configure-time default result rather than produce a degenerate gain.
	buf := buildUniformStatsBuf(orc.CellCount(), 100, 100, 100, 100, 255)
	if err := orc.OnStatsReady(1, buf, 33*time.Millisecond); err != nil {
		t.Fatalf("OnStatsReady: %v", err)
	}

	md, ok := orc.Metadata(1)
	if !ok {
		t.Fatal("Metadata(1) not found")
	}
	if md.ColourGainR != 0 || md.ColourGainB != 0 {
		t.Errorf("ColourGains = (%v,%v), want unchanged Configure-time defaults (0,0)", md.ColourGainR, md.ColourGainB)
	}
}

func TestOnStatsReadyRecoversFromInvalidStats(t *testing.T) {
	orc := newTestOrchestrator(t)
	orc.Admit(1)

	err := orc.OnStatsReady(1, []byte{0, 1, 2}, 33*time.Millisecond) // Far too short to be a valid buffer.
	if err == nil {
		t.Fatal("expected an error for a too-short stats buffer")
	}
	ierr, ok := err.(*Error)
	if !ok || ierr.Kind != InvalidStats {
		t.Errorf("err = %v, want an InvalidStats *Error", err)
	}

	select {
	case ev := <-orc.Events():
		if ev.Kind != MetadataReady {
			t.Errorf("event = %+v, want MetadataReady even on decode failure", ev)
		}
	default:
		t.Error("expected a MetadataReady event even though stats decode failed")
	}
}

func TestOnFillParamsMarksParamFilled(t *testing.T) {
	orc := newTestOrchestrator(t)
	fi := orc.Admit(1)

	paramBuf := make([]byte, 2000)
	if err := orc.OnFillParams(1, paramBuf); err != nil {
		t.Fatalf("OnFillParams: %v", err)
	}
	if !fi.ParamFilled {
		t.Error("ParamFilled not set after OnFillParams")
	}
}

func TestFrameCompletesAndIsReaped(t *testing.T) {
	orc := newTestOrchestrator(t)
	orc.Admit(1)

	paramBuf := make([]byte, 2000)
	if err := orc.OnFillParams(1, paramBuf); err != nil {
		t.Fatalf("OnFillParams: %v", err)
	}
	orc.OnParamsDequeued(1)

	buf := buildUniformStatsBuf(orc.CellCount(), 100, 100, 100, 100, 0)
	if err := orc.OnStatsReady(1, buf, 33*time.Millisecond); err != nil {
		t.Fatalf("OnStatsReady: %v", err)
	}

	if _, ok := orc.Metadata(1); !ok {
		t.Fatal("Metadata(1) not found")
	}
	if _, ok := orc.frames[1]; ok {
		t.Error("frame 1 still in the frame table after all three completion flags were set")
	}
}
