/*
DESCRIPTION
  orchestrator.go implements the Frame Orchestrator: the single entry point
  the pipeline handler calls into for init/configure, per-frame statistics
  processing, and parameter-buffer filling. It owns the running algorithm
  state and drives the six-step per-frame algorithm order.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ipa implements the per-frame Image Processing Algorithms control
// loop for a raw-Bayer ISP pipeline: the Frame Orchestrator ties together
// statistics extraction, AWB, AGC, Contrast/Gamma, AF and Delayed Controls.
package ipa

import (
	"math"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/ipa/af"
	"github.com/ausocean/ipa/agc"
	"github.com/ausocean/ipa/awb"
	"github.com/ausocean/ipa/config"
	"github.com/ausocean/ipa/delayedctrls"
	"github.com/ausocean/ipa/gamma"
	"github.com/ausocean/ipa/grid"
	"github.com/ausocean/ipa/metrics"
	"github.com/ausocean/ipa/parambuf"
	"github.com/ausocean/ipa/sensor"
	"github.com/ausocean/ipa/statsbuf"
	"github.com/ausocean/ipa/zone"
)

// minZonesForAwb mirrors the AWB package's own degenerate-input threshold,
// kept here only to decide whether to bump the AwbDegenerateFrames metric.
const minZonesForAwb = 10

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height int
}

// ConfigureParams bundles the stream/hardware facts Configure needs to seed
// the grid, the AGC search space, the gain helper and the delayed-controls
// ring.
type ConfigureParams struct {
	StreamSize    Size
	BdsOutputSize Size

	ControlRanges map[sensor.ControlID]sensor.Range
	ControlDelays map[sensor.ControlID]int

	GainHelper sensor.Helper

	LineDuration           time.Duration
	MinShutter, MaxShutter time.Duration

	// AfRange, if non-nil, enables AF over the given VCM step range.
	AfRange *sensor.Range
}

// Orchestrator owns the running 3A algorithm state across frames and
// drives the per-frame statistics-to-parameters pipeline described by the
// frame lifecycle.
type Orchestrator struct {
	log      logging.Logger
	revision statsbuf.Revision

	grid      grid.Grid
	cellCount int
	ranges    agc.Ranges
	gainHelp  sensor.Helper

	agcState  agc.State
	awbResult awb.Result
	afState   *af.Af
	prevAf    af.State
	gammaLUT  [gamma.LUTSize]uint16

	metrics *metrics.Metrics

	delayed *delayedctrls.Controls

	frames   map[uint64]*FrameInfo
	metadata map[uint64]Metadata

	events chan Event

	cfg *config.Config
}

// Metadata returns the published result metadata for frameID, if any.
func (o *Orchestrator) Metadata(frameID uint64) (Metadata, bool) {
	m, ok := o.metadata[frameID]
	return m, ok
}

// Init validates the ISP hardware revision and prepares an Orchestrator for
// Configure. It fails with an UnsupportedHardware Error for an unknown
// revision.
func Init(log logging.Logger, revision statsbuf.Revision) (*Orchestrator, error) {
	switch revision {
	case statsbuf.RevisionV1, statsbuf.RevisionV2:
	default:
		return nil, newErr(UnsupportedHardware, "unknown statistics buffer revision")
	}

	return &Orchestrator{
		log:      log,
		revision: revision,
		frames:   make(map[uint64]*FrameInfo),
		metadata: make(map[uint64]Metadata),
		events:   make(chan Event, 16),
	}, nil
}

// Configure resolves the statistics grid, seeds the AGC search space and
// the delayed-controls ring, and prepares AF if params.AfRange is set. It
// fails with a MissingControl Error if the EXPOSURE or ANALOGUE_GAIN
// control ranges are not reported.
func (o *Orchestrator) Configure(params ConfigureParams) error {
	expRange, ok := params.ControlRanges[sensor.Exposure]
	if !ok {
		return newErr(MissingControl, "EXPOSURE control range not reported")
	}
	gainRange, ok := params.ControlRanges[sensor.AnalogueGain]
	if !ok {
		return newErr(MissingControl, "ANALOGUE_GAIN control range not reported")
	}

	g, coverage := grid.Resolve(params.BdsOutputSize.Width, params.BdsOutputSize.Height)
	if !g.Valid(params.StreamSize.Width, params.StreamSize.Height) && o.log != nil {
		o.log.Warning("ipa: resolved grid fails validity check against stream size")
	}
	if grid.LowCoverage(coverage) && o.log != nil {
		o.log.Warning("ipa: resolved grid covers little of the BDS output area", "coverage", coverage)
	}

	o.grid = g
	o.cellCount = g.Width * g.Height
	o.gainHelp = params.GainHelper

	o.ranges = agc.Ranges{
		MinExposureLines: uint32(expRange.Min),
		MaxExposureLines: uint32(expRange.Max),
		MinGain:          params.GainHelper.Gain(gainRange.Min),
		MaxGain:          params.GainHelper.Gain(gainRange.Max),
		MinShutter:       params.MinShutter,
		MaxShutter:       params.MaxShutter,
		LineDuration:     params.LineDuration,
	}

	delays := make(map[int]int, len(params.ControlDelays))
	for id, n := range params.ControlDelays {
		delays[int(id)] = n
	}
	o.delayed = delayedctrls.New(delays)
	o.delayed.Reset(nil)

	if params.AfRange != nil {
		o.afState = af.New(uint32(params.AfRange.Min), uint32(params.AfRange.Max))
	}

	o.agcState = agc.State{}
	o.awbResult = awb.Result{GreenGain: 1}
	o.gammaLUT = gamma.BuildLUT(gamma.DefaultTarget)

	return nil
}

// Configured reports whether Configure has run.
func (o *Orchestrator) Configured() bool { return o.cellCount > 0 }

// CellCount returns the resolved BDS grid's cell count, for callers that
// need to size a statistics buffer before calling OnStatsReady.
func (o *Orchestrator) CellCount() int { return o.cellCount }

// Events returns the channel Event values are published on as frames
// progress.
func (o *Orchestrator) Events() <-chan Event { return o.events }

// Admit opens a new FrameInfo entry for a frame id, returning it.
func (o *Orchestrator) Admit(frameID uint64) *FrameInfo {
	fi := newFrameInfo(frameID)
	o.frames[frameID] = fi
	return fi
}

// OnFillParams writes the current algorithm outputs (AWB gains, gamma LUT)
// into paramBuf, which must be at least parambuf.Size bytes, and marks the
// frame's param_filled flag.
func (o *Orchestrator) OnFillParams(frameID uint64, paramBuf []byte) error {
	fi, ok := o.frames[frameID]
	if !ok {
		fi = o.Admit(frameID)
	}

	encoded, err := parambuf.Encode(parambuf.Frame{
		AwbRedGain:     o.awbResult.RedGain,
		AwbBlueGain:    o.awbResult.BlueGain,
		GammaLUT:       o.gammaLUT,
		ModulesChanged: parambuf.ModuleAWB | parambuf.ModuleGamma,
	})
	if err != nil {
		return wrapErr(BufferMappingFailed, err)
	}
	if len(paramBuf) < len(encoded) {
		return newErr(BufferMappingFailed, "parameter buffer shorter than encoded payload")
	}
	copy(paramBuf, encoded)

	fi.ParamFilled = true
	o.publish(Event{Kind: ParamsFilled, FrameID: frameID})
	return nil
}

// OnParamsDequeued marks a frame's param_dequeued flag, and removes the
// frame from the table once it is complete.
func (o *Orchestrator) OnParamsDequeued(frameID uint64) {
	fi, ok := o.frames[frameID]
	if !ok {
		return
	}
	fi.ParamDequeued = true
	o.reap(frameID, fi)
}

// OnStatsReady runs the six-step per-frame algorithm pipeline over a
// frame's decoded statistics buffer: extract zones/histogram, AGC, AWB,
// Contrast/Gamma, AF, and (if AGC changed) push the new sensor controls to
// Delayed Controls. statsBuf decode failures are classified InvalidStats
// and recovered in place: the frame completes with stale outputs.
func (o *Orchestrator) OnStatsReady(frameID uint64, statsBuf []byte, ts time.Duration) error {
	fi, ok := o.frames[frameID]
	if !ok {
		fi = o.Admit(frameID)
	}

	if o.metrics != nil {
		start := time.Now()
		defer func() { o.metrics.FrameProcessDuration.Observe(time.Since(start).Seconds()) }()
	}

	stats, err := statsbuf.Decode(o.revision, statsBuf, o.cellCount)
	if err != nil {
		if o.log != nil {
			o.log.Warning("ipa: invalid stats buffer, frame completes with stale outputs", "frame", frameID, "err", err.Error())
		}
		fi.MetadataDone = true
		o.publish(Event{Kind: MetadataReady, FrameID: frameID})
		o.reap(frameID, fi)
		return wrapErr(InvalidStats, err)
	}

	zones, hist, err := zone.Extract(stats.Awb, o.grid)
	if err != nil {
		return wrapErr(InvalidStats, err)
	}

	weights := o.meteringWeights()

	prevLines, prevGain := o.agcState.ExposureLines, o.agcState.AnalogueGain
	var exposureLines uint32
	var gain float64
	if o.cfg != nil && !o.cfg.AeEnable {
		// Manual exposure/gain: AeExposureValue is ignored while AGC is
		// disabled, since there is no automatic target for it to bias.
		exposureLines, gain = o.manualExposure()
		o.agcState.ExposureLines = exposureLines
		o.agcState.AnalogueGain = gain
	} else {
		exposureLines, gain = agc.Process(&o.agcState, o.ranges, hist, zones, o.awbResult, weights)
		if o.cfg != nil && o.cfg.AeExposureValue != 0 {
			gain = clampGain(gain*exp2(o.cfg.AeExposureValue), o.ranges.MinGain, o.ranges.MaxGain)
			o.agcState.AnalogueGain = gain
		}
		if o.metrics != nil {
			o.metrics.AgcFrames.Inc()
			if o.agcState.Converged() {
				o.metrics.AgcConvergedFrames.Inc()
			}
		}
	}

	if o.cfg == nil || o.cfg.AwbEnable {
		if o.metrics != nil && len(zone.ValidZones(zones)) < minZonesForAwb {
			o.metrics.AwbDegenerateFrames.Inc()
		}
		o.awbResult = awb.Process(o.log, o.awbResult, zones)
	}
	if o.cfg != nil && o.cfg.ColourGainR != 0 && o.cfg.ColourGainB != 0 {
		o.awbResult.RedGain = o.cfg.ColourGainR
		o.awbResult.BlueGain = o.cfg.ColourGainB
	}

	gammaTarget := gamma.DefaultTarget
	if o.cfg != nil && o.cfg.Contrast > 0 {
		gammaTarget = contrastToGammaTarget(o.cfg.Contrast)
	}
	o.gammaLUT = gamma.BuildLUT(gammaTarget)

	afScanState := af.Idle
	afMode := af.Manual
	if o.afState != nil {
		contrast := hist.InterQuantileMean(0.1, 0.9)
		_, afScanState = o.afState.Advance(contrast)
		afMode = o.afState.GetMode()
		if o.metrics != nil && afScanState == af.Locked && o.prevAf != af.Locked {
			o.metrics.AfLockedTransitions.Inc()
		}
		o.prevAf = afScanState
	}

	if exposureLines != prevLines || gain != prevGain {
		o.delayed.Push(map[int]int32{
			int(sensor.Exposure):     int32(exposureLines),
			int(sensor.AnalogueGain): o.gainHelp.GainCode(gain),
		})
	}
	if o.metrics != nil {
		o.metrics.DelayedQueueDepth.Set(float64(o.delayed.QueueDepth()))
	}

	o.metadata[frameID] = Metadata{
		FrameDuration:     ts,
		AeLocked:          o.agcState.Converged(),
		AfMode:            afMode,
		AfScanState:       afScanState,
		ColourGainR:       o.awbResult.RedGain,
		ColourGainB:       o.awbResult.BlueGain,
		ColourTemperature: o.awbResult.TemperatureK,
		PipelineDepth:     len(o.frames),
	}

	fi.MetadataDone = true
	o.publish(Event{Kind: MetadataReady, FrameID: frameID})
	o.reap(frameID, fi)

	return nil
}

// FrameStart advances the delayed-controls ring for a sensor sequence
// number, returning the controls that must be written to the sensor now.
func (o *Orchestrator) FrameStart(sequence uint64) map[int]int32 {
	return o.delayed.FrameStart(sequence)
}

// Stop drains all in-flight frames, marking them cancelled, and resets
// running algorithm state.
func (o *Orchestrator) Stop() {
	for id, fi := range o.frames {
		fi.Cancelled = true
		delete(o.frames, id)
	}
	o.agcState = agc.State{}
	o.awbResult = awb.Result{GreenGain: 1}
	if o.afState != nil {
		o.afState.Cancel()
	}
}

// ApplyConfig installs the application controls for subsequent OnStatsReady
// calls: manual AE/AWB overrides, metering mode selection, and the
// contrast-driven dynamic gamma target.
func (o *Orchestrator) ApplyConfig(cfg *config.Config) {
	o.cfg = cfg
}

// SetMetrics attaches a Prometheus metrics set; subsequent OnStatsReady
// calls update it. Metrics are optional: a nil set (the zero value) is a
// no-op.
func (o *Orchestrator) SetMetrics(m *metrics.Metrics) {
	o.metrics = m
}

// manualExposure computes the exposure/gain pair to apply while AE is
// disabled: ExposureTime/AnalogueGain of 0 mean "keep the last automatic
// value" per the application-controls contract.
func (o *Orchestrator) manualExposure() (uint32, float64) {
	lines := o.agcState.ExposureLines
	if o.cfg.ExposureTime > 0 && o.ranges.LineDuration > 0 {
		shutter := time.Duration(o.cfg.ExposureTime) * time.Microsecond
		lines = uint32(shutter / o.ranges.LineDuration)
		if lines < o.ranges.MinExposureLines {
			lines = o.ranges.MinExposureLines
		}
		if lines > o.ranges.MaxExposureLines {
			lines = o.ranges.MaxExposureLines
		}
	}

	gain := o.agcState.AnalogueGain
	if gain == 0 {
		gain = o.ranges.MinGain
	}
	if o.cfg.AnalogueGain > 0 {
		gain = clampGain(o.cfg.AnalogueGain, o.ranges.MinGain, o.ranges.MaxGain)
	}

	return lines, gain
}

func (o *Orchestrator) meteringWeights() agc.Weights {
	if o.cfg == nil {
		return agc.CentreWeighted
	}
	switch o.cfg.AeMeteringMode {
	case config.MeteringSpot:
		return agc.Spot
	case config.MeteringMatrix:
		return agc.Matrix
	default:
		return agc.CentreWeighted
	}
}

func (o *Orchestrator) reap(frameID uint64, fi *FrameInfo) {
	if fi.Complete() {
		delete(o.frames, frameID)
	}
}

func (o *Orchestrator) publish(e Event) {
	select {
	case o.events <- e:
	default:
		if o.log != nil {
			o.log.Warning("ipa: event channel full, dropping event", "kind", e.Kind.String())
		}
	}
}

func clampGain(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func exp2(x float64) float64 { return math.Pow(2, x) }

// contrastToGammaTarget maps the [0,32] Contrast control linearly onto the
// dynamic gamma range [gamma.MinDynamic, gamma.MaxDynamic].
func contrastToGammaTarget(contrast float64) float64 {
	t := contrast / 32
	if t > 1 {
		t = 1
	}
	return gamma.MinDynamic + t*(gamma.MaxDynamic-gamma.MinDynamic)
}
