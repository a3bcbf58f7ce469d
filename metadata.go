/*
DESCRIPTION
  metadata.go defines the per-frame result metadata the Orchestrator
  publishes once a frame's statistics have been processed.

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
	"time"

	"github.com/ausocean/ipa/af"
)

// Metadata is the recognized per-frame result metadata the Orchestrator
// publishes once a frame's statistics have been processed.
type Metadata struct {
	FrameDuration time.Duration
	AeLocked      bool

	// AfMode is one of Manual/Auto/Continuous (spec's AfState), the lens
	// driving mode. AfScanState is the contrast-detection scan's own
	// internal progress (Idle/CoarseScan/FineScan/Locked/Reset).
	AfMode      af.Mode
	AfScanState af.State

	ColourGainR       float64
	ColourGainB       float64
	ColourTemperature float64
	PipelineDepth     int
}
