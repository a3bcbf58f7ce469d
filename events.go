/*
DESCRIPTION
  events.go defines the Orchestrator's frame-lifecycle event kinds, published
  on its event channel as frames progress through processing.

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

// EventKind identifies what changed about a frame.
type EventKind int

const (
	// ParamsFilled fires once OnFillParams has written a frame's parameter
	// buffer.
	ParamsFilled EventKind = iota

	// MetadataReady fires once OnStatsReady has finished processing a
	// frame's statistics and published its result metadata.
	MetadataReady
)

func (k EventKind) String() string {
	switch k {
	case ParamsFilled:
		return "ParamsFilled"
	case MetadataReady:
		return "MetadataReady"
	default:
		return "Unknown"
	}
}

// Event is published on the Orchestrator's event channel as frames
// progress through their lifecycle.
type Event struct {
	Kind    EventKind
	FrameID uint64
}
