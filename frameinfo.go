/*
DESCRIPTION
  frameinfo.go defines FrameInfo, the per-frame bookkeeping record the Frame
  Orchestrator's frame table keeps from request admission until all three
  completion flags are set.

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

import "github.com/google/uuid"

// FrameInfo is the per-frame bookkeeping record the Orchestrator's frame
// table keeps from request admission until it is complete.
type FrameInfo struct {
	ID         uint64
	RawBufID   uint64
	ParamBufID uint64
	StatBufID  uint64

	ParamFilled   bool
	ParamDequeued bool
	MetadataDone  bool

	// RequestRef correlates this frame with the pipeline request that
	// admitted it.
	RequestRef uuid.UUID

	// Cancelled is set by Orchestrator.Stop, marking this entry as dropped
	// rather than completed.
	Cancelled bool
}

// Complete reports whether every completion flag is set.
func (f *FrameInfo) Complete() bool {
	return f.ParamFilled && f.ParamDequeued && f.MetadataDone
}

// newFrameInfo admits a new frame, stamping it with a fresh request
// reference.
func newFrameInfo(id uint64) *FrameInfo {
	return &FrameInfo{ID: id, RequestRef: uuid.New()}
}
