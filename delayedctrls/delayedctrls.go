/*
DESCRIPTION
  delayedctrls.go implements the delayed-controls state machine: a per-
  control ring buffer that compensates for the sensor's pipeline latency, so
  that the control value observed "in effect" at frame F is the value
  programmed N frames earlier.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package delayedctrls implements the delayed-controls ring buffer that
// aligns a pushed sensor control value with the frame in which the sensor
// actually applies it.
package delayedctrls

import "sync"

// ringSize is the number of entries retained per control.
const ringSize = 16

// entry is one slot of a control's ring buffer.
type entry struct {
	value   int32
	updated bool
}

// Controls is a per-control-id ring of delayed values, serialized by a
// single mutex as required by the ordering guarantees in the concurrency
// model: push, frame_start and get are all mutually exclusive.
type Controls struct {
	mu sync.Mutex

	delays map[int]int // Per-control-id delay N, in frames.
	ring   map[int]*[ringSize]entry

	queueCount uint64 // Next write index.
	writeCount uint64 // Number of FrameStart calls since Reset.
	maxDelay   int

	firstSeq     uint64
	haveFirstSeq bool
}

// New returns a Controls ring for the given per-control delays (frames).
func New(delays map[int]int) *Controls {
	c := &Controls{
		delays: delays,
		ring:   make(map[int]*[ringSize]entry, len(delays)),
	}
	for id := range delays {
		c.ring[id] = &[ringSize]entry{}
	}
	for _, n := range delays {
		if n > c.maxDelay {
			c.maxDelay = n
		}
	}
	return c
}

// Reset seeds the ring with initial control values (typically read from the
// sensor) and resets the write/queue counters.
func (c *Controls) Reset(initial map[int]int32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, ring := range c.ring {
		v, ok := initial[id]
		for i := range ring {
			ring[i] = entry{value: v, updated: ok}
		}
	}
	c.queueCount = 1
	c.writeCount = 0
	c.haveFirstSeq = false
}

// Push copies the previous queue slot's values forward and overlays
// controls on top, advancing queueCount. It returns false if controls
// contains an id this Controls was not constructed with.
func (c *Controls) Push(controls map[int]int32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pushLocked(controls)
}

func (c *Controls) pushLocked(controls map[int]int32) bool {
	for id := range controls {
		if _, ok := c.ring[id]; !ok {
			return false
		}
	}

	prevIdx := (c.queueCount - 1) % ringSize
	idx := c.queueCount % ringSize

	for id, ring := range c.ring {
		ring[idx] = ring[prevIdx]
		if v, ok := controls[id]; ok {
			ring[idx] = entry{value: v, updated: true}
		}
	}
	c.queueCount++
	return true
}

// Get returns the control values that were in effect at sensor sequence
// number sequence.
func (c *Controls) Get(sequence uint64) map[int]int32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.noteSequence(sequence)

	index := int64(sequence) - int64(c.firstSeq) + 1 - int64(c.maxDelay)
	if index < 0 {
		index = 0
	}

	out := make(map[int]int32, len(c.ring))
	for id, ring := range c.ring {
		out[id] = ring[uint64(index)%ringSize].value
	}
	return out
}

// FrameStart looks up, for each control, the value that should be applied
// at this frame and returns those that have been updated since Reset. It
// also auto-fills the queue if writes have fallen behind pushes.
func (c *Controls) FrameStart(sequence uint64) map[int]int32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.noteSequence(sequence)

	if c.writeCount >= c.queueCount {
		c.pushLocked(nil)
	}

	out := make(map[int]int32, len(c.ring))
	for id, ring := range c.ring {
		n := c.delays[id]
		idx := int64(c.writeCount) - int64(c.maxDelay-n)
		if idx < 0 {
			idx = 0
		}
		e := ring[uint64(idx)%ringSize]
		if e.updated {
			out[id] = e.value
		}
	}
	c.writeCount++
	return out
}

// QueueDepth returns the number of queue slots pushed but not yet consumed
// by FrameStart.
func (c *Controls) QueueDepth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int(c.queueCount - c.writeCount)
}

// noteSequence establishes the sequence-number reference point the first
// time either Get or FrameStart observes one: first_sequence is the
// sequence number of the frame immediately preceding the first FrameStart
// call, i.e. the sequence in effect when queue_count was last 1.
func (c *Controls) noteSequence(sequence uint64) {
	if c.haveFirstSeq {
		return
	}
	if sequence > 0 {
		c.firstSeq = sequence - 1
	}
	c.haveFirstSeq = true
}
