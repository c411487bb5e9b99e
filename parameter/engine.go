package parameter

import "time"

// Frame loop timing
const (
	// FrameRate is the target frames per second
	FrameRate = 30

	// FrameInterval is the frame period at FrameRate
	FrameInterval = time.Second / FrameRate

	// MinFrameRate and MaxFrameRate bound the configurable rate
	MinFrameRate = 1
	MaxFrameRate = 240
)

// EventQueueSize is the capacity of the terminal event channel, events beyond it are dropped
const EventQueueSize = 256
