package prop

import (
	"fmt"
	"time"

	"github.com/pion/previewsense/pkg/frame"
)

// Facing is the direction a camera points relative to the screen.
type Facing string

const (
	FacingBack     Facing = "back"
	FacingFront    Facing = "front"
	FacingExternal Facing = "external"
)

// StreamFormatEntry is one (format, size) output the hardware reports, with the
// minimum time it needs between consecutive captures of that configuration.
type StreamFormatEntry struct {
	Format        frame.Format
	Size          frame.Size
	StallDuration time.Duration
}

func (e StreamFormatEntry) String() string {
	return fmt.Sprintf("%s %s stall=%s", e.Format, e.Size, e.StallDuration)
}

// Capabilities is a snapshot of what a camera reported at session start.
// Streams keeps the order the driver reported them in; selection ties are
// broken by that order, so callers must not sort it.
type Capabilities struct {
	CameraID            string
	Facing              Facing
	Streams             []StreamFormatEntry
	ActiveArraySize     frame.Size
	SensorOrientation   int
	FaceDetectModes     []int
	EdgeModes           []int
	NoiseReductionModes []int
	HardwareLevelFull   bool
}

// Stream is a selected output configuration.
type Stream struct {
	Format frame.Format
	Size   frame.Size
}

func (s Stream) String() string {
	return fmt.Sprintf("%s %s", s.Format, s.Size)
}
