// Package caps picks stream configurations from a camera's reported
// capability table.
//
// Selection is a single pass over the table in the order the driver reported
// it. YUV and JPEG pick the largest area; RAW picks the lowest stall duration
// among RAW10 and RAW_SENSOR entries. On ties the earlier entry wins, so the
// same table always yields the same answer.
package caps

import (
	"fmt"
	"slices"

	"github.com/pion/previewsense/internal/logging"
	"github.com/pion/previewsense/pkg/frame"
	"github.com/pion/previewsense/pkg/prop"
)

var logger = logging.NewLogger("previewsense/caps")

// Options configures a Selector.
type Options struct {
	Policy Policy
}

// Option is a type of Selector functional option.
type Option func(*Options)

// WithPolicy replaces the built-in device policy table.
func WithPolicy(p Policy) Option {
	return func(o *Options) {
		o.Policy = p
	}
}

// Selector answers stream configuration queries over an immutable
// capability snapshot. It is safe for concurrent use.
type Selector struct {
	caps   prop.Capabilities
	policy Policy

	yuv          *frame.Size
	jpeg         *frame.Size
	raw          *prop.Stream
	bestFaceMode int
}

// New builds a Selector from c. It always returns a usable Selector; when the
// table holds nothing selectable it also returns ErrNoCapabilities and every
// stream query reports unavailable.
func New(c prop.Capabilities, opts ...Option) (*Selector, error) {
	o := Options{Policy: DefaultPolicy()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Selector{
		caps:   cloneCapabilities(c),
		policy: o.Policy,
	}
	s.selectStreams()

	for _, m := range s.caps.FaceDetectModes {
		if m > s.bestFaceMode {
			s.bestFaceMode = m
		}
	}

	if s.yuv == nil && s.jpeg == nil && s.raw == nil {
		logger.Errorf("camera %q: no usable streams in %d reported entries", c.CameraID, len(c.Streams))
		return s, fmt.Errorf("camera %q: %w", c.CameraID, ErrNoCapabilities)
	}

	logger.Debugf("camera %q: yuv=%v jpeg=%v raw=%v", c.CameraID, s.yuv, s.jpeg, s.raw)
	return s, nil
}

// candidate tracks the running winner of one reduction. better must be a
// strict ordering so that an equal later entry never replaces the winner.
type candidate struct {
	entry  prop.StreamFormatEntry
	ok     bool
	better func(a, b prop.StreamFormatEntry) bool
}

func (c *candidate) offer(e prop.StreamFormatEntry) {
	if !c.ok || c.better(e, c.entry) {
		c.entry = e
		c.ok = true
	}
}

func largerArea(a, b prop.StreamFormatEntry) bool {
	return a.Size.Area() > b.Size.Area()
}

func shorterStall(a, b prop.StreamFormatEntry) bool {
	return a.StallDuration < b.StallDuration
}

func (s *Selector) selectStreams() {
	yuv := candidate{better: largerArea}
	jpeg := candidate{better: largerArea}
	raw := candidate{better: shorterStall}

	for _, e := range s.caps.Streams {
		if !e.Format.Known() || e.Size.Width <= 0 || e.Size.Height <= 0 {
			continue
		}

		switch {
		case e.Format == frame.FormatYUV420:
			yuv.offer(e)
		case e.Format == frame.FormatJPEG:
			jpeg.offer(e)
		case e.Format.IsRAW():
			raw.offer(e)
		}
	}

	if yuv.ok {
		size := yuv.entry.Size
		s.yuv = &size
	}
	if jpeg.ok {
		size := jpeg.entry.Size
		s.jpeg = &size
	}
	if raw.ok {
		s.raw = &prop.Stream{Format: raw.entry.Format, Size: raw.entry.Size}
	}
}

func cloneCapabilities(c prop.Capabilities) prop.Capabilities {
	c.Streams = slices.Clone(c.Streams)
	c.FaceDetectModes = slices.Clone(c.FaceDetectModes)
	c.EdgeModes = slices.Clone(c.EdgeModes)
	c.NoiseReductionModes = slices.Clone(c.NoiseReductionModes)
	return c
}

// LargestYUVSize returns the largest YUV420 output size.
func (s *Selector) LargestYUVSize() (frame.Size, bool) {
	if s.yuv == nil {
		return frame.Size{}, false
	}
	return *s.yuv, true
}

// LargestJPEGSize returns the largest JPEG output size.
func (s *Selector) LargestJPEGSize() (frame.Size, bool) {
	if s.jpeg == nil {
		return frame.Size{}, false
	}
	return *s.jpeg, true
}

// BestRAWStream returns the RAW configuration with the lowest stall duration.
func (s *Selector) BestRAWStream() (prop.Stream, bool) {
	if s.raw == nil {
		return prop.Stream{}, false
	}
	return *s.raw, true
}

// RAWAvailable reports whether the camera offers a RAW stream. It is true
// exactly when BestRAWStream reports ok.
func (s *Selector) RAWAvailable() bool {
	return s.raw != nil
}

// SecondaryYUVSize is the fixed size of the analysis stream that runs next to
// preview.
func (s *Selector) SecondaryYUVSize() frame.Size {
	return s.policy.SecondaryYUV
}

// FaceDetectionBestMode returns the highest supported face detection mode,
// or 0 (off) if the camera supports none.
func (s *Selector) FaceDetectionBestMode() int {
	return s.bestFaceMode
}

// PreviewTargetSize picks the preview size from the policy table using the
// aspect ratio of the largest YUV size.
func (s *Selector) PreviewTargetSize(device DeviceHint) (frame.Size, error) {
	if s.yuv == nil {
		return frame.Size{}, fmt.Errorf("preview target: %w: %s", ErrMissingStream, frame.FormatYUV420)
	}

	switch {
	case s.yuv.AspectRatio() > s.policy.AspectThreshold:
		return s.policy.Wide, nil
	case s.policy.narrowPreview(device):
		return s.policy.NarrowDeviceOverride, nil
	default:
		return s.policy.Default, nil
	}
}

// FaceCoordinateOffset returns the offset of the largest YUV frame inside the
// active array, the origin face coordinates are reported against.
func (s *Selector) FaceCoordinateOffset() (dx, dy int, err error) {
	if s.yuv == nil {
		return 0, 0, fmt.Errorf("face offset: %w: %s", ErrMissingStream, frame.FormatYUV420)
	}

	active := s.caps.ActiveArraySize
	return (active.Width - s.yuv.Width) / 2, (active.Height - s.yuv.Height) / 2, nil
}

// ReprocessingAvailable reports whether the device family is known to support
// reprocessing. This is a policy lookup and does not consult the hardware.
func (s *Selector) ReprocessingAvailable(device DeviceHint) bool {
	return s.policy.reprocessing(device)
}

// DiopterRange returns the usable focus range for the device family.
func (s *Selector) DiopterRange(device DeviceHint) DiopterRange {
	return s.policy.diopter(device)
}

// CameraID returns the identifier the capabilities were reported under.
func (s *Selector) CameraID() string {
	return s.caps.CameraID
}

// Facing returns the lens direction.
func (s *Selector) Facing() prop.Facing {
	return s.caps.Facing
}

// ActiveArraySize returns the sensor area face coordinates are reported in.
func (s *Selector) ActiveArraySize() frame.Size {
	return s.caps.ActiveArraySize
}

// SensorOrientation is the clockwise rotation in degrees needed to show the
// sensor image upright.
func (s *Selector) SensorOrientation() int {
	return s.caps.SensorOrientation
}

// FullHardwareLevel reports whether the camera claims full per-frame control.
func (s *Selector) FullHardwareLevel() bool {
	return s.caps.HardwareLevelFull
}

// EdgeModes returns a copy of the supported edge enhancement modes.
func (s *Selector) EdgeModes() []int {
	return slices.Clone(s.caps.EdgeModes)
}

// NoiseReductionModes returns a copy of the supported noise reduction modes.
func (s *Selector) NoiseReductionModes() []int {
	return slices.Clone(s.caps.NoiseReductionModes)
}

// PickFacing returns the first camera in cameras that points in the given
// direction. Order matters: drivers list the primary camera of each facing
// first.
func PickFacing(cameras []prop.Capabilities, facing prop.Facing) (prop.Capabilities, bool) {
	for _, c := range cameras {
		if c.Facing == facing {
			return c, true
		}
	}
	return prop.Capabilities{}, false
}
