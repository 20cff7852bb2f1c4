package camera

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blackjack/webcam"
	"github.com/pion/previewsense/pkg/caps"
	"github.com/pion/previewsense/pkg/frame"
	"github.com/pion/previewsense/pkg/prop"
)

func TestDiscover(t *testing.T) {
	const (
		shortName  = "video0"
		shortName2 = "video1"
		longName   = "long-device-name:0:1:2:3"
	)

	dir := t.TempDir()
	byPathDir := filepath.Join(dir, "v4l", "by-path")
	if err := os.MkdirAll(byPathDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, shortName), []byte{}, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, shortName2), []byte{}, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(
		filepath.Join(dir, shortName),
		filepath.Join(byPathDir, longName),
	); err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]struct{})
	var devices []Device
	devices = discover(devices, seen, filepath.Join(byPathDir, "*"))
	devices = discover(devices, seen, filepath.Join(dir, "video*"))

	if len(devices) != 2 {
		t.Fatalf("Expected 2 devices, got %d", len(devices))
	}

	expected := longName + LabelSeparator + shortName
	if label := devices[0].Label; label != expected {
		t.Errorf("Expected label: %s, got: %s", expected, label)
	}

	expectedNoLink := shortName2 + LabelSeparator + shortName2
	if label := devices[1].Label; label != expectedNoLink {
		t.Errorf("Expected label: %s, got: %s", expectedNoLink, label)
	}
}

type fakeLister struct {
	formats map[webcam.PixelFormat]string
	sizes   map[webcam.PixelFormat][]webcam.FrameSize
}

func (f *fakeLister) GetSupportedFormats() map[webcam.PixelFormat]string {
	return f.formats
}

func (f *fakeLister) GetSupportedFrameSizes(pf webcam.PixelFormat) []webcam.FrameSize {
	return f.sizes[pf]
}

func discrete(w, h uint32) webcam.FrameSize {
	return webcam.FrameSize{MinWidth: w, MaxWidth: w, MinHeight: h, MaxHeight: h}
}

func TestCapabilities(t *testing.T) {
	yuyv := fourcc('Y', 'U', 'Y', 'V')
	nv12 := fourcc('N', 'V', '1', '2')
	mjpg := fourcc('M', 'J', 'P', 'G')
	l := &fakeLister{
		formats: map[webcam.PixelFormat]string{
			yuyv: "YUYV 4:2:2",
			nv12: "Y/CbCr 4:2:0",
			mjpg: "Motion-JPEG",
		},
		sizes: map[webcam.PixelFormat][]webcam.FrameSize{
			yuyv: {discrete(640, 480)},
			nv12: {discrete(640, 480), discrete(1920, 1080), discrete(1280, 720)},
			mjpg: {discrete(1920, 1080), discrete(2592, 1944)},
		},
	}

	c := capabilities("video0;video0", l)
	if c.CameraID != "video0;video0" {
		t.Errorf("unexpected camera id %q", c.CameraID)
	}
	if len(c.Streams) != 5 {
		t.Fatalf("expected 5 streams, got %d: %v", len(c.Streams), c.Streams)
	}
	for _, s := range c.Streams {
		if s.Format != frame.FormatYUV420 && s.Format != frame.FormatJPEG {
			t.Errorf("unexpected format %s", s.Format)
		}
	}
	if c.ActiveArraySize != (frame.Size{Width: 2592, Height: 1944}) {
		t.Errorf("unexpected active array %v", c.ActiveArraySize)
	}

	again := capabilities("video0;video0", l)
	for i := range c.Streams {
		if c.Streams[i] != again.Streams[i] {
			t.Fatalf("stream order changed between probes at %d: %v != %v", i, c.Streams[i], again.Streams[i])
		}
	}

	s, err := caps.New(c)
	if err != nil {
		t.Fatal(err)
	}
	yuv, _ := s.LargestYUVSize()
	if yuv != (frame.Size{Width: 1920, Height: 1080}) {
		t.Errorf("unexpected yuv size %v", yuv)
	}
	if s.RAWAvailable() {
		t.Error("expected no raw stream")
	}
	if s.Facing() != prop.FacingExternal {
		t.Errorf("unexpected facing %s", s.Facing())
	}
}
