package camera

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/blackjack/webcam"
	"github.com/pion/previewsense/pkg/frame"
	"github.com/pion/previewsense/pkg/prop"
)

func fourcc(a, b, c, d byte) webcam.PixelFormat {
	return webcam.PixelFormat(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// V4L2 pixel formats mapped onto the stream families the selector knows.
// Reference: https://www.kernel.org/doc/html/latest/userspace-api/media/v4l/pixfmt.html
var formats = map[webcam.PixelFormat]frame.Format{
	fourcc('N', 'V', '1', '2'): frame.FormatYUV420,
	fourcc('N', 'V', '2', '1'): frame.FormatYUV420,
	fourcc('Y', 'U', '1', '2'): frame.FormatYUV420,
	fourcc('Y', 'V', '1', '2'): frame.FormatYUV420,
	fourcc('M', 'J', 'P', 'G'): frame.FormatJPEG,
	fourcc('J', 'P', 'E', 'G'): frame.FormatJPEG,
	fourcc('p', 'B', 'A', 'A'): frame.FormatRAW10,
	fourcc('p', 'G', 'A', 'A'): frame.FormatRAW10,
	fourcc('p', 'g', 'A', 'A'): frame.FormatRAW10,
	fourcc('p', 'R', 'A', 'A'): frame.FormatRAW10,
	fourcc('B', 'Y', 'R', '2'): frame.FormatRAWSensor,
}

// Discover lists V4L2 capture nodes. Nodes reachable through
// /dev/v4l/by-path get the persistent name as the first label part.
func Discover() ([]Device, error) {
	seen := make(map[string]struct{})
	var devices []Device
	devices = discover(devices, seen, "/dev/v4l/by-path/*")
	devices = discover(devices, seen, "/dev/video*")
	if len(devices) == 0 {
		return nil, fmt.Errorf("no video devices: %w", os.ErrNotExist)
	}
	return devices, nil
}

func discover(devices []Device, seen map[string]struct{}, pattern string) []Device {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return devices
	}

	for _, match := range matches {
		target, err := filepath.EvalSymlinks(match)
		if err != nil {
			logger.Debugf("skipping %s: %v", match, err)
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}

		devices = append(devices, Device{
			Path:  target,
			Label: filepath.Base(match) + LabelSeparator + filepath.Base(target),
		})
	}
	return devices
}

// Probe opens the device just long enough to read its format table.
func Probe(d Device) (prop.Capabilities, error) {
	cam, err := webcam.Open(d.Path)
	if err != nil {
		return prop.Capabilities{}, fmt.Errorf("failed to open %s: %w", d.Path, err)
	}
	defer cam.Close()

	return capabilities(d.Label, cam), nil
}

type formatLister interface {
	GetSupportedFormats() map[webcam.PixelFormat]string
	GetSupportedFrameSizes(webcam.PixelFormat) []webcam.FrameSize
}

// capabilities flattens the driver's format table. The driver hands formats
// back as a map, so they are ordered by pixel format code to keep the table
// stable between probes; sizes keep the driver's enumeration order.
// V4L2 reports no stall durations and no active array, so the largest
// reported size stands in for the array.
func capabilities(label string, l formatLister) prop.Capabilities {
	c := prop.Capabilities{
		CameraID: label,
		Facing:   prop.FacingExternal,
	}

	var pixelFormats []webcam.PixelFormat
	for pf := range l.GetSupportedFormats() {
		pixelFormats = append(pixelFormats, pf)
	}
	sort.Slice(pixelFormats, func(i, j int) bool { return pixelFormats[i] < pixelFormats[j] })

	for _, pf := range pixelFormats {
		format, ok := formats[pf]
		if !ok {
			logger.Debugf("%s: ignoring pixel format %08x", label, uint32(pf))
			continue
		}

		for _, fs := range l.GetSupportedFrameSizes(pf) {
			size := frame.Size{Width: int(fs.MaxWidth), Height: int(fs.MaxHeight)}
			c.Streams = append(c.Streams, prop.StreamFormatEntry{Format: format, Size: size})
			if size.Area() > c.ActiveArraySize.Area() {
				c.ActiveArraySize = size
			}
		}
	}

	return c
}
