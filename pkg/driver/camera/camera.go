/*
Package camera probes video devices for the stream capability table that
caps.New consumes.

# Device Label Generation Rules

On Linux, a device found under /dev/v4l/by-path is labelled:

	pci-0000:00:00.0-usb-0:0:0.0-video-index0;video0

If /dev/v4l/by-path/* is not available (for example in a docker container without
bindings in /dev/v4l/by-path/), it will be:

	video0;video0
*/
package camera

import (
	"errors"

	"github.com/pion/previewsense/internal/logging"
)

// LabelSeparator is used to separate labels for a device that
// is found from multiple locations on a host.
const LabelSeparator = ";"

var (
	logger = logging.NewLogger("previewsense/driver/camera")

	errUnsupported = errors.New("camera probing is not supported on this platform")
)

// Device is a capture node found on the host.
type Device struct {
	Path  string
	Label string
}
