package frame

// Format is the pixel layout of a camera output stream.
type Format string

const (
	// FormatYUV420 is the flexible 8-bit YUV 4:2:0 output used for preview
	// and analysis streams.
	FormatYUV420 Format = "YUV420"

	// Compressed Formats

	// FormatJPEG is the still capture format.
	FormatJPEG Format = "JPEG"

	// Bayer Formats

	// FormatRAW10 is 10-bit packed Bayer data.
	FormatRAW10 Format = "RAW10"
	// FormatRAWSensor is unprocessed 16-bit Bayer data.
	FormatRAWSensor Format = "RAW_SENSOR"
)

// IsRAW reports whether f belongs to the RAW family.
func (f Format) IsRAW() bool {
	return f == FormatRAW10 || f == FormatRAWSensor
}

// Known reports whether f is one of the formats above. Anything else is
// reported by hardware but never selected.
func (f Format) Known() bool {
	switch f {
	case FormatYUV420, FormatJPEG, FormatRAW10, FormatRAWSensor:
		return true
	}
	return false
}
