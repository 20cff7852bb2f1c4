//go:build !linux

package camera

import "github.com/pion/previewsense/pkg/prop"

// Discover finds no devices outside Linux.
func Discover() ([]Device, error) {
	return nil, errUnsupported
}

// Probe is only implemented on Linux.
func Probe(Device) (prop.Capabilities, error) {
	return prop.Capabilities{}, errUnsupported
}
