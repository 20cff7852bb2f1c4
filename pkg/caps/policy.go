package caps

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/pion/previewsense/pkg/frame"
	"gopkg.in/yaml.v3"
)

// DeviceHint identifies the host hardware the way build properties do. Policy
// families are matched against either field, case-insensitively.
type DeviceHint struct {
	Device  string
	Product string
}

func (h DeviceHint) matches(family string) bool {
	return family != "" && (strings.EqualFold(h.Device, family) || strings.EqualFold(h.Product, family))
}

// DiopterRange is the focus range in diopters. Low 0 means infinity.
type DiopterRange struct {
	Low  float32 `yaml:"low"`
	High float32 `yaml:"high"`
}

func (r DiopterRange) valid() bool {
	return r.Low >= 0 && r.High >= r.Low
}

// Policy holds the device-family rules that cannot be derived from the
// capability table. Reprocessing support in particular is a lookup, not a
// capability query, and is known to be incomplete.
type Policy struct {
	// AspectThreshold is the long/short ratio of the largest YUV size above
	// which the sensor is treated as widescreen.
	AspectThreshold      float64    `yaml:"aspect_threshold"`
	Wide                 frame.Size `yaml:"wide"`
	NarrowDeviceOverride frame.Size `yaml:"narrow_device_override"`
	Default              frame.Size `yaml:"default"`
	// SecondaryYUV is the small analysis stream configured next to preview.
	SecondaryYUV frame.Size `yaml:"secondary_yuv"`

	NarrowPreviewDevices []string `yaml:"narrow_preview_devices"`
	ReprocessingDevices  []string `yaml:"reprocessing_devices"`

	Diopter          DiopterRange            `yaml:"diopter"`
	DiopterOverrides map[string]DiopterRange `yaml:"diopter_overrides"`
}

// DefaultPolicy returns the built-in table.
func DefaultPolicy() Policy {
	return Policy{
		AspectThreshold:      1.6,
		Wide:                 frame.Size{Width: 1920, Height: 1080},
		NarrowDeviceOverride: frame.Size{Width: 1440, Height: 1080},
		Default:              frame.Size{Width: 1280, Height: 960},
		SecondaryYUV:         frame.Size{Width: 320, Height: 240},
		NarrowPreviewDevices: []string{"angler", "bullhead"},
		ReprocessingDevices:  []string{"angler", "bullhead"},
		Diopter:              DiopterRange{Low: 0, High: 16},
		DiopterOverrides: map[string]DiopterRange{
			"shamu": {Low: 0, High: 14.29},
		},
	}
}

// LoadPolicy reads a YAML policy. Fields missing from the document keep their
// DefaultPolicy values; an empty document yields the defaults. A field that is
// present replaces its default wholesale: device lists and diopter_overrides
// are not merged with the built-in entries.
func LoadPolicy(r io.Reader) (Policy, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to read policy: %w", err)
	}

	p := DefaultPolicy()

	// yaml.v3 decodes a mapping into the existing map, which would keep the
	// built-in overrides alongside the document's.
	var top map[string]yaml.Node
	if yaml.Unmarshal(data, &top) == nil {
		if _, ok := top["diopter_overrides"]; ok {
			p.DiopterOverrides = nil
		}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Policy{}, fmt.Errorf("failed to decode policy: %w", err)
	}

	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// LoadPolicyFile is LoadPolicy for a file on disk.
func LoadPolicyFile(path string) (Policy, error) {
	f, err := os.Open(path)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to open policy file: %w", err)
	}
	defer f.Close()

	return LoadPolicy(f)
}

// Validate checks that every size is positive, every diopter range is
// ordered and the aspect threshold can split landscape from square sensors.
func (p Policy) Validate() error {
	if p.AspectThreshold <= 1 {
		return fmt.Errorf("%w: aspect_threshold must be greater than 1, got %v", ErrInvalidPolicy, p.AspectThreshold)
	}

	sizes := map[string]frame.Size{
		"wide":                   p.Wide,
		"narrow_device_override": p.NarrowDeviceOverride,
		"default":                p.Default,
		"secondary_yuv":          p.SecondaryYUV,
	}
	for name, s := range sizes {
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("%w: %s size must be positive, got %s", ErrInvalidPolicy, name, s)
		}
	}

	if !p.Diopter.valid() {
		return fmt.Errorf("%w: bad diopter range %v..%v", ErrInvalidPolicy, p.Diopter.Low, p.Diopter.High)
	}
	for _, family := range slices.Sorted(maps.Keys(p.DiopterOverrides)) {
		r := p.DiopterOverrides[family]
		if !r.valid() {
			return fmt.Errorf("%w: bad diopter range %v..%v for %s", ErrInvalidPolicy, r.Low, r.High, family)
		}
	}
	return nil
}

func (p Policy) narrowPreview(h DeviceHint) bool {
	return matchesAny(h, p.NarrowPreviewDevices)
}

func (p Policy) reprocessing(h DeviceHint) bool {
	return matchesAny(h, p.ReprocessingDevices)
}

func (p Policy) diopter(h DeviceHint) DiopterRange {
	for _, family := range slices.Sorted(maps.Keys(p.DiopterOverrides)) {
		if h.matches(family) {
			return p.DiopterOverrides[family]
		}
	}
	return p.Diopter
}

func matchesAny(h DeviceHint, families []string) bool {
	for _, f := range families {
		if h.matches(f) {
			return true
		}
	}
	return false
}
