package frame

import "fmt"

// Size is a frame dimension in pixels.
type Size struct {
	Width, Height int
}

// Area returns Width*Height.
func (s Size) Area() int {
	return s.Width * s.Height
}

// AspectRatio returns long side over short side, so portrait and landscape
// sizes of the same shape compare equal. Degenerate sizes return 0.
func (s Size) AspectRatio() float64 {
	long, short := s.Width, s.Height
	if short > long {
		long, short = short, long
	}
	if short <= 0 {
		return 0
	}
	return float64(long) / float64(short)
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
