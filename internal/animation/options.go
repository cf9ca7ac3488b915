package animation

import "time"

// Options controls animation timing and the optional video copy.
type Options struct {
	// FrameDelay is how long each interior frame shows.
	FrameDelay time.Duration `yaml:"frame_delay"`
	// HoldDelay is how long the first and last frames show.
	HoldDelay time.Duration `yaml:"hold_delay"`
	// Width rescales frames before encoding; 0 keeps the rendered size.
	Width int `yaml:"width"`
	// Video, when set, also writes the frames as a Motion-JPEG AVI.
	Video string `yaml:"video"`
	FPS   int    `yaml:"fps"`
}

func DefaultOptions() Options {
	return Options{
		FrameDelay: 50 * time.Millisecond,
		HoldDelay:  time.Second,
		FPS:        20,
	}
}

// centiseconds converts d to GIF delay units, rounding to nearest and
// never below one unit.
func centiseconds(d time.Duration) int {
	cs := int((d + 5*time.Millisecond) / (10 * time.Millisecond))
	return max(cs, 1)
}

// Delays returns the per-frame GIF delays for k frames: the hold delay on
// the first and last frame, the frame delay on every other.
func Delays(k int, opts Options) []int {
	if k <= 0 {
		return []int{}
	}
	delays := make([]int, k)
	for i := range delays {
		delays[i] = centiseconds(opts.FrameDelay)
	}
	delays[0] = centiseconds(opts.HoldDelay)
	delays[k-1] = centiseconds(opts.HoldDelay)
	return delays
}
