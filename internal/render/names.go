package render

import (
	"fmt"
	"strconv"
	"strings"
)

const minFrameDigits = 3

// FrameName is the zero-padded file name of frame index in a run of total
// frames. All names of one run have the same width, so lexicographic order
// equals frame order.
func FrameName(index, total int) string {
	return fmt.Sprintf("%0*d%s", FrameDigits(total), index, frameExt)
}

// FrameDigits is the padding width for a run of total frames.
func FrameDigits(total int) int {
	d := len(strconv.Itoa(max(total-1, 0)))
	return max(d, minFrameDigits)
}

// IsFrame reports whether a directory entry looks like a rendered frame.
func IsFrame(name string) bool {
	base, ok := strings.CutSuffix(name, frameExt)
	if !ok || base == "" {
		return false
	}
	for _, c := range base {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
