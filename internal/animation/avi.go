package animation

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/icza/mjpeg"
)

// WriteAVI writes the frame files, in order, as a Motion-JPEG AVI. All
// frames must share the size of the first one.
func WriteAVI(paths []string, out string, opts Options) error {
	if len(paths) == 0 {
		return ErrNoFrames
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultOptions().FPS
	}

	first, err := decodeFile(paths[0])
	if err != nil {
		return err
	}
	first = scaled(first, opts.Width)
	size := first.Bounds().Size()

	aw, err := mjpeg.New(out, int32(size.X), int32(size.Y), int32(fps))
	if err != nil {
		return fmt.Errorf("animation: create video: %w", err)
	}

	var buf bytes.Buffer
	jpegOptions := &jpeg.Options{Quality: 85}
	for i, p := range paths {
		img := first
		if i > 0 {
			if img, err = decodeFile(p); err != nil {
				aw.Close()
				return err
			}
			img = scaled(img, opts.Width)
		}
		if img.Bounds().Size() != size {
			aw.Close()
			return fmt.Errorf("animation: frame %s is %v, video is %v", p, img.Bounds().Size(), size)
		}

		buf.Reset()
		if err := jpeg.Encode(&buf, img, jpegOptions); err != nil {
			aw.Close()
			return fmt.Errorf("animation: encode %s: %w", p, err)
		}
		if err := aw.AddFrame(buf.Bytes()); err != nil {
			aw.Close()
			return fmt.Errorf("animation: add frame %s: %w", p, err)
		}
	}
	return aw.Close()
}
