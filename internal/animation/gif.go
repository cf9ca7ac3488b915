// Package animation assembles rendered frames into a looping GIF and,
// optionally, a Motion-JPEG video.
package animation

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// ErrNoFrames is returned when there is nothing to assemble.
var ErrNoFrames = errors.New("animation: no frames")

var imageExts = map[string]bool{".png": true, ".gif": true, ".jpg": true, ".jpeg": true}

// IsImage reports whether ListFrames would pick up a file of this name.
func IsImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// ListFrames returns every image file in dir, sorted by name. A missing or
// empty directory is ErrNoFrames.
func ListFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrNoFrames, dir)
		}
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrNoFrames, dir)
	}

	sort.Strings(paths)
	return paths, nil
}

// AssembleDir encodes every frame in dir, in filename order, into a
// looping GIF at out. It returns the number of frames written.
func AssembleDir(dir, out string, opts Options) (int, error) {
	paths, err := ListFrames(dir)
	if err != nil {
		return 0, err
	}
	return AssembleFiles(paths, out, opts)
}

// AssembleFiles encodes the given frame files, in the given order.
func AssembleFiles(paths []string, out string, opts Options) (int, error) {
	if len(paths) == 0 {
		return 0, ErrNoFrames
	}

	frames := make([]*image.Paletted, len(paths))
	for i, p := range paths {
		img, err := decodeFile(p)
		if err != nil {
			return 0, err
		}
		frames[i] = paletted(img, opts.Width)
	}

	f, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	if err := encodePaletted(f, frames, opts); err != nil {
		f.Close()
		return 0, err
	}
	return len(frames), f.Close()
}

// Encode writes frames, already in display order, as a looping GIF.
func Encode(w io.Writer, frames []image.Image, opts Options) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	pal := make([]*image.Paletted, len(frames))
	for i, img := range frames {
		pal[i] = paletted(img, opts.Width)
	}
	return encodePaletted(w, pal, opts)
}

func encodePaletted(w io.Writer, frames []*image.Paletted, opts Options) error {
	g := &gif.GIF{
		Image:     frames,
		Delay:     Delays(len(frames), opts),
		LoopCount: 0,
	}
	if err := gif.EncodeAll(w, g); err != nil {
		return fmt.Errorf("animation: encode gif: %w", err)
	}
	return nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("animation: decode %s: %w", path, err)
	}
	return img, nil
}

// paletted scales img to width (keeping its aspect ratio) when width is
// set, then quantizes it onto the Plan 9 palette.
func paletted(img image.Image, width int) *image.Paletted {
	src := scaled(img, width)
	b := src.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, b.Min)
	return dst
}

func scaled(img image.Image, width int) image.Image {
	b := img.Bounds()
	if width <= 0 || width == b.Dx() {
		return img
	}
	height := max(1, b.Dy()*width/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
