// Package icons provides the tray icons: a user-supplied icon.png when one
// exists, otherwise a generated keyboard glyph.
package icons

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Size is the edge length of generated icons (macOS menu bar / Linux panel).
const Size = 22

// CustomName is the file looked up in the bundle Resources folder and the
// working directory.
const CustomName = "icon.png"

var (
	idleIcon = generateIcon(false)
	busyIcon = generateIcon(true)
)

// Idle returns the icon shown while waiting, in the platform's format.
func Idle() []byte { return platformFormat(idleIcon) }

// Busy returns the icon shown while typing, in the platform's format.
func Busy() []byte { return platformFormat(busyIcon) }

// Custom returns the first readable icon.png among the candidate paths.
func Custom() ([]byte, bool) {
	for _, p := range customPaths() {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
			logrus.WithError(err).Warnf("Ignoring invalid icon %s", p)
			continue
		}
		logrus.Infof("Using custom icon %s", p)
		return platformFormat(data), true
	}
	return nil, false
}

// customPaths lists the app bundle Resources folder first, then the
// working directory.
func customPaths() []string {
	var paths []string
	if exe, err := os.Executable(); err == nil {
		// .app/Contents/MacOS/<exe> → .app/Contents/Resources
		res := filepath.Join(filepath.Dir(filepath.Dir(exe)), "Resources", CustomName)
		paths = append(paths, res)
	}
	return append(paths, CustomName)
}

func platformFormat(pngData []byte) []byte {
	if runtime.GOOS == "windows" {
		return wrapICO(pngData)
	}
	return pngData
}

// generateIcon draws a small keyboard: an outlined body with three rows of
// keys and a space bar. The busy variant fills the body.
func generateIcon(busy bool) []byte {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))
	ink := color.RGBA{0, 0, 0, 255}

	// Body outline
	left, right, top, bottom := 1, Size-2, 5, 16
	for x := left; x <= right; x++ {
		img.Set(x, top, ink)
		img.Set(x, bottom, ink)
	}
	for y := top; y <= bottom; y++ {
		img.Set(left, y, ink)
		img.Set(right, y, ink)
	}

	if busy {
		for y := top + 1; y < bottom; y++ {
			for x := left + 1; x < right; x++ {
				img.Set(x, y, color.RGBA{0, 0, 0, 90})
			}
		}
	}

	// Key rows
	for row, y := range []int{7, 10} {
		for x := 3 + row; x <= right-2; x += 3 {
			img.Set(x, y, ink)
			img.Set(x+1, y, ink)
		}
	}

	// Space bar
	for x := 6; x <= Size-7; x++ {
		img.Set(x, 13, ink)
		img.Set(x, 14, ink)
	}

	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

// wrapICO embeds a PNG in a single-image ICO container, which Windows
// accepts for tray icons.
func wrapICO(pngData []byte) []byte {
	w, h := Size, Size
	if cfg, err := png.DecodeConfig(bytes.NewReader(pngData)); err == nil {
		w, h = cfg.Width, cfg.Height
	}
	dim := func(v int) uint8 {
		if v >= 256 {
			return 0
		}
		return uint8(v)
	}

	var buf bytes.Buffer
	// ICONDIR
	binary.Write(&buf, binary.LittleEndian, []uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.WriteByte(dim(w))
	buf.WriteByte(dim(h))
	buf.WriteByte(0) // palette
	buf.WriteByte(0) // reserved
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // planes
	binary.Write(&buf, binary.LittleEndian, uint16(32)) // bpp
	binary.Write(&buf, binary.LittleEndian, uint32(len(pngData)))
	binary.Write(&buf, binary.LittleEndian, uint32(6+16))
	buf.Write(pngData)
	return buf.Bytes()
}
