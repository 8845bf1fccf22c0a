// Package render draws the 5x5 board as a PNG. Rendering is a pure function
// of (key, words, revealed, view): images are rebuilt from scratch after
// every state change, never patched, so the artifact can't drift from the
// game state.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/pchu/codenames-backend/internal/board"
)

const (
	ImgW  = 980
	ImgH  = 690
	lineW = 2
)

var (
	colorRed        = color.RGBA{230, 90, 38, 255}
	colorBlue       = color.RGBA{59, 69, 214, 255}
	colorInnocent   = color.RGBA{235, 226, 160, 255}
	colorAssassin   = color.RGBA{45, 36, 24, 255}
	colorUnrevealed = color.RGBA{248, 248, 247, 255}
	colorBackground = color.RGBA{0, 0, 0, 255}
)

// Views holds both renderings of the same position: the public board with
// only revealed cells colored, and the spymaster key with everything colored.
type Views struct {
	Board []byte
	Key   []byte
}

// Render produces both views for the current position.
func Render(key board.Key, words []string, revealed [board.Size]bool) (Views, error) {
	if len(words) != board.Size {
		return Views{}, fmt.Errorf("rendering board: got %d words, want %d", len(words), board.Size)
	}
	b, err := renderView(key, words, revealed, false)
	if err != nil {
		return Views{}, err
	}
	k, err := renderView(key, words, revealed, true)
	if err != nil {
		return Views{}, err
	}
	return Views{Board: b, Key: k}, nil
}

func renderView(key board.Key, words []string, revealed [board.Size]bool, keyView bool) ([]byte, error) {
	dc := gg.NewContext(ImgW, ImgH)
	dc.SetColor(colorBackground)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	for j := 0; j < board.Rows; j++ {
		for i := 0; i < board.Cols; i++ {
			idx := j*board.Cols + i
			x0 := float64(i*ImgW/board.Cols + lineW)
			y0 := float64(j*ImgH/board.Rows + lineW)
			x1 := float64((i+1)*ImgW/board.Cols - lineW)
			y1 := float64((j+1)*ImgH/board.Rows - lineW)

			bg := colorUnrevealed
			if keyView || revealed[idx] {
				bg = ownerColor(key[idx])
			}
			dc.SetColor(bg)
			dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
			dc.Fill()

			if keyView && revealed[idx] {
				// Redact the word on cells already played, so the spymaster's
				// key shows only what is still in play.
				rx0 := float64(i*ImgW/board.Cols + 10)
				ry0 := float64(j*ImgH/board.Rows + ImgH/12)
				rx1 := float64((i+1)*ImgW/board.Cols - 10)
				ry1 := float64((j+1)*ImgH/board.Rows - ImgH/12)
				dc.SetColor(colorAssassin)
				dc.DrawRectangle(rx0, ry0, rx1-rx0, ry1-ry0)
				dc.Fill()
				continue
			}

			dc.SetColor(textColor(bg))
			cx := float64(i*ImgW/board.Cols) + float64(ImgW)/float64(board.Cols)/2
			cy := float64(j*ImgH/board.Rows) + float64(ImgH)/float64(board.Rows)/2
			dc.DrawStringAnchored(strings.ToUpper(words[idx]), cx, cy, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encoding board png: %w", err)
	}
	return buf.Bytes(), nil
}

func ownerColor(o board.CellOwner) color.RGBA {
	switch o {
	case board.OwnerRed:
		return colorRed
	case board.OwnerBlue:
		return colorBlue
	case board.OwnerInnocent:
		return colorInnocent
	default:
		return colorAssassin
	}
}

// dark text on the light backgrounds, light text otherwise
func textColor(bg color.RGBA) color.RGBA {
	if bg == colorUnrevealed || bg == colorInnocent {
		return colorAssassin
	}
	return colorUnrevealed
}
