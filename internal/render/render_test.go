package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pchu/codenames-backend/internal/board"
)

func testKey() board.Key {
	var k board.Key
	for i := 0; i < 9; i++ {
		k[i] = board.OwnerRed
	}
	for i := 9; i < 17; i++ {
		k[i] = board.OwnerBlue
	}
	for i := 17; i < 24; i++ {
		k[i] = board.OwnerInnocent
	}
	k[24] = board.OwnerAssassin
	return k
}

func testWords() []string {
	words := make([]string, board.Size)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	return words
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

// cellCenter returns the pixel at the middle of cell idx, away from any text.
func cellCenter(idx int) (int, int) {
	i, j := idx%board.Cols, idx/board.Cols
	return i*ImgW/board.Cols + ImgW/board.Cols/2, j*ImgH/board.Rows + 20
}

func sameColor(c color.Color, want color.RGBA) bool {
	r, g, b, _ := c.RGBA()
	return uint8(r>>8) == want.R && uint8(g>>8) == want.G && uint8(b>>8) == want.B
}

func TestRender_Dimensions(t *testing.T) {
	views, err := Render(testKey(), testWords(), [board.Size]bool{})
	require.NoError(t, err)

	for _, data := range [][]byte{views.Board, views.Key} {
		img := decode(t, data)
		assert.Equal(t, ImgW, img.Bounds().Dx())
		assert.Equal(t, ImgH, img.Bounds().Dy())
	}
}

func TestRender_PublicViewHidesUnrevealed(t *testing.T) {
	views, err := Render(testKey(), testWords(), [board.Size]bool{})
	require.NoError(t, err)
	img := decode(t, views.Board)

	for idx := 0; idx < board.Size; idx++ {
		x, y := cellCenter(idx)
		assert.True(t, sameColor(img.At(x, y), colorUnrevealed),
			"cell %d must be neutral before any reveal", idx)
	}
}

func TestRender_KeyViewShowsAllOwners(t *testing.T) {
	views, err := Render(testKey(), testWords(), [board.Size]bool{})
	require.NoError(t, err)
	img := decode(t, views.Key)

	cases := []struct {
		idx  int
		want color.RGBA
	}{
		{0, colorRed},
		{9, colorBlue},
		{17, colorInnocent},
		{24, colorAssassin},
	}
	for _, tc := range cases {
		x, y := cellCenter(tc.idx)
		assert.True(t, sameColor(img.At(x, y), tc.want),
			"cell %d: want owner color %v, got %v", tc.idx, tc.want, img.At(x, y))
	}
}

func TestRender_RevealedCellShowsOwnerOnPublicView(t *testing.T) {
	var revealed [board.Size]bool
	revealed[0] = true

	views, err := Render(testKey(), testWords(), revealed)
	require.NoError(t, err)
	img := decode(t, views.Board)

	x, y := cellCenter(0)
	assert.True(t, sameColor(img.At(x, y), colorRed))

	x, y = cellCenter(1)
	assert.True(t, sameColor(img.At(x, y), colorUnrevealed),
		"unrevealed neighbor stays neutral")
}

func TestRender_KeyViewRedactsRevealedWords(t *testing.T) {
	var revealed [board.Size]bool
	revealed[17] = true // innocent cell, light background

	views, err := Render(testKey(), testWords(), revealed)
	require.NoError(t, err)
	img := decode(t, views.Key)

	// the redaction bar covers the cell's vertical middle
	i, j := 17%board.Cols, 17/board.Cols
	x := i*ImgW/board.Cols + ImgW/board.Cols/2
	y := j*ImgH/board.Rows + ImgH/board.Rows/2
	assert.True(t, sameColor(img.At(x, y), colorAssassin),
		"revealed cell's word must be blacked out on the key view")
}

func TestRender_DeterministicForSameInputs(t *testing.T) {
	var revealed [board.Size]bool
	revealed[3] = true

	a, err := Render(testKey(), testWords(), revealed)
	require.NoError(t, err)
	b, err := Render(testKey(), testWords(), revealed)
	require.NoError(t, err)

	assert.Equal(t, a.Board, b.Board)
	assert.Equal(t, a.Key, b.Key)
}

func TestRender_WrongWordCount(t *testing.T) {
	_, err := Render(testKey(), []string{"too", "few"}, [board.Size]bool{})
	assert.Error(t, err)
}
