package pdfextract

import (
	"bytes"
	"context"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run builds a glyph run the way the pdf library reports them: one
// entry per glyph with its advance width.
func run(s string, x, y, fontSize float64) []pdf.Text {
	texts := make([]pdf.Text, 0, len(s))
	glyphWidth := fontSize * 0.5
	for i, r := range s {
		texts = append(texts, pdf.Text{
			S:        string(r),
			X:        x + float64(i)*glyphWidth,
			Y:        y,
			W:        glyphWidth,
			FontSize: fontSize,
		})
	}
	return texts
}

func TestCoalesceWords_MergesAdjacentGlyphs(t *testing.T) {
	texts := run("Jan", 100, 670, 10)

	words := coalesceWords(texts)
	require.Len(t, words, 1)
	assert.Equal(t, "Jan", words[0].text)
	assert.Equal(t, float64(100), words[0].x)
	assert.Equal(t, float64(670), words[0].y)
}

func TestCoalesceWords_SplitsOnWideGap(t *testing.T) {
	texts := append(run("Jan", 100, 670, 10), run("Feb", 150, 670, 10)...)

	words := coalesceWords(texts)
	require.Len(t, words, 2)
	assert.Equal(t, "Jan", words[0].text)
	assert.Equal(t, "Feb", words[1].text)
	assert.Equal(t, float64(150), words[1].x)
}

func TestCoalesceWords_SplitsOnLineChange(t *testing.T) {
	texts := append(run("Jan", 100, 670, 10), run("23", 100, 658, 10)...)

	words := coalesceWords(texts)
	require.Len(t, words, 2)
	assert.Equal(t, "Jan", words[0].text)
	assert.Equal(t, "23", words[1].text)
	assert.Equal(t, float64(658), words[1].y)
}

func TestCoalesceWords_ToleratesBaselineJitter(t *testing.T) {
	texts := []pdf.Text{
		{S: "O", X: 100, Y: 670.0, W: 5, FontSize: 10},
		{S: "K", X: 105, Y: 670.3, W: 5, FontSize: 10},
	}

	words := coalesceWords(texts)
	require.Len(t, words, 1)
	assert.Equal(t, "OK", words[0].text)
}

func TestCoalesceWords_DropsWhitespaceRuns(t *testing.T) {
	texts := []pdf.Text{
		{S: " ", X: 100, Y: 670, W: 5, FontSize: 10},
		{S: "", X: 105, Y: 670, W: 0, FontSize: 10},
	}

	assert.Empty(t, coalesceWords(texts))
}

func TestExtract_RejectsGarbage(t *testing.T) {
	e := New(nil)
	data := []byte("this is not a pdf document")

	_, _, err := e.Extract(context.Background(), bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}
