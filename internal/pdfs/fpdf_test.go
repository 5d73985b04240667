package pdfs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/h2non/filetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawSample(w Writer) {
	w.AddBlankPage()
	w.SetFont(FontHelvetica, StyleBold, 10)
	w.Text(20, 800, "Ali Raza")
	w.SetFont(FontHelvetica, StyleRegular, 7)
	w.Text(20, 788, "Yousaf Meo / August - 2024")
	w.Line(20, 770, 170, 770)
	w.AddBlankPage()
	w.Text(30, 760, "Grand Total: Rs.1000")
}

func TestFpdfWriterProducesPDF(t *testing.T) {
	w := NewFpdfWriter(A4Size, Metadata{})
	drawSample(w)
	assert.Equal(t, 2, w.PageCount())

	b, err := w.ProduceBytes()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
	assert.True(t, filetype.Is(b, "pdf"))
}

func TestFpdfWriterIsDeterministic(t *testing.T) {
	a := NewFpdfWriter(A4Size, Metadata{})
	drawSample(a)
	b := NewFpdfWriter(A4Size, Metadata{})
	drawSample(b)

	first, err := a.ProduceBytes()
	require.NoError(t, err)
	second, err := b.ProduceBytes()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFpdfWriterCloseIsIdempotent(t *testing.T) {
	w := NewFpdfWriter(LetterSize, Metadata{Title: "Invoices", Author: "Yousaf Meo"})
	drawSample(w)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	first, err := w.ProduceBytes()
	require.NoError(t, err)
	second, err := w.ProduceBytes()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFpdfWriterWriteTo(t *testing.T) {
	w := NewFpdfWriter(A4Size, Metadata{})
	drawSample(w)

	var buf bytes.Buffer
	n, err := w.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	path := filepath.Join(t.TempDir(), "out", "invoices.pdf")
	require.NoError(t, w.WriteToFile(path))
	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), onDisk)
}

func TestFpdfWriterEmptyDocument(t *testing.T) {
	w := NewFpdfWriter(A4Size, Metadata{})
	b, err := w.ProduceBytes()
	require.NoError(t, err)
	assert.True(t, filetype.Is(b, "pdf"))
	assert.Equal(t, 1, w.PageCount())
}

func TestPaperSizeByName(t *testing.T) {
	got, err := PaperSizeByName("a4")
	require.NoError(t, err)
	assert.Equal(t, A4Size, got)
	assert.InDelta(t, 841.89, got.Height, 1e-9)

	got, err = PaperSizeByName("LETTER")
	require.NoError(t, err)
	assert.Equal(t, LetterSize, got)

	_, err = PaperSizeByName("A5")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}
