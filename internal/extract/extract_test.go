package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTextual(t *testing.T) {
	assert.True(t, IsTextual(".txt"))
	assert.True(t, IsTextual(".MD"))
	assert.False(t, IsTextual(".pdf"))
	assert.False(t, IsTextual(""))
}

func TestExtensionOf(t *testing.T) {
	assert.Equal(t, ".pdf", ExtensionOf("Notatki z historii.PDF"))
	assert.Equal(t, ".md", ExtensionOf("rozdzial-3.md"))
	assert.Equal(t, "", ExtensionOf("bezrozszerzenia"))
}

func TestMimeFor(t *testing.T) {
	assert.Equal(t, "application/pdf", MimeFor(".pdf"))
	assert.Equal(t, "image/webp", MimeFor(".webp"))
	assert.Equal(t, "application/octet-stream", MimeFor(".xyz"))
}

func TestReadTextStripsBOMAndNormalizesNewlines(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("linia 1\r\nlinia 2\rlinia 3")...)
	assert.Equal(t, "linia 1\nlinia 2\nlinia 3", ReadText(data))
}

func TestReadTextReplacesInvalidBytes(t *testing.T) {
	got := ReadText([]byte{'a', 0xFF, 'b'})
	assert.Equal(t, "a�b", got)
}

func TestPdfPageCount(t *testing.T) {
	pdf := []byte("%PDF-1.4\n1 0 obj << /Type /Pages /Count 2 >>\n2 0 obj << /Type /Page >>\n3 0 obj << /Type/Page >>\n")
	assert.Equal(t, 2, PdfPageCount(pdf))

	assert.Equal(t, 0, PdfPageCount([]byte("not a pdf")))
}
