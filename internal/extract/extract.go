// Package extract handles native text extraction from uploads. Plain
// text and Markdown are read directly; PDFs, DOCX and images are routed
// to the LLM document analyzer by the material service.
package extract

import (
	"bytes"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// textualExtensions are read without going through the analyzer.
var textualExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// IsTextual reports whether the extension can be read as plain text.
func IsTextual(ext string) bool {
	return textualExtensions[strings.ToLower(ext)]
}

// ExtensionOf returns the lowercase extension of a filename, dot included.
func ExtensionOf(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

var mimeFallback = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain; charset=utf-8",
	".md":   "text/markdown; charset=utf-8",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// MimeFor resolves a MIME type from a file extension.
func MimeFor(ext string) string {
	ext = strings.ToLower(ext)
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	if t, ok := mimeFallback[ext]; ok {
		return t
	}
	return "application/octet-stream"
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadText decodes uploaded plain text. Strips a UTF-8 BOM, normalizes
// line endings and replaces invalid byte sequences.
func ReadText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}

// pagePattern matches the page object marker in uncompressed PDF
// structure. "/Pages" (the tree node) must not count.
var pagePattern = regexp.MustCompile(`/Type\s*/Page([^s]|$)`)

// PdfPageCount estimates the page count by scanning for page objects.
// Returns 0 when the structure is compressed or not a PDF; the analyzer
// fills in the real count later.
func PdfPageCount(data []byte) int {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return 0
	}
	return len(pagePattern.FindAll(data, -1))
}
