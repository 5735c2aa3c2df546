package cache

import (
	"testing"
)

type exportOpts struct {
	Variants  int    `json:"variants"`
	ShowKey   bool   `json:"show_answer_key"`
	Color     string `json:"brand_color"`
	HeaderSub string `json:"header_subject"`
}

func TestNormalizeConfigIsDeterministic(t *testing.T) {
	opts := exportOpts{Variants: 2, ShowKey: true, Color: "#ff0000"}

	first, err := NormalizeConfig(opts)
	if err != nil {
		t.Fatalf("NormalizeConfig: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := NormalizeConfig(opts)
		if err != nil {
			t.Fatalf("NormalizeConfig: %v", err)
		}
		if again != first {
			t.Fatalf("normalization not stable: %q vs %q", again, first)
		}
	}
}

func TestNormalizeConfigSortsKeys(t *testing.T) {
	a := map[string]any{"b": 1, "a": 2, "c": map[string]any{"z": 1, "y": 2}}
	b := map[string]any{"c": map[string]any{"y": 2, "z": 1}, "a": 2, "b": 1}

	na, err := NormalizeConfig(a)
	if err != nil {
		t.Fatalf("NormalizeConfig: %v", err)
	}
	nb, err := NormalizeConfig(b)
	if err != nil {
		t.Fatalf("NormalizeConfig: %v", err)
	}
	if na != nb {
		t.Fatalf("key order leaked into normalization: %q vs %q", na, nb)
	}
	if na != `{"a":2,"b":1,"c":{"y":2,"z":1}}` {
		t.Fatalf("unexpected canonical form: %q", na)
	}
}

func TestHashPartsDivergence(t *testing.T) {
	base := HashParts("ocr", "filehash", "optshash", "v1")

	cases := map[string]string{
		"file":    HashParts("ocr", "otherfile", "optshash", "v1"),
		"options": HashParts("ocr", "filehash", "otheropts", "v1"),
		"version": HashParts("ocr", "filehash", "optshash", "v2"),
	}
	for name, h := range cases {
		if h == base {
			t.Errorf("changing %s did not change the key", name)
		}
	}

	if again := HashParts("ocr", "filehash", "optshash", "v1"); again != base {
		t.Fatalf("same inputs produced different keys")
	}
	if len(base) != 64 {
		t.Fatalf("expected hex sha256 key, got %d chars", len(base))
	}
}

func TestOcrKeyUsesPipelineVersion(t *testing.T) {
	k := OcrKey("owner-1", "fh", "oh")
	if k != HashParts("ocr", "owner-1", "fh", "oh", OcrPipelineVersion) {
		t.Fatalf("OcrKey does not include the pipeline version")
	}
}

func TestOcrKeyIsOwnerScoped(t *testing.T) {
	a := OcrKey("owner-1", "fh", "oh")
	b := OcrKey("owner-2", "fh", "oh")
	if a == b {
		t.Fatalf("identical documents from different owners must not share a cache key")
	}
}

func TestPdfExportKeyCoversContent(t *testing.T) {
	a := PdfExportKey("test-1", "content-a", "cfg")
	b := PdfExportKey("test-1", "content-b", "cfg")
	if a == b {
		t.Fatalf("editing questions must miss the export cache")
	}
}
