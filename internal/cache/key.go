package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Version constants. Bumping one invalidates every key derived from it;
// there is no other eviction path.
const (
	OcrPipelineVersion = "v1"
	PdfTemplateVersion = "v1"
)

// NormalizeConfig renders v as canonical JSON with object keys sorted,
// so that two configs differing only in field order hash identically.
func NormalizeConfig(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode config: %w", err)
	}

	var b strings.Builder
	writeCanonical(&b, decoded)
	return b.String(), nil
}

func writeCanonical(b *strings.Builder, v any) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			b.Write(kb)
			b.WriteByte(':')
			writeCanonical(b, t[k])
		}
		b.WriteByte('}')
	case []any:
		b.WriteByte('[')
		for i, el := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, el)
		}
		b.WriteByte(']')
	default:
		raw, _ := json.Marshal(t)
		b.Write(raw)
	}
}

// HashParts joins parts with "|" and returns the hex SHA-256 digest.
func HashParts(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// HashBytes returns the hex SHA-256 digest of raw content.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// OcrKey derives the extraction/analysis cache key for one document.
// Keys are owner-scoped so identical uploads from different accounts
// never share entries.
func OcrKey(ownerID, fileHash, optionsHash string) string {
	return HashParts("ocr", ownerID, fileHash, optionsHash, OcrPipelineVersion)
}

// PdfExportKey derives the export cache key for one test snapshot.
// contentHash must cover the test's questions so edits miss the cache.
func PdfExportKey(testID, contentHash, configHash string) string {
	return HashParts("pdf", testID, contentHash, configHash, PdfTemplateVersion)
}
