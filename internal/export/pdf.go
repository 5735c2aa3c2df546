package export

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var rerunMarkers = []string{
	"Rerun to get cross-references right",
	"Label(s) may have changed",
	"There were undefined references",
}

func needsRerun(output string) bool {
	for _, marker := range rerunMarkers {
		if strings.Contains(output, marker) {
			return true
		}
	}
	return false
}

// CompileTexToPDF writes texSource to a temp dir, runs xelatex and
// returns the PDF bytes. A second pass runs when the log asks for one.
func CompileTexToPDF(ctx context.Context, texSource string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "texbuild-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	texPath := filepath.Join(tmpDir, "test.tex")
	if err := os.WriteFile(texPath, []byte(texSource), 0o644); err != nil {
		return nil, fmt.Errorf("write tex source: %w", err)
	}

	output, err := runXelatex(ctx, tmpDir, texPath)
	if err != nil {
		return nil, err
	}
	if needsRerun(output) {
		if _, err := runXelatex(ctx, tmpDir, texPath); err != nil {
			return nil, err
		}
	}

	pdf, err := os.ReadFile(filepath.Join(tmpDir, "test.pdf"))
	if err != nil {
		return nil, fmt.Errorf("read compiled pdf: %w", err)
	}
	return pdf, nil
}

func runXelatex(ctx context.Context, outDir, texPath string) (string, error) {
	cmd := exec.CommandContext(ctx, "xelatex",
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory", outDir,
		texPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("xelatex failed: %w\n%s", err, tail(string(out), 4000))
	}
	return string(out), nil
}

// tail keeps the end of a compiler log, where the actual error lives.
func tail(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return "…" + s[len(s)-limit:]
}
