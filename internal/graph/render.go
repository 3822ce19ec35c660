package graph

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DotAvailable reports whether the Graphviz dot executable is on PATH.
func DotAvailable() bool {
	_, err := exec.LookPath("dot")
	return err == nil
}

// RenderSVG runs the Graphviz dot executable over a written .gv file,
// producing an SVG image alongside it. The caller decides whether a missing
// renderer is an error or a degraded run.
func RenderSVG(ctx context.Context, gvPath string) (string, error) {
	svgPath := strings.TrimSuffix(gvPath, ".gv") + ".svg"
	cmd := exec.CommandContext(ctx, "dot", "-Tsvg", "-o", svgPath, gvPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("rendering %s: %w: %s", gvPath, err, strings.TrimSpace(string(out)))
	}
	return svgPath, nil
}
