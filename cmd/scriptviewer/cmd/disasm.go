package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/th3fanbus/scriptviewer/internal/config"
	"github.com/th3fanbus/scriptviewer/internal/docvalue"
	"github.com/th3fanbus/scriptviewer/internal/graph"
	"github.com/th3fanbus/scriptviewer/internal/uescript"
)

// processDir walks the directory tree and disassembles every regular .json
// file. Failed files are reported and counted; the walk continues.
func processDir(cfg config.Config, root string) error {
	failed := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		header := fmt.Sprintf("# PROCESSING '%s' #", path)
		plate := strings.Repeat("#", len(header))
		fmt.Println(plate)
		fmt.Println(header)
		fmt.Println(plate)
		if err := processFile(cfg, path); err != nil {
			failed++
		}
		fmt.Println()
		return nil
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

// processFile disassembles one dump file. A failure in one function aborts
// that function only; the remaining entries are still processed and the
// error is reflected in the return value.
func processFile(cfg config.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	doc, err := docvalue.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if doc.Kind() != docvalue.KindArray {
		return fmt.Errorf("%s: top-level document is not a sequence", path)
	}

	failed := 0
	for _, entry := range doc.ArrayElements() {
		typeDoc := entry.ObjectGet("Type")
		switch {
		case typeDoc == nil:
			fmt.Fprintf(os.Stderr, "Found malformed entry without a Type\n")
		case typeDoc.StringValue() == "Function":
			name := entry.ObjectGet("Name").StringValue()
			bytecode := entry.ObjectGet("ScriptBytecode")
			if name == "" || bytecode == nil {
				fmt.Fprintf(os.Stderr, "Found function entry without Name or ScriptBytecode\n")
				failed++
				continue
			}
			fmt.Printf("Found function '%s'\n", name)
			if err := emitFunction(cfg, path, name, bytecode); err != nil {
				reportError(err)
				failed++
			}
		default:
			fmt.Printf("Found unknown type '%s'\n", typeDoc.StringValue())
		}
	}
	if failed > 0 {
		return fmt.Errorf("%s: %d function(s) failed", path, failed)
	}
	return nil
}

// emitFunction disassembles one function and writes its graph artifacts. All
// graphs are computed before the first write, so a failed function leaves no
// partial artifacts behind.
func emitFunction(cfg config.Config, srcPath, name string, bytecode *docvalue.Value) error {
	ast, err := uescript.Disassemble(name, bytecode)
	if err != nil {
		return err
	}

	theme := graph.Theme{
		Background: cfg.Background,
		Foreground: cfg.Foreground,
		FontName:   cfg.FontName,
		FontSize:   cfg.FontSize,
	}

	// The full graph keeps the function's name; each additional entrypoint
	// gets its own suffixed artifact. Entrypoint 0 is the full graph.
	type artifact struct {
		name  string
		nodes []*uescript.Node
		edges []uescript.Edge
	}
	var artifacts []artifact

	nodes, edges := ast.FullGraph()
	artifacts = append(artifacts, artifact{name: name, nodes: nodes, edges: edges})
	for _, ep := range ast.Entrypoints() {
		if ep == 0 {
			continue
		}
		n, e, err := ast.Subgraph(ep)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, artifact{name: fmt.Sprintf("%s_%d", name, ep), nodes: n, edges: e})
	}

	outDir := filepath.Join(cfg.OutputRoot, strings.TrimSuffix(srcPath, filepath.Ext(srcPath)))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	if dumpIntermediate {
		dumpPath := filepath.Join(outDir, name+".json")
		if err := os.WriteFile(dumpPath, ast.DumpNodes(), 0o644); err != nil {
			return err
		}
	}

	for _, art := range artifacts {
		sg := graph.New(art.name, theme)
		for _, n := range art.nodes {
			sg.DrawNode(n)
		}
		for _, e := range art.edges {
			sg.DrawEdge(e)
		}
		gvPath := filepath.Join(outDir, art.name+".gv")
		if verbose {
			fmt.Printf("Rendering '%s'...\n", art.name)
		}
		if err := sg.WriteFile(gvPath); err != nil {
			return err
		}
		if renderImages {
			if !graph.DotAvailable() {
				fmt.Fprintf(os.Stderr, "Warning: Graphviz dot not found, skipping image for '%s'\n", art.name)
				continue
			}
			if _, err := graph.RenderSVG(context.Background(), gvPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// reportError prints a disassembly error to stderr, with structural errors
// rendered together with their offending input node.
func reportError(err error) {
	color := isatty.IsTerminal(os.Stderr.Fd())
	var structural *uescript.StructuralError
	if errors.As(err, &structural) {
		fmt.Fprintln(os.Stderr, structural.Format(color))
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
