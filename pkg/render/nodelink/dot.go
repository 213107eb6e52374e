package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mvnkit/pkg/decl"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds scope and exclusions to dependency nodes.
	Detailed bool
}

type graph struct {
	opts  Options
	buf   bytes.Buffer
	edges bytes.Buffer
	ids   map[any]string
}

// ToDOT converts a dependency group to Graphviz DOT. It fails when an alias
// in the tree cannot be resolved.
func ToDOT(root *decl.Dependencies, opts Options) (string, error) {
	g := &graph{opts: opts, ids: make(map[any]string)}
	g.buf.WriteString("digraph G {\n")
	g.buf.WriteString("  rankdir=LR;\n")
	g.buf.WriteString("  bgcolor=\"transparent\";\n")
	g.buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	g.buf.WriteString("  ranksep=0.5;\n")
	g.buf.WriteString("  nodesep=0.3;\n")
	g.buf.WriteString("\n")

	if _, err := g.visit(root); err != nil {
		return "", err
	}

	g.buf.WriteString("\n")
	g.buf.Write(g.edges.Bytes())
	g.buf.WriteString("}\n")
	return g.buf.String(), nil
}

func (g *graph) node(key any, label string, attrs ...string) (string, bool) {
	if id, ok := g.ids[key]; ok {
		return id, false
	}
	id := "n" + strconv.Itoa(len(g.ids))
	g.ids[key] = id
	all := append([]string{fmt.Sprintf("label=%q", label)}, attrs...)
	fmt.Fprintf(&g.buf, "  %s [%s];\n", id, strings.Join(all, ", "))
	return id, true
}

func (g *graph) edge(from, to string, attrs ...string) {
	if len(attrs) == 0 {
		fmt.Fprintf(&g.edges, "  %s -> %s;\n", from, to)
		return
	}
	fmt.Fprintf(&g.edges, "  %s -> %s [%s];\n", from, to, strings.Join(attrs, ", "))
}

type aliased interface {
	RefID() string
	Referenced() (any, bool)
}

// alias draws a declaration that names another one and links it to the
// target's node.
func (g *graph) alias(v aliased) (string, error) {
	id, fresh := g.node(v, "ref: "+v.RefID(), "style=\"rounded,dashed\"")
	if !fresh {
		return id, nil
	}
	target, ok := v.Referenced()
	if !ok {
		return "", fmt.Errorf("reference %q not found", v.RefID())
	}
	tid, err := g.visit(target)
	if err != nil {
		return "", err
	}
	g.edge(id, tid, "style=dashed")
	return id, nil
}

func (g *graph) visit(v any) (string, error) {
	switch v := v.(type) {
	case *decl.Dependencies:
		if v.IsReference() {
			return g.alias(v)
		}
		return g.group(v)
	case *decl.Dependency:
		if v.IsReference() {
			return g.alias(v)
		}
		return g.dependency(v)
	case *decl.Pom:
		return g.pom(v)
	default:
		return "", fmt.Errorf("cannot draw %T", v)
	}
}

func (g *graph) group(d *decl.Dependencies) (string, error) {
	id, fresh := g.node(d, "dependencies", "shape=folder", "style=filled", "fillcolor=lightyellow")
	if !fresh {
		return id, nil
	}

	if file, err := d.File(); err != nil {
		return "", err
	} else if file != "" {
		fid, _ := g.node("file:"+file, filepath.Base(file), "shape=note", "style=filled", "fillcolor=lightgrey")
		g.edge(id, fid)
	}
	pom, err := d.Pom()
	if err != nil {
		return "", err
	}
	if pom != nil {
		pid, err := g.visit(pom)
		if err != nil {
			return "", err
		}
		g.edge(id, pid)
	}

	exclusions, err := d.Exclusions()
	if err != nil {
		return "", err
	}
	for i, e := range exclusions {
		eid, _ := g.node(fmt.Sprintf("%s-x%d", id, i), "exclude "+e.String(), "shape=plaintext", "fontcolor=red")
		g.edge(id, eid, "style=dashed", "color=red")
	}

	children, err := d.Children()
	if err != nil {
		return "", err
	}
	for _, c := range children {
		cid, err := g.visit(c)
		if err != nil {
			return "", err
		}
		g.edge(id, cid)
	}
	return id, nil
}

func (g *graph) dependency(d *decl.Dependency) (string, error) {
	c, err := d.Coordinate()
	if err != nil {
		return "", err
	}
	label := c.GroupID + ":" + c.ArtifactID + ":" + c.Version
	if g.opts.Detailed {
		label = c.String()
		exclusions, err := d.Exclusions()
		if err != nil {
			return "", err
		}
		for _, e := range exclusions {
			label += "\nexclude " + e.String()
		}
	}
	id, _ := g.node(d, label)
	return id, nil
}

func (g *graph) pom(p *decl.Pom) (string, error) {
	if p.IsReference() {
		return g.alias(p)
	}
	label := "pom"
	if file, err := p.File(); err != nil {
		return "", err
	} else if file != "" {
		label = filepath.Base(file)
	} else if a, err := p.Artifact(); err == nil {
		label = a.String()
	}
	id, _ := g.node(p, label, "shape=note", "style=filled", "fillcolor=lightblue")
	return id, nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
