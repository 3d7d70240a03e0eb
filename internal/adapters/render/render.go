// Package render writes the local dependency graph as a build order, DOT or SVG.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Supported formats.
const (
	FormatOrder = "order"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
)

// Renderer implements ports.GraphRenderer.
type Renderer struct{}

var _ ports.GraphRenderer = (*Renderer)(nil)

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes g to w in format.
func (r *Renderer) Render(ctx context.Context, g *domain.Graph, format string, w io.Writer) error {
	switch format {
	case FormatOrder, "":
		return renderOrder(g, w)
	case FormatDOT:
		return wrapWrite(io.WriteString(w, ToDOT(g)))
	case FormatSVG:
		return renderSVG(ctx, ToDOT(g), w)
	default:
		return zerr.With(domain.ErrUnknownGraphFormat, "format", format)
	}
}

func renderOrder(g *domain.Graph, w io.Writer) error {
	order, err := g.TopologicalOrder()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, name := range order {
		buf.WriteString(name.String())
		buf.WriteByte('\n')
	}
	return wrapWrite(w.Write(buf.Bytes()))
}

// ToDOT converts g to Graphviz DOT. Edges point from a project to the local
// projects it depends on.
func ToDOT(g *domain.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph kiln {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded];\n")
	buf.WriteString("\n")

	for n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q;\n", n.Name.String())
	}

	buf.WriteString("\n")
	for n := range g.Nodes() {
		for _, dep := range n.Dependencies {
			if g.Has(dep) {
				fmt.Fprintf(&buf, "  %q -> %q;\n", n.Name.String(), dep.String())
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func renderSVG(ctx context.Context, dot string, w io.Writer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return zerr.Wrap(err, domain.ErrRenderFailed.Error())
	}
	defer func() { _ = gv.Close() }()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return zerr.Wrap(err, domain.ErrRenderFailed.Error())
	}
	defer func() { _ = graph.Close() }()

	if err := gv.Render(ctx, graph, graphviz.SVG, w); err != nil {
		return zerr.Wrap(err, domain.ErrRenderFailed.Error())
	}
	return nil
}

func wrapWrite(_ int, err error) error {
	if err != nil {
		return zerr.Wrap(err, domain.ErrRenderFailed.Error())
	}
	return nil
}
