// Package export renders a projected frame to a standalone HTML page, one
// of the drawing backends that can consume render descriptors.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"smallworld/internal/render"
)

// Category indices into the chart's category list; order matters.
var categories = []*opts.GraphCategory{
	{Name: string(render.FillNormal)},
	{Name: string(render.FillHub)},
	{Name: string(render.FillBottleneck)},
}

func categoryIndex(fill render.FillCategory) int {
	for i, c := range categories {
		if c.Name == string(fill) {
			return i
		}
	}
	return 0
}

// WriteHTML renders the frame as an HTML graph chart. Positions come from
// the frame, so the chart uses a fixed layout rather than its own physics.
func WriteHTML(frame render.Frame, title string, w io.Writer) error {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Height:    "100vh",
			Width:     "100vw",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	nodes := make([]opts.GraphNode, 0, len(frame.Nodes))
	for _, n := range frame.Nodes {
		nodes = append(nodes, opts.GraphNode{
			Name:       n.ID,
			X:          float32(n.X),
			Y:          float32(n.Y),
			SymbolSize: n.Radius * 2,
			Category:   categoryIndex(n.Fill),
		})
	}

	links := make([]opts.GraphLink, 0, len(frame.Edges))
	for _, e := range frame.Edges {
		links = append(links, opts.GraphLink{
			Source: e.FromID,
			Target: e.ToID,
			Value:  float32(e.StrokeWidth),
		})
	}

	graph.AddSeries(
		"topology",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout:     "none",
				Roam:       opts.Bool(true),
				Categories: categories,
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Position: "top",
		}),
	)

	page := components.NewPage()
	page.AddCharts(graph)
	return page.Render(w)
}

// WriteHTMLFile renders the frame to a file, appending .html when missing.
func WriteHTMLFile(frame render.Frame, title, filename string) error {
	if filepath.Ext(filename) == "" {
		filename += ".html"
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := WriteHTML(frame, title, f); err != nil {
		return fmt.Errorf("render export: %w", err)
	}
	return nil
}
