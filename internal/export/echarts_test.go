package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smallworld/internal/render"
)

func testFrame() render.Frame {
	return render.Frame{
		Nodes: []render.NodeDisc{
			{ID: "checkout", X: 100, Y: 200, Radius: 15, Fill: render.FillHub, Label: "checkout"},
			{ID: "payments", X: 300, Y: 200, Radius: 12, Fill: render.FillNormal, Label: "payments"},
		},
		Edges: []render.EdgeSegment{
			{FromID: "checkout", ToID: "payments", X1: 100, Y1: 200, X2: 300, Y2: 200, StrokeWidth: 2, Style: render.StyleSolid},
		},
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(testFrame(), "test topology", &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "checkout") || !strings.Contains(out, "payments") {
		t.Error("rendered page missing node names")
	}
	if !strings.Contains(out, "test topology") {
		t.Error("rendered page missing title")
	}
}

func TestWriteHTMLFile(t *testing.T) {
	t.Run("keeps an explicit extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "layout.html")
		if err := WriteHTMLFile(testFrame(), "t", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file at %s: %v", path, err)
		}
	})

	t.Run("appends .html when missing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "layout")
		if err := WriteHTMLFile(testFrame(), "t", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(path + ".html"); err != nil {
			t.Errorf("expected file at %s.html: %v", path, err)
		}
	})
}
