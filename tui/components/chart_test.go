package components

import (
	"strings"
	"testing"
)

func TestRenderChartDimensions(t *testing.T) {
	data := []float64{10, 20, 30, 40}
	labels := []string{"12:00:00", "12:00:02", "12:00:04", "12:00:06"}
	out := RenderChart(data, labels, 40, 10, "eth0")
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "eth0") {
		t.Errorf("expected title in first line, got %q", lines[0])
	}
	axis := lines[len(lines)-1]
	if !strings.Contains(axis, "12:00:00") {
		t.Errorf("expected oldest label on axis, got %q", axis)
	}
}

func TestRenderChartEmpty(t *testing.T) {
	out := RenderChart(nil, nil, 30, 6, "empty")
	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}
}

func TestRenderChartTrimsToWidth(t *testing.T) {
	data := make([]float64, 100)
	labels := make([]string, 100)
	for i := range data {
		data[i] = float64(i)
		labels[i] = "x"
	}
	labels[99] = "end"
	out := RenderChart(data, labels, 20, 6, "")
	lines := strings.Split(out, "\n")
	for _, l := range lines[1 : len(lines)-1] {
		if n := len([]rune(l)); n != 20 {
			t.Errorf("expected row width 20, got %d: %q", n, l)
		}
	}
	if !strings.HasSuffix(lines[len(lines)-1], "end") {
		t.Errorf("expected newest label at the right edge, got %q", lines[len(lines)-1])
	}
}

func TestAxisLineWithoutLabels(t *testing.T) {
	if got := axisLine(nil, 3, 5); got != "     " {
		t.Errorf("expected blank axis, got %q", got)
	}
}

func TestAxisLineFewPoints(t *testing.T) {
	got := axisLine([]string{"12:00:01"}, 1, 20)
	if len([]rune(got)) != 20 {
		t.Fatalf("expected width 20, got %d: %q", len([]rune(got)), got)
	}
	if !strings.HasSuffix(got, "12:00:01") {
		t.Errorf("expected full label at the right edge, got %q", got)
	}

	got = axisLine([]string{"12:00:01", "12:00:03"}, 2, 20)
	if !strings.Contains(got, "12:00:01") {
		t.Errorf("expected oldest label kept whole, got %q", got)
	}
	if strings.Contains(got, "12:00:03") {
		t.Errorf("expected overlapping newest label dropped, got %q", got)
	}
}

func TestAxisLineBothLabels(t *testing.T) {
	got := axisLine([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "end"}, 12, 20)
	if !strings.HasPrefix(got, "        a") {
		t.Errorf("expected oldest label under the first plotted column, got %q", got)
	}
	if !strings.HasSuffix(got, "end") {
		t.Errorf("expected newest label at the right edge, got %q", got)
	}
}

func TestAxisLineLabelWiderThanChart(t *testing.T) {
	got := axisLine([]string{"12:00:01"}, 1, 4)
	if got != "12:0" {
		t.Errorf("expected label clipped at the edge, got %q", got)
	}
}
