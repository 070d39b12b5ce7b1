package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 30) || !IsTooSmall(100, 23) {
		t.Error("expected too small")
	}
	if IsTooSmall(80, 24) {
		t.Error("80x24 should fit")
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Drill", "Exam in 12d", 100)
	if !strings.Contains(h, "Drill Sergeant") || !strings.Contains(h, "Exam in 12d") {
		t.Errorf("header missing parts:\n%s", h)
	}
}

func TestRenderFrame_Height(t *testing.T) {
	header := RenderHeader("T", "", 80)
	footer := RenderFooter([]KeyHint{{Key: "Enter", Description: "Go"}}, 80)
	frame := RenderFrame(header, strings.Repeat("line\n", 100), footer, 80, 24)
	if h := lipgloss.Height(frame); h != 24 {
		t.Errorf("frame height = %d, want 24", h)
	}
}

func TestContentWidth(t *testing.T) {
	if ContentWidth(200) != 96 {
		t.Error("expected cap at 96")
	}
	if ContentWidth(10) != 20 {
		t.Error("expected floor at 20")
	}
}
