package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestBgStyle_RenderKeepsWords(t *testing.T) {
	b := newBgStyle("#000000")
	out := b.render("hello  world", lipgloss.NewStyle())
	for _, want := range []string{"hello", "world"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render() = %q, missing %q", out, want)
		}
	}
	if b.render("", lipgloss.NewStyle()) != "" {
		t.Fatalf("render(empty) should be empty")
	}
}

func TestBgStyle_FillPadsToWidth(t *testing.T) {
	b := newBgStyle("#000000")
	out := b.fill("abc", 10)
	if w := lipgloss.Width(out); w != 10 {
		t.Fatalf("fill width = %d, want 10", w)
	}
	if got := b.fill("abc", 0); got != "abc" {
		t.Fatalf("fill(0) = %q, want unchanged", got)
	}
}
