package render

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	t.Run("headings and lists", func(t *testing.T) {
		out, err := ToHTML("# Requirements Summary\n\n- **Type**: web app\n")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "<h1") {
			t.Errorf("no heading rendered:\n%s", out)
		}
		if !strings.Contains(out, "<li>") || !strings.Contains(out, "<strong>") {
			t.Errorf("list markup missing:\n%s", out)
		}
	})

	t.Run("gfm tables", func(t *testing.T) {
		out, err := ToHTML("| a | b |\n|---|---|\n| 1 | 2 |\n")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "<table>") {
			t.Errorf("table not rendered:\n%s", out)
		}
	})

	t.Run("fenced code is highlighted", func(t *testing.T) {
		out, err := ToHTML("```go\npackage main\n```\n")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "pre") {
			t.Errorf("code block not rendered:\n%s", out)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		out, err := ToHTML("")
		if err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(out) != "" {
			t.Errorf("empty markdown produced %q", out)
		}
	})
}
