package markdown

import (
	"strings"
	"testing"

	"github.com/Comcast/vizcrew/widget"

	"github.com/spf13/afero"
)

func TestRender(t *testing.T) {
	d := Render("# Tacos\n\nAre *good*.\n")
	if !strings.Contains(d.HTML, "<h1>Tacos</h1>") {
		t.Fatal(d.HTML)
	}
	if !strings.Contains(d.HTML, "<em>good</em>") {
		t.Fatal(d.HTML)
	}
	if a := d.Artifact(); a.Kind != widget.KindMarkdown {
		t.Fatal(a.Kind)
	}
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "docs/demo.md", []byte("## Demo\n"), 0644); err != nil {
		t.Fatal(err)
	}
	fs.MkdirAll("docs/sub.md", 0755)

	d, err := Load(fs, "docs", "demo.md")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(d.HTML, "<h2>Demo</h2>") {
		t.Fatal(d.HTML)
	}

	for _, name := range []string{"missing.md", "sub.md"} {
		d, err = Load(fs, "docs", name)
		if err == nil {
			t.Fatal(name)
		}
		if !strings.HasPrefix(d.Source, "# Error\nCould not find or read '"+name+"'") {
			t.Fatal(d.Source)
		}
		if !strings.Contains(d.HTML, "<h1>Error</h1>") {
			t.Fatal(d.HTML)
		}
	}
}

func TestInline(t *testing.T) {
	input := `
I like %inline("tacos"), and
I also like %inline("queso").
Both are delicious.
`
	want := `
I like TACOS, and
I also like QUESO.
Both are delicious.
`
	find := func(name string) ([]byte, error) {
		return []byte(strings.ToUpper(name)), nil
	}
	got, err := Inline([]byte(input), find)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		t.Fatalf("got %s", got)
	}
}

func TestLoadInlines(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "docs/main.md", []byte("# Main\n\n%inline(\"part.md\")\n"), 0644)
	afero.WriteFile(fs, "docs/part.md", []byte("Some *part*.\n"), 0644)
	afero.WriteFile(fs, "docs/loop.md", []byte("%inline(\"loop.md\")"), 0644)

	d, err := Load(fs, "docs", "main.md")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(d.HTML, "<em>part</em>") {
		t.Fatal(d.HTML)
	}

	if _, err = Load(fs, "docs", "loop.md"); err == nil {
		t.Fatal("expected an error")
	}
	if _, err = Load(fs, "docs", "dangling.md"); err == nil {
		t.Fatal("expected an error")
	}
}
