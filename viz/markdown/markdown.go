// Package markdown renders Markdown documents for display.
package markdown

import (
	"fmt"
	"path/filepath"

	"github.com/Comcast/vizcrew/widget"

	md "github.com/russross/blackfriday/v2"
	"github.com/spf13/afero"
)

// Document is Markdown source and its HTML.
type Document struct {
	Source string `json:"source"`
	HTML   string `json:"html"`
}

// Render converts the Markdown to HTML.
func Render(src string) *Document {
	return &Document{
		Source: src,
		HTML:   string(md.Run([]byte(src))),
	}
}

func (d *Document) Artifact() *widget.Artifact {
	return widget.NewArtifact(widget.KindMarkdown, d)
}

// ErrorText is the Markdown displayed when a file can't be read.
func ErrorText(name, path string) string {
	return fmt.Sprintf("# Error\nCould not find or read '%s' at '%s'.", name, path)
}

// Load reads dir/name, expanding any '%inline("NAME")' with the
// contents of dir/NAME.
//
// A missing or unreadable file (or a directory) gives a document
// with ErrorText along with the error.
func Load(fs afero.Fs, dir, name string) (*Document, error) {
	path := filepath.Join(dir, name)
	if info, err := fs.Stat(path); err != nil {
		return Render(ErrorText(name, path)), err
	} else if info.IsDir() {
		return Render(ErrorText(name, path)), fmt.Errorf("%s is a directory", path)
	}
	bs, err := ReadWithInlines(fs, dir, name)
	if err != nil {
		return Render(ErrorText(name, path)), err
	}
	return Render(string(bs)), nil
}
