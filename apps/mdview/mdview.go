// Package mdview displays one of a few Markdown files.
package mdview

import (
	"context"
	"embed"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/viz/markdown"
	"github.com/Comcast/vizcrew/widget"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

const (
	FileKey = "file_name"
	MDView  = "markdown"

	// Dir holds the documents.
	Dir = "docs"
)

//go:embed docs/*.md
var docs embed.FS

// Files are offered in this order.  The first is the default.
var Files = []string{"demo.md", "sample.md", "module.md"}

// Docs returns the embedded documents overlaid by any in the data
// directory's Dir.
func Docs(dataDir string) afero.Fs {
	base := afero.FromIOFS{FS: docs}
	if dataDir == "" {
		return base
	}
	over := afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dataDir))
	return afero.NewCopyOnWriteFs(base, over)
}

func New(env *sio.Env) (sio.Factory, error) {
	return NewFrom(env, Docs(env.Conf.DataDir))
}

// NewFrom reads documents from fs's Dir.
func NewFrom(env *sio.Env, fs afero.Fs) (sio.Factory, error) {
	logger := env.Log("mdview")
	return func() sio.App {
		return &App{
			Fs:     fs,
			logger: logger,
		}
	}, nil
}

type App struct {
	Fs afero.Fs

	logger hclog.Logger
	view   *widget.View
}

func (a *App) Build(ctx context.Context, s *sio.Session) (*widget.Node, error) {
	st := s.Store
	st.Init(core.Bindings{
		FileKey:        Files[0],
		"file_options": Files,
	})
	a.view = s.View(MDView, widget.KindMarkdown)

	page := widget.SinglePage("Markdown Viewer")
	page.Toolbar.Add(
		widget.Spacer(),
		widget.SelectFrom(FileKey, "File", "file_options"),
	)
	page.Content.Add(a.view.Node())

	_, err := st.WatchNow(ctx, "update_markdown_content", []string{FileKey}, func(ctx context.Context, st *core.Store, bs core.Bindings) error {
		name, _ := bs.String(FileKey)
		doc, err := markdown.Load(a.Fs, Dir, name)
		if err != nil {
			a.logger.Warn("reading", "file", name, "error", err)
		}
		return a.view.Update(doc.Artifact())
	})
	if err != nil {
		return nil, err
	}
	return page.Node(), nil
}
