/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

// FetchError reports a source that couldn't be fetched.
type FetchError struct {
	Src    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: status %d", e.Src, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s", e.Src, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Loader fetches datasets from local files or URLs.
//
// Local paths are relative to Dir (if set) in Fs.  Remote sources get
// one attempt.
type Loader struct {
	Fs     afero.Fs
	Dir    string
	Client *http.Client

	// Cache, if not nil, holds remote bodies.
	Cache *Cache

	logger hclog.Logger
}

// NewLoader makes a Loader.
//
// A nil fs means the OS filesystem.
func NewLoader(fs afero.Fs, logger hclog.Logger) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Loader{
		Fs:     fs,
		Client: cleanhttp.DefaultClient(),
		logger: logger.Named("loader"),
	}
}

// Remote reports whether the source is an http(s) URL.
func Remote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Path is where a local source is read from.
func (l *Loader) Path(src string) string {
	name := strings.TrimPrefix(src, "file://")
	if l.Dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.Dir, name)
}

// Fetch returns the (decompressed) body of the source.
func (l *Loader) Fetch(ctx context.Context, src string) ([]byte, error) {
	var (
		bs  []byte
		err error
	)
	if Remote(src) {
		bs, err = l.get(ctx, src)
	} else {
		bs, err = afero.ReadFile(l.Fs, l.Path(src))
		if err != nil {
			err = &FetchError{
				Src: src,
				Err: err,
			}
		}
	}
	if err != nil {
		return nil, err
	}

	if gzipped(src, bs) {
		if bs, err = gunzip(bs); err != nil {
			return nil, &FetchError{
				Src: src,
				Err: err,
			}
		}
	}
	return bs, nil
}

func (l *Loader) get(ctx context.Context, src string) ([]byte, error) {
	if l.Cache != nil {
		bs, hit, err := l.Cache.Get(ctx, src)
		if err != nil {
			l.logger.Warn("cache get", "src", src, "error", err)
		} else if hit {
			return bs, nil
		}
	}

	l.logger.Info("fetching", "src", src)
	req, err := http.NewRequestWithContext(ctx, "GET", src, nil)
	if err != nil {
		return nil, &FetchError{
			Src: src,
			Err: err,
		}
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, &FetchError{
			Src: src,
			Err: err,
		}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Src:    src,
			Status: resp.StatusCode,
		}
	}
	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{
			Src: src,
			Err: err,
		}
	}

	if l.Cache != nil {
		if err := l.Cache.Put(ctx, src, bs); err != nil {
			l.logger.Warn("cache put", "src", src, "error", err)
		}
	}
	return bs, nil
}

func gzipped(src string, bs []byte) bool {
	if 2 <= len(bs) && bs[0] == 0x1f && bs[1] == 0x8b {
		return true
	}
	return strings.HasSuffix(src, ".gz") && 0 < len(bs)
}

func gunzip(bs []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(bs))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// LoadCSV fetches and reads a CSV.
func (l *Loader) LoadCSV(ctx context.Context, src string, opts *CSVOpts) (*Frame, error) {
	bs, err := l.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return ReadCSV(bytes.NewReader(bs), opts)
}

// LoadJSON fetches and reads a JSON array of records.
func (l *Loader) LoadJSON(ctx context.Context, src string, columns ...string) (*Frame, error) {
	bs, err := l.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return ReadJSONRecords(bytes.NewReader(bs), columns...)
}

// LoadYAML fetches and reads a YAML array of maps.
func (l *Loader) LoadYAML(ctx context.Context, src string, columns ...string) (*Frame, error) {
	bs, err := l.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return ReadYAML(bytes.NewReader(bs), columns...)
}

// Load picks a reader based on the source's extension (ignoring
// ".gz").  CSV is the default.
func (l *Loader) Load(ctx context.Context, src string, opts *CSVOpts) (*Frame, error) {
	switch filepath.Ext(strings.TrimSuffix(src, ".gz")) {
	case ".json":
		return l.LoadJSON(ctx, src)
	case ".yaml", ".yml":
		return l.LoadYAML(ctx, src)
	}
	return l.LoadCSV(ctx, src, opts)
}

// Fallback returns f if err is nil.  Otherwise it logs a warning and
// returns an empty frame with the given columns.
func (l *Loader) Fallback(src string, f *Frame, err error, columns ...string) *Frame {
	if err == nil && f != nil {
		return f
	}
	l.logger.Warn("using an empty dataset", "src", src, "error", err)
	return NewFrame(columns...)
}
