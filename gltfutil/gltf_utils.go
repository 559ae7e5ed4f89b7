package gltfutil

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/binzume/tbmscene/scene"
	"github.com/qmuntal/gltf"
)

// ProgressFunc receives the bytes read so far and the expected total (-1 if unknown).
type ProgressFunc func(loaded, total int64)

type progressReader struct {
	r        io.Reader
	loaded   int64
	total    int64
	progress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		if p.progress != nil {
			p.progress(p.loaded, p.total)
		}
	}
	return n, err
}

// Loader reads glTF / glb scenes from local paths or http(s) URLs.
type Loader struct {
	Client *http.Client
}

func NewLoader() *Loader {
	return &Loader{Client: http.DefaultClient}
}

func isURL(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// Load decodes the document at p. The returned fs.FS resolves buffers and
// images relative to p.
func (l *Loader) Load(ctx context.Context, p string, progress ProgressFunc) (*gltf.Document, fs.FS, error) {
	var (
		r     io.ReadCloser
		total int64 = -1
		fsys  fs.FS
	)
	if isURL(p) {
		base, err := url.Parse(p)
		if err != nil {
			return nil, nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p, nil)
		if err != nil {
			return nil, nil, err
		}
		resp, err := l.client().Do(req)
		if err != nil {
			return nil, nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, nil, fmt.Errorf("fetch %s: %s", p, resp.Status)
		}
		r, total = resp.Body, resp.ContentLength
		fsys = &httpFS{ctx: ctx, client: l.client(), base: base}
	} else {
		f, err := os.Open(p)
		if err != nil {
			return nil, nil, err
		}
		if st, err := f.Stat(); err == nil {
			total = st.Size()
		}
		r = f
		fsys = unescapeFS{os.DirFS(filepath.Dir(p))}
	}
	defer r.Close()

	var doc gltf.Document
	dec := gltf.NewDecoderFS(&progressReader{r: r, total: total, progress: progress}, fsys)
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, err
	}
	return &doc, fsys, nil
}

// LoadScene loads p and converts its default scene.
func (l *Loader) LoadScene(ctx context.Context, p string, progress func(loaded, total int64)) (*scene.Node, error) {
	doc, fsys, err := l.Load(ctx, p, progress)
	if err != nil {
		return nil, err
	}
	return BuildScene(doc, fsys)
}

func (l *Loader) client() *http.Client {
	if l.Client != nil {
		return l.Client
	}
	return http.DefaultClient
}

// unescapeFS opens percent-encoded relative URIs as plain file names.
type unescapeFS struct {
	fsys fs.FS
}

func (u unescapeFS) Open(name string) (fs.File, error) {
	if n, err := url.PathUnescape(name); err == nil {
		name = n
	}
	return u.fsys.Open(name)
}

// httpFS resolves relative URIs against the URL of the document.
type httpFS struct {
	ctx    context.Context
	client *http.Client
	base   *url.URL
}

func (h *httpFS) Open(name string) (fs.File, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	u := *h.base
	u.RawQuery = ""
	u.Path = path.Join(path.Dir(h.base.Path), ref.Path)
	u.RawPath = ""
	req, err := http.NewRequestWithContext(h.ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		return nil, &fs.PathError{Op: "open", Path: name, Err: fmt.Errorf("fetch %s: %s", u.String(), resp.Status)}
	}
	return &httpFile{body: resp.Body, name: path.Base(u.Path), size: resp.ContentLength}, nil
}

type httpFile struct {
	body io.ReadCloser
	name string
	size int64
}

func (f *httpFile) Read(b []byte) (int, error) { return f.body.Read(b) }
func (f *httpFile) Close() error               { return f.body.Close() }
func (f *httpFile) Stat() (fs.FileInfo, error) { return httpFileInfo{f}, nil }

type httpFileInfo struct {
	f *httpFile
}

func (i httpFileInfo) Name() string { return i.f.name }
func (i httpFileInfo) Size() int64 {
	if i.f.size < 0 {
		return 0
	}
	return i.f.size
}
func (i httpFileInfo) Mode() fs.FileMode  { return 0444 }
func (i httpFileInfo) ModTime() time.Time { return time.Time{} }
func (i httpFileInfo) IsDir() bool        { return false }
func (i httpFileInfo) Sys() interface{}   { return nil }
