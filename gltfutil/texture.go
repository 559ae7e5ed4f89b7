package gltfutil

import (
	"bytes"
	"errors"
	"image"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/binzume/tbmscene/geom"
	"github.com/blezek/tga"
	_ "github.com/oov/psd"
	"github.com/qmuntal/gltf"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// sampleSize is the edge of the thumbnail averaged for the texture tint.
const sampleSize = 8

type textureCache struct {
	doc      *gltf.Document
	fsys     fs.FS
	textures map[uint32]*textureInfo
}

type textureInfo struct {
	name string
	img  image.Image
	tint *geom.Color
	err  error
}

func newTextureCache(doc *gltf.Document, fsys fs.FS) *textureCache {
	return &textureCache{doc: doc, fsys: fsys, textures: map[uint32]*textureInfo{}}
}

func (c *textureCache) get(index uint32) *textureInfo {
	if t, ok := c.textures[index]; ok {
		return t
	}
	t := &textureInfo{}
	if int(index) < len(c.doc.Images) {
		img := c.doc.Images[index]
		t.name = img.Name
		if t.name == "" {
			t.name = img.URI
		}
	}
	c.textures[index] = t
	return t
}

func (c *textureCache) imageData(index uint32) ([]byte, error) {
	if int(index) >= len(c.doc.Images) {
		return nil, errors.New("image index out of range")
	}
	img := c.doc.Images[index]
	if img.BufferView != nil {
		bv := c.doc.BufferViews[*img.BufferView]
		data := c.doc.Buffers[bv.Buffer].Data
		end := bv.ByteOffset + bv.ByteLength
		if int(end) > len(data) {
			return nil, errors.New("image buffer view out of range")
		}
		return data[bv.ByteOffset:end], nil
	}
	if img.IsEmbeddedResource() {
		return img.MarshalData()
	}
	if img.URI == "" {
		return nil, errors.New("image has no data")
	}
	if c.fsys == nil {
		return nil, errors.New("no resource reader for " + img.URI)
	}
	name, ok := relativeURI(img.URI)
	if !ok {
		return nil, errors.New("unsupported image uri: " + img.URI)
	}
	return fs.ReadFile(c.fsys, name)
}

// relativeURI turns uri into a slash separated path below the document.
func relativeURI(uri string) (string, bool) {
	uri = strings.ReplaceAll(uri, "\\", "/")
	uri = strings.TrimPrefix(uri, "./")
	u, err := url.Parse(uri)
	if err != nil || u.IsAbs() || strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	name := strings.TrimPrefix(u.EscapedPath(), "/")
	if !fs.ValidPath(name) {
		return "", false
	}
	return name, true
}

func (c *textureCache) getImage(index uint32) (image.Image, error) {
	t := c.get(index)
	if t.img != nil || t.err != nil {
		return t.img, t.err
	}
	var data []byte
	data, t.err = c.imageData(index)
	if t.err != nil {
		return nil, t.err
	}
	t.img, _, t.err = image.Decode(bytes.NewReader(data))
	if t.err != nil && strings.ToLower(filepath.Ext(t.name)) == ".tga" {
		// retry
		t.img, t.err = tga.Decode(bytes.NewReader(data))
	}
	return t.img, t.err
}

// Tint returns the average color of the base texture, or nil if it cannot be read.
func (c *textureCache) Tint(texture uint32) *geom.Color {
	if int(texture) >= len(c.doc.Textures) || c.doc.Textures[texture].Source == nil {
		return nil
	}
	index := *c.doc.Textures[texture].Source
	t := c.get(index)
	if t.tint != nil {
		return t.tint
	}
	img, err := c.getImage(index)
	if err != nil {
		return nil
	}
	t.tint = averageColor(img)
	return t.tint
}

func averageColor(img image.Image) *geom.Color {
	dst := image.NewRGBA(image.Rect(0, 0, sampleSize, sampleSize))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	var r, g, b float32
	for i := 0; i < len(dst.Pix); i += 4 {
		r += float32(dst.Pix[i])
		g += float32(dst.Pix[i+1])
		b += float32(dst.Pix[i+2])
	}
	n := float32(sampleSize*sampleSize) * 255
	return &geom.Color{R: r / n, G: g / n, B: b / n}
}
