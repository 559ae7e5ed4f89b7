package gltfutil

import (
	"fmt"
	"io/fs"
	"log"

	"github.com/binzume/tbmscene/geom"
	"github.com/binzume/tbmscene/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"golang.org/x/text/unicode/norm"
)

type sceneBuilder struct {
	doc       *gltf.Document
	textures  *textureCache
	materials map[uint32]*scene.Material
	meshes    map[uint32][]*scene.Mesh
	fallback  *scene.Material
}

// BuildScene converts the default scene of doc (or the first one) to a node tree.
// Node names are NFC normalized. A mesh with several primitives becomes one
// unnamed child node per primitive. fsys resolves external images and may be nil.
func BuildScene(doc *gltf.Document, fsys fs.FS) (*scene.Node, error) {
	b := &sceneBuilder{
		doc:       doc,
		textures:  newTextureCache(doc, fsys),
		materials: map[uint32]*scene.Material{},
		meshes:    map[uint32][]*scene.Mesh{},
	}

	root := scene.NewNode("Scene")
	var roots []uint32
	if len(doc.Scenes) > 0 {
		si := uint32(0)
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			si = *doc.Scene
		}
		s := doc.Scenes[si]
		if s.Name != "" {
			root.Name = norm.NFC.String(s.Name)
		}
		roots = s.Nodes
	} else {
		// no scene: every node without a parent is a root
		hasParent := make([]bool, len(doc.Nodes))
		for _, n := range doc.Nodes {
			for _, c := range n.Children {
				if int(c) < len(hasParent) {
					hasParent[c] = true
				}
			}
		}
		for i := range doc.Nodes {
			if !hasParent[i] {
				roots = append(roots, uint32(i))
			}
		}
	}

	visiting := map[uint32]bool{}
	for _, ni := range roots {
		n, err := b.node(ni, visiting)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	return root, nil
}

func (b *sceneBuilder) node(index uint32, visiting map[uint32]bool) (*scene.Node, error) {
	if int(index) >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("node %d out of range", index)
	}
	if visiting[index] {
		return nil, fmt.Errorf("node %d: cyclic hierarchy", index)
	}
	visiting[index] = true
	defer delete(visiting, index)

	src := b.doc.Nodes[index]
	n := scene.NewNode(norm.NFC.String(src.Name))
	if m := src.MatrixOrDefault(); m != gltf.DefaultMatrix {
		pos, rot, scale := geom.NewMatrix4FromSlice(m[:]).Decompose()
		n.Position, n.Rotation, n.Scale = *pos, *rot, *scale
	} else {
		n.Position = *geom.NewVector3FromArray(src.Translation)
		n.Rotation = *geom.NewQuaternionFromArray(src.RotationOrDefault())
		n.Scale = *geom.NewVector3FromArray(src.ScaleOrDefault())
	}

	if src.Mesh != nil {
		meshes, err := b.mesh(*src.Mesh)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", src.Name, err)
		}
		if len(meshes) == 1 {
			n.Mesh = meshes[0].Instance()
		} else {
			for _, m := range meshes {
				prim := scene.NewNode("")
				prim.Mesh = m.Instance()
				n.Add(prim)
			}
		}
	}

	for _, ci := range src.Children {
		c, err := b.node(ci, visiting)
		if err != nil {
			return nil, err
		}
		n.Add(c)
	}
	return n, nil
}

// mesh returns the primitives of mesh index. The result is shared between
// nodes; callers attach an Instance of each.
func (b *sceneBuilder) mesh(index uint32) ([]*scene.Mesh, error) {
	if m, ok := b.meshes[index]; ok {
		return m, nil
	}
	if int(index) >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("mesh %d out of range", index)
	}
	var meshes []*scene.Mesh
	for i, p := range b.doc.Meshes[index].Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			log.Printf("mesh %d primitive %d: mode %v is not supported. skipped.", index, i, p.Mode)
			continue
		}
		pa, ok := p.Attributes["POSITION"]
		if !ok {
			continue
		}
		pos, err := modeler.ReadPosition(b.doc, b.doc.Accessors[pa], [][3]float32{})
		if err != nil {
			return nil, err
		}
		positions := make([]geom.Vector3, len(pos))
		for j, v := range pos {
			positions[j] = geom.Vector3{X: v[0], Y: v[1], Z: v[2]}
		}
		var indices []uint32
		if p.Indices != nil {
			indices, err = modeler.ReadIndices(b.doc, b.doc.Accessors[*p.Indices], []uint32{})
			if err != nil {
				return nil, err
			}
		}
		meshes = append(meshes, scene.NewMesh(positions, indices, b.material(p.Material)))
	}
	b.meshes[index] = meshes
	return meshes, nil
}

func (b *sceneBuilder) material(index *uint32) *scene.Material {
	if index == nil || int(*index) >= len(b.doc.Materials) {
		if b.fallback == nil {
			b.fallback = scene.NewMaterial("default", geom.Color{R: 1, G: 1, B: 1})
		}
		return b.fallback
	}
	if m, ok := b.materials[*index]; ok {
		return m
	}
	src := b.doc.Materials[*index]
	col := [4]float32{1, 1, 1, 1}
	if pbr := src.PBRMetallicRoughness; pbr != nil {
		col = pbr.BaseColorFactorOrDefault()
		if pbr.BaseColorTexture != nil {
			if tint := b.textures.Tint(pbr.BaseColorTexture.Index); tint != nil {
				col[0] *= tint.R
				col[1] *= tint.G
				col[2] *= tint.B
			}
		}
	}
	m := scene.NewMaterial(norm.NFC.String(src.Name), geom.Color{R: col[0], G: col[1], B: col[2]})
	m.Opacity = col[3]
	m.Transparent = src.AlphaMode == gltf.AlphaBlend
	b.materials[*index] = m
	return m
}
