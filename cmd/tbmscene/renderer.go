package main

import (
	"log"

	"github.com/binzume/tbmscene/scene"
)

// logRenderer stands in for a GPU surface: it counts frames and logs the
// camera and the visible geometry now and then.
type logRenderer struct {
	every         int
	frames        int
	width, height int
}

func (r *logRenderer) SetSize(width, height int) {
	r.width, r.height = width, height
}

func (r *logRenderer) Render(root *scene.Node, camera *scene.Camera) {
	r.frames++
	if r.every > 0 && r.frames%r.every != 0 {
		return
	}
	triangles := 0
	root.Walk(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		if n.Mesh != nil {
			triangles += n.Mesh.TriangleCount()
		}
		return true
	})
	p, t := camera.Position, camera.Target
	log.Printf("frame %d %dx%d: %d triangles, camera (%.1f, %.1f, %.1f) -> (%.1f, %.1f, %.1f)",
		r.frames, r.width, r.height, triangles, p.X, p.Y, p.Z, t.X, t.Y, t.Z)
}
