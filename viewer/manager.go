// Package viewer composes the scene manager of the TBM panel: model loading
// and caching, interaction, physics and the animation loop.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/binzume/tbmscene/anim"
	"github.com/binzume/tbmscene/geom"
	"github.com/binzume/tbmscene/hierarchy"
	"github.com/binzume/tbmscene/identity"
	"github.com/binzume/tbmscene/interact"
	"github.com/binzume/tbmscene/modelcache"
	"github.com/binzume/tbmscene/naming"
	"github.com/binzume/tbmscene/physics"
	"github.com/binzume/tbmscene/rig"
	"github.com/binzume/tbmscene/scene"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrRootNotFound  = errors.New("root node not found")
	ErrNoModel       = errors.New("no model loaded")
)

// PhysicsStep is the fixed physics time step in seconds.
const PhysicsStep = 1.0 / 60

const maxSubSteps = 3

// CameraOffset is added to the model center to place the camera after a load.
var CameraOffset = geom.Vector3{X: 15, Y: 25, Z: 25}

// AssetLoader reads a scene graph from a path or URL.
type AssetLoader interface {
	LoadScene(ctx context.Context, path string, progress func(loaded, total int64)) (*scene.Node, error)
}

// Renderer draws the render tree. It is supplied by the host.
type Renderer interface {
	SetSize(width, height int)
	Render(root *scene.Node, camera *scene.Camera)
}

// Manager is the long lived scene service. All methods are safe for concurrent
// use. Handlers and animation callbacks run with the manager locked and must
// not call back into it.
type Manager struct {
	mu sync.Mutex

	loader   AssetLoader
	renderer Renderer
	rigCfg   rig.Config

	root     *scene.Node
	camera   *scene.Camera
	controls *scene.Controls
	world    *physics.World
	cache    *modelcache.Cache
	engine   *interact.Engine
	anims    *anim.Registry
	loop     *anim.Loop

	current       *modelcache.Entry
	width, height int
}

func NewManager(loader AssetLoader, opts *Options) *Manager {
	if opts == nil {
		opts = DefaultOptions()
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	camera := scene.NewCamera(45, 1, 0.1, 2000)
	m := &Manager{
		loader:   loader,
		rigCfg:   opts.Rig,
		root:     scene.NewNode("World"),
		camera:   camera,
		controls: scene.NewControls(camera, fps),
		world:    physics.NewWorld(),
		cache:    modelcache.New(),
		engine:   interact.NewEngine(camera, opts.Convention()),
		anims:    anim.NewRegistry(),
	}
	m.loop = anim.NewLoop(fps, m.Frame)
	m.resize(opts.Width, opts.Height)
	return m
}

// LoadModel loads path, or returns the cached model for (path, conv).
// onProgress receives 0..100 and may be nil.
func (m *Manager) LoadModel(ctx context.Context, path, rootName string, conv naming.Convention, onProgress func(pct float64)) (*scene.Node, *identity.Map, error) {
	if err := validate(path, rootName, conv); err != nil {
		return nil, nil, err
	}
	e, _, err := m.cache.Load(ctx, path, conv, func(ctx context.Context) (*modelcache.Entry, error) {
		return m.load(ctx, path, rootName, conv, onProgress)
	})
	if err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != e {
		m.display(e)
	}
	return e.Model, e.Parts, nil
}

func (m *Manager) load(ctx context.Context, path, rootName string, conv naming.Convention, onProgress func(pct float64)) (*modelcache.Entry, error) {
	m.mu.Lock()
	m.hide()
	m.mu.Unlock()

	var last float64 = -1
	progress := func(loaded, total int64) {
		if onProgress == nil || total <= 0 {
			return
		}
		pct := float64(loaded) * 100 / float64(total)
		if pct > 100 {
			pct = 100
		}
		if pct != last {
			last = pct
			onProgress(pct)
		}
	}
	root, err := m.loader.LoadScene(ctx, path, progress)
	if err != nil {
		return nil, err
	}

	model := root.FindByName(rootName)
	if model == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrRootNotFound, rootName, path)
	}
	if n := hierarchy.Normalize(model, rootName, conv); n > 0 {
		log.Printf("viewer: %d nodes renamed in %s", n, path)
	}
	parts, err := identity.Build(model, rootName, conv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// bodies are kept with the entry and installed into the shared world on display
	r, err := rig.Couple(model, physics.NewWorld(), conv, m.rigCfg)
	if err != nil {
		log.Printf("viewer: %s: %v. physics disabled.", path, err)
		r = nil
	}
	if onProgress != nil && last < 100 {
		onProgress(100)
	}
	return &modelcache.Entry{Scene: root, Model: model, Parts: parts, Rig: r}, nil
}

// hide removes the displayed model from the render tree and the world.
func (m *Manager) hide() {
	if m.current == nil {
		return
	}
	m.root.Remove(m.current.Scene)
	m.world.Clear()
	m.engine.SetScene(nil, nil, nil, m.current.Convention)
	m.current = nil
}

func (m *Manager) display(e *modelcache.Entry) {
	m.hide()
	m.root.Add(e.Scene)
	var hub *scene.Node
	if e.Rig != nil {
		e.Rig.Install(m.world)
		hub = e.Rig.Hub.Node
	}
	m.engine.SetScene(m.root, e.Parts, hub, e.Convention)
	m.current = e
	m.recenter(e.Model)
}

func (m *Manager) recenter(model *scene.Node) {
	box := model.BoundingBox()
	if box.IsEmpty() || box.Size().Len() == 0 {
		log.Printf("viewer: %s has an empty bounding box. camera not moved.", model.Name)
		return
	}
	center := box.Center()
	m.controls.Jump(center.Add(&CameraOffset), center)
	m.controls.SaveState()
}

// Reset eases the camera back to the view saved on load.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.controls.Reset()
}

func (m *Manager) Resize(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resize(width, height)
}

func (m *Manager) resize(width, height int) {
	m.width, m.height = width, height
	m.camera.SetSize(float32(width), float32(height))
	m.engine.Resize(float32(width), float32(height))
	if m.renderer != nil {
		m.renderer.SetSize(width, height)
	}
}

// Attach connects the host renderer. The scene, world and cache are kept
// across Detach/Attach.
func (m *Manager) Attach(r Renderer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renderer = r
	if r != nil {
		r.SetSize(m.width, m.height)
	}
}

func (m *Manager) Detach() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renderer = nil
}

// Current returns the displayed model and its identifier map.
func (m *Manager) Current() (*scene.Node, *identity.Map) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, nil
	}
	return m.current.Model, m.current.Parts
}

func (m *Manager) Camera() *scene.Camera {
	return m.camera
}

func (m *Manager) World() *physics.World {
	return m.world
}

func (m *Manager) PointerMove(x, y float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine.PointerMove(x, y)
}

func (m *Manager) Click() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine.Click()
}

func (m *Manager) DoubleClick(x, y float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine.DoubleClick(x, y)
}

func (m *Manager) SetPopupHandlers(onHover interact.HoverHandler, onUnhover interact.UnhoverHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine.SetPopupHandlers(onHover, onUnhover)
}

func (m *Manager) SetInfoHandlers(onClick interact.ClickHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine.SetInfoHandlers(onClick)
}

func (m *Manager) AddRaycastCallback(cb interact.RaycastCallback) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.AddRaycastCallback(cb)
}

func (m *Manager) RemoveRaycastCallback(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.RemoveRaycastCallback(id)
}

// AddAnimationCallback registers cb for b, replacing a binding of the same
// name. The loop starts with the first binding.
func (m *Manager) AddAnimationCallback(cb anim.Callback, b *anim.Binding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addAnimation(cb, b)
}

func (m *Manager) addAnimation(cb anim.Callback, b *anim.Binding) {
	m.anims.Add(cb, b)
	if !m.loop.Running() {
		m.loop.Start()
	}
}

// RemoveAnimationCallback removes the named binding. The loop stops with the last one.
func (m *Manager) RemoveAnimationCallback(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	ok := m.anims.Remove(name)
	if m.anims.Len() == 0 {
		m.loop.Stop()
	}
	return ok
}

// DisposeAnimation stops the loop and drops every binding.
func (m *Manager) DisposeAnimation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loop.Stop()
	m.anims.Clear()
}

func (m *Manager) Animating() bool {
	return m.loop.Running()
}

// Wait blocks until the animation loop has stopped.
func (m *Manager) Wait() {
	m.loop.Wait()
}

// Frame advances physics, animations and controls by delta seconds and renders.
func (m *Manager) Frame(delta float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.world.Step(PhysicsStep, float32(delta), maxSubSteps)
	m.anims.Run(delta)
	m.controls.Update()
	if m.current != nil && m.current.Rig != nil {
		m.current.Rig.SyncHub()
	}
	if m.renderer != nil {
		m.renderer.Render(m.root, m.camera)
	}
}
