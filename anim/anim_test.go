package anim

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/binzume/tbmscene/geom"
	"github.com/binzume/tbmscene/physics"
	"github.com/binzume/tbmscene/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestRegistryReplaceInPlace(t *testing.T) {
	r := NewRegistry()
	var calls []string
	cb := func(tag string) Callback {
		return func(delta, value float64, target Target) { calls = append(calls, tag) }
	}

	assert.True(t, r.Add(cb("a"), &Binding{Name: "a"}))
	assert.False(t, r.Add(cb("b"), &Binding{Name: "b"}))
	assert.False(t, r.Add(cb("c"), &Binding{Name: "c"}))
	assert.False(t, r.Add(cb("b2"), &Binding{Name: "b", Value: 3}))

	assert.Equal(t, []string{"a", "b", "c"}, r.Names())
	assert.Equal(t, 3.0, r.Get("b").Value)
	r.Run(0.1)
	assert.Equal(t, []string{"a", "b2", "c"}, calls)

	assert.True(t, r.SetValue("c", 7))
	assert.False(t, r.SetValue("x", 7))
	assert.Equal(t, 7.0, r.Get("c").Value)

	assert.True(t, r.Remove("a"))
	assert.False(t, r.Remove("a"))
	assert.Equal(t, 2, r.Len())
	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Get("b"))
}

func TestRegistryPassesValueAndTarget(t *testing.T) {
	r := NewRegistry()
	node := scene.NewNode("n")
	var got Target
	var gotValue, gotDelta float64
	r.Add(func(delta, value float64, target Target) {
		gotDelta, gotValue, got = delta, value, target
	}, &Binding{Name: "n", Value: 12, Target: Target{Node: node}})
	r.Run(0.5)
	assert.Equal(t, 0.5, gotDelta)
	assert.Equal(t, 12.0, gotValue)
	assert.Same(t, node, got.Node)
}

func TestLoop(t *testing.T) {
	var frames int32
	l := NewLoop(500, func(delta float64) {
		atomic.AddInt32(&frames, 1)
	})
	assert.False(t, l.Running())
	assert.True(t, l.Start())
	assert.False(t, l.Start())
	assert.True(t, l.Running())

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&frames) >= 3 }, 2*time.Second, time.Millisecond)
	l.Stop()
	l.Wait()
	assert.False(t, l.Running())

	n := atomic.LoadInt32(&frames)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, atomic.LoadInt32(&frames))

	// restart after stop
	assert.True(t, l.Start())
	l.Stop()
	l.Wait()
}

func TestLoopStopFromFrame(t *testing.T) {
	var l *Loop
	var frames int32
	l = NewLoop(500, func(delta float64) {
		atomic.AddInt32(&frames, 1)
		l.Stop()
	})
	l.Start()
	assert.Eventually(t, func() bool { return !l.Running() }, 2*time.Second, time.Millisecond)
	l.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&frames))
}

func TestRotateX(t *testing.T) {
	node := scene.NewNode("wheel")
	// 15 rpm for one second is a quarter turn
	RotateX(1, 15, Target{Node: node})
	v := node.Rotation.ApplyTo(geom.NewVector3(0, 1, 0))
	assert.InDelta(t, 0, v.Sub(geom.NewVector3(0, 0, 1)).Len(), 1e-4)

	RotateX(1, 15, Target{})
}

func TestTranslateX(t *testing.T) {
	node := scene.NewNode("piston")
	body := physics.NewBody("piston", physics.NewBox(mgl32.Vec3{1, 1, 1}), 0, mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent())
	TranslateX(0.5, 4, Target{Node: node, Body: body})
	assert.Equal(t, mgl32.Vec3{3, 2, 3}, body.Position)
	assert.Equal(t, geom.Vector3{X: 3, Y: 2, Z: 3}, node.Position)

	TranslateX(1, 1, Target{Node: node})
	assert.Equal(t, float32(3), node.Position.X)
}
