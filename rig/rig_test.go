package rig

import (
	"fmt"
	"testing"

	"github.com/binzume/tbmscene/geom"
	"github.com/binzume/tbmscene/naming"
	"github.com/binzume/tbmscene/physics"
	"github.com/binzume/tbmscene/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var conv = naming.Parse("ASM, CMP")

func part(name string, pos geom.Vector3, sx, sy, sz float32) *scene.Node {
	n := scene.NewNode(name)
	n.Position = pos
	n.Mesh = scene.NewBoxMesh(sx, sy, sz, scene.NewMaterial(name, geom.Color{R: 0.5}))
	return n
}

func machine(pistons int) *scene.Node {
	model := scene.NewNode("ASM_TBM")
	model.Add(part("CMP_HUBCOVER", geom.Vector3{}, 2, 8, 6))
	model.Add(part("CMP_SHIELD", geom.Vector3{}, 1, 1, 1))
	thrust := scene.NewNode("ASM_THRUST")
	for i := 1; i <= pistons; i++ {
		thrust.Add(part(fmt.Sprintf("CMP_PISTON_%d", i), geom.Vector3{X: 5, Y: float32(i)}, 4, 0.5, 0.5))
	}
	model.Add(thrust)
	return model
}

func TestCouple(t *testing.T) {
	model := machine(12)
	world := physics.NewWorld()
	r, err := Couple(model, world, conv, DefaultConfig())
	require.NoError(t, err)

	assert.Len(t, world.Bodies(), 13)
	assert.Len(t, world.Constraints(), 12)
	assert.Len(t, r.Pistons, 12)

	hub := r.Hub.Body
	assert.Equal(t, physics.CylinderShape, hub.Shape.Kind)
	assert.InDelta(t, 4, hub.Shape.Radius, 1e-4)
	assert.InDelta(t, 1, hub.Shape.Height, 1e-4)
	assert.Equal(t, float32(1), hub.Mass)

	p := r.Actuator("CMP_PISTON_3")
	require.NotNil(t, p)
	assert.Equal(t, physics.BoxShape, p.Body.Shape.Kind)
	assert.True(t, p.Body.IsStatic())
	assert.InDelta(t, 2, p.Body.Shape.HalfExtents[0], 1e-4)

	// constraints start satisfied: both pivots at the piston end face
	for _, c := range r.Constraints {
		assert.Less(t, c.Error(), float32(1e-3))
	}
	c := r.Constraints[2]
	assert.InDelta(t, 7, c.A.PointToWorld(c.PivotA)[0], 1e-4)
	assert.InDelta(t, 3, c.A.PointToWorld(c.PivotA)[1], 1e-4)
}

func TestGrouping(t *testing.T) {
	model := machine(1)
	_, err := Couple(model, physics.NewWorld(), conv, DefaultConfig())
	require.NoError(t, err)

	hub := model.FindByName("CMP_HUBCOVER")
	assert.Same(t, hub, model.FindByName("CMP_SHIELD").Parent())
	assert.Same(t, model, model.FindByName("ASM_THRUST").Parent())
	assert.Len(t, model.Children(), 2)
}

func TestCoupleMissingParts(t *testing.T) {
	world := physics.NewWorld()
	r, err := Couple(machine(4), world, conv, DefaultConfig())
	require.NoError(t, err)
	assert.Len(t, r.Pistons, 4)
	assert.Len(t, world.Constraints(), 4)

	model := scene.NewNode("ASM_TBM")
	model.Add(part("CMP_PISTON_1", geom.Vector3{}, 1, 1, 1))
	world = physics.NewWorld()
	_, err = Couple(model, world, conv, DefaultConfig())
	assert.ErrorIs(t, err, ErrHubNotFound)
	assert.Empty(t, world.Bodies())
}

func TestSyncHub(t *testing.T) {
	model := machine(2)
	hub := model.FindByName("CMP_HUBCOVER")
	hub.Rotation = *geom.NewEuler(0.3, 0, 0, geom.RotationOrderXYZ).ToQuaternion()
	rot := hub.Rotation

	world := physics.NewWorld()
	r, err := Couple(model, world, conv, DefaultConfig())
	require.NoError(t, err)

	r.SyncHub()
	assert.InDelta(t, 0, hub.Rotation.Sub(&rot).Len(), 1e-4)

	r.Hub.Body.Position[1] = 2
	r.SyncHub()
	assert.Equal(t, float32(2), hub.Position.Y)
}

func TestInstall(t *testing.T) {
	world := physics.NewWorld()
	r, err := Couple(machine(3), world, conv, DefaultConfig())
	require.NoError(t, err)

	world.Clear()
	r.Install(world)
	assert.Len(t, world.Bodies(), 4)
	assert.Len(t, world.Constraints(), 3)
}
