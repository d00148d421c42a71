package Hydro2D

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gohydro/EOS"
	"github.com/notargets/gohydro/Riemann"
	"github.com/notargets/gohydro/geometry2D"
	"github.com/notargets/gohydro/types"
)

var approx = cmpopts.EquateApprox(1.e-12, 1.e-12)

func TestConvertToPrimitive(t *testing.T) {
	prim, err := ConvertToPrimitive(types.ComputationalCell{Density: 1, Pressure: 1,
		Velocity: r2.Vec{X: 1}}, idealGas(t))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, prim.Energy, 1.e-14)
	assert.InDelta(t, math.Sqrt(1.4), prim.SoundSpeed, 1.e-14)
	assert.Equal(t, r2.Vec{X: 1}, prim.Velocity)
	_, err = ConvertToPrimitive(types.ComputationalCell{Density: -1, Pressure: 1}, idealGas(t))
	assert.True(t, errors.Is(err, EOS.ErrInvalidDensity))
	// A gas cell without pressure has no positive internal energy
	_, err = ConvertToPrimitive(types.ComputationalCell{Density: 1, Pressure: 0}, idealGas(t))
	assert.True(t, errors.Is(err, EOS.ErrInvalidEnergy))
}

func TestRegularFluxAntisymmetry(t *testing.T) {
	var (
		cm    = newMesh(t, 2, 1)
		edge  = cm.GetAllEdges()[1]
		cells = []types.ComputationalCell{
			{Density: 1, Pressure: 1, Velocity: r2.Vec{X: 0.3, Y: -0.1}, Tracers: types.Tracers{"ink": 0.25}},
			{Density: 0.4, Pressure: 0.3, Velocity: r2.Vec{X: -0.2, Y: 0.5}, Tracers: types.Tracers{"ink": 0.75}},
		}
		pointVelocities = []r2.Vec{{X: 0.05, Y: 0.02}, {X: -0.01, Y: 0.03}}
		swapped         = geometry2D.Edge{
			Vertices:  [2]r2.Vec{edge.Vertices[1], edge.Vertices[0]},
			Neighbors: [2]int{edge.Neighbors[1], edge.Neighbors[0]},
		}
	)
	for _, rs := range []Riemann.Solver{Riemann.HLL{}, Riemann.LaxFriedrichs{}} {
		rf := RegularFlux{Solver: rs}
		f, err := rf.Apply(edge, cm, pointVelocities, cells, idealGas(t), false)
		require.NoError(t, err)
		fs, err := rf.Apply(swapped, cm, pointVelocities, cells, idealGas(t), false)
		require.NoError(t, err)
		if diff := cmp.Diff(f.Negate(), fs, approx); diff != "" {
			t.Errorf("%T: swapped edge flux is not the negated flux (-want +got):\n%s", rs, diff)
		}
		// Flow is left to right so the first cell donates its tracer
		require.Greater(t, f.Mass, 0.)
		assert.InDelta(t, 0.25*f.Mass, f.Tracers["ink"], 1.e-14)
	}
}

func TestRigidWallFlux(t *testing.T) {
	var (
		ctrl  = gomock.NewController(t)
		rs    = NewMockSolver(ctrl)
		cm    = newMesh(t, 2, 1)
		edges = cm.GetAllEdges()
		cells = uniformCells(2, types.ComputationalCell{
			Density: 1, Pressure: 1, Velocity: r2.Vec{X: 0.3, Y: 0.2},
			Tracers: types.Tracers{"ink": 0.5},
		})
		wall = RigidWallFlux{Solver: rs}
	)
	// Left boundary, interior is the second neighbor so the ghost sits on the left
	rs.EXPECT().Solve(gomock.Any(), gomock.Any(), 0.).DoAndReturn(
		func(left, right types.Primitive, velocity float64) (types.Conserved, error) {
			assert.Equal(t, r2.Vec{X: 0.3, Y: 0.2}, right.Velocity)
			assert.Equal(t, r2.Vec{X: -0.3, Y: 0.2}, left.Velocity)
			assert.Equal(t, left.Pressure, right.Pressure)
			assert.Equal(t, left.SoundSpeed, right.SoundSpeed)
			return types.Conserved{Mass: 0.1, Momentum: r2.Vec{X: 2, Y: 0.5}, Energy: 3}, nil
		})
	f, err := wall.Apply(edges[0], cm, nil, cells, idealGas(t), false)
	require.NoError(t, err)
	assert.Equal(t, r2.Vec{X: 2, Y: 0.5}, f.Momentum) // n = +x, p = +y
	assert.Equal(t, 0.05, f.Tracers["ink"])

	// Right boundary, interior is the first neighbor and the ghost sits on the right
	rs.EXPECT().Solve(gomock.Any(), gomock.Any(), 0.).DoAndReturn(
		func(left, right types.Primitive, velocity float64) (types.Conserved, error) {
			assert.Equal(t, r2.Vec{X: 0.3, Y: 0.2}, left.Velocity)
			assert.Equal(t, r2.Vec{X: -0.3, Y: 0.2}, right.Velocity)
			return types.Conserved{}, nil
		})
	_, err = wall.Apply(edges[2], cm, nil, cells, idealGas(t), true)
	require.NoError(t, err)

	// Solver failures are passed through
	boom := errors.New("boom")
	rs.EXPECT().Solve(gomock.Any(), gomock.Any(), gomock.Any()).Return(types.Conserved{}, boom)
	_, err = wall.Apply(edges[0], cm, nil, cells, idealGas(t), false)
	assert.True(t, errors.Is(err, boom))
}

func TestRigidWallNoMassFlux(t *testing.T) {
	var (
		cm    = newMesh(t, 2, 2)
		edges = cm.GetAllEdges()
		cells = uniformCells(4, types.ComputationalCell{
			Density: 1, Pressure: 1, Velocity: r2.Vec{X: 0.4, Y: -0.3},
		})
	)
	for _, rs := range []Riemann.Solver{Riemann.HLL{}, Riemann.LaxFriedrichs{}} {
		for _, edge := range edges {
			match, aux := IsBoundaryEdge{}.Classify(edge, cm, cells)
			if !match {
				continue
			}
			f, err := RigidWallFlux{Solver: rs}.Apply(edge, cm, nil, cells, idealGas(t), aux)
			require.NoError(t, err)
			assert.InDelta(t, 0, f.Mass, 1.e-14)
			assert.InDelta(t, 0, f.Energy, 1.e-14)
		}
	}
}

func TestFreeFlowFlux(t *testing.T) {
	var (
		cm    = newMesh(t, 2, 1)
		edges = cm.GetAllEdges()
		cells = uniformCells(2, types.ComputationalCell{
			Density: 1, Pressure: 2, Tracers: types.Tracers{"ink": 0.5},
		})
	)
	{ // A resting state only transmits its pressure
		f, err := FreeFlowFlux{Solver: Riemann.HLL{}}.Apply(edges[0], cm, nil, cells, idealGas(t), false)
		require.NoError(t, err)
		want := types.Extensive{Momentum: r2.Vec{X: 2}, Tracers: types.Tracers{"ink": 0}}
		if diff := cmp.Diff(want, f, approx); diff != "" {
			t.Errorf("resting free flow flux (-want +got):\n%s", diff)
		}
		// Top boundary of cell 1, normal points out of the domain in +y
		f, err = FreeFlowFlux{Solver: Riemann.HLL{}}.Apply(edges[6], cm, nil, cells, idealGas(t), true)
		require.NoError(t, err)
		assert.InDelta(t, 0, f.Momentum.X, 1.e-14)
		assert.InDelta(t, 2, f.Momentum.Y, 1.e-14)
	}
	{ // Outflow on the right boundary carries the interior state's physical flux
		cells[1].Velocity = r2.Vec{X: 0.5}
		f, err := FreeFlowFlux{Solver: Riemann.LaxFriedrichs{}}.Apply(edges[2], cm, nil, cells, idealGas(t), true)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, f.Mass, 1.e-14)
		assert.InDelta(t, 0.25, f.Tracers["ink"], 1.e-14)
	}
}

func TestActionsInvalidTopology(t *testing.T) {
	var (
		cm    = newMesh(t, 2, 1)
		cells = uniformCells(2, types.ComputationalCell{Density: 1, Pressure: 1})
		pv    = make([]r2.Vec, 2)
		eos   = idealGas(t)
		good  = cm.GetAllEdges()[1]
	)
	check := func(a Action, edge geometry2D.Edge, cells []types.ComputationalCell, pv []r2.Vec, aux bool) {
		_, err := a.Apply(edge, cm, pv, cells, eos, aux)
		assert.True(t, errors.Is(err, ErrInvalidTopology), "%T %v: %v", a, edge.Neighbors, err)
	}
	outside := good
	outside.Neighbors = [2]int{0, 7}
	check(RegularFlux{Solver: Riemann.HLL{}}, outside, cells, pv, false)
	check(RegularFlux{Solver: Riemann.HLL{}}, good, cells[:1], pv, false)
	check(RegularFlux{Solver: Riemann.HLL{}}, good, cells, pv[:1], false)
	degenerate := good
	degenerate.Vertices[1] = degenerate.Vertices[0]
	check(RegularFlux{Solver: Riemann.HLL{}}, degenerate, cells, pv, false)
	same := good
	same.Neighbors = [2]int{1, 1}
	check(RegularFlux{Solver: Riemann.HLL{}}, same, cells, pv, false)

	boundary := cm.GetAllEdges()[0] // {-1, 0}
	for _, a := range []Action{RigidWallFlux{Solver: Riemann.HLL{}}, FreeFlowFlux{Solver: Riemann.HLL{}}} {
		// aux names the first slot as interior but it is outside
		check(a, boundary, cells, pv, true)
		check(a, boundary, cells[:0], pv, false)
		// A mesh point on the edge line leaves no normal direction
		inline := boundary
		inline.Vertices = [2]r2.Vec{{X: 0.5, Y: 0}, {X: 0.5, Y: 1}}
		check(a, inline, cells, pv, false)
	}
}
