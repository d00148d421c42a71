package Hydro2D

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gohydro/EOS"
	"github.com/notargets/gohydro/Riemann"
	"github.com/notargets/gohydro/geometry2D"
	"github.com/notargets/gohydro/types"
)

func standardRules(rs Riemann.Solver) []Rule {
	return []Rule{
		{Name: "boundary/wall", Condition: IsBoundaryEdge{}, Action: RigidWallFlux{Solver: rs}},
		{Name: "bulk/regular", Condition: IsBulkEdge{}, Action: RegularFlux{Solver: rs}},
	}
}

func TestNewConditionActionSequence(t *testing.T) {
	_, err := NewConditionActionSequence(nil)
	assert.Error(t, err)
	_, err = NewConditionActionSequence([]Rule{{Condition: IsBulkEdge{}}})
	assert.Error(t, err)

	rules := standardRules(Riemann.HLL{})
	rules[1].Name = ""
	cas, err := NewConditionActionSequence(rules, WithParallelDegree(0), WithLogger(nil))
	require.NoError(t, err)
	assert.Greater(t, cas.ParallelDegree, 0)
	assert.Equal(t, "rule1", cas.Rules()[1].Name)
	// The sequence keeps its own copy of the rules
	rules[0].Name = "changed"
	assert.Equal(t, "boundary/wall", cas.Rules()[0].Name)
}

func TestCalculateCompleteness(t *testing.T) {
	var (
		cm    = newMesh(t, 4, 3)
		Np    = cm.GetPointNo()
		cells = uniformCells(Np, types.ComputationalCell{Density: 1, Pressure: 1})
		pv    = make([]r2.Vec, Np)
	)
	cas, err := NewConditionActionSequence(standardRules(Riemann.HLL{}),
		WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	fluxes, err := cas.Calculate(cm, pv, cells, nil, geometry2D.NewCacheData(cm), idealGas(t), 0, 0.1)
	require.NoError(t, err)
	require.Equal(t, len(cm.GetAllEdges()), len(fluxes))
	for i, f := range fluxes {
		// A resting uniform state moves nothing but momentum through any face
		assert.InDelta(t, 0, f.Mass, 1.e-14, "edge %d", i)
		assert.InDelta(t, 0, f.Energy, 1.e-14, "edge %d", i)
		assert.InDelta(t, 1, r2.Norm(f.Momentum), 1.e-14, "edge %d", i)
	}
}

func TestCalculateUnmatchedEdge(t *testing.T) {
	var (
		cm    = newMesh(t, 3, 2)
		cells = uniformCells(cm.GetPointNo(), types.ComputationalCell{Density: 1, Pressure: 1})
	)
	cas, err := NewConditionActionSequence([]Rule{
		{Name: "boundary/freeflow", Condition: IsBoundaryEdge{}, Action: FreeFlowFlux{Solver: Riemann.HLL{}}},
	})
	require.NoError(t, err)
	for _, np := range []int{1, 3} {
		cas.ParallelDegree = np
		fluxes, err := cas.Calculate(cm, nil, cells, nil, nil, idealGas(t), 0, 0)
		assert.Nil(t, fluxes)
		require.True(t, errors.Is(err, ErrUnmatchedEdge))
		// Edge 0 is the left boundary, edge 1 is the first interior edge
		assert.Contains(t, err.Error(), "edge 1 ")
	}
}

func TestCalculateFirstMatchWins(t *testing.T) {
	var (
		cm    = newMesh(t, 4, 1) // bulk edges 1, 2, 3 between cells (0,1), (1,2), (2,3)
		cells = uniformCells(4, types.ComputationalCell{Density: 1, Pressure: 1})
		reg   = prometheus.NewRegistry()
		rs    = Riemann.HLL{}
	)
	cells[2].Stickers = types.Stickers{"solid": true}
	fm, err := NewFluxMetrics(reg)
	require.NoError(t, err)
	rules := []Rule{
		{Name: "special/wall", Condition: RegularSpecialEdge{Sticker: "solid"}, Action: RigidWallFlux{Solver: rs}},
		{Name: "bulk/regular", Condition: IsBulkEdge{}, Action: RegularFlux{Solver: rs}},
		{Name: "boundary/freeflow", Condition: IsBoundaryEdge{}, Action: FreeFlowFlux{Solver: rs}},
		{Name: "never", Condition: IsBulkEdge{}, Action: RegularFlux{Solver: rs}},
	}
	cas, err := NewConditionActionSequence(rules, WithMetrics(fm))
	require.NoError(t, err)
	_, err = cas.Calculate(cm, make([]r2.Vec, 4), cells, nil, nil, idealGas(t), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2., testutil.ToFloat64(fm.EdgesEvaluated.WithLabelValues("special/wall")))
	assert.Equal(t, 1., testutil.ToFloat64(fm.EdgesEvaluated.WithLabelValues("bulk/regular")))
	assert.Equal(t, 10., testutil.ToFloat64(fm.EdgesEvaluated.WithLabelValues("boundary/freeflow")))
	assert.Equal(t, 0., testutil.ToFloat64(fm.EdgesEvaluated.WithLabelValues("never")))
	assert.Equal(t, 1., testutil.ToFloat64(fm.Evaluations))
	assert.Equal(t, 0., testutil.ToFloat64(fm.Failures))
	assert.Equal(t, 1, testutil.CollectAndCount(fm.Duration))
}

func TestCalculateParallelMatchesSerial(t *testing.T) {
	var (
		rng       = rand.New(rand.NewSource(11))
		cm        = newMesh(t, 8, 6)
		cells, pv = randomCells(rng, cm.GetPointNo())
	)
	for _, rs := range []Riemann.Solver{Riemann.HLL{}, Riemann.LaxFriedrichs{}} {
		serial, err := NewConditionActionSequence(standardRules(rs))
		require.NoError(t, err)
		want, err := serial.Calculate(cm, pv, cells, nil, nil, idealGas(t), 0, 0)
		require.NoError(t, err)
		for _, np := range []int{2, 3, 7, 1000} {
			parallel, err := NewConditionActionSequence(standardRules(rs), WithParallelDegree(np))
			require.NoError(t, err)
			got, err := parallel.Calculate(cm, pv, cells, nil, nil, idealGas(t), 0, 0)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("%T with parallel degree %d differs from serial (-want +got):\n%s", rs, np, diff)
			}
		}
	}
}

func TestCalculateParallelError(t *testing.T) {
	var (
		rng       = rand.New(rand.NewSource(3))
		cm        = newMesh(t, 6, 4)
		cells, pv = randomCells(rng, cm.GetPointNo())
		reg       = prometheus.NewRegistry()
	)
	// Two bad cells far apart in the edge ordering
	cells[3].Density = -1
	cells[20].Density = -1
	fm, err := NewFluxMetrics(reg)
	require.NoError(t, err)
	serial, err := NewConditionActionSequence(standardRules(Riemann.HLL{}))
	require.NoError(t, err)
	_, serialErr := serial.Calculate(cm, pv, cells, nil, nil, idealGas(t), 0, 0)
	require.Error(t, serialErr)
	assert.True(t, errors.Is(serialErr, EOS.ErrInvalidDensity))
	for _, np := range []int{2, 4, 9} {
		parallel, err := NewConditionActionSequence(standardRules(Riemann.HLL{}),
			WithParallelDegree(np), WithMetrics(fm))
		require.NoError(t, err)
		_, err = parallel.Calculate(cm, pv, cells, nil, nil, idealGas(t), 0, 0)
		assert.Equal(t, serialErr.Error(), err.Error(), "parallel degree %d", np)
	}
	assert.Equal(t, 3., testutil.ToFloat64(fm.Failures))
}

func TestCalculateInvalidTopology(t *testing.T) {
	var (
		cm    = newMesh(t, 2, 2)
		cells = uniformCells(3, types.ComputationalCell{Density: 1, Pressure: 1})
	)
	cas, err := NewConditionActionSequence(standardRules(Riemann.HLL{}))
	require.NoError(t, err)
	_, err = cas.Calculate(cm, make([]r2.Vec, 4), cells, nil, nil, idealGas(t), 0, 0)
	assert.True(t, errors.Is(err, ErrInvalidTopology))

	// Neighbor indices outside the mesh make an edge a boundary, not an error
	cells = uniformCells(4, types.ComputationalCell{Density: 1, Pressure: 1})
	broken := edgeListMesh{CartesianMesh: cm, edges: append([]geometry2D.Edge{}, cm.GetAllEdges()...)}
	broken.edges[1].Neighbors = [2]int{0, 4}
	_, err = cas.Calculate(broken, make([]r2.Vec, 4), cells, nil, nil, idealGas(t), 0, 0)
	require.NoError(t, err)
	broken.edges[1].Neighbors = [2]int{-1, 9}
	_, err = cas.Calculate(broken, make([]r2.Vec, 4), cells, nil, nil, idealGas(t), 0, 0)
	assert.True(t, errors.Is(err, ErrUnmatchedEdge))
}

func TestCalculateTillotson(t *testing.T) {
	var (
		cm   = newMesh(t, 3, 3)
		tp   = EOS.DefaultTillotsonParams()
		Np   = cm.GetPointNo()
		pv   = make([]r2.Vec, Np)
		cell types.ComputationalCell
	)
	till, err := EOS.NewTillotson(tp, zaptest.NewLogger(t))
	require.NoError(t, err)
	p, err := till.PressureFromDensityEnergy(tp.Rho0, 1.e10, nil)
	require.NoError(t, err)
	cell = types.ComputationalCell{Density: tp.Rho0, Pressure: p, Tracers: types.Tracers{"al": 1}}
	cells := uniformCells(Np, cell)
	cells[4].Density = 0.5 * tp.Rho0 // expanded center, region II pressure
	PIV, PCV := till.Thresholds(cells[4].Density)
	cells[4].Pressure = 0.5 * (PIV + PCV)
	cas, err := NewConditionActionSequence(standardRules(Riemann.HLL{}), WithParallelDegree(2))
	require.NoError(t, err)
	fluxes, err := cas.Calculate(cm, pv, cells, nil, nil, till, 0, 0)
	require.NoError(t, err)
	for i, f := range fluxes {
		assert.Equal(t, f.Mass, f.Tracers["al"], "edge %d", i)
	}
	// At rest, HLL diffuses mass from the dense cell into the expanded center
	assert.Greater(t, fluxes[5].Mass, 0.) // vertical edge between cells 4 and 5
}
