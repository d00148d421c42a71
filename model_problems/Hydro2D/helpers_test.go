package Hydro2D

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gohydro/EOS"
	"github.com/notargets/gohydro/geometry2D"
	"github.com/notargets/gohydro/types"
)

func idealGas(t *testing.T) EOS.EquationOfState {
	ig, err := EOS.NewIdealGas(EOS.IdealGasParams{Gamma: 1.4})
	require.NoError(t, err)
	return ig
}

func newMesh(t *testing.T, Nx, Ny int) *geometry2D.CartesianMesh {
	cm, err := geometry2D.NewCartesianMesh(Nx, Ny, 0, float64(Nx), 0, float64(Ny))
	require.NoError(t, err)
	return cm
}

func uniformCells(N int, cell types.ComputationalCell) (cells []types.ComputationalCell) {
	cells = make([]types.ComputationalCell, N)
	for k := range cells {
		cells[k] = cell
	}
	return
}

func randomCells(rng *rand.Rand, N int) (cells []types.ComputationalCell, pointVelocities []r2.Vec) {
	cells = make([]types.ComputationalCell, N)
	pointVelocities = make([]r2.Vec, N)
	for k := range cells {
		cells[k] = types.ComputationalCell{
			Density:  0.5 + rng.Float64(),
			Pressure: 0.5 + rng.Float64(),
			Velocity: r2.Vec{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5},
			Tracers:  types.Tracers{"ink": rng.Float64()},
		}
		pointVelocities[k] = r2.Vec{X: 0.1 * (rng.Float64() - 0.5), Y: 0.1 * (rng.Float64() - 0.5)}
	}
	return
}

// edgeListMesh replaces the edges of a real mesh to build broken topologies
type edgeListMesh struct {
	*geometry2D.CartesianMesh
	edges []geometry2D.Edge
}

func (elm edgeListMesh) GetAllEdges() []geometry2D.Edge {
	return elm.edges
}
