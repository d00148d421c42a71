package Hydro2D

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gohydro/EOS"
	"github.com/notargets/gohydro/Riemann"
	"github.com/notargets/gohydro/geometry2D"
	"github.com/notargets/gohydro/types"
)

/*
ConvertToPrimitive completes a cell's state with its specific internal energy and sound
speed from the equation of state.
*/
func ConvertToPrimitive(cell types.ComputationalCell, eos EOS.EquationOfState) (prim types.Primitive, err error) {
	prim = types.Primitive{
		Density:  cell.Density,
		Pressure: cell.Pressure,
		Velocity: cell.Velocity,
	}
	if prim.Energy, err = eos.EnergyFromDensityPressure(cell.Density, cell.Pressure, cell.Tracers); err != nil {
		return
	}
	prim.SoundSpeed, err = eos.SoundSpeedFromDensityEnergyPressure(cell.Density, prim.Energy,
		cell.Pressure, cell.Tracers)
	return
}

// conservedToExtensive tags the flux with the donor cell's tracers, each carried in proportion to the mass flux
func conservedToExtensive(c types.Conserved, donor types.ComputationalCell) (res types.Extensive) {
	res = types.Extensive{
		Mass:     c.Mass,
		Momentum: c.Momentum,
		Energy:   c.Energy,
		Tracers:  make(types.Tracers, len(donor.Tracers)),
	}
	for name, fraction := range donor.Tracers {
		res.Tracers[name] = fraction * c.Mass
	}
	return
}

func checkNeighbor(tess geometry2D.Tessellation, cells []types.ComputationalCell, index int) (err error) {
	if !geometry2D.IsValidNeighbor(tess, index) || index >= len(cells) {
		err = fmt.Errorf("%w: neighbor %d outside [0,%d) with %d cells",
			ErrInvalidTopology, index, tess.GetPointNo(), len(cells))
	}
	return
}

func edgeTangent(edge geometry2D.Edge) (p r2.Vec, err error) {
	if edge.GetLength() == 0 {
		err = fmt.Errorf("%w: zero length edge at %v", ErrInvalidTopology, edge.Vertices[0])
		return
	}
	p = edge.Tangent()
	return
}

// RegularFlux solves the Riemann problem between the two interior cells of an edge, moving with the face
type RegularFlux struct {
	Solver Riemann.Solver
}

func (rf RegularFlux) Apply(edge geometry2D.Edge, tess geometry2D.Tessellation, pointVelocities []r2.Vec,
	cells []types.ComputationalCell, eos EOS.EquationOfState, _ bool) (res types.Extensive, err error) {
	var (
		first, second = edge.Neighbors[0], edge.Neighbors[1]
		p             r2.Vec
		left, right   types.Primitive
		c             types.Conserved
	)
	if err = checkNeighbor(tess, cells, first); err != nil {
		return
	}
	if err = checkNeighbor(tess, cells, second); err != nil {
		return
	}
	if first >= len(pointVelocities) || second >= len(pointVelocities) {
		err = fmt.Errorf("%w: %d point velocities for neighbors %d, %d",
			ErrInvalidTopology, len(pointVelocities), first, second)
		return
	}
	if p, err = edgeTangent(edge); err != nil {
		return
	}
	dr := r2.Sub(tess.GetMeshPoint(second), tess.GetMeshPoint(first))
	if r2.Norm(dr) == 0 {
		err = fmt.Errorf("%w: neighbors %d and %d share a mesh point", ErrInvalidTopology, first, second)
		return
	}
	var (
		n = geometry2D.Normalize(dr)
		v = r2.Dot(n, tess.CalcFaceVelocity(pointVelocities[first], pointVelocities[second],
			tess.GetCellCM(first), tess.GetCellCM(second), edge.Midpoint()))
	)
	if left, err = ConvertToPrimitive(cells[first], eos); err != nil {
		return
	}
	if right, err = ConvertToPrimitive(cells[second], eos); err != nil {
		return
	}
	if c, err = Riemann.RotateSolveRotateBack(rf.Solver, left, right, v, n, p); err != nil {
		return
	}
	donor := cells[second]
	if c.Mass > 0 {
		donor = cells[first]
	}
	res = conservedToExtensive(c, donor)
	return
}

/*
boundaryFrame finds the interior cell of a one sided edge and the face frame: p along the
edge and n perpendicular to it, pointing from the first neighbor slot toward the second.
*/
func boundaryFrame(edge geometry2D.Edge, tess geometry2D.Tessellation, cells []types.ComputationalCell,
	aux bool) (interior int, n, p r2.Vec, err error) {
	var (
		toSecond r2.Vec
	)
	interior = edge.Neighbors[1]
	if aux {
		interior = edge.Neighbors[0]
	}
	if err = checkNeighbor(tess, cells, interior); err != nil {
		return
	}
	if p, err = edgeTangent(edge); err != nil {
		return
	}
	if aux {
		toSecond = r2.Sub(edge.Vertices[0], tess.GetMeshPoint(interior))
	} else {
		toSecond = r2.Sub(tess.GetMeshPoint(interior), edge.Vertices[0])
	}
	toSecond = geometry2D.RemoveParallelComponent(toSecond, p)
	if r2.Norm(toSecond) == 0 {
		err = fmt.Errorf("%w: mesh point of cell %d lies on its boundary edge", ErrInvalidTopology, interior)
		return
	}
	n = geometry2D.Normalize(toSecond)
	return
}

// RigidWallFlux closes a boundary with a mirror ghost whose velocity is reflected about the edge
type RigidWallFlux struct {
	Solver Riemann.Solver
}

func (rw RigidWallFlux) Apply(edge geometry2D.Edge, tess geometry2D.Tessellation, _ []r2.Vec,
	cells []types.ComputationalCell, eos EOS.EquationOfState, aux bool) (res types.Extensive, err error) {
	var (
		interior    int
		n, p        r2.Vec
		state       types.Primitive
		left, right types.Primitive
		c           types.Conserved
	)
	if interior, n, p, err = boundaryFrame(edge, tess, cells, aux); err != nil {
		return
	}
	if state, err = ConvertToPrimitive(cells[interior], eos); err != nil {
		return
	}
	ghost := Riemann.Reflect(state, p)
	if aux {
		left, right = state, ghost
	} else {
		left, right = ghost, state
	}
	if c, err = Riemann.RotateSolveRotateBack(rw.Solver, left, right, 0, n, p); err != nil {
		return
	}
	res = conservedToExtensive(c, cells[interior])
	return
}

// FreeFlowFlux lets waves leave the domain, the ghost is a copy of the interior cell
type FreeFlowFlux struct {
	Solver Riemann.Solver
}

func (ff FreeFlowFlux) Apply(edge geometry2D.Edge, tess geometry2D.Tessellation, _ []r2.Vec,
	cells []types.ComputationalCell, eos EOS.EquationOfState, aux bool) (res types.Extensive, err error) {
	var (
		interior int
		n, p     r2.Vec
		state    types.Primitive
		c        types.Conserved
	)
	if interior, n, p, err = boundaryFrame(edge, tess, cells, aux); err != nil {
		return
	}
	if state, err = ConvertToPrimitive(cells[interior], eos); err != nil {
		return
	}
	if c, err = Riemann.RotateSolveRotateBack(ff.Solver, state, state, 0, n, p); err != nil {
		return
	}
	res = conservedToExtensive(c, cells[interior])
	return
}
