package geometry2D

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// NoNeighbor marks the outside of the domain in an edge's neighbor pair
const NoNeighbor = -1

/*
CartesianMesh is a structured tessellation of a rectangle into Nx by Ny cells whose mesh
points are the cell centers. It stands in for the moving Voronoi mesh when exercising the
flux engine: the geometry is fixed and the point velocities only enter through
CalcFaceVelocity.

Cells are numbered i + Nx*j. Edges are enumerated with all vertical edges first, row by row
from the bottom, then all horizontal edges. Normals of vertical edges point in +x and of
horizontal edges in +y, boundary sides carry NoNeighbor.
*/
type CartesianMesh struct {
	Nx, Ny     int
	XMin, XMax float64
	YMin, YMax float64
	DX, DY     float64
	edges      []Edge
}

func NewCartesianMesh(Nx, Ny int, XMin, XMax, YMin, YMax float64) (cm *CartesianMesh, err error) {
	if Nx < 1 || Ny < 1 {
		err = fmt.Errorf("mesh dimensions must be positive, have %d x %d", Nx, Ny)
		return
	}
	if XMax <= XMin || YMax <= YMin {
		err = fmt.Errorf("mesh extent is empty, have [%g,%g] x [%g,%g]", XMin, XMax, YMin, YMax)
		return
	}
	cm = &CartesianMesh{
		Nx: Nx, Ny: Ny,
		XMin: XMin, XMax: XMax,
		YMin: YMin, YMax: YMax,
		DX: (XMax - XMin) / float64(Nx),
		DY: (YMax - YMin) / float64(Ny),
	}
	cm.edges = cm.buildEdges()
	return
}

func (cm *CartesianMesh) buildEdges() (edges []Edge) {
	var (
		Nx, Ny = cm.Nx, cm.Ny
	)
	edges = make([]Edge, 0, (Nx+1)*Ny+Nx*(Ny+1))
	cell := func(i, j int) int {
		if i < 0 || i >= Nx || j < 0 || j >= Ny {
			return NoNeighbor
		}
		return cm.CellIndex(i, j)
	}
	vertex := func(i, j int) r2.Vec {
		return r2.Vec{X: cm.XMin + float64(i)*cm.DX, Y: cm.YMin + float64(j)*cm.DY}
	}
	// Vertical edges, normal in +x
	for j := 0; j < Ny; j++ {
		for i := 0; i <= Nx; i++ {
			edges = append(edges, Edge{
				Vertices:  [2]r2.Vec{vertex(i, j), vertex(i, j+1)},
				Neighbors: [2]int{cell(i-1, j), cell(i, j)},
			})
		}
	}
	// Horizontal edges, normal in +y
	for j := 0; j <= Ny; j++ {
		for i := 0; i < Nx; i++ {
			edges = append(edges, Edge{
				Vertices:  [2]r2.Vec{vertex(i+1, j), vertex(i, j)},
				Neighbors: [2]int{cell(i, j-1), cell(i, j)},
			})
		}
	}
	return
}

// CellIndex returns the cell number of column i, row j
func (cm *CartesianMesh) CellIndex(i, j int) int {
	return i + cm.Nx*j
}

func (cm *CartesianMesh) GetPointNo() int {
	return cm.Nx * cm.Ny
}

func (cm *CartesianMesh) GetMeshPoint(k int) r2.Vec {
	if k < 0 || k >= cm.GetPointNo() {
		panic(fmt.Errorf("cell index %d out of range [0,%d)", k, cm.GetPointNo()))
	}
	i, j := k%cm.Nx, k/cm.Nx
	return r2.Vec{
		X: cm.XMin + (float64(i)+0.5)*cm.DX,
		Y: cm.YMin + (float64(j)+0.5)*cm.DY,
	}
}

// GetCellCM coincides with the mesh point for rectangular cells
func (cm *CartesianMesh) GetCellCM(k int) r2.Vec {
	return cm.GetMeshPoint(k)
}

func (cm *CartesianMesh) GetAllEdges() []Edge {
	return cm.edges
}

func (cm *CartesianMesh) CalcFaceVelocity(wl, wr, cl, cr, f r2.Vec) r2.Vec {
	return FaceVelocity(wl, wr, cl, cr, f)
}

// GetArea returns the area of cell k
func (cm *CartesianMesh) GetArea(k int) float64 {
	return cm.DX * cm.DY
}
