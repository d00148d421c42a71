package geometry2D

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

/*
An Edge is a face between two cells. Neighbors holds the cell index on each side, an index
outside [0, PointNo) means there is no interior cell on that side (a domain boundary).
The first neighbor lies on the side that the normal points away from.
*/
type Edge struct {
	Vertices  [2]r2.Vec
	Neighbors [2]int
}

// GetLength returns the distance between the two vertices
func (e Edge) GetLength() float64 {
	return r2.Norm(r2.Sub(e.Vertices[1], e.Vertices[0]))
}

// Midpoint returns the point halfway along the edge
func (e Edge) Midpoint() r2.Vec {
	return r2.Scale(0.5, r2.Add(e.Vertices[0], e.Vertices[1]))
}

// Tangent returns the unit vector pointing from the first vertex to the second
func (e Edge) Tangent() r2.Vec {
	return Normalize(r2.Sub(e.Vertices[1], e.Vertices[0]))
}

// Tessellation is the mesh collaborator consumed by the flux engine
type Tessellation interface {
	// GetPointNo returns the number of interior cells, valid neighbor indices are [0, GetPointNo())
	GetPointNo() int
	// GetMeshPoint returns the generating point of cell i
	GetMeshPoint(i int) r2.Vec
	// GetCellCM returns the centroid of cell i
	GetCellCM(i int) r2.Vec
	// GetAllEdges returns every edge in a stable order
	GetAllEdges() []Edge
	// CalcFaceVelocity interpolates the velocity of a face point f from the velocities of the two
	// neighboring points and their centroids
	CalcFaceVelocity(wl, wr, cl, cr, f r2.Vec) r2.Vec
}

// IsValidNeighbor reports whether index refers to an interior cell
func IsValidNeighbor(tess Tessellation, index int) bool {
	return index >= 0 && index < tess.GetPointNo()
}

/*
FaceVelocity is the velocity of point f on the face between two moving points: the mean of
the two point velocities plus the correction that keeps the face on the perpendicular
bisector as the points move.
*/
func FaceVelocity(wl, wr, rL, rR, f r2.Vec) (w r2.Vec) {
	var (
		dr    = r2.Sub(rR, rL)
		mid   = r2.Scale(0.5, r2.Add(rL, rR))
		dist2 = r2.Norm2(dr)
	)
	w = r2.Scale(0.5, r2.Add(wl, wr))
	if dist2 == 0 {
		return
	}
	wPrime := r2.Scale(r2.Dot(r2.Sub(wl, wr), r2.Sub(f, mid))/dist2, dr)
	w = r2.Add(w, wPrime)
	return
}

// Normalize returns v scaled to unit length
func Normalize(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n == 0 || math.IsNaN(n) {
		panic("unable to normalize a zero length vector")
	}
	return r2.Scale(1/n, v)
}

// RemoveParallelComponent removes the projection of v onto axis
func RemoveParallelComponent(v, axis r2.Vec) r2.Vec {
	return r2.Sub(v, r2.Scale(r2.Dot(v, axis)/r2.Norm2(axis), axis))
}
