package geometry2D

import (
	"gonum.org/v1/gonum/spatial/r2"
)

/*
CacheData holds geometry derived from a tessellation that stays valid until the mesh moves.
The flux engine accepts it but does not need it, the driver uses the edge lengths to turn
per-length flux rates into transported amounts.
*/
type CacheData struct {
	EdgeLengths []float64
	CellCMs     []r2.Vec
}

func NewCacheData(tess Tessellation) (cd *CacheData) {
	var (
		edges = tess.GetAllEdges()
		Np    = tess.GetPointNo()
	)
	cd = &CacheData{
		EdgeLengths: make([]float64, len(edges)),
		CellCMs:     make([]r2.Vec, Np),
	}
	for i, e := range edges {
		cd.EdgeLengths[i] = e.GetLength()
	}
	for k := 0; k < Np; k++ {
		cd.CellCMs[k] = tess.GetCellCM(k)
	}
	return
}
