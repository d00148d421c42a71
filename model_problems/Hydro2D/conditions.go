package Hydro2D

import (
	"github.com/notargets/gohydro/geometry2D"
	"github.com/notargets/gohydro/types"
)

// IsBoundaryEdge matches edges with exactly one interior neighbor, aux is true when the interior cell is the first
type IsBoundaryEdge struct{}

func (IsBoundaryEdge) Classify(edge geometry2D.Edge, tess geometry2D.Tessellation,
	_ []types.ComputationalCell) (match, aux bool) {
	var (
		first  = geometry2D.IsValidNeighbor(tess, edge.Neighbors[0])
		second = geometry2D.IsValidNeighbor(tess, edge.Neighbors[1])
	)
	switch {
	case !first && second:
		match = true
	case first && !second:
		match, aux = true, true
	}
	return
}

// IsBulkEdge matches edges between two interior cells
type IsBulkEdge struct{}

func (IsBulkEdge) Classify(edge geometry2D.Edge, tess geometry2D.Tessellation,
	_ []types.ComputationalCell) (match, aux bool) {
	match = geometry2D.IsValidNeighbor(tess, edge.Neighbors[0]) &&
		geometry2D.IsValidNeighbor(tess, edge.Neighbors[1])
	return
}

/*
RegularSpecialEdge matches interior edges where exactly one side carries Sticker. aux is
true when the tagged cell is the second neighbor, so the first neighbor is the untagged
cell the rule treats as the interior.
*/
type RegularSpecialEdge struct {
	Sticker string
}

func (rse RegularSpecialEdge) Classify(edge geometry2D.Edge, tess geometry2D.Tessellation,
	cells []types.ComputationalCell) (match, aux bool) {
	var (
		i0, i1 = edge.Neighbors[0], edge.Neighbors[1]
	)
	if !geometry2D.IsValidNeighbor(tess, i0) || !geometry2D.IsValidNeighbor(tess, i1) {
		return
	}
	if i0 >= len(cells) || i1 >= len(cells) {
		return
	}
	var (
		tagged0, tagged1 = cells[i0].HasSticker(rse.Sticker), cells[i1].HasSticker(rse.Sticker)
	)
	switch {
	case tagged0 && !tagged1:
		match = true
	case !tagged0 && tagged1:
		match, aux = true, true
	}
	return
}
