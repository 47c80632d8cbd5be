// Package drawstate holds the per-frame traversal context: the cumulative transform stack,
// the material type the active pipeline draws, and the shared catalog.
package drawstate

import (
	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/catalog"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/material"
)

// DrawState is created once per frame and threaded through every traversal.
// The stack always holds at least one matrix.
type DrawState struct {
	// CurrentMaterial is the material type drawn by the pipeline bound in the pass.
	CurrentMaterial material.MaterialType

	stack   []common.Matrix4
	catalog *catalog.Catalog
}

// New creates a DrawState whose stack holds only the identity matrix.
//
// Parameters:
//   - currentMaterial: the material type filter
//   - cat: the populated catalog
//
// Returns:
//   - *DrawState: the draw state
func New(currentMaterial material.MaterialType, cat *catalog.Catalog) *DrawState {
	return &DrawState{
		CurrentMaterial: currentMaterial,
		stack:           []common.Matrix4{common.IdentityMatrix()},
		catalog:         cat,
	}
}

// PushMatrix duplicates the top of the stack.
func (d *DrawState) PushMatrix() {
	d.stack = append(d.stack, d.stack[len(d.stack)-1])
}

// PopMatrix removes the top of the stack. Popping the last matrix panics.
func (d *DrawState) PopMatrix() {
	if len(d.stack) == 1 {
		panic("drawstate: pop of the last matrix")
	}
	d.stack = d.stack[:len(d.stack)-1]
}

// Transform left-multiplies the top of the stack: top = m * top.
func (d *DrawState) Transform(m common.Matrix4) {
	top := len(d.stack) - 1
	d.stack[top] = m.Mul(d.stack[top])
}

// Matrix returns the top of the stack.
func (d *DrawState) Matrix() common.Matrix4 {
	return d.stack[len(d.stack)-1]
}

// Depth returns the number of matrices on the stack.
func (d *DrawState) Depth() int {
	return len(d.stack)
}

// Catalog returns the shared catalog.
func (d *DrawState) Catalog() *catalog.Catalog {
	return d.catalog
}
