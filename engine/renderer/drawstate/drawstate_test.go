package drawstate

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/material"
	"github.com/stretchr/testify/assert"
)

func TestNewStartsWithIdentity(t *testing.T) {
	d := New(material.MaterialTypePhong, nil)
	assert.Equal(t, 1, d.Depth())
	assert.Equal(t, common.IdentityMatrix(), d.Matrix())
	assert.Equal(t, material.MaterialTypePhong, d.CurrentMaterial)
}

func TestTransformLeftMultiplies(t *testing.T) {
	d := New(material.MaterialTypePhong, nil)
	p := common.RotationMatrix(common.Vec3{0, 1, 0}, 0.5)
	l := common.TranslationMatrix(common.Vec3{1, 0, 0})
	d.Transform(p)
	d.Transform(l)
	assert.True(t, d.Matrix().ApproxEqual(l.Mul(p), 1e-6))
}

func TestPushPopRestoresTop(t *testing.T) {
	d := New(material.MaterialTypePhong, nil)
	d.Transform(common.TranslationMatrix(common.Vec3{0, 0, -2}))
	before := d.Matrix()

	d.PushMatrix()
	d.Transform(common.TranslationMatrix(common.Vec3{3, 0, 0}))
	assert.Equal(t, 2, d.Depth())
	assert.NotEqual(t, before, d.Matrix())
	d.PopMatrix()

	assert.Equal(t, 1, d.Depth())
	assert.Equal(t, before, d.Matrix())
}

func TestPopLastMatrixPanics(t *testing.T) {
	d := New(material.MaterialTypePhong, nil)
	assert.Panics(t, d.PopMatrix)
}
