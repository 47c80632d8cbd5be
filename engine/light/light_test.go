package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatAt(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestPointLightDefaults(t *testing.T) {
	l := NewPointLight()
	assert.Equal(t, [4]float32{0, 0, 0, 1}, l.Position())
	assert.Equal(t, [3]float32{1, 1, 1}, l.Color())
	assert.False(t, l.BindGroupProvider().Allocated())
}

func TestPointLightMarshal(t *testing.T) {
	l := NewPointLight(WithPosition(0, 0, 0.4), WithColor(1, 0.5, 0.25))
	g := l.GPU()
	buf := g.Marshal()
	require.Len(t, buf, g.Size())
	assert.Equal(t, float32(0.4), floatAt(buf, 8))
	assert.Equal(t, float32(1), floatAt(buf, 12))
	assert.Equal(t, float32(0.5), floatAt(buf, 20))
	assert.Equal(t, float32(0), floatAt(buf, 28))
}

func TestSetPositionKeepsHomogeneousW(t *testing.T) {
	l := NewPointLight()
	l.SetPosition(1, 2, 3)
	assert.Equal(t, [4]float32{1, 2, 3, 1}, l.Position())
}

func TestViewInfoMarshal(t *testing.T) {
	v := GPUViewInfo{Position: [4]float32{4, 0.5, 0.5, 1}}
	buf := v.Marshal()
	require.Len(t, buf, GPUViewInfoSize)
	assert.Equal(t, float32(4), floatAt(buf, 0))
	assert.Equal(t, float32(1), floatAt(buf, 12))
}
