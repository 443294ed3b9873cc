package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVecArithmetic(t *testing.T) {
	v := Vec{1, 2, 3}
	u := Vec{-4, 0, 2.5}

	assert.Equal(t, Vec{-3, 2, 5.5}, v.Add(&u))
	assert.Equal(t, Vec{5, 2, 0.5}, v.Sub(&u))
	assert.Equal(t, Vec{2, 4, 6}, v.Scale(2))
	assert.Equal(t, 3.5, v.Dot(&u))

	w := v
	w.AddSelf(&u)
	assert.Equal(t, v.Add(&u), w)
	w.SubSelf(&u)
	assert.Equal(t, v, w)
}

func TestNorm(t *testing.T) {
	v := Vec{3, 4, 0}
	assert.Equal(t, 5.0, v.Norm())

	zero := Vec{}
	assert.Equal(t, 0.0, zero.Norm())
}

func TestCosAngle(t *testing.T) {
	x := Vec{2, 0, 0}
	y := Vec{0, 3, 0}
	diag := Vec{1, 1, 0}

	assert.InDelta(t, 0.0, CosAngle(&x, &y, x.Norm(), y.Norm()), 1e-15)
	assert.InDelta(t, 1.0, CosAngle(&x, &x, x.Norm(), x.Norm()), 1e-15)
	assert.InDelta(t, math.Sqrt2/2,
		CosAngle(&x, &diag, x.Norm(), diag.Norm()), 1e-15)

	neg := x.Scale(-1)
	assert.InDelta(t, -1.0, CosAngle(&x, &neg, x.Norm(), neg.Norm()), 1e-15)
}
