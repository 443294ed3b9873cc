package symm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tylor-yu/lammps/geom"
)

const (
	fdStep = 1e-5
	fdTol  = 1e-6
)

func TestFcBoundary(t *testing.T) {
	rc := 3.5

	assert.Equal(t, 1.0, Fc(0, rc), "envelope at zero distance")
	assert.Equal(t, 0.0, Fc(rc, rc), "envelope at the cutoff")
	assert.Equal(t, 0.0, Fc(rc*1.5, rc), "envelope beyond the cutoff")
	assert.Equal(t, 0.0, FcDeriv(rc, rc), "envelope derivative at the cutoff")
	assert.InDelta(t, 0.5, Fc(rc/2, rc), 1e-15, "envelope at half the cutoff")
}

func TestFcBatchMatchesScalar(t *testing.T) {
	rc := 2.0
	rs := []float64{0.1, 0.5, 1.0, 1.9, 2.0, 2.5}
	out := make([]float64, len(rs))
	dout := make([]float64, len(rs))

	FcAt(rs, rc, true, out)
	FcDerivAt(rs, rc, true, dout)
	for i, r := range rs {
		assert.Equal(t, Fc(r, rc), out[i], "value at r = %g", r)
		assert.Equal(t, FcDeriv(r, rc), dout[i], "derivative at r = %g", r)
	}

	// The unclamped batch applies the raw cosine formula everywhere.
	FcAt(rs, rc, false, out)
	assert.NotEqual(t, 0.0, out[len(rs)-1])
}

func TestFcDerivFiniteDifference(t *testing.T) {
	rc := 4.0
	for _, r := range []float64{0.3, 1.1, 2.5, 3.9} {
		want := (Fc(r+fdStep, rc) - Fc(r-fdStep, rc)) / (2 * fdStep)
		assert.InDelta(t, want, FcDeriv(r, rc), fdTol, "r = %g", r)
	}
}

func TestRadialCutoffIsExact(t *testing.T) {
	p := &Param{Kind: Radial, Eta: 0.5, Rc: 3.0, Rs: 1.0}

	assert.Equal(t, 0.0, p.Radial(3.0), "pair exactly at the cutoff")
	assert.Equal(t, 0.0, p.Radial(3.7), "pair beyond the cutoff")
	assert.True(t, p.Radial(2.9) > 0)
}

func TestRadialDerivFiniteDifference(t *testing.T) {
	params := []Param{
		{Kind: Radial, Eta: 0.5, Rc: 3.0, Rs: 0.0},
		{Kind: Radial, Eta: 2.0, Rc: 3.0, Rs: 1.5},
		{Kind: Radial, Eta: 0.1, Rc: 6.0, Rs: 2.0},
	}

	for pi := range params {
		p := &params[pi]
		for _, r := range []float64{0.5, 1.0, 2.0, 2.8} {
			want := (p.Radial(r+fdStep) - p.Radial(r-fdStep)) / (2 * fdStep)
			assert.InDelta(t, want, p.RadialDeriv(r), fdTol,
				"param %d, r = %g", pi, r)
		}
	}
}

func TestRadialDerivBatch(t *testing.T) {
	p := &Param{Kind: Radial, Eta: 1.0, Rc: 4.0, Rs: 0.5}
	rs := []float64{0.7, 1.3, 2.9, 3.6}
	out := make([]float64, len(rs))
	p.RadialDerivAt(rs, out)
	for i, r := range rs {
		assert.Equal(t, p.RadialDeriv(r), out[i])
	}
}

// triplet computes the geometric quantities the angular functions need from
// the positions of the anchor and its two neighbors.
func triplet(xi, xj, xk *geom.Vec) (drij, drik, drjk geom.Vec,
	rij, rik, rjk, cosTheta float64) {

	drij = xj.Sub(xi)
	drik = xk.Sub(xi)
	drjk = xk.Sub(xj)
	rij, rik, rjk = drij.Norm(), drik.Norm(), drjk.Norm()
	cosTheta = geom.CosAngle(&drij, &drik, rij, rik)
	return drij, drik, drjk, rij, rik, rjk, cosTheta
}

func angularAt(p *Param, xi, xj, xk *geom.Vec) float64 {
	_, _, _, rij, rik, rjk, cosTheta := triplet(xi, xj, xk)
	return p.Angular(rij, rik, rjk, cosTheta)
}

func TestAngularDerivFiniteDifference(t *testing.T) {
	params := []Param{
		{Kind: AngularTwo, Eta: 0.3, Rc: 4.0, Zeta: 1, Lambda: 1},
		{Kind: AngularTwo, Eta: 0.3, Rc: 4.0, Zeta: 4, Lambda: -1},
		{Kind: AngularThree, Eta: 0.1, Rc: 4.0, Zeta: 2, Lambda: 1},
		{Kind: AngularThree, Eta: 0.5, Rc: 4.0, Zeta: 1, Lambda: -1},
	}

	xi := geom.Vec{0.1, -0.2, 0.3}
	xj := geom.Vec{1.1, 0.4, -0.5}
	xk := geom.Vec{-0.4, 1.3, 0.8}

	for pi := range params {
		p := &params[pi]
		drij, drik, drjk, rij, rik, rjk, cosTheta := triplet(&xi, &xj, &xk)

		var dGj, dGk geom.Vec
		p.AngularDeriv(&drij, &drik, &drjk, rij, rik, rjk, cosTheta,
			&dGj, &dGk)

		for d := 0; d < 3; d++ {
			jHi, jLo := xj, xj
			jHi[d] += fdStep
			jLo[d] -= fdStep
			want := (angularAt(p, &xi, &jHi, &xk) -
				angularAt(p, &xi, &jLo, &xk)) / (2 * fdStep)
			assert.InDelta(t, want, dGj[d], fdTol,
				"param %d, dG/dj component %d", pi, d)

			kHi, kLo := xk, xk
			kHi[d] += fdStep
			kLo[d] -= fdStep
			want = (angularAt(p, &xi, &xj, &kHi) -
				angularAt(p, &xi, &xj, &kLo)) / (2 * fdStep)
			assert.InDelta(t, want, dGk[d], fdTol,
				"param %d, dG/dk component %d", pi, d)

			// Translation invariance pins the anchor gradient.
			iHi, iLo := xi, xi
			iHi[d] += fdStep
			iLo[d] -= fdStep
			want = (angularAt(p, &iHi, &xj, &xk) -
				angularAt(p, &iLo, &xj, &xk)) / (2 * fdStep)
			assert.InDelta(t, want, -(dGj[d]+dGk[d]), fdTol,
				"param %d, dG/di component %d", pi, d)
		}
	}
}

func TestAngularFarSideCutoff(t *testing.T) {
	// Both anchor sides inside the cutoff, far side outside: the
	// three-distance kind must vanish exactly, the two-distance kind must
	// not.
	p3 := &Param{Kind: AngularThree, Eta: 0.2, Rc: 3.0, Zeta: 2, Lambda: 1}
	p2 := &Param{Kind: AngularTwo, Eta: 0.2, Rc: 3.0, Zeta: 2, Lambda: 1}

	xi := geom.Vec{0, 0, 0}
	xj := geom.Vec{2.0, 0, 0}
	xk := geom.Vec{-2.0, 0, 0.1}

	drij, drik, drjk, rij, rik, rjk, cosTheta := triplet(&xi, &xj, &xk)
	assert.True(t, rij < 3.0 && rik < 3.0 && rjk > 3.0)

	assert.Equal(t, 0.0, p3.Angular(rij, rik, rjk, cosTheta))
	assert.True(t, p2.Angular(rij, rik, rjk, cosTheta) > 0)

	var dGj, dGk geom.Vec
	p3.AngularDeriv(&drij, &drik, &drjk, rij, rik, rjk, cosTheta, &dGj, &dGk)
	assert.Equal(t, geom.Vec{}, dGj)
	assert.Equal(t, geom.Vec{}, dGk)
}

func TestAngularSymmetric(t *testing.T) {
	// Swapping j and k leaves the descriptor unchanged.
	p := &Param{Kind: AngularThree, Eta: 0.3, Rc: 5.0, Zeta: 3, Lambda: -1}

	xi := geom.Vec{0, 0, 0}
	xj := geom.Vec{1.2, 0.3, -0.4}
	xk := geom.Vec{-0.7, 1.1, 0.6}

	assert.InDelta(t,
		angularAt(p, &xi, &xj, &xk), angularAt(p, &xi, &xk, &xj), 1e-14)
}

func TestParamValidate(t *testing.T) {
	good := Set{
		{Kind: Radial, Eta: 0.5, Rc: 3.0, Rs: 0.0},
		{Kind: AngularTwo, Eta: 0.5, Rc: 3.0, Zeta: 2, Lambda: 1},
	}
	assert.NoError(t, good.Validate())
	assert.True(t, good.HasAngular())
	assert.Equal(t, 3.0, good.MaxCutoff())

	bad := []Param{
		{Kind: Radial, Eta: -1, Rc: 3.0},
		{Kind: Radial, Eta: 0.5, Rc: 0},
		{Kind: AngularTwo, Eta: 0.5, Rc: 3.0, Zeta: 2, Lambda: 0.5},
		{Kind: AngularThree, Eta: 0.5, Rc: 3.0, Zeta: 0, Lambda: 1},
		{Kind: Kind(17), Eta: 0.5, Rc: 3.0},
	}
	for i := range bad {
		assert.Error(t, bad[i].Validate(), "case %d", i)
	}

	assert.Error(t, Set{}.Validate())
}
