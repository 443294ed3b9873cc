package symm

import (
	"math"

	"github.com/Tylor-yu/lammps/geom"
)

// Fc is the smooth cutoff envelope 0.5*(cos(pi r/rc) + 1). It is 1 at r = 0,
// falls smoothly to 0 at r = rc, and is clamped to exactly 0 beyond rc so
// that the underlying cosine never reintroduces weight outside the cutoff.
func Fc(r, rc float64) float64 {
	if r < rc {
		return 0.5 * (math.Cos(math.Pi*r/rc) + 1)
	}
	return 0
}

// FcDeriv is the derivative of Fc with respect to r, clamped to 0 beyond rc.
func FcDeriv(r, rc float64) float64 {
	if r < rc {
		return -0.5 * math.Pi / rc * math.Sin(math.Pi*r/rc)
	}
	return 0
}

// FcAt evaluates the envelope for a batch of distances sharing one cutoff
// and writes the results to out. When clamp is false the cosine formula is
// applied as-is, which is only safe if the distances are already filtered to
// the cutoff; when clamp is true distances beyond rc give exactly 0.
func FcAt(rs []float64, rc float64, clamp bool, out []float64) {
	for i, r := range rs {
		if clamp && r >= rc {
			out[i] = 0
			continue
		}
		out[i] = 0.5 * (math.Cos(math.Pi*r/rc) + 1)
	}
}

// FcDerivAt is the batch form of FcDeriv.
func FcDerivAt(rs []float64, rc float64, clamp bool, out []float64) {
	for i, r := range rs {
		if clamp && r >= rc {
			out[i] = 0
			continue
		}
		out[i] = -0.5 * math.Pi / rc * math.Sin(math.Pi*r/rc)
	}
}

// Radial evaluates one radial descriptor term for a single neighbor
// distance: exp(-eta (r-Rs)^2) Fc(r, Rc).
func (p *Param) Radial(r float64) float64 {
	dr := r - p.Rs
	return math.Exp(-p.Eta*dr*dr) * Fc(r, p.Rc)
}

// RadialDeriv is the derivative of one radial descriptor term with respect
// to the neighbor distance.
func (p *Param) RadialDeriv(r float64) float64 {
	dr := r - p.Rs
	return math.Exp(-p.Eta*dr*dr) *
		(2*p.Eta*(p.Rs-r)*Fc(r, p.Rc) + FcDeriv(r, p.Rc))
}

// RadialDerivAt evaluates RadialDeriv for a batch of neighbor distances and
// writes the results to out.
func (p *Param) RadialDerivAt(rs, out []float64) {
	for i, r := range rs {
		dr := r - p.Rs
		out[i] = math.Exp(-p.Eta*dr*dr) *
			(2*p.Eta*(p.Rs-r)*Fc(r, p.Rc) + FcDeriv(r, p.Rc))
	}
}

// Angular evaluates one angular descriptor term for a triplet with anchor
// sides rij, rik, far side rjk, and cosine of the angle at the anchor. The
// two-distance kind ignores rjk; the three-distance kind decays with it and
// uses the clamped envelope on it, so a triplet whose far side is outside
// the cutoff contributes exactly 0 even when both anchor sides are inside.
func (p *Param) Angular(rij, rik, rjk, cosTheta float64) float64 {
	pre := math.Pow(2, 1-p.Zeta) *
		math.Pow(1+p.Lambda*cosTheta, p.Zeta)
	switch p.Kind {
	case AngularTwo:
		return pre * math.Exp(-p.Eta*(rij*rij+rik*rik)) *
			Fc(rij, p.Rc) * Fc(rik, p.Rc)
	case AngularThree:
		return pre * math.Exp(-p.Eta*(rij*rij+rik*rik+rjk*rjk)) *
			Fc(rij, p.Rc) * Fc(rik, p.Rc) * Fc(rjk, p.Rc)
	}
	panic("Angular called on radial descriptor.")
}

// AngularDeriv computes the gradient of one angular descriptor term with
// respect to the positions of the two neighbors j and k, writing them to
// dGj and dGk. The anchor's own gradient is -(dGj + dGk) by translation
// invariance, which is what guarantees the three forces of a triplet sum to
// zero. drij and drik point from the anchor to j and k, drjk from j to k.
func (p *Param) AngularDeriv(
	drij, drik, drjk *geom.Vec,
	rij, rik, rjk, cosTheta float64,
	dGj, dGk *geom.Vec,
) {
	cosFactor := 1 + p.Lambda*cosTheta
	powM1 := math.Pow(2, 1-p.Zeta) * math.Pow(cosFactor, p.Zeta-1)
	pre := powM1 * cosFactor

	fcij, fcik := Fc(rij, p.Rc), Fc(rik, p.Rc)
	dfcij, dfcik := FcDeriv(rij, p.Rc), FcDeriv(rik, p.Rc)

	var expR, envelope float64
	var fcjk, dfcjk float64
	switch p.Kind {
	case AngularTwo:
		expR = math.Exp(-p.Eta * (rij*rij + rik*rik))
		envelope = fcij * fcik
	case AngularThree:
		expR = math.Exp(-p.Eta * (rij*rij + rik*rik + rjk*rjk))
		fcjk = Fc(rjk, p.Rc)
		dfcjk = FcDeriv(rjk, p.Rc)
		envelope = fcij * fcik * fcjk
	default:
		panic("AngularDeriv called on radial descriptor.")
	}

	// term1 multiplies the gradient of the (1 + lambda cos)^zeta factor,
	// term2 the gradient of the Gaussian, and the remaining terms the
	// gradients of the envelope product.
	term1 := p.Lambda * p.Zeta * powM1 * expR * envelope
	term2 := pre * 2 * p.Eta * expR * envelope

	rijInv, rikInv := 1/rij, 1/rik
	crossTerm := term1 * rijInv * rikInv
	cosIJ := term1 * cosTheta * rijInv * rijInv
	cosIK := term1 * cosTheta * rikInv * rikInv

	switch p.Kind {
	case AngularTwo:
		envIJ := pre * expR * dfcij * fcik * rijInv
		envIK := pre * expR * dfcik * fcij * rikInv
		for d := 0; d < 3; d++ {
			dGj[d] = crossTerm*drik[d] - cosIJ*drij[d] -
				term2*drij[d] + envIJ*drij[d]
			dGk[d] = crossTerm*drij[d] - cosIK*drik[d] -
				term2*drik[d] + envIK*drik[d]
		}
	case AngularThree:
		envIJ := pre * expR * dfcij * fcik * fcjk * rijInv
		envIK := pre * expR * dfcik * fcij * fcjk * rikInv
		envJK := pre * expR * dfcjk * fcij * fcik / rjk
		for d := 0; d < 3; d++ {
			dGj[d] = crossTerm*drik[d] - cosIJ*drij[d] -
				term2*(drij[d]-drjk[d]) + envIJ*drij[d] - envJK*drjk[d]
			dGk[d] = crossTerm*drij[d] - cosIK*drik[d] -
				term2*(drik[d]+drjk[d]) + envIK*drik[d] + envJK*drjk[d]
		}
	}
}
