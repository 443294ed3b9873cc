/*package geom contains routines for computing geometric quantities of
particle neighborhoods.
*/
package geom

import (
	"math"
)

// Vec is a three dimensional displacement vector.
type Vec [3]float64

// Add returns the sum of v and u.
func (v *Vec) Add(u *Vec) Vec {
	return Vec{v[0] + u[0], v[1] + u[1], v[2] + u[2]}
}

// Sub returns the difference v - u.
func (v *Vec) Sub(u *Vec) Vec {
	return Vec{v[0] - u[0], v[1] - u[1], v[2] - u[2]}
}

// Dot returns the inner product of v and u.
func (v *Vec) Dot(u *Vec) float64 {
	return v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
}

// Norm returns the Euclidean length of v.
func (v *Vec) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Scale returns v scaled by the constant a.
func (v *Vec) Scale(a float64) Vec {
	return Vec{a * v[0], a * v[1], a * v[2]}
}

// AddSelf adds u to v in place.
func (v *Vec) AddSelf(u *Vec) {
	v[0] += u[0]
	v[1] += u[1]
	v[2] += u[2]
}

// SubSelf subtracts u from v in place.
func (v *Vec) SubSelf(u *Vec) {
	v[0] -= u[0]
	v[1] -= u[1]
	v[2] -= u[2]
}

// CosAngle returns the cosine of the angle between the displacements v and u,
// given their precomputed lengths. Both lengths must be strictly positive.
func CosAngle(v, u *Vec, vNorm, uNorm float64) float64 {
	return v.Dot(u) / (vNorm * uNorm)
}
