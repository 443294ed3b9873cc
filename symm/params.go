/*symm implements the symmetry functions which summarize a particle's local
neighborhood as a fixed-length descriptor vector, together with the smooth
cutoff envelopes and the closed-form Cartesian derivatives needed to convert
network gradients into forces.

A descriptor component is either radial (a Gaussian of one neighbor distance,
summed over neighbors) or angular (a function of a neighbor triplet's
distances and opening angle, summed over unordered neighbor pairs). The
component ordering is fixed by the parameter file and shared with the
training pipeline, so it must never be reordered here.
*/
package symm

import (
	"fmt"
)

// Kind distinguishes the symmetry function families.
type Kind int

const (
	// Radial is a two-body Gaussian descriptor with parameters
	// (Eta, Rc, Rs).
	Radial Kind = iota
	// AngularTwo is a three-body descriptor depending on the two anchor
	// sides of the triplet, with parameters (Eta, Rc, Zeta, Lambda).
	AngularTwo
	// AngularThree is a three-body descriptor which additionally decays
	// with the far side of the triplet and cuts off sharply when the far
	// side leaves the envelope.
	AngularThree
)

func (k Kind) String() string {
	switch k {
	case Radial:
		return "Radial"
	case AngularTwo:
		return "AngularTwo"
	case AngularThree:
		return "AngularThree"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Param is one symmetry function record. Rs is only meaningful for Radial
// records; Zeta and Lambda only for the angular kinds.
type Param struct {
	Kind     Kind
	Eta, Rc  float64
	Rs       float64
	Zeta     float64
	Lambda   float64
}

// Validate reports an error for parameter values the descriptor formulas
// cannot handle.
func (p *Param) Validate() error {
	if p.Eta <= 0 {
		return fmt.Errorf("%s descriptor has non-positive eta %g", p.Kind, p.Eta)
	}
	if p.Rc <= 0 {
		return fmt.Errorf("%s descriptor has non-positive cutoff %g", p.Kind, p.Rc)
	}
	switch p.Kind {
	case Radial:
		if p.Rs < 0 {
			return fmt.Errorf("radial descriptor has negative shift %g", p.Rs)
		}
	case AngularTwo, AngularThree:
		if p.Zeta < 1 {
			return fmt.Errorf("%s descriptor has order %g < 1", p.Kind, p.Zeta)
		}
		if p.Lambda != 1 && p.Lambda != -1 {
			return fmt.Errorf(
				"%s descriptor has sign %g, want -1 or +1", p.Kind, p.Lambda,
			)
		}
	default:
		return fmt.Errorf("unknown descriptor kind %d", int(p.Kind))
	}
	return nil
}

// Set is an ordered sequence of symmetry function records. The order defines
// the descriptor vector layout.
type Set []Param

// Validate checks every record in the set.
func (s Set) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("empty symmetry function set")
	}
	for i := range s {
		if err := s[i].Validate(); err != nil {
			return fmt.Errorf("symmetry function %d: %s", i, err.Error())
		}
	}
	return nil
}

// HasAngular returns true if the set contains any angular records.
func (s Set) HasAngular() bool {
	for i := range s {
		if s[i].Kind != Radial {
			return true
		}
	}
	return false
}

// MaxCutoff returns the largest cutoff radius in the set.
func (s Set) MaxCutoff() float64 {
	max := 0.0
	for i := range s {
		if s[i].Rc > max {
			max = s[i].Rc
		}
	}
	return max
}
