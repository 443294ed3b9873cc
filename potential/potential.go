/*package potential evaluates a neural-network interatomic potential: it maps
each particle's local neighborhood to a descriptor vector, runs the trained
network on it, and converts the network gradient into analytic forces on every
particle of every contributing pair and triplet.

A Potential is immutable after construction and safe to share between
goroutines. All per-evaluation state lives in an explicit Buffers scratch
type, and all output goes through a Sink, so concurrent evaluation only
requires giving each worker its own Buffers and Sink.
*/
package potential

import (
	"fmt"
	"log"

	"github.com/Tylor-yu/lammps/geom"
	"github.com/Tylor-yu/lammps/nn"
	"github.com/Tylor-yu/lammps/symm"
)

// Neighbor is one entry of an anchor particle's neighbor list: the
// neighbor's index in the external particle store, the displacement from the
// anchor to the neighbor, and its length. Lists may contain entries slightly
// beyond the cutoff; those are skipped during evaluation.
type Neighbor struct {
	Index int
	Dr    geom.Vec
	R     float64
}

// Sink receives the force, energy, and virial contributions of an
// evaluation. Implementations only ever add into their accumulators; partial
// results are never committed through any other path.
type Sink interface {
	AddForce(i int, df *geom.Vec)
	AddEnergy(de float64)
	AddVirial(dv *[6]float64)
}

// ArraySink is a Sink backed by flat per-particle arrays. The virial is
// ordered xx, yy, zz, xy, xz, yz.
type ArraySink struct {
	Forces []geom.Vec
	Energy float64
	Virial [6]float64
}

// NewArraySink creates an ArraySink for n particles.
func NewArraySink(n int) *ArraySink {
	return &ArraySink{Forces: make([]geom.Vec, n)}
}

func (s *ArraySink) AddForce(i int, df *geom.Vec) { s.Forces[i].AddSelf(df) }
func (s *ArraySink) AddEnergy(de float64)         { s.Energy += de }
func (s *ArraySink) AddVirial(dv *[6]float64) {
	for i := 0; i < 6; i++ {
		s.Virial[i] += dv[i]
	}
}

// Reset zeroes the accumulators.
func (s *ArraySink) Reset() {
	for i := range s.Forces {
		s.Forces[i] = geom.Vec{}
	}
	s.Energy = 0
	s.Virial = [6]float64{}
}

// AddTo adds this sink's accumulated contributions into out.
func (s *ArraySink) AddTo(out *ArraySink) {
	for i := range s.Forces {
		out.Forces[i].AddSelf(&s.Forces[i])
	}
	out.Energy += s.Energy
	for i := 0; i < 6; i++ {
		out.Virial[i] += s.Virial[i]
	}
}

// Potential is a trained network potential together with its descriptor
// configuration. The descriptor ordering in funcs matches the network's
// input ordering by construction of the loader and must never be permuted.
type Potential struct {
	net    *nn.Network
	funcs  symm.Set
	cutoff float64

	means       []float64
	mins, maxes []float64

	hasAngular bool
}

// New creates a Potential from a trained network, its symmetry function set,
// and the global neighbor-list cutoff.
func New(net *nn.Network, funcs symm.Set, cutoff float64) (*Potential, error) {
	if err := funcs.Validate(); err != nil {
		return nil, err
	}
	if net.Inputs() != len(funcs) {
		return nil, fmt.Errorf(
			"network expects %d inputs but %d symmetry functions are "+
				"configured", net.Inputs(), len(funcs),
		)
	}
	if cutoff <= 0 {
		return nil, fmt.Errorf("cutoff %g must be positive", cutoff)
	}
	if max := funcs.MaxCutoff(); max > cutoff {
		return nil, fmt.Errorf(
			"symmetry function cutoff %g exceeds neighbor-list cutoff %g",
			max, cutoff,
		)
	}

	return &Potential{
		net: net, funcs: funcs, cutoff: cutoff,
		hasAngular: funcs.HasAngular(),
	}, nil
}

// SetMeans supplies a per-descriptor shift subtracted from every input
// vector before the network sees it.
func (p *Potential) SetMeans(means []float64) error {
	if len(means) != len(p.funcs) {
		return fmt.Errorf(
			"%d means for %d symmetry functions", len(means), len(p.funcs),
		)
	}
	p.means = means
	return nil
}

// SetRanges supplies the observed training range of every descriptor. Inputs
// outside their range are logged as extrapolation warnings; they never
// change the result.
func (p *Potential) SetRanges(mins, maxes []float64) error {
	if len(mins) != len(p.funcs) || len(maxes) != len(p.funcs) {
		return fmt.Errorf(
			"%d/%d range rows for %d symmetry functions",
			len(mins), len(maxes), len(p.funcs),
		)
	}
	p.mins, p.maxes = mins, maxes
	return nil
}

// Cutoff returns the neighbor-list cutoff radius.
func (p *Potential) Cutoff() float64 { return p.cutoff }

// Descriptors returns the width of the descriptor vector.
func (p *Potential) Descriptors() int { return len(p.funcs) }

// pair is one within-cutoff neighbor of the current anchor.
type pair struct {
	idx int
	dr  geom.Vec
	r   float64
}

// triplet is one unordered neighbor pair (j, k) of the current anchor,
// stored by pair indices. Each triplet is visited exactly once because k
// always comes later in the pair list than j; the descriptor sum and the
// force pass share this enumeration, so no double-counting factor is needed.
type triplet struct {
	j, k     int
	drjk     geom.Vec
	rjk, cos float64
}

// Buffers holds the scratch state of one anchor evaluation so repeated calls
// allocate nothing. A Buffers is only valid for the Potential that created
// it and must not be shared between goroutines.
type Buffers struct {
	cache  *nn.Cache
	inputs []float64
	grad   []float64

	pairs    []pair
	trips    []triplet
	dists    []float64
	dG2      []float64
}

// NewBuffers creates scratch buffers for evaluating p.
func (p *Potential) NewBuffers() *Buffers {
	return &Buffers{
		cache:  p.net.NewCache(),
		inputs: make([]float64, len(p.funcs)),
		grad:   make([]float64, len(p.funcs)),
	}
}

// Compute evaluates the potential for one anchor particle and accumulates
// its energy, its force contributions (on the anchor and on every neighbor
// that participates in a descriptor term), and the virial into sink. It
// returns the anchor's energy contribution.
//
// The energy is tallied exactly once per anchor: the anchor's whole
// neighborhood folds into one descriptor vector and one network evaluation.
func (p *Potential) Compute(
	anchor int, neighbors []Neighbor, buf *Buffers, sink Sink,
) float64 {
	p.gather(neighbors, buf)
	p.descriptors(buf)

	if p.means != nil {
		for s := range buf.inputs {
			buf.inputs[s] -= p.means[s]
		}
	}
	if p.mins != nil {
		p.checkExtrapolation(anchor, buf.inputs)
	}

	energy := p.net.Eval(buf.inputs, buf.cache)
	sink.AddEnergy(energy)
	p.net.Gradient(buf.cache, buf.grad)

	p.forces(anchor, buf, sink)
	return energy
}

// gather filters the neighbor list to the cutoff and rebuilds the pair and
// triplet records.
func (p *Potential) gather(neighbors []Neighbor, buf *Buffers) {
	buf.pairs = buf.pairs[:0]
	buf.trips = buf.trips[:0]
	buf.dists = buf.dists[:0]

	for _, n := range neighbors {
		if n.R >= p.cutoff {
			continue
		}
		buf.pairs = append(buf.pairs, pair{n.Index, n.Dr, n.R})
		buf.dists = append(buf.dists, n.R)
	}

	if !p.hasAngular {
		return
	}
	for j := 0; j < len(buf.pairs); j++ {
		pj := &buf.pairs[j]
		for k := j + 1; k < len(buf.pairs); k++ {
			pk := &buf.pairs[k]
			drjk := pk.dr.Sub(&pj.dr)
			buf.trips = append(buf.trips, triplet{
				j: j, k: k,
				drjk: drjk,
				rjk:  drjk.Norm(),
				cos:  geom.CosAngle(&pj.dr, &pk.dr, pj.r, pk.r),
			})
		}
	}
}

// descriptors fills buf.inputs with the descriptor vector of the gathered
// neighborhood. An empty neighborhood gives the zero vector.
func (p *Potential) descriptors(buf *Buffers) {
	for s := range buf.inputs {
		buf.inputs[s] = 0
	}

	for s := range p.funcs {
		f := &p.funcs[s]
		switch f.Kind {
		case symm.Radial:
			for l := range buf.pairs {
				buf.inputs[s] += f.Radial(buf.pairs[l].r)
			}
		default:
			for ti := range buf.trips {
				tr := &buf.trips[ti]
				buf.inputs[s] += f.Angular(
					buf.pairs[tr.j].r, buf.pairs[tr.k].r, tr.rjk, tr.cos,
				)
			}
		}
	}
}

// forces walks every descriptor's pair or triplet terms, converts the cached
// network gradient into Cartesian forces with Newton's third law, and
// tallies the virial.
func (p *Potential) forces(anchor int, buf *Buffers, sink Sink) {
	if cap(buf.dG2) < len(buf.pairs) {
		buf.dG2 = make([]float64, len(buf.pairs))
	}
	buf.dG2 = buf.dG2[:len(buf.pairs)]

	var fAnchor geom.Vec
	var dv [6]float64

	for s := range p.funcs {
		f := &p.funcs[s]

		if f.Kind == symm.Radial {
			f.RadialDerivAt(buf.dists, buf.dG2)
			for l := range buf.pairs {
				pr := &buf.pairs[l]
				fpair := -buf.grad[s] * buf.dG2[l] / pr.r

				fj := pr.dr.Scale(fpair)
				sink.AddForce(pr.idx, &fj)
				fAnchor.SubSelf(&fj)

				pairVirial(&pr.dr, &fj, &dv)
				sink.AddVirial(&dv)
			}
			continue
		}

		var dGj, dGk geom.Vec
		for ti := range buf.trips {
			tr := &buf.trips[ti]
			pj, pk := &buf.pairs[tr.j], &buf.pairs[tr.k]

			f.AngularDeriv(
				&pj.dr, &pk.dr, &tr.drjk, pj.r, pk.r, tr.rjk, tr.cos,
				&dGj, &dGk,
			)

			fj := dGj.Scale(-buf.grad[s])
			fk := dGk.Scale(-buf.grad[s])

			sink.AddForce(pj.idx, &fj)
			sink.AddForce(pk.idx, &fk)
			// The anchor takes the negated sum, so the triplet's three
			// forces cancel exactly.
			fAnchor.SubSelf(&fj)
			fAnchor.SubSelf(&fk)

			tripletVirial(&pj.dr, &pk.dr, &fj, &fk, &dv)
			sink.AddVirial(&dv)
		}
	}

	sink.AddForce(anchor, &fAnchor)
}

// checkExtrapolation logs descriptor components outside the training range.
func (p *Potential) checkExtrapolation(anchor int, inputs []float64) {
	for s, x := range inputs {
		if x < p.mins[s] {
			log.Printf(
				"particle %d: symmetry function %d input %.16g below "+
					"training minimum %.16g", anchor, s, x, p.mins[s],
			)
		} else if x > p.maxes[s] {
			log.Printf(
				"particle %d: symmetry function %d input %.16g above "+
					"training maximum %.16g", anchor, s, x, p.maxes[s],
			)
		}
	}
}

// pairVirial writes the virial contribution dr (x) f of one pair term.
func pairVirial(dr, f *geom.Vec, dv *[6]float64) {
	dv[0] = dr[0] * f[0]
	dv[1] = dr[1] * f[1]
	dv[2] = dr[2] * f[2]
	dv[3] = dr[0] * f[1]
	dv[4] = dr[0] * f[2]
	dv[5] = dr[1] * f[2]
}

// tripletVirial writes the virial contribution drij (x) fj + drik (x) fk of
// one triplet term.
func tripletVirial(drij, drik, fj, fk *geom.Vec, dv *[6]float64) {
	dv[0] = drij[0]*fj[0] + drik[0]*fk[0]
	dv[1] = drij[1]*fj[1] + drik[1]*fk[1]
	dv[2] = drij[2]*fj[2] + drik[2]*fk[2]
	dv[3] = drij[0]*fj[1] + drik[0]*fk[1]
	dv[4] = drij[0]*fj[2] + drik[0]*fk[2]
	dv[5] = drij[1]*fj[2] + drik[1]*fk[2]
}
