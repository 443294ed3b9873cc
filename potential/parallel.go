package potential

import (
	"runtime"
)

// EvaluateAll evaluates every anchor particle serially, accumulating into
// sink. lists[i] is the neighbor list of particle i.
func (p *Potential) EvaluateAll(lists [][]Neighbor, buf *Buffers, sink Sink) {
	for i := range lists {
		p.Compute(i, lists[i], buf, sink)
	}
}

// EvaluateParallel splits the anchor particles across the given number of
// workers. The shared network and symmetry function parameters are read-only,
// so the only coordination needed is around the accumulators: every worker
// owns a private ArraySink and the results are merged in worker order, which
// keeps the floating-point summation order fixed from run to run.
func (p *Potential) EvaluateParallel(
	lists [][]Neighbor, workers int, sink *ArraySink,
) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(lists) && len(lists) > 0 {
		workers = len(lists)
	}

	out := make(chan int, workers)
	sinks := make([]*ArraySink, workers)

	for id := 0; id < workers; id++ {
		sinks[id] = NewArraySink(len(sink.Forces))
		go func(id int) {
			buf := p.NewBuffers()
			for i := id; i < len(lists); i += workers {
				p.Compute(i, lists[i], buf, sinks[id])
			}
			out <- id
		}(id)
	}
	for i := 0; i < workers; i++ {
		<-out
	}

	for id := 0; id < workers; id++ {
		sinks[id].AddTo(sink)
	}
}
