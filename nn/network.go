/*nn evaluates small feed-forward neural networks and their gradients.

The networks handled here have a linear input layer, some number of sigmoid
hidden layers, and a linear scalar output. Network instances are immutable
after creation and may be shared freely between goroutines. All per-evaluation
state lives in an explicit Cache scratch type, so a single Network can be
evaluated concurrently as long as each goroutine owns its own Cache.
*/
package nn

import (
	"fmt"
	"math"

	"github.com/Tylor-yu/lammps/mat"
)

// Network holds the weights and biases of a trained feed-forward network.
// weights[0] connects the input layer to the first hidden layer and
// weights[len-1] connects the last hidden layer to the output neuron. The
// transposed weights are precomputed because the backward recursion only ever
// multiplies by them.
type Network struct {
	weights    []*mat.Matrix
	biases     []*mat.Matrix
	transposed []*mat.Matrix

	inputs, outputs int
	hidden          int
}

// Cache holds the intermediate state of one forward/backward evaluation:
// pre-activations and activations at every layer, and the backward error
// rows. A Cache is only valid for the Network that created it.
type Cache struct {
	pre, act, errs []*mat.Matrix
}

// NewNetwork creates a network from per-layer weight matrices and bias rows.
// There are len(weights) layer transitions and len(weights)-1 hidden layers.
// The matrix shapes must chain: weights[l].Height must equal the width of the
// previous layer and biases[l] must be a row of width weights[l].Width. The
// output layer must be a single neuron.
func NewNetwork(weights, biases []*mat.Matrix) (*Network, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("network has no weight matrices")
	}
	if len(weights) != len(biases) {
		return nil, fmt.Errorf(
			"network has %d weight matrices but %d bias rows",
			len(weights), len(biases),
		)
	}

	prev := weights[0].Height
	for l := range weights {
		if weights[l].Height != prev {
			return nil, fmt.Errorf(
				"layer %d expects %d inputs but previous layer has width %d",
				l, weights[l].Height, prev,
			)
		}
		if biases[l].Height != 1 || biases[l].Width != weights[l].Width {
			return nil, fmt.Errorf(
				"layer %d bias is %dx%d, want 1x%d",
				l, biases[l].Height, biases[l].Width, weights[l].Width,
			)
		}
		prev = weights[l].Width
	}
	if out := weights[len(weights)-1].Width; out != 1 {
		return nil, fmt.Errorf("output layer has width %d, want 1", out)
	}

	net := &Network{
		weights:    weights,
		biases:     biases,
		transposed: make([]*mat.Matrix, len(weights)),
		inputs:     weights[0].Height,
		outputs:    1,
		hidden:     len(weights) - 1,
	}
	for l := range weights {
		net.transposed[l] = weights[l].Transpose()
	}

	return net, nil
}

// Inputs returns the width of the input layer.
func (net *Network) Inputs() int { return net.inputs }

// HiddenLayers returns the number of hidden layers.
func (net *Network) HiddenLayers() int { return net.hidden }

// NewCache creates scratch buffers for evaluating net.
func (net *Network) NewCache() *Cache {
	n := net.hidden + 2
	c := &Cache{
		pre:  make([]*mat.Matrix, n),
		act:  make([]*mat.Matrix, n),
		errs: make([]*mat.Matrix, n),
	}

	width := net.inputs
	for l := 0; l < n; l++ {
		c.pre[l] = mat.Zeros(width, 1)
		c.act[l] = mat.Zeros(width, 1)
		c.errs[l] = mat.Zeros(width, 1)
		if l < len(net.weights) {
			width = net.weights[l].Width
		}
	}

	return c
}

// Eval forward-propagates the input row through the network and returns the
// scalar output. The intermediate pre-activations and activations are
// retained in c for a subsequent Gradient call.
func (net *Network) Eval(in []float64, c *Cache) float64 {
	if len(in) != net.inputs {
		panic("input width does not match network.")
	}

	// Linear activation for the input layer.
	copy(c.pre[0].Vals, in)
	copy(c.act[0].Vals, in)

	// Sigmoid hidden layers.
	for l := 0; l < net.hidden; l++ {
		c.act[l].MultAt(net.weights[l], c.pre[l+1])
		c.pre[l+1].AddAt(net.biases[l], c.pre[l+1])
		sigmoidAt(c.pre[l+1], c.act[l+1])
	}

	// Linear activation for the output layer.
	last := net.hidden
	c.act[last].MultAt(net.weights[last], c.pre[last+1])
	c.pre[last+1].AddAt(net.biases[last], c.pre[last+1])
	copy(c.act[last+1].Vals, c.pre[last+1].Vals)

	return c.act[last+1].Vals[0]
}

// Gradient back-propagates through the evaluation cached in c and writes the
// gradient of the scalar output with respect to the input row into out,
// which must have length Inputs(). Eval must have been called on c first.
func (net *Network) Gradient(c *Cache, out []float64) []float64 {
	if len(out) != net.inputs {
		panic("output width does not match network.")
	}

	// The output neuron is linear, so the seed error is exactly 1.
	last := net.hidden + 1
	c.errs[last].Vals[0] = 1

	// err[l] = (err[l+1] * Wt[l]) .* sigmoid'(pre[l]), where sigmoid' is
	// evaluated at the cached pre-activations from the forward pass.
	for l := net.hidden; l > 0; l-- {
		c.errs[l+1].MultAt(net.transposed[l], c.errs[l])
		sigmoidDerivAt(c.pre[l], c.errs[l])
	}

	// Linear input layer.
	c.errs[1].MultAt(net.transposed[0], c.errs[0])
	copy(out, c.errs[0].Vals)

	return out
}

// sigmoid is the numerically stable logistic function. The naive
// 1/(1+exp(-x)) overflows for large negative x; splitting on the sign keeps
// the exponent argument non-positive.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

func sigmoidAt(m, out *mat.Matrix) {
	for i, x := range m.Vals {
		out.Vals[i] = sigmoid(x)
	}
}

// sigmoidDerivAt multiplies out elementwise by sigmoid'(m) = s*(1-s).
func sigmoidDerivAt(m, out *mat.Matrix) {
	for i, x := range m.Vals {
		s := sigmoid(x)
		out.Vals[i] *= s * (1 - s)
	}
}
