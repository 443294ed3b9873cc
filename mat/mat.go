/*mat contains routines for executing operations on dense matrices. Operations
are split into easy to use methods which might be somewhat wasteful with
memory consumption and slightly less easy to use methods which write into
preallocated output matrices.

Everything here works on general rectangular matrices because network weight
matrices are almost never square.
*/
package mat

// Matrix represents a matrix of float64 values.
type Matrix struct {
	Vals          []float64
	Width, Height int
}

// NewMatrix creates a matrix with the specified values and dimensions.
func NewMatrix(vals []float64, width, height int) *Matrix {
	if width <= 0 {
		panic("width must be positive.")
	} else if height <= 0 {
		panic("height must be positive.")
	} else if width*height != len(vals) {
		panic("height * width must equal len(vals).")
	}

	return &Matrix{Vals: vals, Width: width, Height: height}
}

// Zeros creates a zeroed matrix with the specified dimensions.
func Zeros(width, height int) *Matrix {
	return NewMatrix(make([]float64, width*height), width, height)
}

// Mult multiplies two matrices together.
func (m1 *Matrix) Mult(m2 *Matrix) *Matrix {
	h, w := m1.Height, m2.Width
	out := NewMatrix(make([]float64, h*w), w, h)
	return m1.MultAt(m2, out)
}

// MultAt multiplies two matrices together and writes the result to the
// specified matrix.
func (m1 *Matrix) MultAt(m2, out *Matrix) *Matrix {
	if m1.Width != m2.Height {
		panic("Multiplication of incompatible matrix sizes.")
	} else if out.Height != m1.Height || out.Width != m2.Width {
		panic("out matrix has incompatible size.")
	}

	for i := range out.Vals {
		out.Vals[i] = 0
	}
	for i := 0; i < m1.Height; i++ {
		m1Off := i * m1.Width
		outOff := i * out.Width
		for k := 0; k < m1.Width; k++ {
			m1Val := m1.Vals[m1Off+k]
			m2Off := k * m2.Width
			for j := 0; j < m2.Width; j++ {
				out.Vals[outOff+j] += m1Val * m2.Vals[m2Off+j]
			}
		}
	}

	return out
}

// Transpose returns the transpose of a matrix.
func (m *Matrix) Transpose() *Matrix {
	out := NewMatrix(make([]float64, len(m.Vals)), m.Height, m.Width)
	return m.TransposeAt(out)
}

// TransposeAt writes the transpose of a matrix to the specified matrix.
func (m *Matrix) TransposeAt(out *Matrix) *Matrix {
	if out.Width != m.Height || out.Height != m.Width {
		panic("out matrix has incompatible size.")
	}

	for i := 0; i < m.Height; i++ {
		off := i * m.Width
		for j := 0; j < m.Width; j++ {
			out.Vals[j*out.Width+i] = m.Vals[off+j]
		}
	}

	return out
}

// AddAt adds two matrices elementwise and writes the result to the specified
// matrix. out may alias either input.
func (m1 *Matrix) AddAt(m2, out *Matrix) *Matrix {
	if m1.Width != m2.Width || m1.Height != m2.Height {
		panic("Addition of incompatible matrix sizes.")
	} else if out.Width != m1.Width || out.Height != m1.Height {
		panic("out matrix has incompatible size.")
	}

	for i := range out.Vals {
		out.Vals[i] = m1.Vals[i] + m2.Vals[i]
	}

	return out
}

// HadamardAt multiplies two matrices elementwise and writes the result to the
// specified matrix. out may alias either input.
func (m1 *Matrix) HadamardAt(m2, out *Matrix) *Matrix {
	if m1.Width != m2.Width || m1.Height != m2.Height {
		panic("Elementwise product of incompatible matrix sizes.")
	} else if out.Width != m1.Width || out.Height != m1.Height {
		panic("out matrix has incompatible size.")
	}

	for i := range out.Vals {
		out.Vals[i] = m1.Vals[i] * m2.Vals[i]
	}

	return out
}
