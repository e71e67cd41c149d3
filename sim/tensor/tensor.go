// Package tensor provides the 3-D array used to hand datasets and spline
// coefficients to callers. Storage is a single row-major slice; each
// leading-axis entry can be viewed as a gonum matrix without copying.
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dense3 is a dense row-major array of shape (d0, d1, d2).
type Dense3 struct {
	shape [3]int
	data  []float64
}

// NewDense3 creates a Dense3 of the given shape. If data is nil a zeroed
// backing slice is allocated, otherwise data is used directly and must have
// length d0*d1*d2. Like mat.NewDense, a shape mismatch panics.
func NewDense3(d0, d1, d2 int, data []float64) *Dense3 {
	if d0 < 0 || d1 < 0 || d2 < 0 {
		panic(fmt.Sprintf("tensor: negative dimension (%d, %d, %d)", d0, d1, d2))
	}
	n := d0 * d1 * d2
	if data == nil {
		data = make([]float64, n)
	}
	if len(data) != n {
		panic(fmt.Sprintf("tensor: data length %d does not match shape (%d, %d, %d)", len(data), d0, d1, d2))
	}
	return &Dense3{shape: [3]int{d0, d1, d2}, data: data}
}

// Dims returns the shape.
func (t *Dense3) Dims() (d0, d1, d2 int) {
	return t.shape[0], t.shape[1], t.shape[2]
}

// Shape returns the shape as an array.
func (t *Dense3) Shape() [3]int {
	return t.shape
}

func (t *Dense3) offset(i, j, k int) int {
	if uint(i) >= uint(t.shape[0]) || uint(j) >= uint(t.shape[1]) || uint(k) >= uint(t.shape[2]) {
		panic(fmt.Sprintf("tensor: index (%d, %d, %d) out of range for shape %v", i, j, k, t.shape))
	}
	return (i*t.shape[1]+j)*t.shape[2] + k
}

// At returns the element at (i, j, k).
func (t *Dense3) At(i, j, k int) float64 {
	return t.data[t.offset(i, j, k)]
}

// Set sets the element at (i, j, k).
func (t *Dense3) Set(i, j, k int, v float64) {
	t.data[t.offset(i, j, k)] = v
}

// RawData returns the backing slice. Mutations are visible through t.
func (t *Dense3) RawData() []float64 {
	return t.data
}

// Matrix returns entry i of the leading axis as a (d1 x d2) matrix sharing
// storage with t.
func (t *Dense3) Matrix(i int) *mat.Dense {
	if uint(i) >= uint(t.shape[0]) {
		panic(fmt.Sprintf("tensor: leading index %d out of range [0, %d)", i, t.shape[0]))
	}
	stride := t.shape[1] * t.shape[2]
	return mat.NewDense(t.shape[1], t.shape[2], t.data[i*stride:(i+1)*stride:(i+1)*stride])
}

// SetMatrix copies m into entry i of the leading axis. m must be (d1 x d2).
func (t *Dense3) SetMatrix(i int, m mat.Matrix) {
	r, c := m.Dims()
	if r != t.shape[1] || c != t.shape[2] {
		panic(fmt.Sprintf("tensor: matrix shape (%d, %d) does not match (%d, %d)", r, c, t.shape[1], t.shape[2]))
	}
	t.Matrix(i).Copy(m)
}
