package vector

import "math"

// Dot returns the dot product of two vectors. For unit vectors this is the
// cosine similarity. Mismatched lengths compare only the shared prefix.
func Dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy of v. A zero vector is returned as a
// zero-filled copy, not NaN.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	norm := Norm(v)
	if norm == 0 {
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// Mean returns the element-wise mean of the given vectors. All vectors must
// share the first vector's length; extra elements beyond it are ignored.
func Mean(vecs [][]float32) []float32 {
	if len(vecs) == 0 {
		return nil
	}
	out := make([]float64, len(vecs[0]))
	for _, v := range vecs {
		for i := range out {
			if i < len(v) {
				out[i] += float64(v[i])
			}
		}
	}
	res := make([]float32, len(out))
	for i, x := range out {
		res[i] = float32(x / float64(len(vecs)))
	}
	return res
}

// Centroid is the renormalized mean of a set of unit vectors. It is the
// compact representative used for label matching.
func Centroid(vecs [][]float32) []float32 {
	return Normalize(Mean(vecs))
}
