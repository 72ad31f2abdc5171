package utils

import "gonum.org/v1/gonum/mat"

func SubVec(a, b *mat.VecDense) *mat.VecDense {
	if a.Len() != b.Len() {
		panic("Two vectors should have the same length.")
	}

	ret := mat.NewVecDense(a.Len(), nil)
	ret.SubVec(a, b)

	return ret
}

func SAddVec(a, b *mat.VecDense) {
	a.AddVec(a, b)
}

// ClampVec clamps every element of v to [lo, hi] in place.
func ClampVec(v *mat.VecDense, lo, hi float64) {
	for i := 0; i < v.Len(); i++ {
		x := v.AtVec(i)
		switch {
		case x < lo:
			v.SetVec(i, lo)
		case x > hi:
			v.SetVec(i, hi)
		}
	}
}

// ScaleVec multiplies every element of v by k in place.
func ScaleVec(v *mat.VecDense, k float64) {
	v.ScaleVec(k, v)
}
