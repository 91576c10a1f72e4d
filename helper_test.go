package relkin

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func assertPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

func TestIdentity(t *testing.T) {
	n := 3
	i33 := Identity(n)
	if r, c := i33.Dims(); r != n || r != c {
		t.Fatalf("i33 has dimensions (%dx%d)", r, c)
	}
	for i := 0; i < n; i++ {
		if i33.At(i, i) != 1 {
			t.Fatalf("i33(%d,%d) != 1", i, i)
		}
		for j := 0; j < n; j++ {
			if i != j && i33.At(i, j) != 0 {
				t.Fatalf("i33(%d,%d) != 0", i, j)
			}
		}
	}
}

func TestScaledIdentity(t *testing.T) {
	s33 := ScaledIdentity(3, 10)
	var expected mat.SymDense
	expected.ScaleSym(10, Identity(3))
	if !mat.Equal(s33, &expected) {
		t.Fatal("ScaledIdentity(3, 10) != 10*Identity(3)")
	}
}

func TestIsNil(t *testing.T) {
	if !IsNil(mat.NewDense(2, 3, nil)) {
		t.Fatal("a zero matrix is nil")
	}
	if IsNil(Identity(2)) {
		t.Fatal("the identity is not nil")
	}
}

func TestAsSymDense(t *testing.T) {
	s, err := AsSymDense(mat.NewDense(2, 2, []float64{1, 2, 2, 3}))
	if err != nil {
		t.Fatal(err)
	}
	if s.At(0, 1) != 2 {
		t.Fatal("symmetric conversion lost values")
	}
	if _, err = AsSymDense(mat.NewDense(2, 3, nil)); err == nil {
		t.Fatal("a rectangular matrix cannot be symmetric")
	}
	if _, err = AsSymDense(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err == nil {
		t.Fatal("an asymmetric matrix must be rejected")
	}
}

func TestCheckDims(t *testing.T) {
	i22 := Identity(2)
	i33 := Identity(3)
	methods := []DimensionAgreement{rows2cols, cols2rows, cols2cols, rows2rows, rowsAndcols}
	for _, meth := range methods {
		if err := checkMatDims(i22, i22, "i22", "i22", meth); err != nil {
			t.Fatalf("method %+v fails: %s", meth, err)
		}
		if err := checkMatDims(i22, i33, "i22", "i33", meth); err == nil {
			t.Fatalf("method %+v does not error when using i22 and i33 ", meth)
		}
	}
}
