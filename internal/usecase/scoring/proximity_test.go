package scoring

import (
	"math"
	"testing"

	"github.com/natelgrw/peak-prophet/internal/domain/compound"
)

func TestGaussian_EqualValuesScoreOne(t *testing.T) {
	a := compound.Scalar(3.6)
	b := compound.Scalar(3.6)
	if got := Gaussian(a, b, 0.5); got != 1.0 {
		t.Errorf("Gaussian(3.6, 3.6) = %g, want 1.0", got)
	}
}

func TestGaussian_MonotoneDecreasing(t *testing.T) {
	base := compound.Scalar(10.0)
	prev := 1.0
	for _, delta := range []float64{0.1, 0.5, 1, 2, 5, 10} {
		got := Gaussian(base, compound.Scalar(10.0+delta), 1.0)
		if got >= prev {
			t.Fatalf("score %g at delta %g not strictly below previous %g", got, delta, prev)
		}
		prev = got
	}
}

func TestGaussian_ApproachesZero(t *testing.T) {
	got := Gaussian(compound.Scalar(0), compound.Scalar(1000), 1.0)
	if got > 1e-12 {
		t.Errorf("score at huge delta = %g, want ~0", got)
	}
}

func TestGaussian_AbsentValues(t *testing.T) {
	v := compound.Scalar(1.0)
	if got := Gaussian(nil, v, 1.0); got != 0.0 {
		t.Errorf("Gaussian(nil, v) = %g, want 0", got)
	}
	if got := Gaussian(v, nil, 1.0); got != 0.0 {
		t.Errorf("Gaussian(v, nil) = %g, want 0", got)
	}
}

func TestGaussian_NonPositiveSigma(t *testing.T) {
	a := compound.Scalar(1.0)
	b := compound.Scalar(1.0)
	if got := Gaussian(a, b, 0); got != 0.0 {
		t.Errorf("sigma 0 must score 0, got %g", got)
	}
	if got := Gaussian(a, b, -0.5); got != 0.0 {
		t.Errorf("negative sigma must score 0, got %g", got)
	}
}

func TestGaussian_KnownValue(t *testing.T) {
	// delta = sigma gives exp(-0.5)
	got := Gaussian(compound.Scalar(2.0), compound.Scalar(2.5), 0.5)
	want := math.Exp(-0.5)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Gaussian at delta=sigma = %g, want %g", got, want)
	}
}

func TestGaussian_Symmetric(t *testing.T) {
	a := compound.Scalar(2.4)
	b := compound.Scalar(5.6)
	if Gaussian(a, b, 0.5) != Gaussian(b, a, 0.5) {
		t.Error("Gaussian must be symmetric in its arguments")
	}
}
