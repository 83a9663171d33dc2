package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/linefit/internal/dataset"
)

const tol = 1e-9

// referenceOLS is the textbook closed form used to cross-check Fit
func referenceOLS(x, y []float64) (slope, intercept, r float64) {
	n := float64(len(x))
	var sx, sy float64
	for i := range x {
		sx += x[i]
		sy += y[i]
	}
	mx, my := sx/n, sy/n

	var sxx, syy, sxy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	slope = sxy / sxx
	intercept = my - slope*mx
	if syy == 0 {
		return slope, intercept, 0
	}
	return slope, intercept, sxy / math.Sqrt(sxx*syy)
}

func TestFitKnownValues(t *testing.T) {
	res, err := FitRow(dataset.Row{Label: "r", Values: [dataset.SampleCount]float64{1, 3, 2, 5, 4}})
	require.NoError(t, err)

	assert.InDelta(t, 4.0, res.Slope, tol)
	assert.InDelta(t, 0.6, res.Intercept, tol)
	assert.InDelta(t, 0.8, res.RValue, tol)
	assert.InDelta(t, 0.1041, res.PValue, 1e-3)
	assert.InDelta(t, math.Sqrt(3), res.StdErr, 1e-9)
	assert.Equal(t, 5, res.N)
}

func TestFitMatchesReference(t *testing.T) {
	rows := [][dataset.SampleCount]float64{
		{0.1, 0.2, 0.3, 0.4, 0.5},
		{10, -3, 7.5, 2, 0},
		{-1e3, 2e3, -5e2, 4.4e3, 1},
		{3.14, 2.71, 1.41, 1.73, 0.57},
		{0, 0, 1, 0, 0},
	}

	for _, values := range rows {
		res, err := FitRow(dataset.Row{Values: values})
		require.NoError(t, err)

		slope, intercept, r := referenceOLS(dataset.XValues[:], values[:])
		scale := math.Max(1, math.Abs(slope))
		assert.InDelta(t, slope, res.Slope, tol*scale, "slope for %v", values)
		assert.InDelta(t, intercept, res.Intercept, tol*scale, "intercept for %v", values)
		assert.InDelta(t, r, res.RValue, tol, "r for %v", values)
	}
}

func TestFitPerfectLine(t *testing.T) {
	x := dataset.XValues[:]
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 1
	}

	res, err := Fit(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.Slope, tol)
	assert.InDelta(t, 1.0, res.Intercept, tol)
	assert.InDelta(t, 1.0, res.RValue, tol)
	assert.InDelta(t, 0.0, res.PValue, 1e-6)
	assert.InDelta(t, 0.0, res.StdErr, 1e-6)
	assert.InDelta(t, 3.0, res.Predict(1), tol)
	assert.InDelta(t, 1.0, res.RSquared(), tol)
}

func TestFitConstantY(t *testing.T) {
	res, err := Fit(dataset.XValues[:], []float64{7, 7, 7, 7, 7})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, res.Slope, tol)
	assert.InDelta(t, 7.0, res.Intercept, tol)
	assert.Equal(t, 0.0, res.RValue)
	assert.False(t, math.IsNaN(res.PValue))
}

func TestFitTwoPoints(t *testing.T) {
	res, err := Fit([]float64{0, 1}, []float64{1, 3})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.Slope, tol)
	assert.InDelta(t, 1.0, res.Intercept, tol)
	assert.Equal(t, 0.0, res.PValue)

	res, err = Fit([]float64{0, 1}, []float64{2, 2})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.PValue)
}

func TestFitErrors(t *testing.T) {
	_, err := Fit([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Fit([]float64{1}, []float64{1})
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = Fit([]float64{1, 1, 1}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrConstantX)
}
