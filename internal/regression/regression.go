// Package regression fits ordinary least-squares lines to row samples.
package regression

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/yildizm/linefit/internal/dataset"
)

var (
	// ErrLengthMismatch is returned when x and y differ in length
	ErrLengthMismatch = errors.New("x and y must have the same length")
	// ErrTooFewPoints is returned for fewer than two points
	ErrTooFewPoints = errors.New("at least two points are required")
	// ErrConstantX is returned when every x value is identical
	ErrConstantX = errors.New("x values are all identical")
)

// tiny keeps the t statistic finite for perfect correlations
const tiny = 1.0e-20

// Result holds the fitted line y = Intercept + Slope*x and its statistics
type Result struct {
	Slope     float64
	Intercept float64
	RValue    float64
	PValue    float64 // two-sided, null hypothesis slope == 0
	StdErr    float64 // standard error of the slope
	N         int
}

// Predict evaluates the fitted line at x
func (r *Result) Predict(x float64) float64 {
	return r.Intercept + r.Slope*x
}

// RSquared returns the coefficient of determination
func (r *Result) RSquared() float64 {
	return r.RValue * r.RValue
}

// Fit computes the least-squares line through the points (x[i], y[i])
func Fit(x, y []float64) (*Result, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(x), len(y))
	}
	n := len(x)
	if n < 2 {
		return nil, ErrTooFewPoints
	}

	_, varX := stat.MeanVariance(x, nil)
	if varX == 0 {
		return nil, ErrConstantX
	}
	_, varY := stat.MeanVariance(y, nil)

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	r := 0.0
	if varY != 0 {
		r = clamp(stat.Correlation(x, y, nil), -1, 1)
	}

	res := &Result{
		Slope:     slope,
		Intercept: intercept,
		RValue:    r,
		N:         n,
	}

	df := float64(n - 2)
	if n == 2 {
		// two points always lie on the line
		if y[0] == y[1] {
			res.PValue = 1
		}
		return res, nil
	}

	t := r * math.Sqrt(df/((1-r+tiny)*(1+r+tiny)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	res.PValue = 2 * dist.Survival(math.Abs(t))
	res.StdErr = math.Sqrt(math.Max(0, 1-r*r) * varY / varX / df)

	return res, nil
}

// FitRow fits a parsed row against the fixed x positions
func FitRow(row dataset.Row) (*Result, error) {
	return Fit(dataset.XValues[:], row.Samples())
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
