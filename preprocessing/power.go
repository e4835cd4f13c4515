package preprocessing

import (
	"fmt"
	"math"

	"github.com/ivande/combiner/core/model"
	"github.com/ivande/combiner/core/parallel"
	"github.com/ivande/combiner/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	brentTol     = 1.48e-8
	brentMaxIter = 500
)

// PowerTransformer は列ごとにYeo-Johnson変換を行い、その後標準化する
// λは対数尤度を最大化するようにBrent法で探索する
type PowerTransformer struct {
	state *model.StateManager

	// Lambdas は各特徴量のλ
	Lambdas []float64

	// Standardize は変換後に平均0、分散1へ標準化するかどうか (デフォルト: true)
	Standardize bool

	NFeatures int

	scaler *StandardScaler
}

// NewPowerTransformer は標準化付きのPowerTransformerを作成する
func NewPowerTransformer() *PowerTransformer {
	return &PowerTransformer{
		state:       model.NewStateManager(),
		Standardize: true,
	}
}

// Fit は各列のλを推定し、標準化パラメータを学習する
func (p *PowerTransformer) Fit(X mat.Matrix) error {
	_, err := p.fit(X)
	return err
}

func (p *PowerTransformer) fit(X mat.Matrix) (*mat.Dense, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("PowerTransformer.Fit", "empty data", errors.ErrEmptyData)
	}

	p.NFeatures = c
	p.Lambdas = make([]float64, c)
	parallel.ForEach(c, parallel.DefaultThreshold, func(j int) {
		p.Lambdas[j] = yeoJohnsonOptimize(observed(X, j))
	})
	if err := errors.CheckNumericalStability("PowerTransformer.Fit", p.Lambdas); err != nil {
		return nil, err
	}

	transformed := p.applyLambdas(X)
	if p.Standardize {
		p.scaler = NewStandardScalerDefault()
		if err := p.scaler.Fit(transformed); err != nil {
			return nil, err
		}
	}

	p.state.SetDimensions(c, r)
	p.state.SetFitted(c)
	return transformed, nil
}

// Transform は学習済みのλで変換する
func (p *PowerTransformer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.state.RequireFitted("PowerTransformer", "Transform"); err != nil {
		return nil, err
	}
	_, c := X.Dims()
	if c != p.NFeatures {
		return nil, errors.NewDimensionError("PowerTransformer.Transform", p.NFeatures, c, 1)
	}

	transformed := p.applyLambdas(X)
	if p.Standardize {
		return p.scaler.Transform(transformed)
	}
	return transformed, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (p *PowerTransformer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	transformed, err := p.fit(X)
	if err != nil {
		return nil, err
	}
	if p.Standardize {
		return p.scaler.Transform(transformed)
	}
	return transformed, nil
}

func (p *PowerTransformer) applyLambdas(X mat.Matrix) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return yeoJohnson(v, p.Lambdas[j])
	}, X)
	return out
}

// GetParams はパラメータを取得する
func (p *PowerTransformer) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"method":      "yeo-johnson",
		"standardize": p.Standardize,
	}
}

func (p *PowerTransformer) String() string {
	return fmt.Sprintf("PowerTransformer(method=yeo-johnson, standardize=%t)", p.Standardize)
}

// yeoJohnson transforms one value. NaN stays NaN.
func yeoJohnson(x, lambda float64) float64 {
	const eps = 1e-8
	switch {
	case math.IsNaN(x):
		return x
	case x >= 0 && math.Abs(lambda) < eps:
		return math.Log1p(x)
	case x >= 0:
		return (math.Pow(x+1, lambda) - 1) / lambda
	case math.Abs(lambda-2) > eps:
		return -(math.Pow(-x+1, 2-lambda) - 1) / (2 - lambda)
	default:
		return -math.Log1p(-x)
	}
}

// yeoJohnsonNegLogLikelihood is the negative profile log-likelihood of lambda
// for the non-NaN sample x.
func yeoJohnsonNegLogLikelihood(x []float64, lambda float64) float64 {
	n := float64(len(x))
	trans := make([]float64, len(x))
	signLog := 0.0
	for i, v := range x {
		trans[i] = yeoJohnson(v, lambda)
		if v > 0 {
			signLog += math.Log1p(v)
		} else if v < 0 {
			signLog -= math.Log1p(-v)
		}
	}
	_, variance := stat.PopMeanVariance(trans, nil)
	if variance <= 0 {
		return math.Inf(1)
	}
	loglike := -n/2*math.Log(variance) + (lambda-1)*signLog
	return -loglike
}

// yeoJohnsonOptimize picks the lambda maximising the log-likelihood.
// Constant or empty samples keep the identity lambda 1.
func yeoJohnsonOptimize(x []float64) float64 {
	if len(x) < 2 {
		return 1
	}
	constant := true
	for _, v := range x[1:] {
		if v != x[0] {
			constant = false
			break
		}
	}
	if constant {
		return 1
	}

	f := func(l float64) float64 { return yeoJohnsonNegLogLikelihood(x, l) }
	lambda, iters, ok := brentMinimize(f, -2, 2)
	if !ok {
		errors.Warn(errors.NewConvergenceWarning("YeoJohnson", iters, "lambda search did not converge"))
	}
	return lambda
}

// bracketMinimum expands [xa, xb] downhill until it encloses a minimum,
// returning xa, xb, xc with f(xb) below both ends.
func bracketMinimum(f func(float64) float64, xa, xb float64) (a, b, c, fa, fb, fc float64, ok bool) {
	const (
		gold      = 1.618034
		verySmall = 1e-21
		growLimit = 110.0
		maxIter   = 1000
	)
	fa, fb = f(xa), f(xb)
	if fa < fb {
		xa, xb = xb, xa
		fa, fb = fb, fa
	}
	xc := xb + gold*(xb-xa)
	fc = f(xc)

	for iter := 0; fc < fb; iter++ {
		if iter > maxIter {
			return xa, xb, xc, fa, fb, fc, false
		}
		tmp1 := (xb - xa) * (fb - fc)
		tmp2 := (xb - xc) * (fb - fa)
		val := tmp2 - tmp1
		denom := 2 * val
		if math.Abs(val) < verySmall {
			denom = 2 * verySmall
		}
		w := xb - ((xb-xc)*tmp2-(xb-xa)*tmp1)/denom
		wlim := xb + growLimit*(xc-xb)

		var fw float64
		switch {
		case (w-xc)*(xb-w) > 0:
			fw = f(w)
			if fw < fc {
				return xb, w, xc, fb, fw, fc, true
			}
			if fw > fb {
				return xa, xb, w, fa, fb, fw, true
			}
			w = xc + gold*(xc-xb)
			fw = f(w)
		case (w-wlim)*(wlim-xc) >= 0:
			w = wlim
			fw = f(w)
		case (w-wlim)*(xc-w) > 0:
			fw = f(w)
			if fw < fc {
				xb, xc = xc, w
				w = xc + gold*(xc-xb)
				fb, fc = fc, fw
				fw = f(w)
			}
		default:
			w = xc + gold*(xc-xb)
			fw = f(w)
		}
		xa, xb, xc = xb, xc, w
		fa, fb, fc = fb, fc, fw
	}
	return xa, xb, xc, fa, fb, fc, true
}

// brentMinimize finds a local minimum of f starting from the bracket search
// seeded with xa, xb. It reports the iterations used and whether it converged.
func brentMinimize(f func(float64) float64, xa, xb float64) (float64, int, bool) {
	const (
		minTol = 1.0e-11
		cg     = 0.3819660
	)
	xa, xb, xc, _, fb, _, ok := bracketMinimum(f, xa, xb)
	if !ok {
		return xb, 0, false
	}

	x, w, v := xb, xb, xb
	fx, fw, fv := fb, fb, fb
	a, b := xa, xc
	if xa >= xc {
		a, b = xc, xa
	}
	deltax, rat := 0.0, 0.0

	iter := 0
	for ; iter < brentMaxIter; iter++ {
		tol1 := brentTol*math.Abs(x) + minTol
		tol2 := 2 * tol1
		xmid := 0.5 * (a + b)
		if math.Abs(x-xmid) < tol2-0.5*(b-a) {
			return x, iter, true
		}

		if math.Abs(deltax) <= tol1 {
			if x >= xmid {
				deltax = a - x
			} else {
				deltax = b - x
			}
			rat = cg * deltax
		} else {
			// parabolic step
			tmp1 := (x - w) * (fx - fv)
			tmp2 := (x - v) * (fx - fw)
			p := (x-v)*tmp2 - (x-w)*tmp1
			tmp2 = 2 * (tmp2 - tmp1)
			if tmp2 > 0 {
				p = -p
			}
			tmp2 = math.Abs(tmp2)
			dxTemp := deltax
			deltax = rat
			if p > tmp2*(a-x) && p < tmp2*(b-x) && math.Abs(p) < math.Abs(0.5*tmp2*dxTemp) {
				rat = p / tmp2
				u := x + rat
				if u-a < tol2 || b-u < tol2 {
					if xmid-x >= 0 {
						rat = tol1
					} else {
						rat = -tol1
					}
				}
			} else {
				if x >= xmid {
					deltax = a - x
				} else {
					deltax = b - x
				}
				rat = cg * deltax
			}
		}

		var u float64
		if math.Abs(rat) < tol1 {
			if rat >= 0 {
				u = x + tol1
			} else {
				u = x - tol1
			}
		} else {
			u = x + rat
		}
		fu := f(u)

		if fu > fx {
			if u < x {
				a = u
			} else {
				b = u
			}
			if fu <= fw || w == x {
				v, w = w, u
				fv, fw = fw, fu
			} else if fu <= fv || v == x || v == w {
				v = u
				fv = fu
			}
		} else {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, w, x = w, x, u
			fv, fw, fx = fw, fx, fu
		}
	}
	return x, iter, false
}
