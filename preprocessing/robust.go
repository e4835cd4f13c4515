package preprocessing

import (
	"fmt"
	"math"

	"github.com/ivande/combiner/core/model"
	"github.com/ivande/combiner/core/parallel"
	"github.com/ivande/combiner/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// RobustScaler は中央値を引き、四分位範囲で割るスケーラー
// 外れ値の影響を受けにくい
type RobustScaler struct {
	state *model.StateManager

	// Center は各特徴量の中央値
	Center []float64

	// Scale は各特徴量の四分位範囲 (q75 - q25)
	Scale []float64

	NFeatures int

	// QuantileRange はスケールに使う分位点 (デフォルト: [25, 75])
	QuantileRange [2]float64
}

// NewRobustScaler はデフォルト設定でRobustScalerを作成する
func NewRobustScaler() *RobustScaler {
	return &RobustScaler{
		state:         model.NewStateManager(),
		QuantileRange: [2]float64{25, 75},
	}
}

// Fit は各列の中央値と四分位範囲を計算する
func (s *RobustScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("RobustScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	lo, hi := s.QuantileRange[0], s.QuantileRange[1]
	if lo < 0 || hi > 100 || lo >= hi {
		return errors.NewValidationError("quantile_range", "must satisfy 0 <= low < high <= 100", s.QuantileRange)
	}

	s.NFeatures = c
	s.Center = make([]float64, c)
	s.Scale = make([]float64, c)

	parallel.ForEach(c, parallel.DefaultThreshold, func(j int) {
		col := observed(X, j)
		s.Scale[j] = 1.0
		if len(col) == 0 {
			return
		}
		q := Quantiles(col, 0.5, lo/100, hi/100)
		s.Center[j] = q[0]
		if iqr := q[2] - q[1]; math.Abs(iqr) >= 1e-8 {
			s.Scale[j] = iqr
		}
	})

	s.state.SetDimensions(c, r)
	s.state.SetFitted(c)
	return nil
}

// Transform は学習済みの中央値と四分位範囲でデータを変換する
func (s *RobustScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.state.RequireFitted("RobustScaler", "Transform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("RobustScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return (v - s.Center[j]) / s.Scale[j]
	}, X)
	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *RobustScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// GetParams はスケーラーのパラメータを取得する
func (s *RobustScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"quantile_range": s.QuantileRange,
	}
}

func (s *RobustScaler) String() string {
	return fmt.Sprintf("RobustScaler(quantile_range=[%.0f, %.0f])", s.QuantileRange[0], s.QuantileRange[1])
}
