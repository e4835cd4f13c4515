package model

import (
	"github.com/ivande/combiner/frame"
	"gonum.org/v1/gonum/mat"
)

// Transformer はテーブル単位のfit/transform契約
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(t *frame.Table) error

	// Transform は学習済みパラメータで新しいテーブルを返す。入力は変更しない
	Transform(t *frame.Table) (*frame.Table, error)

	// FitTransform はFitとTransformを同じテーブルに対して実行する
	FitTransform(t *frame.Table) (*frame.Table, error)
}

// NamedTransformer is a Transformer that reports its component name.
type NamedTransformer interface {
	Transformer
	Name() string
}

// MatrixTransformer は数値行列に対する変換のインターフェース
type MatrixTransformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}
