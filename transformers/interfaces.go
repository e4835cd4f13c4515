package transformers

import "github.com/ivande/combiner/core/model"

var (
	_ model.NamedTransformer = (*CalendarExtractor)(nil)
	_ model.NamedTransformer = (*NoInfoFeatureRemover)(nil)
	_ model.NamedTransformer = (*OutlierRemover)(nil)
	_ model.NamedTransformer = (*WithAnotherColumnImputer)(nil)
	_ model.NamedTransformer = (*CatCaster)(nil)
	_ model.NamedTransformer = (*FeaturesOrder)(nil)
	_ model.NamedTransformer = (*ScalerPicker)(nil)
	_ model.NamedTransformer = (*SimpleImputerPicker)(nil)

	_ model.StateReporter   = (*OutlierRemover)(nil)
	_ model.ParameterGetter = (*OutlierRemover)(nil)
	_ model.ParameterGetter = (*SimpleImputerPicker)(nil)
)
