package log

// Model and operation context.
const (
	// ModelNameKey identifies the transformer type, e.g. "OutlierRemover".
	ModelNameKey = "model.name"

	// EstimatorIDKey identifies a single transformer instance.
	EstimatorIDKey = "estimator.id"

	// OperationKey is one of the Operation* values below.
	OperationKey = "ml.operation"

	// ComponentKey names the package doing the work, e.g. "transformers".
	ComponentKey = "ml.component"

	// StepKey names a pipeline step.
	StepKey = "pipeline.step"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"

	// ColumnsKey lists the column names a transformer acts on.
	ColumnsKey = "data.columns"

	// RemovedColumnsKey lists columns dropped by a transformer.
	RemovedColumnsKey = "data.removed_columns"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	ErrorTypeKey  = "error.type"
	StacktraceKey = "error.stacktrace"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"

	ErrorNotFitted      = "NOT_FITTED"
	ErrorColumnNotFound = "COLUMN_NOT_FOUND"
	ErrorInvalidInput   = "INVALID_INPUT"
	ErrorConvergence    = "CONVERGENCE_FAILURE"
)
