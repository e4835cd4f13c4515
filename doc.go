// Package combiner provides tabular preprocessing components that follow a
// fit/transform contract and can be chained into pipelines.
//
// Every component learns from one table in Fit and applies what it learned
// in Transform. Columns named in the configuration but absent at fit time
// are ignored; a column learned at fit time that is missing at transform
// time is an error.
//
// # Quick Start
//
//	tbl := frame.MustNew(
//	    frame.NewString("ds", []string{"2024-01-05", "2024-01-12"}),
//	    frame.NewFloat("amount", []float64{120, math.NaN()}),
//	)
//
//	p, err := pipeline.New(
//	    pipeline.Step{Name: "dates", Transformer: must(transformers.NewCalendarExtractor("ds"))},
//	    pipeline.Step{Name: "impute", Transformer: must(transformers.NewSimpleImputerPicker(
//	        transformers.WithStrategy(transformers.ImputeMedian)))},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := p.FitTransform(tbl)
//
// Pipelines can also be declared in YAML and built with pipeline.LoadConfig
// and pipeline.Build.
//
// # Packages
//
//   - frame: column-typed tables with Apache Arrow interop
//   - transformers: the table components
//   - preprocessing: matrix scalers (standard, min-max, robust, Yeo-Johnson power)
//   - pipeline: ordered steps and YAML definitions
//   - ts: date helpers and the holiday calendar loader
//   - pkg/errors, pkg/log: structured errors and logging
//
// # Errors
//
// Errors carry stack traces (github.com/cockroachdb/errors) and are matched
// with errors.As:
//
//	var nf *errors.NotFittedError
//	if errors.As(err, &nf) {
//	    // fit first
//	}
package combiner
