// Package orchestration coordinates the registry processing pipeline: loading
// inputs, computing accumulation curves, fitting, and writing outputs. It
// decouples business logic from presentation via ProgressReporter and
// ResultPresenter interfaces.
package orchestration
