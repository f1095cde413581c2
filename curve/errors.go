package curve

import "errors"

var (
	// ErrUnknownCurve indicates the curve name is not registered.
	ErrUnknownCurve = errors.New("curve: unknown curve")

	// ErrBatchTooLarge indicates a batch exceeds what the curve prices in one call.
	ErrBatchTooLarge = errors.New("curve: batch too large")

	// ErrEvaluation indicates fixed-point evaluation of the curve failed.
	ErrEvaluation = errors.New("curve: evaluation failed")
)
