package domain

import "errors"

// InvalidExpressionMessage replaces the summary while any field is invalid.
const InvalidExpressionMessage = "Invalid cron expression. Please check highlighted fields."

var (
	// ErrInvalidExpression indicates that a complete expression fails the grammar.
	ErrInvalidExpression = errors.New("invalid cron expression")

	// ErrFieldIndex indicates a field index outside 0..4.
	ErrFieldIndex = errors.New("field index must be between 0 and 4")

	// ErrUnknownInstance indicates that no editor is open for the instance key.
	ErrUnknownInstance = errors.New("unknown editor instance")

	// ErrEmptyKey indicates a missing instance key.
	ErrEmptyKey = errors.New("instance key is required")
)
