package dataset

import "errors"

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrEmptyDataset   = errors.New("dataset is empty")
	ErrSchemaMismatch = errors.New("schema mismatch")
)
