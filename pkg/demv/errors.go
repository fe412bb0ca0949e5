package demv

import "errors"

var (
	// ErrEmptyDataset is returned when there is nothing to balance.
	ErrEmptyDataset = errors.New("demv: dataset is empty")

	// ErrCardinality is returned when a protected attribute does not take
	// exactly two distinct values in the data.
	ErrCardinality = errors.New("demv: protected attribute is not binary")

	// ErrEmptyGroup is returned when a resampling step needs to draw a row
	// from a group that has none left.
	ErrEmptyGroup = errors.New("demv: cannot sample from an empty group")

	// ErrZeroProbability is returned when a sensitive group has no rows at
	// all, making its observed weight undefined.
	ErrZeroProbability = errors.New("demv: group has zero observed probability")
)
