package dataset

import (
	"fmt"
	"math/rand"
	"slices"
)

// Dataset is an ordered collection of rows over named numeric columns.
// Rows are treated as immutable once added: operations that grow or shrink
// a dataset copy the row list, never the row values, so duplicated rows
// share backing storage with their originals.
type Dataset struct {
	Columns []string
	Rows    [][]float64
}

func New(columns []string) *Dataset {
	return &Dataset{Columns: slices.Clone(columns)}
}

func (d *Dataset) Len() int {
	return len(d.Rows)
}

// ColumnIndex resolves a column name to its position.
func (d *Dataset) ColumnIndex(name string) (int, error) {
	for i, c := range d.Columns {
		if c == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q: %w", name, ErrColumnNotFound)
}

// Column returns all values of the named column in row order.
func (d *Dataset) Column(name string) ([]float64, error) {
	idx, err := d.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Distinct returns the sorted distinct values of the named column.
func (d *Dataset) Distinct(name string) ([]float64, error) {
	values, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	slices.Sort(values)
	return slices.Compact(values), nil
}

// Copy returns a dataset owning its own row list. Row values are shared.
func (d *Dataset) Copy() *Dataset {
	return &Dataset{
		Columns: slices.Clone(d.Columns),
		Rows:    slices.Clone(d.Rows),
	}
}

func (d *Dataset) Append(row []float64) {
	d.Rows = append(d.Rows, row)
}

func (d *Dataset) Remove(i int) {
	d.Rows = append(d.Rows[:i], d.Rows[i+1:]...)
}

// Sample returns the index of a uniformly drawn row.
func (d *Dataset) Sample(rng *rand.Rand) (int, error) {
	if len(d.Rows) == 0 {
		return 0, ErrEmptyDataset
	}
	return rng.Intn(len(d.Rows)), nil
}

// Filter returns the rows satisfying the condition. The returned dataset
// owns its row list but shares row values with the receiver.
func (d *Dataset) Filter(cond Condition) (*Dataset, error) {
	indices, err := cond.resolve(d)
	if err != nil {
		return nil, err
	}
	out := New(d.Columns)
	for _, row := range d.Rows {
		if matches(row, indices, cond) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// CountWhere counts the rows satisfying the condition.
func (d *Dataset) CountWhere(cond Condition) (int, error) {
	indices, err := cond.resolve(d)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, row := range d.Rows {
		if matches(row, indices, cond) {
			n++
		}
	}
	return n, nil
}

// Concat appends all rows of the other datasets. Schemas must match.
func (d *Dataset) Concat(others ...*Dataset) error {
	for _, o := range others {
		if !slices.Equal(d.Columns, o.Columns) {
			return fmt.Errorf("cannot concat datasets with columns %v and %v: %w", d.Columns, o.Columns, ErrSchemaMismatch)
		}
		d.Rows = append(d.Rows, o.Rows...)
	}
	return nil
}

// Shuffle permutes the rows in place using the supplied generator.
func (d *Dataset) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.Rows), func(i, j int) {
		d.Rows[i], d.Rows[j] = d.Rows[j], d.Rows[i]
	})
}

// Drop returns a copy of the dataset without the named column.
func (d *Dataset) Drop(name string) (*Dataset, error) {
	idx, err := d.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	columns := append(slices.Clone(d.Columns[:idx]), d.Columns[idx+1:]...)
	out := New(columns)
	out.Rows = make([][]float64, len(d.Rows))
	for i, row := range d.Rows {
		out.Rows[i] = append(slices.Clone(row[:idx]), row[idx+1:]...)
	}
	return out, nil
}

// Subset returns the rows at the given indices, in the given order.
func (d *Dataset) Subset(indices []int) *Dataset {
	out := New(d.Columns)
	out.Rows = make([][]float64, len(indices))
	for i, idx := range indices {
		out.Rows[i] = d.Rows[idx]
	}
	return out
}

// WithColumn returns a copy of the dataset with the named column replaced
// by the supplied values. Row backing is copied so originals are untouched.
func (d *Dataset) WithColumn(name string, values []float64) (*Dataset, error) {
	idx, err := d.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	if len(values) != len(d.Rows) {
		return nil, fmt.Errorf("expected %d values for column %q, got %d: %w", len(d.Rows), name, len(values), ErrSchemaMismatch)
	}
	out := New(d.Columns)
	out.Rows = make([][]float64, len(d.Rows))
	for i, row := range d.Rows {
		copied := slices.Clone(row)
		copied[idx] = values[i]
		out.Rows[i] = copied
	}
	return out, nil
}
