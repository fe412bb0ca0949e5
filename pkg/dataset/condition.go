package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Clause is a single column == value equality test.
type Clause struct {
	Column string
	Value  float64
}

// Condition is a conjunction of equality clauses. The zero value matches
// every row.
type Condition []Clause

// And returns a new condition extended with one more clause. The receiver
// is never mutated, so partial conditions can be shared safely.
func (c Condition) And(column string, value float64) Condition {
	out := make(Condition, len(c), len(c)+1)
	copy(out, c)
	return append(out, Clause{Column: column, Value: value})
}

func (c Condition) String() string {
	if len(c) == 0 {
		return "true"
	}
	parts := make([]string, len(c))
	for i, clause := range c {
		parts[i] = clause.Column + "=" + strconv.FormatFloat(clause.Value, 'g', -1, 64)
	}
	return strings.Join(parts, "&")
}

// resolve maps every clause column to its index in the dataset.
func (c Condition) resolve(d *Dataset) ([]int, error) {
	indices := make([]int, len(c))
	for i, clause := range c {
		idx, err := d.ColumnIndex(clause.Column)
		if err != nil {
			return nil, fmt.Errorf("condition %s: %w", c, err)
		}
		indices[i] = idx
	}
	return indices, nil
}

func matches(row []float64, indices []int, cond Condition) bool {
	for i, clause := range cond {
		if row[indices[i]] != clause.Value {
			return false
		}
	}
	return true
}
