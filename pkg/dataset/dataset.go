// pkg/dataset/dataset.go
package dataset

import (
	"errors"
	"fmt"
)

// Kind is the declared semantic type of a column.
type Kind int

const (
	String Kind = iota
	Category
	Int
	Float
	Date
	Time
	Timestamp
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Category:
		return "category"
	case Int:
		return "int"
	case Float:
		return "float"
	case Date:
		return "date"
	case Time:
		return "time"
	case Timestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	// ErrColumnNotFound is returned when a named column is absent.
	ErrColumnNotFound = errors.New("column not found")

	// ErrColumnExists is returned when adding a column that already exists.
	ErrColumnExists = errors.New("column already exists")

	// ErrLengthMismatch is returned when column values don't align with the row index.
	ErrLengthMismatch = errors.New("column length does not match row index")
)

type column struct {
	kind   Kind
	values []any
}

// Dataset is an in-memory columnar table: ordered named columns holding
// homogeneous values, aligned by a shared index of stable row identifiers.
// Filtering removes identifiers from the index without renumbering, so the
// index is not necessarily contiguous.
//
// A Dataset is owned by a single pipeline invocation; methods mutate in
// place and are not safe for concurrent use.
type Dataset struct {
	names []string
	cols  map[string]*column
	index []int64
}

// New creates an empty dataset with the given row identifiers.
func New(index []int64) *Dataset {
	idx := make([]int64, len(index))
	copy(idx, index)
	return &Dataset{
		cols:  make(map[string]*column),
		index: idx,
	}
}

// NewWithSize creates an empty dataset with a contiguous 0..n-1 index.
func NewWithSize(n int) *Dataset {
	idx := make([]int64, n)
	for i := range idx {
		idx[i] = int64(i)
	}
	return New(idx)
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.index)
}

// Index returns a copy of the row identifiers in order.
func (d *Dataset) Index() []int64 {
	idx := make([]int64, len(d.index))
	copy(idx, d.index)
	return idx
}

// SetIndex replaces the row identifiers. The length must match.
func (d *Dataset) SetIndex(index []int64) error {
	if len(index) != len(d.index) {
		return ErrLengthMismatch
	}
	copy(d.index, index)
	return nil
}

// Columns returns the column names in insertion order.
func (d *Dataset) Columns() []string {
	names := make([]string, len(d.names))
	copy(names, d.names)
	return names
}

// HasColumn reports whether a column exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.cols[name]
	return ok
}

// AddColumn appends a column. Values must align with the row index.
func (d *Dataset) AddColumn(name string, kind Kind, values []any) error {
	if _, ok := d.cols[name]; ok {
		return fmt.Errorf("%w: %s", ErrColumnExists, name)
	}
	if len(values) != len(d.index) {
		return fmt.Errorf("%w: column %s has %d values, index has %d rows",
			ErrLengthMismatch, name, len(values), len(d.index))
	}
	vals := make([]any, len(values))
	copy(vals, values)
	d.names = append(d.names, name)
	d.cols[name] = &column{kind: kind, values: vals}
	return nil
}

// Values returns the live value slice of a column, in index order.
// Callers own the dataset and may mutate cells through the slice.
func (d *Dataset) Values(name string) ([]any, error) {
	col, ok := d.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return col.values, nil
}

// Kind returns the declared kind of a column.
func (d *Dataset) Kind(name string) (Kind, error) {
	col, ok := d.cols[name]
	if !ok {
		return String, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return col.kind, nil
}

// SetKind updates the declared kind of a column.
func (d *Dataset) SetKind(name string, kind Kind) error {
	col, ok := d.cols[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	col.kind = kind
	return nil
}

// Cell returns the value at a column and row position.
func (d *Dataset) Cell(name string, pos int) (any, error) {
	col, ok := d.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	if pos < 0 || pos >= len(col.values) {
		return nil, fmt.Errorf("row position %d out of range [0,%d)", pos, len(col.values))
	}
	return col.values[pos], nil
}

// SetCell replaces the value at a column and row position.
func (d *Dataset) SetCell(name string, pos int, v any) error {
	col, ok := d.cols[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	if pos < 0 || pos >= len(col.values) {
		return fmt.Errorf("row position %d out of range [0,%d)", pos, len(col.values))
	}
	col.values[pos] = v
	return nil
}

// RowID returns the row identifier at a position.
func (d *Dataset) RowID(pos int) int64 {
	return d.index[pos]
}

// Retain keeps only the rows for which keep returns true, preserving order
// and identifiers. Every column is filtered in lockstep with the index.
func (d *Dataset) Retain(keep func(pos int) bool) {
	kept := make([]int, 0, len(d.index))
	for pos := range d.index {
		if keep(pos) {
			kept = append(kept, pos)
		}
	}
	if len(kept) == len(d.index) {
		return
	}

	newIndex := make([]int64, len(kept))
	for i, pos := range kept {
		newIndex[i] = d.index[pos]
	}
	d.index = newIndex

	for _, col := range d.cols {
		newValues := make([]any, len(kept))
		for i, pos := range kept {
			newValues[i] = col.values[pos]
		}
		col.values = newValues
	}
}

// DropColumn removes a column.
func (d *Dataset) DropColumn(name string) error {
	if _, ok := d.cols[name]; !ok {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	delete(d.cols, name)
	for i, n := range d.names {
		if n == name {
			d.names = append(d.names[:i], d.names[i+1:]...)
			break
		}
	}
	return nil
}

// RenameColumn renames a column, keeping its position, kind and values.
func (d *Dataset) RenameColumn(oldName, newName string) error {
	col, ok := d.cols[oldName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, oldName)
	}
	if _, ok := d.cols[newName]; ok {
		return fmt.Errorf("%w: %s", ErrColumnExists, newName)
	}
	delete(d.cols, oldName)
	d.cols[newName] = col
	for i, n := range d.names {
		if n == oldName {
			d.names[i] = newName
			break
		}
	}
	return nil
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	clone := New(d.index)
	for _, name := range d.names {
		col := d.cols[name]
		// AddColumn copies the values
		_ = clone.AddColumn(name, col.kind, col.values)
	}
	return clone
}
