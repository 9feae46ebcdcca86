package dataset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/knn/model"
)

// ErrEmpty is returned when a corpus holds no data rows.
var ErrEmpty = errors.New("dataset: no data rows")

// ParseError reports a malformed row. It matches model.ErrInvalidInput.
type ParseError struct {
	Name   string
	Row    int // 1-based, counting the header
	Column int // 1-based, 0 when the whole row is at fault
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("dataset %s: row %d column %d: %v", e.Name, e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("dataset %s: row %d: %v", e.Name, e.Row, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether target is model.ErrInvalidInput.
func (e *ParseError) Is(target error) bool {
	return target == model.ErrInvalidInput
}
