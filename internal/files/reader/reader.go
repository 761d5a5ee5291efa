package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/transform"

	"github.com/vvka-141/ecomload/internal/checksum"
	"github.com/vvka-141/ecomload/internal/files/filesystem"
	"github.com/vvka-141/ecomload/internal/schema"
	"github.com/vvka-141/ecomload/pkg/ecomload"
)

// ctxCheckInterval is how many records are parsed between context checks.
const ctxCheckInterval = 1024

// CoercionError reports a field that could not be converted to its column's kind.
type CoercionError struct {
	Table  string
	Line   int
	Column string
	Kind   schema.FieldKind
	Value  string
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s line %d: column %q: cannot parse %q as %s: %v",
		e.Table, e.Line, e.Column, e.Value, e.Kind, e.Err)
}

// Unwrap exposes ErrCoercion for errors.Is.
func (e *CoercionError) Unwrap() []error { return []error{ecomload.ErrCoercion, e.Err} }

// Reader implements ecomload.RowReader.
// Reader is safe for concurrent use as long as its provider is.
type Reader struct {
	registry   *schema.Registry
	provider   filesystem.Provider
	calculator checksum.Calculator
}

// NewReader creates a row reader for the tables of registry, reading their
// source files from provider.
// Panics if any dependency is nil.
func NewReader(registry *schema.Registry, provider filesystem.Provider, calculator checksum.Calculator) *Reader {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if provider == nil {
		panic("provider cannot be nil")
	}
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	return &Reader{registry: registry, provider: provider, calculator: calculator}
}

// ReadTable opens the table's source file and returns its typed rows.
func (r *Reader) ReadTable(ctx context.Context, name string) (ecomload.TableData, error) {
	table, ok := r.registry.Table(name)
	if !ok {
		return ecomload.TableData{}, fmt.Errorf("unknown table %q: %w", name, ecomload.ErrInvalidConfig)
	}
	if err := ctx.Err(); err != nil {
		return ecomload.TableData{}, err
	}

	location := r.provider.Location(table.Source)
	rc, err := r.provider.Open(ctx, table.Source)
	if err != nil {
		return ecomload.TableData{}, fmt.Errorf("%s: %w: %w", table.Name, ecomload.ErrSourceNotFound, err)
	}
	defer rc.Close()

	digest := r.calculator.NewDigest()
	src := transform.NewReader(io.TeeReader(rc, digest), &bomStripper{})

	rows, err := readRows(ctx, table, src)
	if err != nil {
		return ecomload.TableData{}, err
	}

	return ecomload.TableData{
		Table:    table.Name,
		Source:   location,
		Checksum: digest.Sum(),
		Rows:     rows,
	}, nil
}

func readRows(ctx context.Context, table schema.Table, src io.Reader) ([][]any, error) {
	rr := newRecordReader(src)

	header, err := nextRecord(table, rr)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	positions := columnPositions(table, header.fields)

	var rows [][]any
	for {
		record, err := nextRecord(table, rr)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row, err := convertRecord(table, positions, record.fields, record.line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)

		if len(rows)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	return rows, nil
}

type sourceRecord struct {
	fields []string
	line   int
}

// nextRecord returns the next non-blank record. Every field must be valid UTF-8.
func nextRecord(table schema.Table, rr *recordReader) (sourceRecord, error) {
	for {
		fields, line, err := rr.Read()
		if errors.Is(err, io.EOF) {
			return sourceRecord{}, err
		}
		if err != nil {
			return sourceRecord{}, fmt.Errorf("%s: %w: %w", table.Name, ecomload.ErrMalformedSource, err)
		}
		if len(fields) == 0 {
			continue
		}
		for i, f := range fields {
			if !utf8.ValidString(f) {
				return sourceRecord{}, fmt.Errorf("%s line %d: field %d is not valid UTF-8: %w",
					table.Name, line, i+1, ecomload.ErrMalformedSource)
			}
		}
		return sourceRecord{fields: fields, line: line}, nil
	}
}

// columnPositions maps each declared column to its index in header, or -1.
// A header naming a column twice resolves to the last occurrence.
func columnPositions(table schema.Table, header []string) []int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[h] = i
	}
	positions := make([]int, len(table.Columns))
	for i, c := range table.Columns {
		if idx, ok := byName[c.Name]; ok {
			positions[i] = idx
		} else {
			positions[i] = -1
		}
	}
	return positions
}

func convertRecord(table schema.Table, positions []int, record []string, line int) ([]any, error) {
	row := make([]any, len(table.Columns))
	for i, col := range table.Columns {
		raw := ""
		if idx := positions[i]; idx >= 0 && idx < len(record) {
			raw = record[idx]
		}
		v, err := Coerce(col.Kind, raw)
		if err != nil {
			return nil, &CoercionError{
				Table:  table.Name,
				Line:   line,
				Column: col.Name,
				Kind:   col.Kind,
				Value:  strings.TrimSpace(raw),
				Err:    err,
			}
		}
		row[i] = v
	}
	return row, nil
}

// Coerce converts one raw field. Empty after trimming yields nil.
func Coerce(kind schema.FieldKind, raw string) (any, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil, nil
	}
	switch kind {
	case schema.Integer:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		return n, nil
	case schema.Decimal:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return v, nil
	}
}
