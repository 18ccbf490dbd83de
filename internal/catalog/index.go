// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

// Package catalog is the read-only property catalog.
//
// Row i of the catalog is item position i in every similarity matrix. The
// society_name column is the lookup key; it is stored lowercase upstream and
// matched case-insensitively here. When several rows share a name, the first
// row wins.
package catalog

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KeyColumn is the column used to resolve items by name.
const KeyColumn = "society_name"

var (
	// ErrNotFound is returned when no row matches a name.
	ErrNotFound = errors.New("item not recognized")

	// ErrMissingAttribute is returned when a requested column does not exist.
	ErrMissingAttribute = errors.New("missing attribute")

	// ErrPositionOutOfRange is returned for positions outside [0, Len()).
	ErrPositionOutOfRange = errors.New("catalog position out of range")

	// ErrNoKeyColumn is returned when the source table lacks society_name.
	ErrNoKeyColumn = errors.New("catalog has no " + KeyColumn + " column")
)

// Schema is an ordered list of columns to project.
type Schema []string

// Field is one projected cell. A nil Value is a NULL cell.
type Field struct {
	Name  string
	Value *string
}

// Row is an ordered projection of one catalog row.
type Row struct {
	Position int
	Fields   []Field
}

// Get returns the value of column name and whether the row has that column.
func (r Row) Get(name string) (*string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes the fields as an object in schema order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteFields(&buf, r.Fields); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteFields writes "{" followed by the fields as JSON members, leaving the
// object open so callers can append members of their own.
func WriteFields(buf *bytes.Buffer, fields []Field) error {
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if f.Value == nil {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(*f.Value)
		if err != nil {
			return err
		}
		buf.Write(val)
	}
	return nil
}

// Index is an immutable, position-addressed catalog.
type Index struct {
	columns []string
	colIdx  map[string]int
	rows    [][]sql.NullString
	byName  map[string]int
	names   []string
	digest  string
}

// New builds an Index from columns and rows in position order.
// Every row must have len(columns) cells.
func New(columns []string, rows [][]sql.NullString) (*Index, error) {
	colIdx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := colIdx[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		colIdx[c] = i
	}
	key, ok := colIdx[KeyColumn]
	if !ok {
		return nil, ErrNoKeyColumn
	}

	ix := &Index{
		columns: append([]string(nil), columns...),
		colIdx:  colIdx,
		rows:    rows,
		byName:  make(map[string]int, len(rows)),
	}

	for pos, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", pos, len(row), len(columns))
		}
		cell := row[key]
		if !cell.Valid {
			continue
		}
		name := normalize(cell.String)
		if _, seen := ix.byName[name]; seen {
			continue
		}
		ix.byName[name] = pos
		ix.names = append(ix.names, cell.String)
	}

	return ix, nil
}

func normalize(name string) string {
	return strings.ToLower(name)
}

// Len returns the number of rows, which is N for the similarity matrices.
func (ix *Index) Len() int {
	return len(ix.rows)
}

// Columns returns a copy of the column names.
func (ix *Index) Columns() []string {
	return append([]string(nil), ix.columns...)
}

// Digest identifies the source the Index was loaded from. Empty when built
// in memory.
func (ix *Index) Digest() string {
	return ix.digest
}

// Resolve returns the position of the first row whose society_name equals
// name, ignoring case.
func (ix *Index) Resolve(name string) (int, error) {
	pos, ok := ix.byName[normalize(name)]
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return pos, nil
}

// Name returns the society_name stored at pos.
func (ix *Index) Name(pos int) (string, error) {
	if pos < 0 || pos >= len(ix.rows) {
		return "", fmt.Errorf("position %d: %w", pos, ErrPositionOutOfRange)
	}
	return ix.rows[pos][ix.colIdx[KeyColumn]].String, nil
}

// Names returns the distinct society names in first-appearance order.
func (ix *Index) Names() []string {
	return append([]string(nil), ix.names...)
}

// Missing returns the columns of schema the catalog does not have.
func (ix *Index) Missing(schema Schema) []string {
	var missing []string
	for _, c := range schema {
		if _, ok := ix.colIdx[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Attributes projects schema for each position, in the order given.
// Positions are neither reordered nor deduplicated.
func (ix *Index) Attributes(positions []int, schema Schema) ([]Row, error) {
	if missing := ix.Missing(schema); len(missing) > 0 {
		return nil, fmt.Errorf("columns %s: %w", strings.Join(missing, ", "), ErrMissingAttribute)
	}

	out := make([]Row, 0, len(positions))
	for _, pos := range positions {
		if pos < 0 || pos >= len(ix.rows) {
			return nil, fmt.Errorf("position %d: %w", pos, ErrPositionOutOfRange)
		}
		src := ix.rows[pos]
		fields := make([]Field, len(schema))
		for i, c := range schema {
			fields[i].Name = c
			if cell := src[ix.colIdx[c]]; cell.Valid {
				v := cell.String
				fields[i].Value = &v
			}
		}
		out = append(out, Row{Position: pos, Fields: fields})
	}
	return out, nil
}

// DisplayName renders a stored lowercase name in title case,
// e.g. "dlf the camellias" -> "Dlf The Camellias".
func DisplayName(name string) string {
	// Casers carry state and are not safe to share between goroutines.
	return cases.Title(language.English).String(name)
}
