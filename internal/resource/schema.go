// Package resource implements the CRUD resource pattern shared by every
// entity: an explicit field schema per entity drives SQL column lists, row
// scanning, and the JSON wire codec.
package resource

import (
	"fmt"
	"strings"
)

// Kind is the storage and wire type of a field.
type Kind int

const (
	KindFloat Kind = iota
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field describes one column of an entity. Exactly one accessor matching
// Kind must be set; it returns a pointer into the row so the same accessor
// serves reads, writes, and sql.Scan destinations.
type Field[T any] struct {
	Name      string
	Kind      Kind
	MaxLength int

	Float  func(*T) *float64
	String func(*T) *string
}

// FloatField declares a required numeric column.
func FloatField[T any](name string, get func(*T) *float64) Field[T] {
	return Field[T]{Name: name, Kind: KindFloat, Float: get}
}

// StringField declares a required text column limited to maxLength characters.
func StringField[T any](name string, maxLength int, get func(*T) *string) Field[T] {
	return Field[T]{Name: name, Kind: KindString, MaxLength: maxLength, String: get}
}

// Schema is the wire and storage contract of an entity.
type Schema[T any] struct {
	Entity string
	Table  string
	ID     func(*T) *int64
	Fields []Field[T]
}

// NewSchema validates the field list and returns the schema. It panics on a
// malformed declaration since schemas are package-level values.
func NewSchema[T any](entity, table string, id func(*T) *int64, fields ...Field[T]) *Schema[T] {
	if entity == "" || table == "" || id == nil || len(fields) == 0 {
		panic("resource: schema needs an entity name, table, id accessor and fields")
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" || f.Name == "id" || seen[f.Name] {
			panic(fmt.Sprintf("resource: invalid or duplicate field name %q in %s", f.Name, entity))
		}
		seen[f.Name] = true

		switch f.Kind {
		case KindFloat:
			if f.Float == nil {
				panic(fmt.Sprintf("resource: float field %s.%s has no accessor", entity, f.Name))
			}
		case KindString:
			if f.String == nil {
				panic(fmt.Sprintf("resource: string field %s.%s has no accessor", entity, f.Name))
			}
		default:
			panic(fmt.Sprintf("resource: field %s.%s has unknown kind %s", entity, f.Name, f.Kind))
		}
	}

	return &Schema[T]{Entity: entity, Table: table, ID: id, Fields: fields}
}

// Columns returns the field names in declaration order, without id.
func (s *Schema[T]) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Name
	}
	return cols
}

// SelectList is "id, <columns>" for SELECT and RETURNING clauses.
func (s *Schema[T]) SelectList() string {
	return "id, " + strings.Join(s.Columns(), ", ")
}

// ScanDest returns sql.Scan destinations matching SelectList.
func (s *Schema[T]) ScanDest(row *T) []any {
	dest := make([]any, 0, len(s.Fields)+1)
	dest = append(dest, s.ID(row))
	for _, f := range s.Fields {
		dest = append(dest, f.ptr(row))
	}
	return dest
}

// Values returns the field values in column order, without id.
func (s *Schema[T]) Values(row *T) []any {
	values := make([]any, len(s.Fields))
	for i, f := range s.Fields {
		switch f.Kind {
		case KindFloat:
			values[i] = *f.Float(row)
		case KindString:
			values[i] = *f.String(row)
		}
	}
	return values
}

func (f Field[T]) ptr(row *T) any {
	if f.Kind == KindFloat {
		return f.Float(row)
	}
	return f.String(row)
}
