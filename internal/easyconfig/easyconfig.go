// Package easyconfig implements the build-record document format: a text
// document holding a configuration snapshot plus an accumulated buildstats
// block. The block is written either as an initial list literal
// (buildstats = [...]) or as an append expression (buildstats.append(...))
// so that repeated writes to the same record produce small diffs instead of
// rewriting the whole list.
package easyconfig

import (
	"fmt"
	"sort"
)

// Field is one named statistic inside an Entry.
type Field struct {
	Name  string
	Value any
}

// Entry is the ordered statistics mapping contributed by a single build.
// Field order is insertion order and is preserved through render and parse.
type Entry struct {
	fields []Field
}

// NewEntry builds an Entry from fields in the given order.
func NewEntry(fields ...Field) Entry {
	return Entry{fields: fields}
}

// Set appends a field, or replaces the value in place if the name exists.
func (e *Entry) Set(name string, value any) {
	for i := range e.fields {
		if e.fields[i].Name == name {
			e.fields[i].Value = value
			return
		}
	}
	e.fields = append(e.fields, Field{Name: name, Value: value})
}

// Get returns the value for name, with ok reporting presence.
func (e Entry) Get(name string) (any, bool) {
	for _, f := range e.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Fields returns the fields in insertion order. The slice is shared; callers
// must not mutate it.
func (e Entry) Fields() []Field {
	return e.fields
}

// Len returns the number of fields.
func (e Entry) Len() int {
	return len(e.fields)
}

// Names returns the field names sorted alphabetically, for diagnostics.
func (e Entry) Names() []string {
	names := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// String renders the entry in document form, e.g. {"time": 120}.
func (e Entry) String() string {
	return renderEntry(e)
}

// Equal reports field-for-field equality including order.
func (e Entry) Equal(other Entry) bool {
	if len(e.fields) != len(other.fields) {
		return false
	}
	for i, f := range e.fields {
		o := other.fields[i]
		if f.Name != o.Name || fmt.Sprint(f.Value) != fmt.Sprint(o.Value) {
			return false
		}
	}
	return true
}
