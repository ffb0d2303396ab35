package manager

import (
	"bytes"
	"strings"
)

// Field is one "Name: Value" pair of a wire frame.
type Field struct {
	Name  string
	Value string
}

// Fields is the ordered field list shared by all message kinds. Names
// compare case-insensitively and may repeat; insertion order is preserved
// for serialization and iteration, and the casing of each occurrence is
// kept as written.
type Fields []Field

// Get returns the first value for a case-insensitively matching name.
func (f Fields) Get(name string) (string, bool) {
	for _, field := range f {
		if strings.EqualFold(field.Name, name) {
			return field.Value, true
		}
	}
	return "", false
}

// GetAll returns every value for a case-insensitively matching name, in
// insertion order. The result is nil when no field matches.
func (f Fields) GetAll(name string) []string {
	var values []string
	for _, field := range f {
		if strings.EqualFold(field.Name, name) {
			values = append(values, field.Value)
		}
	}
	return values
}

// Has reports whether any field matches name.
func (f Fields) Has(name string) bool {
	_, ok := f.Get(name)
	return ok
}

// marshal renders the fields as a complete wire frame: CRLF-terminated
// "Name: Value" lines followed by the blank-line terminator.
func (f Fields) marshal() []byte {
	var b bytes.Buffer
	for _, field := range f {
		b.WriteString(field.Name)
		b.WriteString(": ")
		b.WriteString(field.Value)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	return b.Bytes()
}
