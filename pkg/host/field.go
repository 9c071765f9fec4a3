package host

import "strings"

// FieldType is the storage kind of an attribute field.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
	FieldInt64
	FieldDouble
	FieldDate
	FieldBool
)

var fieldTypeNames = map[FieldType]string{
	FieldString: "string",
	FieldInt:    "int",
	FieldInt64:  "int64",
	FieldDouble: "double",
	FieldDate:   "date",
	FieldBool:   "bool",
}

// String returns the lower-case name used in project files.
func (t FieldType) String() string {
	if s, ok := fieldTypeNames[t]; ok {
		return s
	}
	return "string"
}

// IsNumeric reports whether values of the type are numbers.
func (t FieldType) IsNumeric() bool {
	return t == FieldInt || t == FieldInt64 || t == FieldDouble
}

// IsInteger reports whether the type is an integral number.
func (t FieldType) IsInteger() bool {
	return t == FieldInt || t == FieldInt64
}

// ParseFieldType maps a project file type name to a FieldType. Unknown names
// map to FieldString.
func ParseFieldType(s string) FieldType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "integer", "short":
		return FieldInt
	case "int64", "long", "bigint":
		return FieldInt64
	case "double", "float", "real", "number":
		return FieldDouble
	case "date", "datetime":
		return FieldDate
	case "bool", "boolean":
		return FieldBool
	default:
		return FieldString
	}
}

// Field is one column of a layer's attribute schema.
type Field struct {
	Name string
	Type FieldType
}

// FieldIndex returns the position of the field named name, or -1.
func FieldIndex(fields []Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
