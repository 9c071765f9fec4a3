package convert

import (
	"math"
	"sort"
	"time"

	"github.com/Sudo-Ivan/embedlegend/pkg/arcgis"
	"github.com/Sudo-Ivan/embedlegend/pkg/host"
)

// FieldType maps an esri field type name to a host field type.
func FieldType(esriType string) host.FieldType {
	switch esriType {
	case "esriFieldTypeOID", "esriFieldTypeBigInteger":
		return host.FieldInt64
	case "esriFieldTypeSmallInteger", "esriFieldTypeInteger":
		return host.FieldInt
	case "esriFieldTypeDouble", "esriFieldTypeSingle":
		return host.FieldDouble
	case "esriFieldTypeDate", "esriFieldTypeDateOnly":
		return host.FieldDate
	default:
		return host.FieldString
	}
}

// Fields converts a layer's esri schema, dropping geometry and blob columns.
func Fields(fields []arcgis.Field) []host.Field {
	out := make([]host.Field, 0, len(fields))
	for _, f := range fields {
		switch f.Type {
		case "esriFieldTypeGeometry", "esriFieldTypeBlob", "esriFieldTypeRaster":
			continue
		}
		out = append(out, host.Field{Name: f.Name, Type: FieldType(f.Type)})
	}
	return out
}

// Attributes lays out an attribute map positionally along fields. Esri dates
// arrive as epoch milliseconds and are rendered as YYYY-MM-DD.
func Attributes(fields []host.Field, attrs map[string]any) []any {
	values := make([]any, len(fields))
	for i, f := range fields {
		v, ok := attrs[f.Name]
		if !ok || v == nil {
			continue
		}
		if f.Type == host.FieldDate {
			if ms, ok := toFloat(v); ok {
				v = time.UnixMilli(int64(ms)).UTC().Format(DateLayout)
			}
		} else if f.Type.IsInteger() {
			if n, ok := toFloat(v); ok && n == math.Trunc(n) {
				v = int64(n)
			}
		}
		values[i] = v
	}
	return values
}

// InferFields derives a schema from feature properties, for sources that do
// not declare one. Columns are sorted by name. A column whose values are all
// integral numbers is FieldInt64, all numbers FieldDouble, all booleans
// FieldBool; anything else is FieldString.
func InferFields(props []map[string]any) []host.Field {
	kinds := make(map[string]host.FieldType)
	seen := make(map[string]bool)
	for _, p := range props {
		for k, v := range p {
			if v == nil {
				if !seen[k] {
					kinds[k] = inferUnset
				}
				seen[k] = true
				continue
			}
			t := valueType(v)
			prev, ok := kinds[k]
			switch {
			case !ok || prev == inferUnset:
				kinds[k] = t
			case prev == t:
			case prev.IsNumeric() && t.IsNumeric():
				kinds[k] = host.FieldDouble
			default:
				kinds[k] = host.FieldString
			}
			seen[k] = true
		}
	}

	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	sort.Strings(names) // Sort for consistent column order

	fields := make([]host.Field, 0, len(names))
	for _, name := range names {
		t := kinds[name]
		if t == inferUnset {
			t = host.FieldString
		}
		fields = append(fields, host.Field{Name: name, Type: t})
	}
	return fields
}

// inferUnset marks a column seen only with null values.
const inferUnset host.FieldType = -1

func valueType(v any) host.FieldType {
	switch n := v.(type) {
	case bool:
		return host.FieldBool
	case int, int32, int64:
		return host.FieldInt64
	case float32:
		return floatType(float64(n))
	case float64:
		return floatType(n)
	default:
		return host.FieldString
	}
}

func floatType(f float64) host.FieldType {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return host.FieldInt64
	}
	return host.FieldDouble
}
