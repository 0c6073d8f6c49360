package observability

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

func attrString(key, value string) attribute.KeyValue { return attribute.String(key, value) }
func attrBool(key string, value bool) attribute.KeyValue { return attribute.Bool(key, value) }

// toAttribute converts an arbitrary span attribute value to an OTEL
// attribute.KeyValue, falling back to a string representation for types
// OTEL has no native encoding for.
func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	default:
		return attribute.String(key, toString(v))
	}
}

func toString(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
