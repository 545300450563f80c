package internal

import (
	"fmt"
	"math"
	"strconv"
)

// Runtime values are plain Go values: nil, bool, float64 and string for the
// primitives, callable implementations and *instance for objects.

func truthy(value interface{}) bool {
	if value == nil {
		return false
	}
	if b, isBool := value.(bool); isBool {
		return b
	}
	return true
}

// isEqual compares by value for primitives and by identity for objects.
// All runtime values are comparable with ==.
func isEqual(a, b interface{}) bool {
	return a == b
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	case math.Abs(n) >= 1e21:
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(v)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", value)
}

func typeName(value interface{}) string {
	switch value.(type) {
	case nil:
		return "nil"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case *class:
		return "class"
	case *instance:
		return "instance"
	case callable:
		return "function"
	}
	return fmt.Sprintf("%T", value)
}
