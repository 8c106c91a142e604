package core

import (
	"fmt"
	"strings"
)

// SemanticType classifies a column by how its values are compared and rendered.
type SemanticType int

const (
	// TypeUnknown is the zero value; columns must declare a real type.
	TypeUnknown SemanticType = iota
	// TypeInteger holds whole numbers.
	TypeInteger
	// TypeDecimal holds fractional numbers.
	TypeDecimal
	// TypeText holds character data. The only type rendered as text, so the only LIKE-able type.
	TypeText
	// TypeBoolean holds true/false.
	TypeBoolean
	// TypeTimestamp holds an instant (date plus time).
	TypeTimestamp
	// TypeInterval holds a duration.
	TypeInterval
	// TypeGeometry holds a 2D point.
	TypeGeometry
	// TypeBinary holds opaque bytes.
	TypeBinary
)

var semanticTypeNames = map[SemanticType]string{
	TypeUnknown:   "unknown",
	TypeInteger:   "integer",
	TypeDecimal:   "decimal",
	TypeText:      "text",
	TypeBoolean:   "boolean",
	TypeTimestamp: "timestamp",
	TypeInterval:  "interval",
	TypeGeometry:  "geometry",
	TypeBinary:    "binary",
}

// String returns the string representation of SemanticType.
func (t SemanticType) String() string {
	if name, ok := semanticTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsTextRendered reports whether values of this type compare as character data.
func (t SemanticType) IsTextRendered() bool {
	return t == TypeText
}

// IsOrdered reports whether values of this type support <, >, BETWEEN.
func (t SemanticType) IsOrdered() bool {
	switch t {
	case TypeInteger, TypeDecimal, TypeText, TypeTimestamp, TypeInterval:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether arithmetic is defined for this type.
func (t SemanticType) IsNumeric() bool {
	return t == TypeInteger || t == TypeDecimal
}

// ParseSemanticType parses a type name such as "integer" or "text".
// A few common SQL spellings are accepted as aliases.
func ParseSemanticType(s string) (SemanticType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "integer", "int", "bigint", "long":
		return TypeInteger, nil
	case "decimal", "number", "numeric", "float", "double":
		return TypeDecimal, nil
	case "text", "string", "varchar":
		return TypeText, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	case "timestamp", "date", "datetime":
		return TypeTimestamp, nil
	case "interval", "duration":
		return TypeInterval, nil
	case "geometry", "point":
		return TypeGeometry, nil
	case "binary", "blob", "bytes":
		return TypeBinary, nil
	}
	return TypeUnknown, fmt.Errorf("unknown semantic type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t SemanticType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *SemanticType) UnmarshalText(b []byte) error {
	parsed, err := ParseSemanticType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Point is a 2D geometry value.
type Point struct {
	X float64
	Y float64
}

// WKT returns the well-known-text form, e.g. "POINT (1 2)".
func (p Point) WKT() string {
	return fmt.Sprintf("POINT (%g %g)", p.X, p.Y)
}

// Compatible reports whether values of type b can be compared with or
// assigned to type a. Integers and decimals mix; an unknown type matches anything.
func Compatible(a, b SemanticType) bool {
	if a == b || a == TypeUnknown || b == TypeUnknown {
		return true
	}
	return a.IsNumeric() && b.IsNumeric()
}
