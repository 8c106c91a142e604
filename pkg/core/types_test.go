package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemanticTypeString(t *testing.T) {
	tests := []struct {
		typ  SemanticType
		want string
	}{
		{TypeInteger, "integer"},
		{TypeDecimal, "decimal"},
		{TypeText, "text"},
		{TypeBoolean, "boolean"},
		{TypeTimestamp, "timestamp"},
		{TypeInterval, "interval"},
		{TypeGeometry, "geometry"},
		{TypeBinary, "binary"},
		{SemanticType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestParseSemanticType(t *testing.T) {
	got, err := ParseSemanticType("BIGINT")
	require.NoError(t, err)
	assert.Equal(t, TypeInteger, got)

	got, err = ParseSemanticType(" varchar ")
	require.NoError(t, err)
	assert.Equal(t, TypeText, got)

	_, err = ParseSemanticType("uuid")
	assert.Error(t, err)
}

func TestSemanticTypeUnmarshalText(t *testing.T) {
	var typ SemanticType
	require.NoError(t, typ.UnmarshalText([]byte("timestamp")))
	assert.Equal(t, TypeTimestamp, typ)

	b, err := typ.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "timestamp", string(b))
}

func TestSemanticTypeCapabilities(t *testing.T) {
	assert.True(t, TypeText.IsTextRendered())
	assert.False(t, TypeInteger.IsTextRendered())
	assert.False(t, TypeTimestamp.IsTextRendered())

	assert.True(t, TypeTimestamp.IsOrdered())
	assert.False(t, TypeBoolean.IsOrdered())
	assert.False(t, TypeGeometry.IsOrdered())

	assert.True(t, TypeDecimal.IsNumeric())
	assert.False(t, TypeText.IsNumeric())
}

func TestPointWKT(t *testing.T) {
	assert.Equal(t, "POINT (1.5 -2)", Point{X: 1.5, Y: -2}.WKT())
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"configuration", NewConfigurationError(CodeBlankQuery, "no predicates"), ErrConfiguration},
		{"graph", &GraphError{Kind: GraphCartesian, Start: "a", Unreachable: []string{"b"}}, ErrGraph},
		{"identity", &IdentityError{Kind: IdentityDuplicateTable, Table: "a"}, ErrIdentity},
		{"dialect", &DialectUnsupportedError{Dialect: "mysql", Feature: "FULL OUTER JOIN"}, ErrDialectUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("compile: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
			assert.NotEmpty(t, tt.err.Error())
		})
	}

	var graphErr *GraphError
	err := fmt.Errorf("outer: %w", &GraphError{Kind: GraphDisconnected, Start: "a", Unreachable: []string{"c", "d"}})
	require.True(t, errors.As(err, &graphErr))
	assert.Equal(t, GraphDisconnected, graphErr.Kind)
	assert.Contains(t, err.Error(), "[c, d]")
	assert.False(t, errors.Is(err, ErrIdentity))
}
