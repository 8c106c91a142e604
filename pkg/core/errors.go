package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is matching against the taxonomy.
// Every typed error below reports Is(sentinel) for its class.
var (
	ErrConfiguration      = errors.New("configuration error")
	ErrGraph              = errors.New("graph error")
	ErrIdentity           = errors.New("identity error")
	ErrDialectUnsupported = errors.New("dialect unsupported")
)

// ConfigurationCode categorizes configuration errors.
type ConfigurationCode string

const (
	// CodeIllegalOperator means an operator is not legal for a column's semantic type.
	CodeIllegalOperator ConfigurationCode = "ILLEGAL_OPERATOR"
	// CodeIllegalValue means a Go value does not fit the declared semantic type.
	CodeIllegalValue ConfigurationCode = "ILLEGAL_VALUE"
	// CodeBlankQuery means no predicate exists anywhere and blank queries are disallowed.
	CodeBlankQuery ConfigurationCode = "BLANK_QUERY"
	// CodeNoRequiredTables means a query has no required table to start from.
	CodeNoRequiredTables ConfigurationCode = "NO_REQUIRED_TABLES"
	// CodeUnknownColumn means a referenced column is not declared on its table.
	CodeUnknownColumn ConfigurationCode = "UNKNOWN_COLUMN"
	// CodeInvalidSchema means a table descriptor is malformed.
	CodeInvalidSchema ConfigurationCode = "INVALID_SCHEMA"
	// CodeInvalidPaging means a row offset was requested without a row limit.
	CodeInvalidPaging ConfigurationCode = "INVALID_PAGING"
	// CodeNoColumns means a SELECT would have an empty column list.
	CodeNoColumns ConfigurationCode = "NO_COLUMNS"
	// CodeUnknownTable means a request names a table the catalog does not hold.
	CodeUnknownTable ConfigurationCode = "UNKNOWN_TABLE"
)

// ConfigurationError is returned before any SQL is built when the request
// itself is illegal.
type ConfigurationError struct {
	Code    ConfigurationCode
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError builds a ConfigurationError with a formatted message.
func NewConfigurationError(code ConfigurationCode, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// GraphErrorKind distinguishes recoverable from fatal graph failures.
type GraphErrorKind string

const (
	// GraphCartesian means required tables are not connected; callers may opt in.
	GraphCartesian GraphErrorKind = "CARTESIAN_JOIN"
	// GraphDisconnected means an optional table has no join path; always fatal.
	GraphDisconnected GraphErrorKind = "DISCONNECTED"
)

// GraphError reports tables that cannot be reached from the start table.
type GraphError struct {
	Kind GraphErrorKind
	// Start is the table the traversal began from.
	Start string
	// Unreachable lists the tables missing from the reachable set, sorted.
	Unreachable []string
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	return fmt.Sprintf("%s: tables [%s] are not connected to %s", e.Kind, strings.Join(e.Unreachable, ", "), e.Start)
}

// Is matches ErrGraph.
func (e *GraphError) Is(target error) bool {
	return target == ErrGraph
}

// IdentityErrorKind categorizes identity errors.
type IdentityErrorKind string

const (
	// IdentityDuplicateTable means the same table identity was added twice without an alias.
	IdentityDuplicateTable IdentityErrorKind = "DUPLICATE_TABLE"
	// IdentityWrongInstance means a relationship was addressed through a table it does not belong to.
	IdentityWrongInstance IdentityErrorKind = "WRONG_INSTANCE"
)

// IdentityError reports ambiguous or mismatched table identities.
type IdentityError struct {
	Kind    IdentityErrorKind
	Table   string
	Message string
}

// Error implements the error interface.
func (e *IdentityError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Table)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Table, e.Message)
}

// Is matches ErrIdentity.
func (e *IdentityError) Is(target error) bool {
	return target == ErrIdentity
}

// DialectUnsupportedError is returned at render time when the active dialect
// has no fragment for a requested feature.
type DialectUnsupportedError struct {
	Dialect string
	Feature string
}

// Error implements the error interface.
func (e *DialectUnsupportedError) Error() string {
	return fmt.Sprintf("dialect %q does not support %s", e.Dialect, e.Feature)
}

// Is matches ErrDialectUnsupported.
func (e *DialectUnsupportedError) Is(target error) bool {
	return target == ErrDialectUnsupported
}
