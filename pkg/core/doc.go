// Package core defines the shared language of the querygraph system.
//
// This package contains:
//   - Semantic column types (SemanticType, Point)
//   - Pure-data dialect configuration (DialectConfig and its enums)
//   - The compile-time error taxonomy (ConfigurationError, GraphError,
//     IdentityError, DialectUnsupportedError)
//   - Execution-layer configuration shared with adapters (AdapterConfig, Rows)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
