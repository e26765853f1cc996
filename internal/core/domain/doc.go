// Package domain contains the core business entities and rules for
// scour: documents retrieved from external knowledge sources, query
// contexts, search options and results, and rows prepared for the
// knowledge store. It has no dependencies on adapters or services.
package domain
