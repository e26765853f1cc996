// Package driven defines the outbound ports of the core: source
// adapters, the result cache, the embedding service and the knowledge
// store. Infrastructure adapters under internal/adapters/driven
// implement these interfaces; the core services depend only on them.
package driven
