// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the backing vector store, the embedding
// service and the session metadata store.
package driven
