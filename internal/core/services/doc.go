// Package services implements the core business logic for ragsync:
// snapshot loading, chunk reconciliation, batched writing, hybrid retrieval
// and session management. Services implement the driving ports and depend
// only on the driven ports, never on concrete adapters.
package services
