// Package sendmoney is the entry point to the schema-driven send-money form
// engine. It re-exports constructors for the catalog loader, the blob stores
// behind the transaction log and the preview orchestrator.
package sendmoney
