// Package orchestrator wires the catalog loader → session → describe →
// renderer pipeline behind a single entry point. It is used to preview the
// send-money form for a given selection without an interactive terminal.
package orchestrator
