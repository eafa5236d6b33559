// Package template defines the engine contract used by template-backed
// renderers. The pongo subpackage provides the default implementation.
package template
