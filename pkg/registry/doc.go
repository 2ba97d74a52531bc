// Package registry provides a generic, type-safe registry keyed by
// case-insensitive names. Registration order is preserved because the rule
// table merges kinds in the order they were registered.
package registry
