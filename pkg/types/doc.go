// Package types defines the data the rule engine dispatches over: Record, the
// entity identified by a tag whose fields rule actions mutate, and Batch, the
// per-run context handed to the postponed hooks of rule kinds.
package types
