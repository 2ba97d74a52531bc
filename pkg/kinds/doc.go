// Package kinds implements the closed set of rule kinds a rule table can
// name, plus the fallback applied to records no rule matched.
//
// Every kind is created per run by Default, because several of them keep
// per-run state (alias definitions, collected SET values, substitution
// conflicts, unseen tag counts). State is guarded so records may be
// dispatched concurrently.
//
//	@num    ALIAS    \d+
//	gene    VALID
//	mrna    FIX      source=curated
//	exon@num VALIDIF attrs["Parent"] != ""
//	cds     SUB      CDS
//	region  SET      species=human
package kinds
