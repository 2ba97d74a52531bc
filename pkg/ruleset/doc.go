// Package ruleset reads rule tables from their sources and feeds the
// definitions to a rules.Builder.
//
// The line format has one rule per line:
//
//	PATTERN KIND [ACTION...]   # comment
//
// Everything after the comment marker is dropped, blank lines are skipped and
// the action is the rest of the line after the kind, kept as one string.
//
// The YAML format carries the same information:
//
//	aliases:
//	  num: '\d+'
//	rules:
//	  - gene VALID
//	  - pattern: mrna@num
//	    kind: fix
//	    action: source=curated
package ruleset
