// Package rules implements the rule table and the dispatcher that drive
// gffrules.
//
// # Patterns
//
// Every authored rule binds a pattern to a rule kind:
//
//	gene        VALID
//	exon        VALIDIF  len(attrs.Parent) > 0
//	@num        ALIAS    (\d+)
//	chr@num     FIX      chromosome=$1
//
// A pattern without the alias marker ("@") is an exact pattern. It is
// lowercased and trimmed and only matches a tag equal to it after the same
// normalization. A pattern containing the marker is pending until the whole
// table is loaded; maturation then expands every known alias into its regex
// fragment and compiles the result. A pending pattern whose expansion changes
// nothing is filed back as an exact pattern and reported.
//
// # Dispatch
//
// For one tag the dispatcher collects every exact rule bound to it and every
// compiled regex that matches at the start of the tag, in that order. All of
// them are applied to the record. Only when nothing matches is the fallback
// kind invoked, with a flag telling whether any rules were configured at all.
//
// # Lifecycle
//
// A Builder owns one PatternRegistry per kind. Lines are added to it, Build
// matures and merges everything into a Table, and from then on the builder
// refuses new lines. The Table never changes after Build and can be shared by
// concurrent dispatchers.
package rules
