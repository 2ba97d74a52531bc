// Package gff reads and writes the subset of GFF3 the rule engine needs.
//
// A feature line has nine tab separated columns; the third (type) is the
// record tag and the ninth holds "key=value" attributes separated by ";".
// Pragmas, comments and a trailing ##FASTA section are carried through
// unchanged. Attribute values are kept escaped as read.
package gff
