// Package testutil provides fixtures shared by the package tests: files on
// disk and rule tables built from inline sources.
//
// Sources use the line format with default markers. Every helper fails the
// test on error, so callers never check one.
package testutil
