package rules

import (
	"strings"
	"sync"

	"github.com/arthur-debert/gffrules/pkg/errors"
)

// DefaultAliasMarker introduces an alias reference inside a pattern
const DefaultAliasMarker = "@"

type aliasEntry struct {
	fragment string
	line     int
	source   string
}

// AliasResolver holds alias name -> regex fragment substitutions. A nil
// *AliasResolver is valid and means no alias kind is configured.
type AliasResolver struct {
	mu      sync.RWMutex
	marker  string
	aliases map[string]aliasEntry
	frozen  bool
}

// NewAliasResolver returns an empty resolver using marker ("@" if empty)
func NewAliasResolver(marker string) *AliasResolver {
	if marker == "" {
		marker = DefaultAliasMarker
	}
	return &AliasResolver{
		marker:  marker,
		aliases: make(map[string]aliasEntry),
	}
}

// Marker returns the alias marker
func (a *AliasResolver) Marker() string {
	if a == nil {
		return DefaultAliasMarker
	}
	return a.marker
}

// Define binds name (with or without the leading marker) to fragment. When
// the name was already defined the new fragment wins and the earlier line is
// returned with redefined set.
func (a *AliasResolver) Define(name, fragment string, line int) (prevLine int, redefined bool, err error) {
	prev, redefined, err := a.define(Definition{Pattern: name, Line: line}, fragment)
	return prev.Line, redefined, err
}

// define binds the alias authored by def; prev is the definition it replaced
func (a *AliasResolver) define(def Definition, fragment string) (prev Definition, redefined bool, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	name, line := def.Pattern, def.Line
	if a.frozen {
		return Definition{}, false, errors.New(errors.ErrTableFrozen, "aliases cannot be defined after maturation started")
	}

	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), a.marker))
	if key == "" || !isAliasName(key) {
		return Definition{}, false, errors.Newf(errors.ErrInvalidInput, "invalid alias name %q", name).
			WithDetail("line", line)
	}
	if fragment == "" {
		return Definition{}, false, errors.Newf(errors.ErrInvalidInput, "alias %q has no fragment", name).
			WithDetail("line", line)
	}

	if e, ok := a.aliases[key]; ok {
		prev, redefined = Definition{Pattern: name, Kind: def.Kind, Line: e.line, Source: e.source}, true
	}
	a.aliases[key] = aliasEntry{fragment: fragment, line: line, source: def.Source}
	return prev, redefined, nil
}

// Freeze makes the alias table read-only
func (a *AliasResolver) Freeze() {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.frozen = true
	a.mu.Unlock()
}

// Len returns the number of defined aliases
func (a *AliasResolver) Len() int {
	if a == nil {
		return 0
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.aliases)
}

// Expand substitutes every known alias reference in raw with its fragment.
// It returns ok=false only when the resolver is absent; unknown aliases are
// kept as literal text, so an unchanged result means nothing resolved.
//
// The name following a marker is the longest run of [a-z0-9_]; when that run
// is not an alias its longest defined prefix is used and the rest stays
// literal, so "@num1" expands "@num" when only "num" is defined.
func (a *AliasResolver) Expand(raw string) (string, bool) {
	if a == nil {
		return "", false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()

	var b strings.Builder
	rest := raw
	for {
		idx := strings.Index(rest, a.marker)
		if idx < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:idx])
		after := rest[idx+len(a.marker):]

		run := 0
		for run < len(after) && isAliasByte(after[run]) {
			run++
		}

		matched := 0
		var fragment string
		for n := run; n > 0; n-- {
			if e, ok := a.aliases[strings.ToLower(after[:n])]; ok {
				matched, fragment = n, e.fragment
				break
			}
		}

		if matched == 0 {
			b.WriteString(a.marker)
			rest = after
			continue
		}
		b.WriteString(fragment)
		rest = after[matched:]
	}
	return b.String(), true
}

func isAliasName(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isAliasByte(s[i]) {
			return false
		}
	}
	return true
}

func isAliasByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
