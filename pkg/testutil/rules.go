package testutil

import (
	"strings"
	"testing"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
	"github.com/arthur-debert/gffrules/pkg/kinds"
	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/ruleset"
	"github.com/arthur-debert/gffrules/pkg/types"
)

// BuildDispatcher builds the default kinds over src and returns a dispatcher
// with the collector load diagnostics went to
func BuildDispatcher(t *testing.T, src string) (*rules.Dispatcher, *diagnostics.Collector) {
	t.Helper()

	diags := diagnostics.NewCollector()
	ks, fallback := kinds.Default("")
	b, err := rules.NewBuilder(ks, fallback, rules.BuilderOptions{Diagnostics: diags})
	if err != nil {
		t.Fatalf("Failed to create builder: %v", err)
	}

	defs, err := ruleset.ParseLines(strings.NewReader(src), ruleset.Options{Diagnostics: diags})
	if err != nil {
		t.Fatalf("Failed to parse rules: %v", err)
	}
	if err := ruleset.Feed(b, defs); err != nil {
		t.Fatalf("Failed to load rules: %v", err)
	}

	if _, err := b.Build(); err != nil {
		t.Fatalf("Failed to build rule table: %v", err)
	}
	d, err := b.Dispatcher()
	if err != nil {
		t.Fatalf("Failed to create dispatcher: %v", err)
	}
	return d, diags
}

// Records returns one record per tag, numbered from line 1
func Records(tags ...string) []*types.Record {
	out := make([]*types.Record, len(tags))
	for i, tag := range tags {
		out[i] = types.NewRecord(tag)
		out[i].Line = i + 1
	}
	return out
}
