package rules_test

import (
	"fmt"
	"testing"

	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	matches   map[string]int
	fallbacks int
}

func (o *countingObserver) ObserveMatch(kind string, exact bool) {
	if o.matches == nil {
		o.matches = map[string]int{}
	}
	o.matches[fmt.Sprintf("%s/%t", kind, exact)]++
}

func (o *countingObserver) ObserveFallback(bool) { o.fallbacks++ }

func buildDispatcher(t *testing.T, b *rules.Builder, defs ...rules.Definition) *rules.Dispatcher {
	t.Helper()
	for _, d := range defs {
		require.NoError(t, b.Add(d))
	}
	_, err := b.Build()
	require.NoError(t, err)
	d, err := b.Dispatcher()
	require.NoError(t, err)
	return d
}

func TestDispatcher_Process(t *testing.T) {
	t.Run("exact match applies the rule", func(t *testing.T) {
		b, fb := newBuilder(t, false)
		d := buildDispatcher(t, b, def("gene", "valid", 3))

		rec := types.NewRecord(" GENE")
		out, err := d.Process(rec)
		require.NoError(t, err)

		assert.False(t, out.Fallback)
		require.Len(t, out.Matches, 1)
		assert.Equal(t, []string{"valid:3"}, rec.Applied())
		assert.Equal(t, 0, fb.calls)
	})

	t.Run("exact then every matching regex in order", func(t *testing.T) {
		b, _ := newBuilder(t, true)
		d := buildDispatcher(t, b,
			def("@n", "alias", 1, `(\d+)`),
			def("exon1", "fix", 2),
			def("exon@n", "valid", 3),
			def("exo.@n", "fix", 4),
			def("exon@n", "fix", 5),
		)

		rec := types.NewRecord("exon1")
		out, err := d.Process(rec)
		require.NoError(t, err)

		require.Len(t, out.Matches, 4)
		assert.Equal(t, []string{"fix:2", "valid:3=1", "fix:4", "fix:5=1"}, rec.Applied())
	})

	t.Run("regex rule with capture", func(t *testing.T) {
		b, _ := newBuilder(t, true)
		d := buildDispatcher(t, b,
			def("@b", "alias", 1, `(\d+)`),
			def("a@b", "valid", 2),
		)

		rec := types.NewRecord("a123")
		_, err := d.Process(rec)
		require.NoError(t, err)
		assert.Equal(t, []string{"valid:2=123"}, rec.Applied())
	})

	t.Run("named groups are captured by name", func(t *testing.T) {
		b, _ := newBuilder(t, true)
		d := buildDispatcher(t, b,
			def("@chrom", "alias", 1, `chr(?P<chrom>[0-9xy]+)`),
			def("@chrom", "valid", 2),
		)

		out, err := d.Process(types.NewRecord("chrX"))
		require.NoError(t, err)
		require.Len(t, out.Matches, 1)
		assert.Equal(t, "x", out.Matches[0].Captures["chrom"])
		assert.Equal(t, "x", out.Matches[0].Captures["1"])
	})

	t.Run("empty table falls back with noconfig", func(t *testing.T) {
		b, fb := newBuilder(t, false)
		d := buildDispatcher(t, b)

		rec := types.NewRecord("gene")
		out, err := d.Process(rec)
		require.NoError(t, err)

		assert.True(t, out.Fallback)
		assert.True(t, out.NoConfig)
		assert.Equal(t, []bool{true}, fb.noConfig)
		assert.True(t, rec.Unseen())
	})

	t.Run("unmatched tag in a configured table", func(t *testing.T) {
		b, fb := newBuilder(t, false)
		d := buildDispatcher(t, b, def("gene", "valid", 1))

		out, err := d.Process(types.NewRecord("mrna"))
		require.NoError(t, err)

		assert.True(t, out.Fallback)
		assert.False(t, out.NoConfig)
		assert.Equal(t, []bool{false}, fb.noConfig)
	})

	t.Run("failing action does not stop the others", func(t *testing.T) {
		fb := &fallbackKind{}
		b, err := rules.NewBuilder([]rules.Kind{
			&recordingKind{name: "valid", err: fmt.Errorf("boom")},
			&recordingKind{name: "fix"},
		}, fb, rules.BuilderOptions{})
		require.NoError(t, err)
		d := buildDispatcher(t, b, def("gene", "valid", 1), def("gene", "fix", 2))

		rec := types.NewRecord("gene")
		_, err = d.Process(rec)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrActionApply))
		assert.Equal(t, []string{"valid:1", "fix:2"}, rec.Applied())
	})

	t.Run("observer sees every outcome", func(t *testing.T) {
		b, _ := newBuilder(t, true)
		obs := &countingObserver{}
		d := buildDispatcher(t, b,
			def("@n", "alias", 1, `(\d+)`),
			def("gene", "valid", 2),
			def("g@n", "fix", 3),
		).WithObserver(obs)

		for _, tag := range []string{"gene", "g1", "g22", "cds"} {
			_, err := d.Process(types.NewRecord(tag))
			require.NoError(t, err)
		}

		assert.Equal(t, map[string]int{"valid/true": 1, "fix/false": 2}, obs.matches)
		assert.Equal(t, 1, obs.fallbacks)
	})
}
