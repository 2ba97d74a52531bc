package rules_test

import (
	"testing"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternRegistry_Register(t *testing.T) {
	t.Run("plain pattern is exact and normalized", func(t *testing.T) {
		reg := rules.NewPatternRegistry("valid", "", nil)
		reg.Register(def("  Gene ", "valid", 1))

		exact := reg.ExactPatterns()
		require.Contains(t, exact, "gene")
		assert.Equal(t, 1, exact["gene"][0].Line)
		assert.Empty(t, reg.PendingPatterns())
	})

	t.Run("alias marker makes the pattern pending", func(t *testing.T) {
		reg := rules.NewPatternRegistry("valid", "", nil)
		reg.Register(def("chr@num", "valid", 1))

		assert.Empty(t, reg.ExactPatterns())
		assert.Contains(t, reg.PendingPatterns(), "chr@num")
	})

	t.Run("duplicates are kept and reported once per extra rule", func(t *testing.T) {
		diags := diagnostics.NewCollector()
		reg := rules.NewPatternRegistry("fix", "", diags)
		reg.Register(def("mRNA", "fix", 2))
		reg.Register(def("mrna", "fix", 5))
		reg.Register(def(" MRNA", "fix", 9))

		assert.Len(t, reg.ExactPatterns()["mrna"], 3)

		dups := diags.Filter(diagnostics.CodeDuplicatePattern)
		require.Len(t, dups, 2)
		assert.Equal(t, []int{2, 5}, dups[0].Lines)
		assert.Equal(t, []int{2, 5, 9}, dups[1].Lines)
		assert.Equal(t, "fix", dups[1].Kind)
		assert.Contains(t, dups[1].Message, "at lines 2,5 for fix at 9")
	})

	t.Run("snapshots are independent copies", func(t *testing.T) {
		reg := rules.NewPatternRegistry("valid", "", nil)
		reg.Register(def("gene", "valid", 1))

		snap := reg.ExactPatterns()
		reg.Register(def("gene", "valid", 2))
		reg.Register(def("exon", "valid", 3))

		assert.Len(t, snap["gene"], 1)
		assert.NotContains(t, snap, "exon")
	})
}

func TestPatternRegistry_Mature(t *testing.T) {
	resolver := rules.NewAliasResolver("")
	_, _, err := resolver.Define("@b", `(\d+)`, 1)
	require.NoError(t, err)

	t.Run("expanded pattern is compiled", func(t *testing.T) {
		reg := rules.NewPatternRegistry("valid", "", nil)
		reg.Register(def("a@b", "valid", 4))

		require.NoError(t, reg.Mature(resolver))

		compiled := reg.RegexPatterns()
		require.Len(t, compiled, 1)
		assert.Equal(t, `a(\d+)`, compiled[0].Source)
		assert.Empty(t, reg.PendingPatterns())

		caps, ok := compiled[0].Match("a123")
		require.True(t, ok)
		assert.Equal(t, "123", caps["1"])
	})

	t.Run("nil resolver leaves patterns pending", func(t *testing.T) {
		reg := rules.NewPatternRegistry("valid", "", nil)
		reg.Register(def("a@b", "valid", 4))

		require.NoError(t, reg.Mature(nil))

		assert.False(t, reg.Matured())
		assert.Contains(t, reg.PendingPatterns(), "a@b")
		assert.Empty(t, reg.RegexPatterns())
		assert.Empty(t, reg.ExactPatterns())
	})

	t.Run("unresolved alias is refiled as exact with a diagnostic", func(t *testing.T) {
		diags := diagnostics.NewCollector()
		reg := rules.NewPatternRegistry("valid", "", diags)
		reg.Register(def("X@unknown", "valid", 6))

		require.NoError(t, reg.Mature(resolver))

		assert.Contains(t, reg.ExactPatterns(), "x@unknown")
		assert.Empty(t, reg.RegexPatterns())
		failed := diags.Filter(diagnostics.CodeMaturationFailed)
		require.Len(t, failed, 1)
		assert.Equal(t, []int{6}, failed[0].Lines)
		assert.Equal(t, 0, diags.Count(diagnostics.CodeDuplicatePattern))
	})

	t.Run("maturation is idempotent", func(t *testing.T) {
		reg := rules.NewPatternRegistry("valid", "", nil)
		reg.Register(def("a@b", "valid", 1))
		reg.Register(def("c@b", "valid", 2))

		require.NoError(t, reg.Mature(resolver))
		first := sources(reg.RegexPatterns())
		require.NoError(t, reg.Mature(resolver))

		assert.Empty(t, cmp.Diff(first, sources(reg.RegexPatterns())))
		assert.Equal(t, []string{`a(\d+)`, `c(\d+)`}, first)
	})

	t.Run("compile failure is fatal and leaves nothing half matured", func(t *testing.T) {
		broken := rules.NewAliasResolver("")
		_, _, err := broken.Define("@open", `(\d+`, 1)
		require.NoError(t, err)
		_, _, err = broken.Define("@b", `(\d+)`, 1)
		require.NoError(t, err)

		diags := diagnostics.NewCollector()
		reg := rules.NewPatternRegistry("fix", "", diags)
		reg.Register(def("a@b", "fix", 2))
		reg.Register(def("x@open", "fix", 3))

		err = reg.Mature(broken)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrRegexCompile))
		assert.Equal(t, 3, errors.GetErrorDetails(err)["line"])
		assert.Empty(t, reg.RegexPatterns())
		assert.False(t, reg.Matured())
		assert.True(t, diags.HasFatal())
	})
}

func sources(crs []rules.CompiledRule) []string {
	out := make([]string, len(crs))
	for i, cr := range crs {
		out[i] = cr.Source
	}
	return out
}
