package ruleset_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/arthur-debert/gffrules/pkg/kinds"
	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/ruleset"
	"github.com/arthur-debert/gffrules/pkg/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLines(t *testing.T) {
	src := strings.Join([]string{
		"# header comment",
		"@num   ALIAS  \\d+",
		"",
		"gene VALID   # trailing",
		"mrna  fix source=curated   biotype=coding  ",
		"orphan",
		"exon@num validif attrs[\"Parent\"] != \"\"",
	}, "\n")

	diags := diagnostics.NewCollector()
	defs, err := ruleset.ParseLines(strings.NewReader(src), ruleset.Options{Diagnostics: diags})
	require.NoError(t, err)

	want := []rules.Definition{
		{Pattern: "@num", Kind: "ALIAS", Actions: []string{`\d+`}, Line: 2},
		{Pattern: "gene", Kind: "VALID", Line: 4},
		{Pattern: "mrna", Kind: "fix", Actions: []string{"source=curated   biotype=coding"}, Line: 5},
		{Pattern: "exon@num", Kind: "validif", Actions: []string{`attrs["Parent"] != ""`}, Line: 7},
	}
	assert.Empty(t, cmp.Diff(want, defs))

	malformed := diags.Filter(diagnostics.CodeMalformedLine)
	require.Len(t, malformed, 1)
	assert.Equal(t, []int{6}, malformed[0].Lines)
}

func TestParseLines_CommentMarker(t *testing.T) {
	src := "gene valid ; note\nexon#1 valid\n"
	defs, err := ruleset.ParseLines(strings.NewReader(src), ruleset.Options{CommentMarker: ";"})
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Nil(t, defs[0].Actions)
	assert.Equal(t, "exon#1", defs[1].Pattern)
}

func TestParseYAML(t *testing.T) {
	src := `aliases:
  num: '\d+'
  "@id": '(\w+)'
rules:
  - gene VALID
  - pattern: mrna@num
    kind: fix
    action: source=curated
  - pattern: exon
  - kind: valid
`
	diags := diagnostics.NewCollector()
	defs, err := ruleset.ParseYAML(strings.NewReader(src), ruleset.Options{Diagnostics: diags})
	require.NoError(t, err)

	want := []rules.Definition{
		{Pattern: "@num", Kind: "alias", Actions: []string{`\d+`}, Line: 2},
		{Pattern: "@id", Kind: "alias", Actions: []string{`(\w+)`}, Line: 3},
		{Pattern: "gene", Kind: "VALID", Line: 5},
		{Pattern: "mrna@num", Kind: "fix", Actions: []string{"source=curated"}, Line: 6},
	}
	assert.Empty(t, cmp.Diff(want, defs))
	assert.Equal(t, 2, diags.Count(diagnostics.CodeMalformedLine))
}

func TestParseYAML_Errors(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		defs, err := ruleset.ParseYAML(strings.NewReader(""), ruleset.Options{})
		require.NoError(t, err)
		assert.Empty(t, defs)
	})

	t.Run("unknown top level key", func(t *testing.T) {
		_, err := ruleset.ParseYAML(strings.NewReader("patterns: []\n"), ruleset.Options{})
		assert.Error(t, err)
	})

	t.Run("aliases must be a mapping", func(t *testing.T) {
		_, err := ruleset.ParseYAML(strings.NewReader("aliases: [a, b]\n"), ruleset.Options{})
		assert.Error(t, err)
	})
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, ruleset.FormatYAML, ruleset.FormatOf("rules.YML"))
	assert.Equal(t, ruleset.FormatYAML, ruleset.FormatOf("a/b/rules.yaml"))
	assert.Equal(t, ruleset.FormatLines, ruleset.FormatOf("rules.conf"))
	assert.Equal(t, ruleset.FormatLines, ruleset.FormatOf("rules"))
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	aliases := testutil.CreateFile(t, dir, "aliases.yaml", "aliases:\n  num: '\\d+'\n")
	table := testutil.CreateFile(t, dir, "table.rules", "gene valid\nexon@num fix rank=$1\nx bogus\n")

	ks, fallback := kinds.Default("")
	b, err := rules.NewBuilder(ks, fallback, rules.BuilderOptions{})
	require.NoError(t, err)

	require.NoError(t, ruleset.LoadFiles(b, []string{aliases, table}, ruleset.Options{}))

	tbl, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"gene"}, tbl.ExactKeys())
	require.Len(t, tbl.Regex(), 1)
	assert.Equal(t, `exon\d+`, tbl.Regex()[0].Source)

	unknown := b.Diagnostics().Filter(diagnostics.CodeUnknownKind)
	require.Len(t, unknown, 1)
	assert.Equal(t, table, unknown[0].Source)
}

func TestLoadFiles_BuildDiagnosticsKeepTheirFile(t *testing.T) {
	dir := t.TempDir()
	first := testutil.CreateFile(t, dir, "a.rules", "@num ALIAS [0-9]+\nx@zz VALID\ngene IGNORE\n")
	second := testutil.CreateFile(t, dir, "b.rules", "gene VALID\n@num ALIAS [0-9]{1,3}\n")

	ks, fallback := kinds.Default("")
	b, err := rules.NewBuilder(ks, fallback, rules.BuilderOptions{})
	require.NoError(t, err)
	require.NoError(t, ruleset.LoadFiles(b, []string{first, second}, ruleset.Options{}))

	redefined := b.Diagnostics().Filter(diagnostics.CodeDuplicatePattern)
	require.Len(t, redefined, 1)
	assert.Equal(t, []int{1, 2}, redefined[0].Lines)
	assert.Equal(t, []string{first, second}, redefined[0].Sources)

	_, err = b.Build()
	require.NoError(t, err)

	failed := b.Diagnostics().Filter(diagnostics.CodeMaturationFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, first, failed[0].Source)
	assert.Equal(t, []int{2}, failed[0].Lines)
	assert.Empty(t, failed[0].Sources)

	collisions := b.Diagnostics().Filter(diagnostics.CodeCrossKindCollision)
	require.Len(t, collisions, 1)
	assert.Equal(t, []int{3, 1}, collisions[0].Lines)
	assert.Equal(t, []string{first, second}, collisions[0].Sources)
	assert.Equal(t, second, collisions[0].Source)
}

func TestLoadFiles_CompileFailureNamesItsFile(t *testing.T) {
	dir := t.TempDir()
	first := testutil.CreateFile(t, dir, "a.rules", "@open ALIAS (\\d+\nexon@open VALID\n")
	second := testutil.CreateFile(t, dir, "b.rules", "gene VALID\n")

	ks, fallback := kinds.Default("")
	b, err := rules.NewBuilder(ks, fallback, rules.BuilderOptions{})
	require.NoError(t, err)
	require.NoError(t, ruleset.LoadFiles(b, []string{first, second}, ruleset.Options{}))

	_, err = b.Build()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRegexCompile))
	assert.Equal(t, first, errors.GetErrorDetails(err)["source"])

	fatal := b.Diagnostics().Filter(diagnostics.CodeRegexCompile)
	require.Len(t, fatal, 1)
	assert.Equal(t, first, fatal[0].Source)
	assert.Equal(t, []int{2}, fatal[0].Lines)
}

func TestLoadFiles_CommentOnlySourceIsNotConfigured(t *testing.T) {
	path := testutil.CreateFile(t, t.TempDir(), "empty.rules", "# nothing yet\n\n")

	ks, fallback := kinds.Default("")
	b, err := rules.NewBuilder(ks, fallback, rules.BuilderOptions{})
	require.NoError(t, err)
	require.NoError(t, ruleset.LoadFiles(b, []string{path}, ruleset.Options{}))

	tbl, err := b.Build()
	require.NoError(t, err)
	assert.False(t, tbl.Configured())
	assert.True(t, tbl.Empty())
}

func TestLoadFiles_Missing(t *testing.T) {
	ks, fallback := kinds.Default("")
	b, err := rules.NewBuilder(ks, fallback, rules.BuilderOptions{})
	require.NoError(t, err)

	err = ruleset.LoadFiles(b, []string{filepath.Join(t.TempDir(), "nope.rules")}, ruleset.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrRuleSource))
}
