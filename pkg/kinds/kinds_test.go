package kinds_test

import (
	"testing"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
	"github.com/arthur-debert/gffrules/pkg/kinds"
	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rule(kind string, line int, blob ...string) rules.Definition {
	return rules.NewDefinition("x", kind, blob, line)
}

func TestDefault(t *testing.T) {
	ks, fallback := kinds.Default("")

	names := make([]string, len(ks))
	for i, k := range ks {
		names[i] = k.Name()
	}
	assert.Equal(t, kinds.Names(), names)
	assert.Equal(t, kinds.UnseenName, fallback.Name())

	_, ok := ks[0].(rules.AliasProvider)
	assert.True(t, ok, "alias kind provides the resolver")

	_, err := rules.NewBuilder(ks, fallback, rules.BuilderOptions{})
	assert.NoError(t, err)
}

func TestIgnoreAndValid(t *testing.T) {
	rec := types.NewRecord("gene")

	require.NoError(t, kinds.NewValid().Apply(rec, rule("valid", 1), nil))
	assert.True(t, rec.Valid())

	require.NoError(t, kinds.NewIgnore().Apply(rec, rule("ignore", 2), nil))
	assert.True(t, rec.Ignored())
	assert.Equal(t, []string{"valid:1", "ignore:2"}, rec.Applied())
}

func TestValidIf(t *testing.T) {
	tests := []struct {
		name    string
		cond    string
		caps    rules.Captures
		valid   bool
		invalid bool
	}{
		{"attribute present", `attrs["ID"] != ""`, nil, true, false},
		{"tag test", `tag startsWith "ex"`, nil, true, false},
		{"capture test", `captures["1"] == "7"`, rules.Captures{"1": "7"}, true, false},
		{"condition does not hold", `attrs["Parent"] == "p1"`, nil, false, true},
		{"compile error", `attrs[`, nil, false, true},
		{"not a boolean", `tag`, nil, false, true},
		{"empty condition", ``, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := kinds.NewValidIf()
			rec := types.NewRecord("exon")
			rec.SetAttr("ID", "e1")

			var blob []string
			if tt.cond != "" {
				blob = []string{tt.cond}
			}
			require.NoError(t, k.Apply(rec, rule("validif", 4, blob...), tt.caps))

			assert.Equal(t, tt.valid, rec.Valid())
			assert.Equal(t, tt.invalid, rec.Invalid())
			if tt.invalid {
				require.Len(t, rec.InvalidReasons(), 1)
				assert.Contains(t, rec.InvalidReasons()[0], "line 4")
			}
		})
	}

	t.Run("programs are reused across records", func(t *testing.T) {
		k := kinds.NewValidIf()
		for _, id := range []string{"a", "b"} {
			rec := types.NewRecord("gene")
			rec.SetAttr("ID", id)
			require.NoError(t, k.Apply(rec, rule("validif", 1, `attrs["ID"] == "a"`), nil))
			assert.Equal(t, id == "a", rec.Valid())
		}
	})
}

func TestFix(t *testing.T) {
	t.Run("fix only fills missing attributes", func(t *testing.T) {
		rec := types.NewRecord("mrna")
		rec.SetAttr("source", "ensembl")

		err := kinds.NewFix(false).Apply(rec, rule("fix", 2, "source=curated biotype=$1"), rules.Captures{"1": "coding"})
		require.NoError(t, err)

		v, _ := rec.Attr("source")
		assert.Equal(t, "ensembl", v)
		v, _ = rec.Attr("biotype")
		assert.Equal(t, "coding", v)
	})

	t.Run("forcefix overwrites", func(t *testing.T) {
		rec := types.NewRecord("mrna")
		rec.SetAttr("source", "ensembl")

		err := kinds.NewFix(true).Apply(rec, rule("forcefix", 2, "source=${src}"), rules.Captures{"src": "refseq"})
		require.NoError(t, err)

		v, _ := rec.Attr("source")
		assert.Equal(t, "refseq", v)
	})

	t.Run("missing captures expand to nothing", func(t *testing.T) {
		rec := types.NewRecord("mrna")
		require.NoError(t, kinds.NewFix(false).Apply(rec, rule("fix", 2, "note=id$1"), nil))
		v, _ := rec.Attr("note")
		assert.Equal(t, "id", v)
	})

	t.Run("malformed assignment is an error", func(t *testing.T) {
		rec := types.NewRecord("mrna")
		assert.Error(t, kinds.NewFix(false).Apply(rec, rule("fix", 2, "source"), nil))
		assert.Error(t, kinds.NewFix(false).Apply(rec, rule("fix", 3), nil))
		assert.Empty(t, rec.AttrKeys())
	})
}

func TestSub(t *testing.T) {
	t.Run("sub rewrites once and reports the rest", func(t *testing.T) {
		sub := kinds.NewSub(false)
		rec := types.NewRecord("cds")

		require.NoError(t, sub.Apply(rec, rule("sub", 1, "CDS"), nil))
		require.NoError(t, sub.Apply(rec, rule("sub", 2, "coding_sequence"), nil))
		assert.Equal(t, "CDS", rec.Tag())

		batch := types.NewBatch([]*types.Record{rec}, nil)
		require.NoError(t, sub.RunPostponed(batch))
		conflicts := batch.Diagnostics.Filter(diagnostics.CodeActionConflict)
		require.Len(t, conflicts, 1)
		assert.Equal(t, []int{2}, conflicts[0].Lines)
	})

	t.Run("sub back to the original tag still counts as the rewrite", func(t *testing.T) {
		sub := kinds.NewSub(false)
		rec := types.NewRecord("exon")

		require.NoError(t, sub.Apply(rec, rule("sub", 1, "exon"), nil))
		require.NoError(t, sub.Apply(rec, rule("sub", 2, "CDS").WithSource("b.rules"), nil))
		assert.Equal(t, "exon", rec.Tag())

		batch := types.NewBatch([]*types.Record{rec}, nil)
		require.NoError(t, sub.RunPostponed(batch))
		conflicts := batch.Diagnostics.Filter(diagnostics.CodeActionConflict)
		require.Len(t, conflicts, 1)
		assert.Equal(t, []int{2}, conflicts[0].Lines)
		assert.Equal(t, "b.rules", conflicts[0].Source)
	})

	t.Run("forcesub always rewrites with captures", func(t *testing.T) {
		sub := kinds.NewSub(false)
		force := kinds.NewSub(true)
		rec := types.NewRecord("exon7")

		require.NoError(t, sub.Apply(rec, rule("sub", 1, "exon"), nil))
		require.NoError(t, force.Apply(rec, rule("forcesub", 2, "exon_$1"), rules.Captures{"1": "7"}))
		assert.Equal(t, "exon_7", rec.Tag())
		assert.Equal(t, "exon7", rec.OriginalTag())
	})

	t.Run("empty replacement is an error", func(t *testing.T) {
		rec := types.NewRecord("cds")
		assert.Error(t, kinds.NewSub(false).Apply(rec, rule("sub", 1), nil))
		assert.Equal(t, "cds", rec.Tag())
	})
}

func TestSet(t *testing.T) {
	set := kinds.NewSet()

	r1 := types.NewRecord("region")
	r2 := types.NewRecord("region")
	require.NoError(t, set.Apply(r1, rule("set", 1, "species=human build=$1"), rules.Captures{"1": "38"}))
	require.NoError(t, set.Apply(r2, rule("set", 5, "species=mouse"), nil))

	batch := types.NewBatch([]*types.Record{r1, r2}, nil)
	_, ok := batch.Meta("species")
	assert.False(t, ok, "nothing is written before the postponed run")

	set.PreparePostponed(batch)
	require.NoError(t, set.RunPostponed(batch))

	assert.Equal(t, []string{"species", "build"}, batch.MetaKeys())
	v, _ := batch.Meta("species")
	assert.Equal(t, "mouse", v)
	v, _ = batch.Meta("build")
	assert.Equal(t, "38", v)
}

func TestUnseen(t *testing.T) {
	t.Run("one diagnostic per unseen tag", func(t *testing.T) {
		u := kinds.NewUnseen()
		for _, tag := range []string{"foo", "bar", "foo"} {
			rec := types.NewRecord(tag)
			require.NoError(t, u.Unmatched(rec, false))
			assert.True(t, rec.Unseen())
		}
		assert.Equal(t, 3, u.Count())

		order, counts := u.Tags()
		assert.Equal(t, []string{"foo", "bar"}, order)
		assert.Equal(t, 2, counts["foo"])

		batch := types.NewBatch(nil, nil)
		require.NoError(t, u.RunPostponed(batch))
		unseen := batch.Diagnostics.Filter(diagnostics.CodeUnseenTag)
		require.Len(t, unseen, 2)
		assert.Equal(t, "unseen tag foo (2 records)", unseen[0].Message)
		assert.Equal(t, diagnostics.SeverityInfo, unseen[0].Severity)
	})

	t.Run("single summary without configuration", func(t *testing.T) {
		u := kinds.NewUnseen()
		for _, tag := range []string{"foo", "bar"} {
			require.NoError(t, u.Unmatched(types.NewRecord(tag), true))
		}

		batch := types.NewBatch(nil, nil)
		require.NoError(t, u.RunPostponed(batch))
		unseen := batch.Diagnostics.Filter(diagnostics.CodeUnseenTag)
		require.Len(t, unseen, 1)
		assert.Contains(t, unseen[0].Message, "no rules configured")
	})

	t.Run("nothing to report", func(t *testing.T) {
		batch := types.NewBatch(nil, nil)
		require.NoError(t, kinds.NewUnseen().RunPostponed(batch))
		assert.Equal(t, 0, batch.Diagnostics.Len())
	})
}
