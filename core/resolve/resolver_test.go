package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(names ...string) []Item {
	out := make([]Item, 0, len(names))
	for _, n := range names {
		out = append(out, Item{Name: n, Handle: "library/" + n + ".docx", Source: "dir:library"})
	}
	return out
}

func mustResolver(t *testing.T, lib []Item, threshold float64) *Resolver {
	t.Helper()
	r, err := New(NewIndex(lib), threshold)
	require.NoError(t, err)
	return r
}

func TestResolve_QuarterlyScenario(t *testing.T) {
	r := mustResolver(t, items("Executive-Summary", "Missing-Security-Header", "Financial-Overview"), DefaultThreshold)

	results := r.Resolve([]string{"executive summary", "missing security headers", "financial data"})
	require.Len(t, results, 3)

	assert.Equal(t, Exact, results[0].Kind)
	assert.Equal(t, "Executive-Summary", results[0].Item.Name)
	assert.Equal(t, 1.0, results[0].Score)

	assert.Equal(t, Fuzzy, results[1].Kind)
	assert.Equal(t, "Missing-Security-Header", results[1].Item.Name)
	assert.InDelta(t, 1.0-1.0/24.0, results[1].Score, 1e-9)
	assert.GreaterOrEqual(t, results[1].Score, 0.85)

	assert.Equal(t, NoMatch, results[2].Kind)
	assert.Nil(t, results[2].Item)
	require.NotNil(t, results[2].Candidate)
	assert.Equal(t, "Financial-Overview", results[2].Candidate.Name)
	assert.Less(t, results[2].Score, DefaultThreshold)
}

func TestResolve_UnderscoreEntryIsExact(t *testing.T) {
	r := mustResolver(t, items("Risk-Assessment", "Market-Analysis"), DefaultThreshold)

	res := r.ResolveOne("risk_assessment")
	assert.Equal(t, Exact, res.Kind)
	assert.Equal(t, "Risk-Assessment", res.Item.Name)
}

func TestResolve_TypoIsFuzzy(t *testing.T) {
	r := mustResolver(t, items("Security-Headers", "Cover-Page"), DefaultThreshold)

	res := r.ResolveOne("secuirty headers")
	assert.Equal(t, Fuzzy, res.Kind)
	assert.Equal(t, "Security-Headers", res.Item.Name)
	assert.InDelta(t, 0.875, res.Score, 1e-9)
}

func TestResolve_CollisionPrefersFirstName(t *testing.T) {
	idx := NewIndex(items("risk-assessment", "Risk-Assessment"))

	require.Len(t, idx.Collisions(), 1)
	c := idx.Collisions()[0]
	assert.Equal(t, "risk-assessment", c.Key)
	assert.Equal(t, "Risk-Assessment", c.Kept.Name)
	require.Len(t, c.Dropped, 1)
	assert.Equal(t, "risk-assessment", c.Dropped[0].Name)

	err := idx.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNameCollision)
	var collisionErr *CollisionError
	require.ErrorAs(t, err, &collisionErr)
	assert.Len(t, collisionErr.Collisions, 1)

	r, err := New(idx, DefaultThreshold)
	require.NoError(t, err)
	res := r.ResolveOne("Risk Assessment")
	assert.Equal(t, Exact, res.Kind)
	assert.Equal(t, "Risk-Assessment", res.Item.Name)
}

func TestResolve_EmptyManifest(t *testing.T) {
	r := mustResolver(t, items("Cover-Page"), DefaultThreshold)

	results := r.Resolve([]string{})
	assert.NotNil(t, results)
	assert.Empty(t, results)

	results, collisions, err := Resolve(nil, items("Cover-Page"), DefaultThreshold)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, collisions)
}

func TestResolve_Determinism(t *testing.T) {
	lib := items("Executive-Summary", "Missing-Security-Header", "Financial-Overview", "Market-Analysis", "Risk-Assessment")
	entries := []string{"market analysis", "risk assesment", "unknown thing", "executive summary", "market analysis"}

	first, _, err := Resolve(entries, lib, DefaultThreshold)
	require.NoError(t, err)
	second, _, err := Resolve(entries, lib, DefaultThreshold)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("resolution not deterministic (-first +second):\n%s", diff)
	}
}

func TestResolve_OrderPreserved(t *testing.T) {
	r := mustResolver(t, items("Alpha", "Beta", "Gamma"), DefaultThreshold)

	entries := []string{"gamma", "nothing", "alpha", "beta", "alpha"}
	results := r.Resolve(entries)

	require.Len(t, results, len(entries))
	for i, e := range entries {
		assert.Equal(t, e, results[i].Entry)
	}
}

func TestResolve_ExactBeatsFuzzy(t *testing.T) {
	r := mustResolver(t, items("Risk-Assessments", "Risk-Assessment", "Risk-Assesment"), 0.1)

	res := r.ResolveOne("risk assessment")
	assert.Equal(t, Exact, res.Kind)
	assert.Equal(t, "Risk-Assessment", res.Item.Name)
}

func TestResolve_ThresholdBoundary(t *testing.T) {
	t.Run("EqualToThresholdIsFuzzy", func(t *testing.T) {
		r := mustResolver(t, items("abcd"), 0.75)
		res := r.ResolveOne("abce")
		assert.Equal(t, Fuzzy, res.Kind)
		assert.InDelta(t, 0.75, res.Score, 1e-12)
	})

	t.Run("JustBelowThresholdIsNoMatch", func(t *testing.T) {
		r := mustResolver(t, items("abcd"), 0.76)
		res := r.ResolveOne("abce")
		assert.Equal(t, NoMatch, res.Kind)
		assert.Equal(t, "abcd", res.Candidate.Name)
	})

	t.Run("DefaultThresholdTenChars", func(t *testing.T) {
		r := mustResolver(t, items("abcdefwxyz"), DefaultThreshold)

		res := r.ResolveOne("abcdefghij") // distance 4 of 10
		assert.Equal(t, Fuzzy, res.Kind)

		res = r.ResolveOne("abcdevghij") // distance 5 of 10
		assert.Equal(t, NoMatch, res.Kind)
	})
}

func TestResolve_TieBreaks(t *testing.T) {
	t.Run("LongestCommonPrefix", func(t *testing.T) {
		r := mustResolver(t, items("zbcx", "abcy"), DefaultThreshold)
		res := r.ResolveOne("abcx")
		assert.Equal(t, Fuzzy, res.Kind)
		assert.Equal(t, "abcy", res.Item.Name)
	})

	t.Run("LexicographicName", func(t *testing.T) {
		r := mustResolver(t, items("mza", "mya"), DefaultThreshold)
		res := r.ResolveOne("mxa")
		assert.Equal(t, Fuzzy, res.Kind)
		assert.Equal(t, "mya", res.Item.Name)
	})
}

func TestResolve_EmptyLibrary(t *testing.T) {
	r := mustResolver(t, nil, DefaultThreshold)

	res := r.ResolveOne("cover page")
	assert.Equal(t, NoMatch, res.Kind)
	assert.Nil(t, res.Item)
	assert.Nil(t, res.Candidate)
	assert.Zero(t, res.Score)
}

func TestResolve_EmptyKeyNeverMatches(t *testing.T) {
	r := mustResolver(t, items("___", "Cover Page"), DefaultThreshold)

	res := r.ResolveOne("- ???")
	assert.Equal(t, NoMatch, res.Kind)
	assert.Empty(t, res.Key)
	assert.Nil(t, res.Item)
	assert.Nil(t, res.Candidate)

	assert.Equal(t, []string{"cover-page"}, r.Index().Keys())
	unkeyed := r.Index().Unkeyed()
	require.Len(t, unkeyed, 1)
	assert.Equal(t, "___", unkeyed[0].Name)
	assert.Equal(t, []string{"Cover Page", "___"}, r.Index().Names())
}

func TestNew_InvalidThreshold(t *testing.T) {
	for _, th := range []float64{-0.1, 1.01} {
		_, err := New(NewIndex(nil), th)
		assert.ErrorIs(t, err, ErrInvalidThreshold)
	}

	_, err := New(nil, 0)
	assert.NoError(t, err)
	_, err = New(nil, 1)
	assert.NoError(t, err)
}

func TestIndex_SourcePriority(t *testing.T) {
	lib := []Item{
		{Name: "Cover-Page", Handle: "b/Cover-Page.docx", Source: "dir:b", Priority: 1},
		{Name: "cover page", Handle: "a/cover page.docx", Source: "dir:a", Priority: 0},
	}
	idx := NewIndex(lib)

	item, ok := idx.Lookup("cover-page")
	require.True(t, ok)
	assert.Equal(t, "dir:a", item.Source)
	assert.Empty(t, idx.Collisions())
	assert.NoError(t, idx.Err())
	require.Len(t, idx.Shadowed(), 1)
	assert.Equal(t, "dir:b", idx.Shadowed()[0].Source)
	assert.Equal(t, []string{"Cover-Page", "cover page"}, idx.Names())
}

func TestIndex_Nearest(t *testing.T) {
	idx := NewIndex(items("Financial-Overview", "Financial-Data-Appendix", "Cover-Page", "Conclusion"))

	got := idx.Nearest("financial-data", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "Financial-Overview", got[0].Item.Name)
	assert.Equal(t, 8, got[0].Distance)
	assert.Equal(t, "Financial-Data-Appendix", got[1].Item.Name)
	assert.Equal(t, 9, got[1].Distance)
	assert.LessOrEqual(t, got[0].Distance, got[1].Distance)

	assert.Nil(t, idx.Nearest("anything", 0))
	assert.Nil(t, NewIndex(nil).Nearest("anything", 3))
	assert.Len(t, idx.Nearest("x", 10), 4)
}

func TestKind_Text(t *testing.T) {
	for _, k := range []Kind{Exact, Fuzzy, NoMatch} {
		text, err := k.MarshalText()
		require.NoError(t, err)

		var back Kind
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, k, back)
	}

	var k Kind
	assert.Error(t, k.UnmarshalText([]byte("maybe")))
}
