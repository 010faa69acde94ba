package locator

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"
	"fundix_e2e/infrastructure/browser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "How it works", NormalizeText("  How\n\t it   works "))
	assert.Equal(t, "", NormalizeText(" \n "))
}

func TestTextMatcher(t *testing.T) {
	tests := []struct {
		name    string
		mode    entities.Strategy
		pattern string
		input   string
		want    bool
	}{
		{"contains", entities.StrategyTextContains, "Get funded", "  Get   funded now", true},
		{"contains is case sensitive", entities.StrategyTextContains, "get funded", "Get funded", false},
		{"exact", entities.StrategyTextExact, "FAQ", "\n FAQ \n", true},
		{"exact rejects longer text", entities.StrategyTextExact, "FAQ", "FAQ page", false},
		{"regex", entities.StrategyTextRegex, `(?i)okay|accept`, "OKAY", true},
		{"regex sees normalized text", entities.StrategyTextRegex, `Prove\. Trade\.`, "Prove.\n   Trade.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := TextMatcher(tt.mode, tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, match(tt.input))
		})
	}
}

func TestTextMatcher_Errors(t *testing.T) {
	_, err := TextMatcher(entities.StrategyTextRegex, "(")
	assert.Error(t, err)

	_, err = TextMatcher(entities.StrategyCSS, "a")
	assert.Error(t, err)
}

func TestStrategyFor(t *testing.T) {
	for _, s := range []entities.Strategy{
		entities.StrategyTextContains,
		entities.StrategyTextExact,
		entities.StrategyTextRegex,
		entities.StrategyCSSFragment,
		entities.StrategyCSS,
		entities.StrategyDocumentText,
	} {
		impl, err := StrategyFor(s)
		require.NoError(t, err, s)
		assert.NotNil(t, impl)
	}

	_, err := StrategyFor("xpath")
	assert.Error(t, err)
}

func TestFragmentSelector(t *testing.T) {
	assert.Equal(t, `[class*="cookie"], [data-testid*="cookie"]`, FragmentSelector("cookie"))
	assert.Equal(t, `[class*="a\"b"], [data-testid*="a\"b"]`, FragmentSelector(`a"b`))
}

func TestTextStrategy_ScopeLimitsCandidates(t *testing.T) {
	page := `<html><body>
		<p>Blog</p>
		<footer><a href="/blog">Blog</a></footer>
	</body></html>`
	r, _ := newResolver(t, page)
	ctx := context.Background()

	nodes, err := TextStrategy{Mode: entities.StrategyTextContains}.Find(ctx, r.Browser(), entities.Rule{Pattern: "Blog", Scope: "a"})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	tag, _ := nodes[0].Tag(ctx)
	assert.Equal(t, "a", tag)

	nodes, err = TextStrategy{Mode: entities.StrategyTextContains}.Find(ctx, r.Browser(), entities.Rule{Pattern: "Blog"})
	require.NoError(t, err)
	assert.Len(t, nodes, 2, "paragraph and anchor are both deepest matches")
}

func TestDocumentTextStrategy_SkipsScripts(t *testing.T) {
	page := `<html><body>
		<script>var banner = "We use cookies";</script>
		<div class="banner"><p>We use cookies to personalize content.</p></div>
	</body></html>`
	r, _ := newResolver(t, page)
	ctx := context.Background()

	nodes, err := DocumentTextStrategy{}.Find(ctx, r.Browser(), entities.Rule{Pattern: `(?i)we use cookies`})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	tag, _ := nodes[0].Tag(ctx)
	assert.Equal(t, "p", tag)
}

func TestDocumentTextStrategy_MissIsEmpty(t *testing.T) {
	r, _ := newResolver(t, "")
	nodes, err := DocumentTextStrategy{}.Find(context.Background(), r.Browser(), entities.Rule{Pattern: `Lorem ipsum`})
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestCSSStrategies_RequirePattern(t *testing.T) {
	r, _ := newResolver(t, "")
	ctx := context.Background()

	_, err := CSSStrategy{}.Find(ctx, r.Browser(), entities.Rule{})
	assert.Error(t, err)
	_, err = FragmentStrategy{}.Find(ctx, r.Browser(), entities.Rule{})
	assert.Error(t, err)
}

func TestLocatorConstructors(t *testing.T) {
	re := regexp.MustCompile(`(?i)Step 1`)
	loc := Matches("div", re)
	require.Len(t, loc.Rules, 1)
	assert.Equal(t, entities.StrategyTextRegex, loc.Rules[0].Strategy)
	assert.Equal(t, "div", loc.Rules[0].Scope)

	merged := Or("logo", Contains("a", "Fundix").AsOptional(), ClassFragment("logo").WithTimeout(5))
	assert.Len(t, merged.Rules, 2)
	assert.True(t, merged.Optional)
	assert.Equal(t, "logo", merged.Name)
}

// batchTexts reads texts in one call the way the live engines do, counting
// calls and optionally failing them
type batchTexts struct {
	*browser.StaticController
	calls int
	err   error
}

func (b *batchTexts) QueryText(ctx context.Context, selector string) ([]interfaces.Node, []string, error) {
	b.calls++
	if b.err != nil {
		return nil, nil, b.err
	}
	nodes, err := b.Query(ctx, selector)
	if err != nil {
		return nil, nil, err
	}
	texts := make([]string, len(nodes))
	for i, n := range nodes {
		texts[i], _ = n.Text(ctx)
	}
	return nodes, texts, nil
}

func TestTextStrategies_ReadTextsInOneCall(t *testing.T) {
	page := `<html><body>
		<script>var banner = "We use cookies";</script>
		<div class="banner"><p>We use cookies to personalize content.</p></div>
		<footer><a href="/blog">Blog</a></footer>
	</body></html>`
	_, static := newResolver(t, page)
	ctx := context.Background()

	for _, failing := range []error{nil, errors.New("document changed while reading texts")} {
		b := &batchTexts{StaticController: static, err: failing}

		nodes, err := DocumentTextStrategy{}.Find(ctx, b, entities.Rule{Pattern: `(?i)we use cookies`})
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		tag, _ := nodes[0].Tag(ctx)
		assert.Equal(t, "p", tag)

		nodes, err = TextStrategy{Mode: entities.StrategyTextExact}.Find(ctx, b, entities.Rule{Pattern: "Blog"})
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		tag, _ = nodes[0].Tag(ctx)
		assert.Equal(t, "a", tag)

		assert.Equal(t, 2, b.calls, "one text read per Find")
	}
}
