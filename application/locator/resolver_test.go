package locator

import (
	"context"
	"io"
	"regexp"
	"testing"
	"time"

	"fundix_e2e/domain/entities"
	"fundix_e2e/infrastructure/browser"
	"fundix_e2e/infrastructure/browser/testsite"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newResolver(t *testing.T, page string, opts ...Option) (*Resolver, *browser.StaticController) {
	t.Helper()
	client := testsite.Client()
	if page != "" {
		client = testsite.ClientFor(testsite.Page(page))
	}
	b := browser.NewStaticController(client, quietLogger())
	require.NoError(t, b.Navigate(context.Background(), "https://fundix.pro/"))

	opts = append([]Option{WithPollInterval(5*time.Millisecond, 20*time.Millisecond)}, opts...)
	return NewResolver(b, quietLogger(), opts...), b
}

func TestResolver_NoMatchIsEmptyWithinTimeout(t *testing.T) {
	r, _ := newResolver(t, "")
	loc := Contains("a", "Definitely not on the page").WithTimeout(200 * time.Millisecond)

	start := time.Now()
	nodes, err := r.Resolve(context.Background(), loc)
	elapsed := time.Since(start)

	require.NoError(t, err, "an unmatched locator is not an error")
	assert.Empty(t, nodes)
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	assert.Less(t, elapsed, 200*time.Millisecond+300*time.Millisecond, "resolution gives up close to its budget")
}

func TestResolver_CancelledContextIsAnError(t *testing.T) {
	r, _ := newResolver(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, Contains("a", "nothing").WithTimeout(time.Second))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolver_FAQAnchor(t *testing.T) {
	page := `<html><body><nav><a href="/faq">FAQ</a></nav></body></html>`
	r, b := newResolver(t, page)
	ctx := context.Background()

	nodes, err := r.Resolve(ctx, Contains("", "FAQ"))
	require.NoError(t, err)
	require.Len(t, nodes, 1, "only the deepest element is kept")

	tag, _ := nodes[0].Tag(ctx)
	assert.Equal(t, "a", tag)
	visible, _ := nodes[0].Visible(ctx)
	assert.True(t, visible)

	require.NoError(t, nodes[0].Click(ctx))
	current, _ := b.CurrentURL(ctx)
	assert.Contains(t, current, "fundix.pro")
}

func TestResolver_PrecedenceBeatsArgumentOrder(t *testing.T) {
	page := `<html><body>
		<div class="cta-wrapper"><span>Start</span></div>
		<button>Start trading</button>
	</body></html>`
	r, _ := newResolver(t, page)
	ctx := context.Background()

	loc := Or("cta", ClassFragment("cta"), Contains("button", "Start trading"))
	nodes, err := r.Resolve(ctx, loc)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	tag, _ := nodes[0].Tag(ctx)
	assert.Equal(t, "button", tag, "text rules run before fragment rules")
}

func TestResolver_FallsThroughToLowerPrecedence(t *testing.T) {
	page := `<html><body><div data-testid="cookie-banner">Banner</div></body></html>`
	r, _ := newResolver(t, page)
	ctx := context.Background()

	loc := Or("banner", Contains("button", "Accept"), ClassFragment("cookie")).WithTimeout(100 * time.Millisecond)
	nodes, err := r.Resolve(ctx, loc)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	text, _ := nodes[0].Text(ctx)
	assert.Equal(t, "Banner", text)
}

func TestResolver_WaitsForLateElement(t *testing.T) {
	r, b := newResolver(t, "")
	ctx := context.Background()

	require.NoError(t, b.Navigate(ctx, "https://fundix.pro/legal"))
	loc := Contains("h1", "Your skills").WithTimeout(2 * time.Second)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = b.Back(ctx)
	}()

	nodes, err := r.Resolve(ctx, loc)
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestResolver_DefaultTimeout(t *testing.T) {
	r, _ := newResolver(t, "", WithDefaultTimeout(3*time.Second))
	assert.Equal(t, 3*time.Second, r.DefaultTimeout())
	assert.Equal(t, 3*time.Second, r.timeoutFor(CSS("a")))
	assert.Equal(t, time.Second, r.timeoutFor(CSS("a").WithTimeout(time.Second)))

	d, _ := newResolver(t, "")
	assert.Equal(t, DefaultTimeout, d.DefaultTimeout())
}

func TestResolver_InvalidPatternKeepsPolling(t *testing.T) {
	r, _ := newResolver(t, "")
	loc := entities.Locator{
		Name:    "broken",
		Rules:   []entities.Rule{{Strategy: entities.StrategyTextRegex, Pattern: "("}},
		Timeout: 50 * time.Millisecond,
	}

	nodes, err := r.Resolve(context.Background(), loc)
	assert.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestOrderedRules_Stable(t *testing.T) {
	rules := []entities.Rule{
		{Strategy: entities.StrategyDocumentText, Pattern: "a"},
		{Strategy: entities.StrategyCSS, Pattern: "b"},
		{Strategy: entities.StrategyTextContains, Pattern: "c"},
		{Strategy: entities.StrategyCSSFragment, Pattern: "d"},
		{Strategy: entities.StrategyTextExact, Pattern: "e"},
	}

	ordered := OrderedRules(rules)
	var patterns []string
	for _, r := range ordered {
		patterns = append(patterns, r.Pattern)
	}
	assert.Equal(t, []string{"c", "e", "b", "d", "a"}, patterns)
	assert.Equal(t, "a", rules[0].Pattern, "input is not reordered")
}

func TestRef_ReResolvesAfterReload(t *testing.T) {
	r, b := newResolver(t, "")
	ctx := context.Background()
	ref := r.Ref(Contains("a", "FAQ"))

	visible, err := ref.Visible(ctx)
	require.NoError(t, err)
	assert.True(t, visible)

	require.NoError(t, b.Reload(ctx))
	visible, err = ref.Visible(ctx)
	require.NoError(t, err)
	assert.True(t, visible, "a reference survives a reload")
}

func TestRef_MissingElement(t *testing.T) {
	r, _ := newResolver(t, "")
	ctx := context.Background()
	ref := r.Ref(Contains("a", "Nope")).WithTimeout(50 * time.Millisecond)

	err := ref.Click(ctx)
	assert.ErrorIs(t, err, entities.ErrElementNotFound)

	visible, err := ref.Visible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)

	exists, err := ref.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRef_WaitHidden(t *testing.T) {
	r, _ := newResolver(t, "")
	ctx := context.Background()
	banner := r.Ref(DocumentText(regexp.MustCompile(`(?i)We use cookies`))).WithTimeout(500 * time.Millisecond)

	hidden, err := banner.WaitHidden(ctx)
	require.NoError(t, err)
	assert.False(t, hidden)

	require.NoError(t, r.Ref(Contains("button", "Okay")).Click(ctx))
	hidden, err = banner.WaitHidden(ctx)
	require.NoError(t, err)
	assert.True(t, hidden)
}

func TestRef_Snapshot(t *testing.T) {
	r, _ := newResolver(t, "")
	snap, err := r.Ref(CSS("a.logo")).Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "a", snap.Type)
	assert.Equal(t, "Fundix", snap.Text)
	assert.Equal(t, "/", snap.Attributes["href"])
	assert.True(t, snap.IsVisible)
}

func TestRef_OptionalMissingElement(t *testing.T) {
	r, _ := newResolver(t, "")
	ctx := context.Background()
	ref := r.Ref(Contains("a", "Nope").AsOptional()).WithTimeout(50 * time.Millisecond)

	assert.NoError(t, ref.Click(ctx))
	assert.NoError(t, ref.Hover(ctx))

	_, err := ref.Text(ctx)
	assert.ErrorIs(t, err, entities.ErrElementNotFound)
}

func TestRef_SnapshotOfHiddenElement(t *testing.T) {
	r, _ := newResolver(t, "")
	ctx := context.Background()
	require.NoError(t, r.Ref(Contains("button", "Okay")).Click(ctx))

	snap, err := r.Ref(CSS("#cookie-banner")).Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "div", snap.Type)
	assert.False(t, snap.IsVisible)
	assert.Equal(t, "cookie-banner", snap.Attributes["id"])
	assert.Contains(t, snap.String(), `<div class="cookie-banner" id="cookie-banner">`)
}

func TestTruncateString_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "©©©...", truncateString("©©©©©", 3))
	assert.Equal(t, "∞ a...", truncateString("∞ abc", 3))
	assert.Equal(t, "©©©", truncateString("©©©", 3))
}
