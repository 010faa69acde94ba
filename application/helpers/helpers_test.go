package helpers

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"fundix_e2e/application/locator"
	"fundix_e2e/domain/entities"
	"fundix_e2e/infrastructure/browser"
	"fundix_e2e/infrastructure/browser/testsite"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	browser  *browser.StaticController
	resolver *locator.Resolver
	waiter   *Waiter
	scroller *Scroller
	urls     *URLs
	elements *Elements
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	b := browser.NewStaticController(testsite.Client(), logger)
	require.NoError(t, b.Navigate(context.Background(), "https://fundix.pro/"))

	timings := Timings{PageLoad: 5 * time.Millisecond, Navigation: 5 * time.Millisecond, Animation: time.Millisecond, Scroll: time.Millisecond}
	resolver := locator.NewResolver(b, logger, locator.WithDefaultTimeout(200*time.Millisecond), locator.WithPollInterval(5*time.Millisecond, 20*time.Millisecond))
	waiter := NewWaiter(resolver, logger, timings)

	return &fixture{
		browser:  b,
		resolver: resolver,
		waiter:   waiter,
		scroller: NewScroller(b, waiter, logger),
		urls:     NewURLs(b),
		elements: NewElements(resolver),
	}
}

func TestScroller_HasChangedWithoutScroll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.scroller.Current(ctx)
	require.NoError(t, err)

	changed, err := f.scroller.HasChanged(ctx, before)
	require.NoError(t, err)
	assert.False(t, changed)
	changed, err = f.scroller.HasChanged(ctx, before)
	require.NoError(t, err)
	assert.False(t, changed, "sampling twice without scrolling never reports a change")
}

func TestScroller_ScrollToTargets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.scroller.ScrollTo(ctx, entities.ScrollToY(800), 0))
	changed, err := f.scroller.HasChanged(ctx, 0)
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, f.scroller.ScrollTo(ctx, entities.ScrollToTop(), time.Millisecond))
	y, _ := f.scroller.Current(ctx)
	assert.Equal(t, 0.0, y)
}

func TestScroller_VerifyScrollAfter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	link := f.resolver.Ref(locator.Contains("a", "Why us"))

	require.NoError(t, f.scroller.VerifyScrollAfter(ctx, link.Click, time.Millisecond))

	err := f.scroller.VerifyScrollAfter(ctx, func(context.Context) error { return nil }, time.Millisecond)
	require.Error(t, err)
	assert.True(t, entities.IsAssertion(err))
}

func TestScroller_VerifyScrollUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	logo := f.resolver.Ref(locator.CSS("a.logo"))

	require.NoError(t, f.scroller.VerifyScrollUnchanged(ctx, logo.Click, time.Millisecond))

	err := f.scroller.VerifyScrollUnchanged(ctx, func(ctx context.Context) error {
		return f.browser.ScrollTo(ctx, entities.ScrollToBottom())
	}, time.Millisecond)
	assert.True(t, entities.IsAssertion(err))
}

func TestScroller_ScrollIntoView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.scroller.ScrollIntoView(ctx, f.resolver.Ref(locator.CSS("#why-us")), 0))
	y, _ := f.scroller.Current(ctx)
	assert.Equal(t, 1800.0, y)

	err := f.scroller.ScrollIntoView(ctx, f.resolver.Ref(locator.CSS("#missing").WithTimeout(20*time.Millisecond)), 0)
	assert.True(t, entities.IsNotFound(err))
}

func TestWaiter_FixedHonoursContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := f.waiter.Fixed(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaiter_Until(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	calls := 0
	ok, err := f.waiter.Until(ctx, time.Second, func(context.Context) (bool, error) {
		calls++
		return calls >= 3, nil
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, calls)

	ok, err = f.waiter.Until(ctx, 100*time.Millisecond, func(context.Context) (bool, error) {
		return false, nil
	})
	require.NoError(t, err, "timing out is not an error")
	assert.False(t, ok)

	calls = 0
	ok, err = f.waiter.Until(ctx, 0, func(context.Context) (bool, error) {
		calls++
		return false, errors.New("not ready")
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, calls)
}

func TestWaiter_UntilSharesResolverBackoff(t *testing.T) {
	f := newFixture(t)

	var stamps []time.Time
	_, err := f.waiter.Until(context.Background(), 150*time.Millisecond, func(context.Context) (bool, error) {
		stamps = append(stamps, time.Now())
		return false, nil
	})
	require.NoError(t, err)
	require.Greater(t, len(stamps), 4, "the fixture resolver caps backoff at 20ms")
	for i := 1; i < len(stamps); i++ {
		assert.Less(t, stamps[i].Sub(stamps[i-1]), 100*time.Millisecond)
	}
}

func TestWaiter_PageLoad(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.waiter.PageLoad(context.Background(), 0))
	require.NoError(t, f.waiter.Navigation(context.Background()))
	require.NoError(t, f.waiter.Animation(context.Background()))
}

func TestURLs_Verifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.urls.VerifyURLEquals(ctx, "https://fundix.pro/"))
	require.NoError(t, f.urls.VerifyURLIncludes(ctx, "fundix.pro"))
	require.NoError(t, f.urls.VerifyURLOnDomain(ctx, "fundix.pro"))

	err := f.urls.VerifyURLIncludes(ctx, "/faq")
	assert.True(t, entities.IsAssertion(err))
	err = f.urls.VerifyURLEquals(ctx, "https://fundix.pro/blog")
	assert.True(t, entities.IsAssertion(err))
}

func TestOnDomain(t *testing.T) {
	assert.True(t, OnDomain("https://fundix.pro/", "fundix.pro"))
	assert.True(t, OnDomain("https://app.fundix.pro/register", "fundix.pro"))
	assert.False(t, OnDomain("https://fundix.pro.evil.com/", "fundix.pro"))
	assert.False(t, OnDomain("https://play.google.com/?q=fundix.pro", "fundix.pro"))
	assert.False(t, OnDomain("not a url", "fundix.pro"))
}

func TestElements_Presence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	exists, err := f.elements.ElementExists(ctx, "footer")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = f.elements.TextExists(ctx, "Amega Capital Ltd")
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := f.elements.Count(ctx, "header nav a")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.NoError(t, f.elements.VerifyBodyContains(ctx, "Saint Lucia", "All Rights Reserved"))
	assert.Error(t, f.elements.VerifyBodyContains(ctx, "Lorem ipsum"))
}

func TestElements_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.elements.VerifyTextVisible(ctx, regexp.MustCompile(`(?i)Your skills, our capital`)))

	err := f.elements.VerifyVisible(ctx, f.resolver.Ref(locator.CSS("#nope")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	banner := f.resolver.Ref(locator.CSS("#cookie-banner"))
	assert.Error(t, f.elements.VerifyNotVisible(ctx, banner))

	require.NoError(t, f.resolver.Ref(locator.Contains("button", "Okay")).Click(ctx))
	assert.NoError(t, f.elements.VerifyNotVisible(ctx, banner))

	err = f.elements.VerifyVisible(ctx, banner)
	require.True(t, entities.IsAssertion(err))
	assert.Contains(t, err.Error(), `hidden <div class="cookie-banner" id="cookie-banner">`)
	assert.Contains(t, err.Error(), "We use cookies")
}

func TestElements_OptionalAbsentIsVisible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.NoError(t, f.elements.VerifyVisible(ctx, f.resolver.Ref(locator.CSS("#nope").AsOptional())))

	require.NoError(t, f.resolver.Ref(locator.Contains("button", "Okay")).Click(ctx))
	err := f.elements.VerifyVisible(ctx, f.resolver.Ref(locator.CSS("#cookie-banner").AsOptional()))
	assert.True(t, entities.IsAssertion(err))
}

func TestElements_TextAndAttributes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	copyright := f.resolver.Ref(locator.CSS(".copyright"))
	require.NoError(t, f.elements.VerifyTextMatches(ctx, copyright, regexp.MustCompile(`\d{4}`)))

	href, err := f.elements.VerifyAttribute(ctx, f.resolver.Ref(locator.CSS("a.google-play")), "href")
	require.NoError(t, err)
	assert.Contains(t, href, "play.google.com")

	_, err = f.elements.VerifyAttribute(ctx, f.resolver.Ref(locator.CSS("a.logo")), "target")
	assert.True(t, entities.IsAssertion(err))
}
