package consent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"fundix_e2e/application/helpers"
	"fundix_e2e/application/locator"
	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Signature is the banner text that identifies the consent prompt
var Signature = regexp.MustCompile(`(?i)We use cookies`)

// controlSelector lists the elements that can act as an accept control
const controlSelector = `button, [role="button"]`

var (
	exactPhrases     = []string{"okay", "accept", "agree", "got it", "ok"}
	substringPhrases = []string{"okay", "accept"}
)

// MatchesAcceptPhrase reports whether a control label accepts the cookie prompt.
// Matching is case-insensitive on the trimmed label.
func MatchesAcceptPhrase(text string) bool {
	label := strings.ToLower(locator.NormalizeText(text))
	if label == "" {
		return false
	}
	for _, p := range exactPhrases {
		if label == p {
			return true
		}
	}
	for _, p := range substringPhrases {
		if strings.Contains(label, p) {
			return true
		}
	}
	return false
}

// Controller observes and dismisses the cookie consent banner
type Controller struct {
	resolver *locator.Resolver
	waiter   *helpers.Waiter
	logger   *logrus.Logger
}

// NewController - creates new consent controller
func NewController(resolver *locator.Resolver, waiter *helpers.Waiter, logger *logrus.Logger) *Controller {
	return &Controller{resolver: resolver, waiter: waiter, logger: logger}
}

// BannerLocator finds the deepest element carrying the banner text. The banner
// is optional since a visitor who consented never sees it.
func BannerLocator() entities.Locator {
	return locator.DocumentText(Signature).WithName("cookie banner").AsOptional()
}

// Banner is a lazy reference to the banner text
func (c *Controller) Banner() *locator.Ref {
	return c.resolver.Ref(BannerLocator())
}

// State samples the DOM once. It reports ConsentPresent when any element
// carrying the banner text is visible, ConsentAbsent otherwise.
func (c *Controller) State(ctx context.Context) (entities.ConsentState, error) {
	nodes, err := c.resolver.ResolveNow(ctx, BannerLocator())
	if err != nil {
		return entities.ConsentUnknown, fmt.Errorf("failed to sample consent state: %w", err)
	}
	for _, n := range nodes {
		visible, err := n.Visible(ctx)
		if err != nil {
			continue
		}
		if visible {
			return entities.ConsentPresent, nil
		}
	}
	return entities.ConsentAbsent, nil
}

// Dismiss clicks the first visible accept control if the banner is present.
// It never fails for a missing banner or control: with no banner it reports
// ConsentAbsent, with no control ConsentUnknown. Calling it again is a no-op.
func (c *Controller) Dismiss(ctx context.Context) (entities.ConsentState, error) {
	log := c.logger.WithField("component", "consent")

	state, err := c.State(ctx)
	if err != nil {
		return entities.ConsentUnknown, err
	}
	if state == entities.ConsentAbsent {
		log.Debug("no cookie banner")
		return state, nil
	}

	control, err := c.findControl(ctx)
	if err != nil {
		return entities.ConsentUnknown, err
	}
	if control == nil {
		log.Info("cookie banner has no recognizable accept control")
		return entities.ConsentUnknown, nil
	}

	if err := control.Click(ctx); err != nil {
		if ctx.Err() != nil {
			return entities.ConsentUnknown, ctx.Err()
		}
		log.Warnf("failed to click accept control: %v", err)
		return entities.ConsentUnknown, nil
	}
	if err := c.waiter.Animation(ctx); err != nil {
		return entities.ConsentUnknown, err
	}

	state, err = c.State(ctx)
	if err != nil {
		return entities.ConsentUnknown, err
	}
	log.Infof("cookie banner dismissed, state=%s", state)
	return state, nil
}

// VerifyDismissed fails if the banner text is still visible
func (c *Controller) VerifyDismissed(ctx context.Context) error {
	hidden, err := c.Banner().WaitHidden(ctx)
	if err != nil {
		return err
	}
	if !hidden {
		return entities.Assertf("consent-dismissed", "cookie banner", "hidden or absent", "visible")
	}
	return nil
}

func (c *Controller) findControl(ctx context.Context) (interfaces.Node, error) {
	nodes, err := c.resolver.Browser().Query(ctx, controlSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to query accept controls: %w", err)
	}
	for _, n := range nodes {
		text, err := n.Text(ctx)
		if err != nil || !MatchesAcceptPhrase(text) {
			continue
		}
		visible, err := n.Visible(ctx)
		if err != nil || !visible {
			continue
		}
		return n, nil
	}
	return nil, nil
}
