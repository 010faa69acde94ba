package locator

import (
	"context"
	"errors"
	"sort"
	"time"

	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"

	"github.com/avast/retry-go/v4"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTimeout     = 10 * time.Second
	defaultMinInterval = 50 * time.Millisecond
	defaultMaxInterval = 500 * time.Millisecond
)

var errNoMatch = errors.New("no match yet")

// Resolver turns Locators into live nodes
type Resolver struct {
	browser        interfaces.Browser
	logger         *logrus.Logger
	defaultTimeout time.Duration
	minInterval    time.Duration
	maxInterval    time.Duration
}

// Option configures a Resolver
type Option func(*Resolver)

// WithDefaultTimeout sets the wait budget of locators that do not set their own
func WithDefaultTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.defaultTimeout = d
		}
	}
}

// WithPollInterval sets the backoff bounds between resolution attempts
func WithPollInterval(min, max time.Duration) Option {
	return func(r *Resolver) {
		if min > 0 {
			r.minInterval = min
		}
		if max >= r.minInterval {
			r.maxInterval = max
		}
	}
}

// NewResolver - creates new resolver over a browser
func NewResolver(browser interfaces.Browser, logger *logrus.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		browser:        browser,
		logger:         logger,
		defaultTimeout: DefaultTimeout,
		minInterval:    defaultMinInterval,
		maxInterval:    defaultMaxInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Browser returns the browser the resolver queries
func (r *Resolver) Browser() interfaces.Browser {
	return r.browser
}

// DefaultTimeout returns the wait budget used when a locator has none
func (r *Resolver) DefaultTimeout() time.Duration {
	return r.defaultTimeout
}

// Ref returns a lazily resolved reference to loc
func (r *Resolver) Ref(loc entities.Locator) *Ref {
	return &Ref{resolver: r, loc: loc}
}

// Resolve returns the nodes matched by the first rule, in precedence order, that
// matches anything. It polls until the locator's timeout expires and then returns
// an empty result. Only cancellation of ctx is reported as an error.
func (r *Resolver) Resolve(ctx context.Context, loc entities.Locator) ([]interfaces.Node, error) {
	rules := OrderedRules(loc.Rules)
	log := r.logger.WithField("locator", loc.String())

	var nodes []interfaces.Node
	found, err := r.Poll(ctx, r.timeoutFor(loc), func(ctx context.Context) (bool, error) {
		var err error
		nodes, err = r.resolveOnce(ctx, rules)
		if err != nil {
			log.Debugf("resolution attempt failed: %v", err)
			return false, err
		}
		return len(nodes) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		log.Debug("locator matched nothing")
		return nil, nil
	}
	return nodes, nil
}

// ResolveNow makes a single resolution attempt without waiting
func (r *Resolver) ResolveNow(ctx context.Context, loc entities.Locator) ([]interfaces.Node, error) {
	return r.resolveOnce(ctx, OrderedRules(loc.Rules))
}

// First returns the first node of a resolution, or nil if there is none
func (r *Resolver) First(ctx context.Context, loc entities.Locator) (interfaces.Node, error) {
	nodes, err := r.Resolve(ctx, loc)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[0], nil
}

// Poll calls cond with exponential backoff until it reports true or timeout elapses.
// cond receives a context bounded by timeout. A cond error counts as "not yet".
// Poll returns (false, nil) on timeout and an error only when ctx itself is done.
func (r *Resolver) Poll(ctx context.Context, timeout time.Duration, cond func(ctx context.Context) (bool, error)) (bool, error) {
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := retry.Do(
		func() error {
			ok, err := cond(pctx)
			if err != nil {
				if ctx.Err() != nil {
					return retry.Unrecoverable(ctx.Err())
				}
				return err
			}
			if !ok {
				return errNoMatch
			}
			return nil
		},
		retry.Context(pctx),
		retry.Attempts(0),
		retry.Delay(r.minInterval),
		retry.MaxDelay(r.maxInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err == nil {
		return true, nil
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return false, nil
}

func (r *Resolver) timeoutFor(loc entities.Locator) time.Duration {
	if loc.Timeout > 0 {
		return loc.Timeout
	}
	return r.defaultTimeout
}

func (r *Resolver) resolveOnce(ctx context.Context, rules []entities.Rule) ([]interfaces.Node, error) {
	var lastErr error
	for _, rule := range rules {
		strategy, err := StrategyFor(rule.Strategy)
		if err != nil {
			lastErr = err
			continue
		}
		nodes, err := strategy.Find(ctx, r.browser, rule)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		if len(nodes) > 0 {
			return nodes, nil
		}
	}
	return nil, lastErr
}

// OrderedRules returns rules stably sorted by strategy precedence
func OrderedRules(rules []entities.Rule) []entities.Rule {
	ordered := append([]entities.Rule(nil), rules...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Strategy.Precedence() < ordered[j].Strategy.Precedence()
	})
	return ordered
}
