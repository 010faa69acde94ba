package browser

import (
	"context"
	"fmt"
	"os"
	"sync"

	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"
	"fundix_e2e/infrastructure/config"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// rodKeys maps key names to CDP keys
var rodKeys = map[string]input.Key{
	"Tab":       input.Tab,
	"Enter":     input.Enter,
	"Escape":    input.Escape,
	"Space":     input.Space,
	"End":       input.End,
	"Home":      input.Home,
	"PageDown":  input.PageDown,
	"PageUp":    input.PageUp,
	"ArrowDown": input.ArrowDown,
	"ArrowUp":   input.ArrowUp,
}

// RodController drives Chrome over CDP through rod
type RodController struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	mu       sync.Mutex
	timeouts config.Timeouts
	logger   *logrus.Logger
}

// NewRodController - launches headless Chrome and opens a blank page
func NewRodController(cfg config.Config, logger *logrus.Logger) (*RodController, error) {
	userDataDir, err := newProfileDir()
	if err != nil {
		return nil, err
	}
	// Cleanup removes the profile directory once Chrome exits
	l := launcher.New().
		UserDataDir(userDataDir).
		Headless(cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage")
	if cfg.ChromePath != "" {
		l = l.Bin(cfg.ChromePath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		os.RemoveAll(userDataDir)
		return nil, fmt.Errorf("failed to launch Chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to Chrome: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	c := &RodController{
		launcher: l,
		browser:  browser,
		page:     page,
		timeouts: cfg.Timeouts,
		logger:   logger,
	}
	if err := c.SetViewport(context.Background(), cfg.Viewport()); err != nil {
		_ = c.Close()
		return nil, err
	}

	logger.Infof("rod chrome started at %s (headless=%v)", controlURL, cfg.Headless)
	return c, nil
}

// pageFor binds the current page to ctx
func (r *RodController) pageFor(ctx context.Context) (*rod.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page.Context(ctx), nil
}

// Navigate - opens url and waits for the load event
func (r *RodController) Navigate(ctx context.Context, url string) error {
	page, err := r.pageFor(ctx)
	if err != nil {
		return err
	}
	page = page.Timeout(r.timeouts.Navigation)
	defer page.CancelTimeout()

	r.logger.Debugf("navigating to %s", url)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return page.WaitLoad()
}

func (r *RodController) Reload(ctx context.Context) error {
	page, err := r.pageFor(ctx)
	if err != nil {
		return err
	}
	page = page.Timeout(r.timeouts.Navigation)
	defer page.CancelTimeout()

	if err := page.Reload(); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (r *RodController) Back(ctx context.Context) error {
	page, err := r.pageFor(ctx)
	if err != nil {
		return err
	}
	return page.NavigateBack()
}

func (r *RodController) Forward(ctx context.Context) error {
	page, err := r.pageFor(ctx)
	if err != nil {
		return err
	}
	return page.NavigateForward()
}

func (r *RodController) CurrentURL(ctx context.Context) (string, error) {
	page, err := r.pageFor(ctx)
	if err != nil {
		return "", err
	}
	info, err := page.Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (r *RodController) Title(ctx context.Context) (string, error) {
	page, err := r.pageFor(ctx)
	if err != nil {
		return "", err
	}
	info, err := page.Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

// Query - returns the elements matching selector without waiting
func (r *RodController) Query(ctx context.Context, selector string) ([]interfaces.Node, error) {
	page, err := r.pageFor(ctx)
	if err != nil {
		return nil, err
	}
	elements, err := page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", selector, err)
	}
	nodes := make([]interfaces.Node, len(elements))
	for i, el := range elements {
		nodes[i] = &rodNode{element: el}
	}
	return nodes, nil
}

// QueryText - queries selector and reads every text content in one eval
func (r *RodController) QueryText(ctx context.Context, selector string) ([]interfaces.Node, []string, error) {
	nodes, err := r.Query(ctx, selector)
	if err != nil {
		return nil, nil, err
	}
	res, err := r.eval(ctx, jsQueryText, selector)
	if err != nil {
		return nil, nil, err
	}
	items := res.Value.Arr()
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Str()
	}
	return alignTexts(nodes, texts)
}

func (r *RodController) BodyText(ctx context.Context) (string, error) {
	res, err := r.eval(ctx, jsBodyText)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (r *RodController) ScrollOffset(ctx context.Context) (float64, error) {
	res, err := r.eval(ctx, jsScrollY)
	if err != nil {
		return 0, err
	}
	return res.Value.Num(), nil
}

func (r *RodController) ScrollTo(ctx context.Context, target entities.ScrollTarget) error {
	var max float64
	if target.Kind == entities.ScrollBottom {
		res, err := r.eval(ctx, jsScrollMax)
		if err != nil {
			return err
		}
		max = res.Value.Num()
	}
	_, err := r.eval(ctx, jsScrollToY, scrollY(target, max))
	return err
}

func (r *RodController) SetViewport(ctx context.Context, vp entities.Viewport) error {
	page, err := r.pageFor(ctx)
	if err != nil {
		return err
	}
	if vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", vp.Width, vp.Height)
	}
	return page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: 1,
		Mobile:            vp.Width < 768,
	})
}

func (r *RodController) ReadyState(ctx context.Context) (string, error) {
	res, err := r.eval(ctx, jsReadyState)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// ClearCookies - nil clears every cookie of the browser context
func (r *RodController) ClearCookies(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.browser.Context(ctx).SetCookies(nil)
}

func (r *RodController) PressKey(ctx context.Context, key string) error {
	page, err := r.pageFor(ctx)
	if err != nil {
		return err
	}
	k, ok := rodKeys[key]
	if !ok {
		if len([]rune(key)) != 1 {
			return fmt.Errorf("unsupported key %q", key)
		}
		k = input.Key([]rune(key)[0])
	}
	return page.Keyboard.Type(k)
}

func (r *RodController) eval(ctx context.Context, js string, args ...interface{}) (*proto.RuntimeRemoteObject, error) {
	page, err := r.pageFor(ctx)
	if err != nil {
		return nil, err
	}
	res, err := page.Eval(js, args...)
	if err != nil {
		return nil, fmt.Errorf("eval failed: %w", err)
	}
	return res, nil
}

// Close cleans up browser resources, killing the launched process
func (r *RodController) Close() error {
	var closeErr error
	if r.browser != nil {
		closeErr = ignoreClosed(r.browser.Close())
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return closeErr
}

type rodNode struct {
	element *rod.Element
}

// eval calls an element script with the element as first argument
func (n *rodNode) eval(ctx context.Context, js string, args ...interface{}) (*proto.RuntimeRemoteObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return n.element.Context(ctx).Eval(`function(...args) { return (`+js+`)(this, ...args) }`, args...)
}

func (n *rodNode) bound(ctx context.Context) (*rod.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return n.element.Context(ctx), nil
}

func (n *rodNode) Tag(ctx context.Context) (string, error) {
	res, err := n.eval(ctx, jsTag)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (n *rodNode) Text(ctx context.Context) (string, error) {
	res, err := n.eval(ctx, jsText)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (n *rodNode) Attribute(ctx context.Context, name string) (string, bool, error) {
	el, err := n.bound(ctx)
	if err != nil {
		return "", false, err
	}
	value, err := el.Attribute(name)
	if err != nil {
		return "", false, err
	}
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

func (n *rodNode) Visible(ctx context.Context) (bool, error) {
	el, err := n.bound(ctx)
	if err != nil {
		return false, err
	}
	return el.Visible()
}

func (n *rodNode) Click(ctx context.Context) error {
	el, err := n.bound(ctx)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (n *rodNode) Hover(ctx context.Context) error {
	el, err := n.bound(ctx)
	if err != nil {
		return err
	}
	return el.Hover()
}

func (n *rodNode) Focus(ctx context.Context) error {
	el, err := n.bound(ctx)
	if err != nil {
		return err
	}
	return el.Focus()
}

func (n *rodNode) ScrollIntoView(ctx context.Context) error {
	el, err := n.bound(ctx)
	if err != nil {
		return err
	}
	return el.ScrollIntoView()
}

func (n *rodNode) Focused(ctx context.Context) (bool, error) {
	res, err := n.eval(ctx, jsFocused)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

func (n *rodNode) CSS(ctx context.Context, property string) (string, error) {
	res, err := n.eval(ctx, jsCSS, property)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (n *rodNode) Contains(ctx context.Context, other interfaces.Node) (bool, error) {
	o, ok := other.(*rodNode)
	if !ok {
		return false, nil
	}
	res, err := n.eval(ctx, jsContains, o.element.Object)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

var (
	_ interfaces.Browser = (*RodController)(nil)
	_ interfaces.Node    = (*rodNode)(nil)
)

var (
	_ interfaces.Browser     = (*RodController)(nil)
	_ interfaces.TextQuerier = (*RodController)(nil)
)
