package browser

import (
	"context"
	"fmt"
	"os"
	"sync"

	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"
	"fundix_e2e/infrastructure/config"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// PlaywrightController drives Chromium through playwright
type PlaywrightController struct {
	pw          *playwright.Playwright
	context     playwright.BrowserContext
	page        playwright.Page
	pages       []playwright.Page
	pagesMutex  sync.Mutex
	navTimeout  float64
	userDataDir string
	logger      *logrus.Logger
}

// NewPlaywrightController - creates new playwright browser controller. Chromium
// runs in a persistent context over a fresh profile directory.
func NewPlaywrightController(cfg config.Config, logger *logrus.Logger) (*PlaywrightController, error) {
	userDataDir, err := newProfileDir()
	if err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		os.RemoveAll(userDataDir)
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	options := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(cfg.Headless),
		Viewport: &playwright.Size{
			Width:  cfg.ViewportWidth,
			Height: cfg.ViewportHeight,
		},
		JavaScriptEnabled: playwright.Bool(true),
		IgnoreHttpsErrors: playwright.Bool(true),
		Args: []string{
			"--disable-popup-blocking",
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-infobars",
			"--disable-notifications",
		},
	}
	if cfg.ChromePath != "" {
		options.ExecutablePath = playwright.String(cfg.ChromePath)
	}

	bctx, err := pw.Chromium.LaunchPersistentContext(userDataDir, options)
	if err != nil {
		_ = pw.Stop()
		os.RemoveAll(userDataDir)
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	bctx.SetDefaultTimeout(float64(cfg.Timeouts.Element.Milliseconds()))

	var page playwright.Page
	if existing := bctx.Pages(); len(existing) > 0 {
		page = existing[0]
	} else if page, err = bctx.NewPage(); err != nil {
		_ = bctx.Close()
		_ = pw.Stop()
		os.RemoveAll(userDataDir)
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	c := &PlaywrightController{
		pw:          pw,
		context:     bctx,
		page:        page,
		pages:       []playwright.Page{page},
		navTimeout:  float64(cfg.Timeouts.Navigation.Milliseconds()),
		userDataDir: userDataDir,
		logger:      logger,
	}

	page.OnDialog(func(dialog playwright.Dialog) {
		_ = dialog.Accept()
	})

	// pages opened by target=_blank links are tracked but never become current,
	// the suite keeps asserting on the landing tab
	bctx.OnPage(func(newPage playwright.Page) {
		c.pagesMutex.Lock()
		defer c.pagesMutex.Unlock()
		c.pages = append(c.pages, newPage)

		newPage.OnClose(func(closedPage playwright.Page) {
			c.pagesMutex.Lock()
			defer c.pagesMutex.Unlock()
			for i, p := range c.pages {
				if p == closedPage {
					c.pages = append(c.pages[:i], c.pages[i+1:]...)
					break
				}
			}
		})
	})

	logger.Infof("playwright chromium started (headless=%v)", cfg.Headless)
	return c, nil
}

func (p *PlaywrightController) current(ctx context.Context) (playwright.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.pagesMutex.Lock()
	defer p.pagesMutex.Unlock()
	return p.page, nil
}

// Navigate - navigates to the specified URL
func (p *PlaywrightController) Navigate(ctx context.Context, url string) error {
	page, err := p.current(ctx)
	if err != nil {
		return err
	}
	p.logger.Debugf("navigating to %s", url)
	_, err = page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(p.navTimeout),
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Reload - reloads the current page
func (p *PlaywrightController) Reload(ctx context.Context) error {
	page, err := p.current(ctx)
	if err != nil {
		return err
	}
	_, err = page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(p.navTimeout),
	})
	return err
}

// Back - goes back in history
func (p *PlaywrightController) Back(ctx context.Context) error {
	page, err := p.current(ctx)
	if err != nil {
		return err
	}
	_, err = page.GoBack(playwright.PageGoBackOptions{Timeout: playwright.Float(p.navTimeout)})
	return err
}

// Forward - goes forward in history
func (p *PlaywrightController) Forward(ctx context.Context) error {
	page, err := p.current(ctx)
	if err != nil {
		return err
	}
	_, err = page.GoForward(playwright.PageGoForwardOptions{Timeout: playwright.Float(p.navTimeout)})
	return err
}

func (p *PlaywrightController) CurrentURL(ctx context.Context) (string, error) {
	page, err := p.current(ctx)
	if err != nil {
		return "", err
	}
	return page.URL(), nil
}

func (p *PlaywrightController) Title(ctx context.Context) (string, error) {
	page, err := p.current(ctx)
	if err != nil {
		return "", err
	}
	return page.Title()
}

// Query - returns element handles matching selector
func (p *PlaywrightController) Query(ctx context.Context, selector string) ([]interfaces.Node, error) {
	page, err := p.current(ctx)
	if err != nil {
		return nil, err
	}
	handles, err := page.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", selector, err)
	}
	nodes := make([]interfaces.Node, len(handles))
	for i, h := range handles {
		nodes[i] = &playwrightNode{handle: h}
	}
	return nodes, nil
}

// QueryText - queries selector and reads every text content in one evaluate
func (p *PlaywrightController) QueryText(ctx context.Context, selector string) ([]interfaces.Node, []string, error) {
	nodes, err := p.Query(ctx, selector)
	if err != nil {
		return nil, nil, err
	}
	v, err := p.evaluate(ctx, jsQueryText, selector)
	if err != nil {
		return nil, nil, err
	}
	texts, err := toStrings(v)
	if err != nil {
		return nil, nil, err
	}
	return alignTexts(nodes, texts)
}

func (p *PlaywrightController) BodyText(ctx context.Context) (string, error) {
	v, err := p.evaluate(ctx, jsBodyText)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

func (p *PlaywrightController) ScrollOffset(ctx context.Context) (float64, error) {
	v, err := p.evaluate(ctx, jsScrollY)
	if err != nil {
		return 0, err
	}
	return toFloat(v)
}

// ScrollTo - jumps to target without smooth scrolling
func (p *PlaywrightController) ScrollTo(ctx context.Context, target entities.ScrollTarget) error {
	var max float64
	if target.Kind == entities.ScrollBottom {
		v, err := p.evaluate(ctx, jsScrollMax)
		if err != nil {
			return err
		}
		if max, err = toFloat(v); err != nil {
			return err
		}
	}
	_, err := p.evaluate(ctx, jsScrollToY, scrollY(target, max))
	return err
}

func (p *PlaywrightController) SetViewport(ctx context.Context, vp entities.Viewport) error {
	page, err := p.current(ctx)
	if err != nil {
		return err
	}
	if vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", vp.Width, vp.Height)
	}
	return page.SetViewportSize(vp.Width, vp.Height)
}

func (p *PlaywrightController) ReadyState(ctx context.Context) (string, error) {
	v, err := p.evaluate(ctx, jsReadyState)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// ClearCookies clears the context cookies and closes the tabs that target=_blank
// links opened since the last reset
func (p *PlaywrightController) ClearCookies(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.closePopups()
	return p.context.ClearCookies()
}

// closePopups closes every tracked page except the landing tab
func (p *PlaywrightController) closePopups() {
	p.pagesMutex.Lock()
	popups := make([]playwright.Page, 0, len(p.pages))
	for _, page := range p.pages {
		if page != p.page {
			popups = append(popups, page)
		}
	}
	p.pagesMutex.Unlock()

	for _, page := range popups {
		if err := ignoreClosed(page.Close()); err != nil {
			p.logger.Debugf("failed to close tab %s: %v", page.URL(), err)
		}
	}
	if len(popups) > 0 {
		p.logger.Debugf("closed %d tabs", len(popups))
	}
}

func (p *PlaywrightController) PressKey(ctx context.Context, key string) error {
	page, err := p.current(ctx)
	if err != nil {
		return err
	}
	return page.Keyboard().Press(key)
}

func (p *PlaywrightController) evaluate(ctx context.Context, js string, arg ...interface{}) (interface{}, error) {
	page, err := p.current(ctx)
	if err != nil {
		return nil, err
	}
	v, err := page.Evaluate(js, arg...)
	if err != nil {
		return nil, fmt.Errorf("evaluate failed: %w", err)
	}
	return v, nil
}

// Close - closes the context, the browser and the driver. Errors of an
// already closed browser are ignored.
func (p *PlaywrightController) Close() error {
	var closeErr error
	if p.context != nil {
		if err := ignoreClosed(p.context.Close()); err != nil {
			closeErr = fmt.Errorf("failed to close context: %w", err)
		}
		p.context = nil
	}
	if p.pw != nil {
		if err := p.pw.Stop(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("failed to stop playwright: %w", err)
		}
		p.pw = nil
	}
	if p.userDataDir != "" {
		os.RemoveAll(p.userDataDir)
		p.userDataDir = ""
	}
	return closeErr
}

type playwrightNode struct {
	handle playwright.ElementHandle
}

func (n *playwrightNode) eval(ctx context.Context, js string, arg ...interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return n.handle.Evaluate(js, arg...)
}

func (n *playwrightNode) Tag(ctx context.Context) (string, error) {
	v, err := n.eval(ctx, jsTag)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

func (n *playwrightNode) Text(ctx context.Context) (string, error) {
	v, err := n.eval(ctx, jsText)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

func (n *playwrightNode) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := n.eval(ctx, jsAttribute, name)
	if err != nil {
		return "", false, err
	}
	value, ok := toAttribute(v)
	return value, ok, nil
}

func (n *playwrightNode) Visible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return n.handle.IsVisible()
}

func (n *playwrightNode) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.handle.Click()
}

func (n *playwrightNode) Hover(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.handle.Hover()
}

func (n *playwrightNode) Focus(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.handle.Focus()
}

func (n *playwrightNode) ScrollIntoView(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.handle.ScrollIntoViewIfNeeded()
}

func (n *playwrightNode) Focused(ctx context.Context) (bool, error) {
	v, err := n.eval(ctx, jsFocused)
	if err != nil {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

func (n *playwrightNode) CSS(ctx context.Context, property string) (string, error) {
	v, err := n.eval(ctx, jsCSS, property)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

func (n *playwrightNode) Contains(ctx context.Context, other interfaces.Node) (bool, error) {
	o, ok := other.(*playwrightNode)
	if !ok {
		return false, nil
	}
	v, err := n.eval(ctx, jsContains, o.handle)
	if err != nil {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

var (
	_ interfaces.Browser = (*PlaywrightController)(nil)
	_ interfaces.Node    = (*playwrightNode)(nil)
)

var (
	_ interfaces.Browser     = (*PlaywrightController)(nil)
	_ interfaces.TextQuerier = (*PlaywrightController)(nil)
)
