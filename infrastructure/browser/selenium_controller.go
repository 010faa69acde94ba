package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"
	"fundix_e2e/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

const chromeDriverPort = 9515

// seleniumKeys maps key names to WebDriver key codes
var seleniumKeys = map[string]string{
	"Tab":       selenium.TabKey,
	"Enter":     selenium.EnterKey,
	"Escape":    selenium.EscapeKey,
	"Space":     selenium.SpaceKey,
	"End":       selenium.EndKey,
	"Home":      selenium.HomeKey,
	"PageDown":  selenium.PageDownKey,
	"PageUp":    selenium.PageUpKey,
	"ArrowDown": selenium.DownArrowKey,
	"ArrowUp":   selenium.UpArrowKey,
}

type SeleniumController struct {
	wd          selenium.WebDriver
	service     *selenium.Service
	logger      *logrus.Logger
	userDataDir string
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// NewSeleniumController - creates new Selenium browser controller instance.
// Every controller gets a throwaway profile so runs start without cookies.
func NewSeleniumController(cfg config.Config, logger *logrus.Logger) (*SeleniumController, error) {
	driverPath, err := findChromeDriver(cfg.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	chromeBinary := findChromeBinary(cfg.ChromePath)
	if chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
	}

	userDataDir, err := newProfileDir()
	if err != nil {
		return nil, err
	}

	service, err := selenium.NewChromeDriverService(driverPath, chromeDriverPort)
	if err != nil {
		os.RemoveAll(userDataDir)
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	caps := selenium.Capabilities{
		"browserName": "chrome",
	}

	args := []string{
		"--disable-blink-features=AutomationControlled",
		"--disable-dev-shm-usage",
		"--no-sandbox",
		fmt.Sprintf("--user-data-dir=%s", userDataDir),
		fmt.Sprintf("--window-size=%d,%d", cfg.ViewportWidth, cfg.ViewportHeight),
	}
	if cfg.Headless {
		args = append(args, "--headless=new")
	}
	chromeCaps := chrome.Capabilities{Args: args}
	if chromeBinary != "" {
		chromeCaps.Path = chromeBinary
	}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", chromeDriverPort))
	if err != nil {
		service.Stop()
		os.RemoveAll(userDataDir)
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable. Error: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}
	if err := wd.SetPageLoadTimeout(cfg.Timeouts.Navigation); err != nil {
		logger.Warnf("failed to set page load timeout: %v", err)
	}

	return &SeleniumController{
		wd:          wd,
		service:     service,
		logger:      logger,
		userDataDir: userDataDir,
	}, nil
}

// Navigate - navigates browser to specified URL
func (s *SeleniumController) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Debugf("Navigating to: %s", url)
	if err := s.wd.Get(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (s *SeleniumController) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.wd.Refresh()
}

func (s *SeleniumController) Back(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.wd.Back()
}

func (s *SeleniumController) Forward(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.wd.Forward()
}

// CurrentURL - gets current page URL
func (s *SeleniumController) CurrentURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.wd.CurrentURL()
}

// Title - gets current page title
func (s *SeleniumController) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.wd.Title()
}

// Query - finds elements by CSS selector
func (s *SeleniumController) Query(ctx context.Context, selector string) ([]interfaces.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	elements, err := s.wd.FindElements(selenium.ByCSSSelector, selector)
	if err != nil {
		if strings.Contains(err.Error(), "no such element") {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query %q: %w", selector, err)
	}
	nodes := make([]interfaces.Node, len(elements))
	for i, el := range elements {
		nodes[i] = &seleniumNode{owner: s, element: el}
	}
	return nodes, nil
}

// QueryText - finds selector and reads every text content in one script call
func (s *SeleniumController) QueryText(ctx context.Context, selector string) ([]interfaces.Node, []string, error) {
	nodes, err := s.Query(ctx, selector)
	if err != nil {
		return nil, nil, err
	}
	v, err := s.script(ctx, jsQueryText, selector)
	if err != nil {
		return nil, nil, err
	}
	texts, err := toStrings(v)
	if err != nil {
		return nil, nil, err
	}
	return alignTexts(nodes, texts)
}

func (s *SeleniumController) BodyText(ctx context.Context) (string, error) {
	v, err := s.script(ctx, jsBodyText)
	if err != nil {
		return "", err
	}
	text, _ := v.(string)
	return text, nil
}

func (s *SeleniumController) ScrollOffset(ctx context.Context) (float64, error) {
	v, err := s.script(ctx, jsScrollY)
	if err != nil {
		return 0, err
	}
	return toFloat(v)
}

func (s *SeleniumController) ScrollTo(ctx context.Context, target entities.ScrollTarget) error {
	var max float64
	if target.Kind == entities.ScrollBottom {
		v, err := s.script(ctx, jsScrollMax)
		if err != nil {
			return err
		}
		if max, err = toFloat(v); err != nil {
			return err
		}
	}
	_, err := s.script(ctx, jsScrollToY, scrollY(target, max))
	return err
}

// SetViewport - resizes the window, the viewport follows minus browser chrome
func (s *SeleniumController) SetViewport(ctx context.Context, vp entities.Viewport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", vp.Width, vp.Height)
	}
	return s.wd.ResizeWindow("", vp.Width, vp.Height)
}

func (s *SeleniumController) ReadyState(ctx context.Context) (string, error) {
	v, err := s.script(ctx, jsReadyState)
	if err != nil {
		return "", err
	}
	state, _ := v.(string)
	return state, nil
}

func (s *SeleniumController) ClearCookies(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.wd.DeleteAllCookies()
}

// PressKey - sends key to the focused element
func (s *SeleniumController) PressKey(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	el, err := s.wd.ActiveElement()
	if err != nil {
		return fmt.Errorf("failed to get active element: %w", err)
	}
	code, ok := seleniumKeys[key]
	if !ok {
		code = key
	}
	return el.SendKeys(code)
}

// script runs a function expression, passing args as its parameters
func (s *SeleniumController) script(ctx context.Context, fn string, args ...interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if args == nil {
		args = []interface{}{}
	}
	v, err := s.wd.ExecuteScript("return ("+fn+").apply(null, arguments);", args)
	if err != nil {
		return nil, fmt.Errorf("script failed: %w", err)
	}
	return v, nil
}

// Close - closes browser and stops ChromeDriver service
func (s *SeleniumController) Close() error {
	var closeErr error
	if s.wd != nil {
		closeErr = ignoreClosed(s.wd.Quit())
		s.wd = nil
	}
	if s.service != nil {
		if err := s.service.Stop(); err != nil && closeErr == nil {
			closeErr = err
		}
		s.service = nil
	}
	if s.userDataDir != "" {
		os.RemoveAll(s.userDataDir)
		s.userDataDir = ""
	}
	return closeErr
}

type seleniumNode struct {
	owner   *SeleniumController
	element selenium.WebElement
}

func (n *seleniumNode) eval(ctx context.Context, fn string, args ...interface{}) (interface{}, error) {
	return n.owner.script(ctx, fn, append([]interface{}{n.element}, args...)...)
}

func (n *seleniumNode) Tag(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tag, err := n.element.TagName()
	return strings.ToLower(tag), err
}

func (n *seleniumNode) Text(ctx context.Context) (string, error) {
	v, err := n.eval(ctx, jsText)
	if err != nil {
		return "", err
	}
	text, _ := v.(string)
	return text, nil
}

func (n *seleniumNode) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := n.eval(ctx, jsAttribute, name)
	if err != nil {
		return "", false, err
	}
	value, ok := toAttribute(v)
	return value, ok, nil
}

func (n *seleniumNode) Visible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return n.element.IsDisplayed()
}

// Click - scrolls the element to the center first, as a plain click misses
// elements under a sticky header
func (n *seleniumNode) Click(ctx context.Context) error {
	if err := n.ScrollIntoView(ctx); err != nil {
		n.owner.logger.Warnf("Failed to scroll to element: %v", err)
	}
	return n.element.Click()
}

func (n *seleniumNode) Hover(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.element.MoveTo(0, 0)
}

func (n *seleniumNode) Focus(ctx context.Context) error {
	_, err := n.eval(ctx, jsFocus)
	return err
}

func (n *seleniumNode) ScrollIntoView(ctx context.Context) error {
	_, err := n.eval(ctx, `(e) => { e.scrollIntoView({block: "center"}); return true }`)
	return err
}

func (n *seleniumNode) Focused(ctx context.Context) (bool, error) {
	v, err := n.eval(ctx, jsFocused)
	if err != nil {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

func (n *seleniumNode) CSS(ctx context.Context, property string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return n.element.CSSProperty(property)
}

func (n *seleniumNode) Contains(ctx context.Context, other interfaces.Node) (bool, error) {
	o, ok := other.(*seleniumNode)
	if !ok {
		return false, nil
	}
	v, err := n.eval(ctx, jsContains, o.element)
	if err != nil {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

var (
	_ interfaces.Browser = (*SeleniumController)(nil)
	_ interfaces.Node    = (*seleniumNode)(nil)
)

var (
	_ interfaces.Browser     = (*SeleniumController)(nil)
	_ interfaces.TextQuerier = (*SeleniumController)(nil)
)
