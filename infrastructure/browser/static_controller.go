package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

var (
	errNoPage = errors.New("no page loaded")
	errStale  = errors.New("element is detached from the document")
)

// StaticController is a browser without a layout or JavaScript engine. It loads
// documents over HTTP and emulates the few page behaviours the suite relies on
// through data attributes:
//
//	data-dismiss="<selector>"     click hides the target; a data-consent-cookie on the target is stored
//	data-scroll-to="<selector>"   click scrolls to the target without changing the URL
//	data-y="<px>"                 vertical document offset of an element and its descendants
//	data-min-width="<px>"         element is hidden below this viewport width
//	data-max-width="<px>"         element is hidden above this viewport width
//	body data-height="<px>"       document height
//
// Anchors with a fragment scroll to the target id; other anchors navigate unless
// they open a new tab.
type StaticController struct {
	client *http.Client
	logger *logrus.Logger

	mu       sync.Mutex
	doc      *goquery.Document
	current  *url.URL
	history  []string
	pos      int
	scrollY  float64
	viewport entities.Viewport
	focused  *html.Node
	cookies  map[string]string
}

// NewStaticController - creates new static browser controller
func NewStaticController(client *http.Client, logger *logrus.Logger) *StaticController {
	if client == nil {
		client = http.DefaultClient
	}
	return &StaticController{
		client:   client,
		logger:   logger,
		pos:      -1,
		viewport: entities.Viewport{Width: 1920, Height: 1080},
		cookies:  make(map[string]string),
	}
}

// Navigate - navigates to the specified URL
func (s *StaticController) Navigate(ctx context.Context, rawURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigateLocked(ctx, rawURL, true)
}

// Reload - reloads the current document
func (s *StaticController) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return errNoPage
	}
	return s.loadLocked(ctx, s.current)
}

// Back - goes one history entry back
func (s *StaticController) Back(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos <= 0 {
		return nil
	}
	s.pos--
	return s.historyLocked(ctx)
}

// Forward - goes one history entry forward
func (s *StaticController) Forward(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.history)-1 {
		return nil
	}
	s.pos++
	return s.historyLocked(ctx)
}

func (s *StaticController) CurrentURL(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return "about:blank", nil
	}
	return s.current.String(), nil
}

func (s *StaticController) Title(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return "", errNoPage
	}
	return strings.TrimSpace(s.doc.Find("title").First().Text()), nil
}

// Query - returns all elements matching selector in document order
func (s *StaticController) Query(ctx context.Context, selector string) ([]interfaces.Node, error) {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, errNoPage
	}

	sel := s.doc.FindMatcher(matcher)
	nodes := make([]interfaces.Node, 0, sel.Length())
	for _, n := range sel.Nodes {
		nodes = append(nodes, &staticNode{owner: s, node: n})
	}
	return nodes, nil
}

func (s *StaticController) BodyText(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return "", errNoPage
	}
	return s.doc.Find("body").Text(), nil
}

func (s *StaticController) ScrollOffset(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollY, nil
}

// ScrollTo - moves the viewport, clamped to the document height
func (s *StaticController) ScrollTo(ctx context.Context, target entities.ScrollTarget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return errNoPage
	}
	switch target.Kind {
	case entities.ScrollTop:
		s.scrollY = 0
	case entities.ScrollBottom:
		s.scrollY = s.maxScrollLocked()
	case entities.ScrollAbsolute:
		s.scrollY = s.clampLocked(target.Y)
	default:
		return fmt.Errorf("unknown scroll target %q", target.Kind)
	}
	return nil
}

func (s *StaticController) SetViewport(ctx context.Context, vp entities.Viewport) error {
	if vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", vp.Width, vp.Height)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = vp
	s.scrollY = s.clampLocked(s.scrollY)
	return nil
}

func (s *StaticController) ReadyState(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return "loading", nil
	}
	return "complete", nil
}

func (s *StaticController) ClearCookies(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies = make(map[string]string)
	return nil
}

// PressKey - supports Tab focus traversal and Enter activation
func (s *StaticController) PressKey(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return errNoPage
	}

	switch key {
	case "Tab":
		focusable := s.doc.Find(`a[href], button:not([disabled]), input:not([disabled]), select, textarea, [tabindex]`)
		var candidates []*html.Node
		for _, n := range focusable.Nodes {
			if s.visibleLocked(n) {
				candidates = append(candidates, n)
			}
		}
		if len(candidates) == 0 {
			return nil
		}
		next := 0
		for i, n := range candidates {
			if n == s.focused {
				next = (i + 1) % len(candidates)
				break
			}
		}
		s.focused = candidates[next]
	case "Enter":
		if s.focused != nil {
			return s.clickLocked(ctx, s.focused)
		}
	}
	return nil
}

// Close - releases nothing; present for interface parity
func (s *StaticController) Close() error {
	return nil
}

// Cookie returns a stored consent cookie, for inspection in tests
func (s *StaticController) Cookie(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cookies[name]
	return v, ok
}

func (s *StaticController) navigateLocked(ctx context.Context, rawURL string, push bool) error {
	target, err := s.resolveLocked(rawURL)
	if err != nil {
		return err
	}

	// same-document fragment navigation does not refetch
	if s.doc != nil && s.current != nil && sameDocument(s.current, target) && target.Fragment != "" {
		s.current = target
		s.scrollToFragmentLocked(target.Fragment)
		if push {
			s.pushLocked(target)
		}
		return nil
	}

	if err := s.loadLocked(ctx, target); err != nil {
		return err
	}
	if push {
		s.pushLocked(target)
	}
	return nil
}

func (s *StaticController) historyLocked(ctx context.Context) error {
	target, err := url.Parse(s.history[s.pos])
	if err != nil {
		return err
	}
	return s.loadLocked(ctx, target)
}

func (s *StaticController) pushLocked(u *url.URL) {
	if s.pos < len(s.history)-1 {
		s.history = s.history[:s.pos+1]
	}
	s.history = append(s.history, u.String())
	s.pos = len(s.history) - 1
}

func (s *StaticController) loadLocked(ctx context.Context, target *url.URL) error {
	fetchURL := *target
	fetchURL.Fragment = ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", fetchURL.String(), err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", fetchURL.String(), err)
	}

	if resp.Request != nil && resp.Request.URL != nil && resp.Request.URL.String() != fetchURL.String() {
		redirected := *resp.Request.URL
		redirected.Fragment = target.Fragment
		target = &redirected
	}

	s.logger.Debugf("static: loaded %s (%d)", target.String(), resp.StatusCode)

	s.doc = doc
	s.current = target
	s.scrollY = 0
	s.focused = nil

	// elements whose consent was already given are not rendered again
	doc.Find("[data-consent-cookie]").Each(func(_ int, sel *goquery.Selection) {
		if _, ok := s.cookies[sel.AttrOr("data-consent-cookie", "")]; ok {
			sel.Remove()
		}
	})

	if target.Fragment != "" {
		s.scrollToFragmentLocked(target.Fragment)
	}
	return nil
}

func (s *StaticController) resolveLocked(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if s.current != nil {
		u = s.current.ResolveReference(u)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("cannot navigate to relative url %q without a current page", rawURL)
	}
	return u, nil
}

func (s *StaticController) clickLocked(ctx context.Context, n *html.Node) error {
	if !s.attachedLocked(n) {
		return errStale
	}
	if hasAttr(n, "disabled") {
		return nil
	}
	s.focused = n

	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if target, ok := attr(cur, "data-dismiss"); ok {
			s.dismissLocked(target)
			return nil
		}
		if target, ok := attr(cur, "data-scroll-to"); ok {
			if t := s.doc.Find(target).First(); t.Length() > 0 {
				s.scrollY = s.clampLocked(offsetOf(t.Get(0)))
			}
			return nil
		}
		if cur.Data == "a" {
			return s.followLocked(ctx, cur)
		}
	}
	return nil
}

func (s *StaticController) followLocked(ctx context.Context, a *html.Node) error {
	href, ok := attr(a, "href")
	if !ok {
		return nil
	}
	href = strings.TrimSpace(href)
	if t, _ := attr(a, "target"); t == "_blank" {
		s.logger.Debugf("static: %s opens a new tab, ignoring", href)
		return nil
	}

	switch {
	case href == "" || href == "#":
		s.scrollY = 0
		return nil
	case strings.HasPrefix(href, "javascript:"), strings.HasPrefix(href, "mailto:"), strings.HasPrefix(href, "tel:"):
		return nil
	}
	return s.navigateLocked(ctx, href, true)
}

func (s *StaticController) dismissLocked(selector string) {
	s.doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		sel.SetAttr("hidden", "hidden")
		if name, ok := sel.Attr("data-consent-cookie"); ok {
			s.cookies[name] = "accepted"
		}
	})
}

func (s *StaticController) scrollToFragmentLocked(fragment string) {
	for _, n := range s.doc.Find("[id]").Nodes {
		if id, _ := attr(n, "id"); id == fragment {
			s.scrollY = s.clampLocked(offsetOf(n))
			return
		}
	}
}

func (s *StaticController) maxScrollLocked() float64 {
	height, _ := strconv.ParseFloat(s.doc.Find("body").AttrOr("data-height", "0"), 64)
	max := height - float64(s.viewport.Height)
	if max < 0 {
		return 0
	}
	return max
}

func (s *StaticController) clampLocked(y float64) float64 {
	if y < 0 {
		return 0
	}
	if max := s.maxScrollLocked(); y > max {
		return max
	}
	return y
}

func (s *StaticController) attachedLocked(n *html.Node) bool {
	if s.doc == nil || len(s.doc.Nodes) == 0 {
		return false
	}
	root := n
	for root.Parent != nil {
		root = root.Parent
	}
	return root == s.doc.Nodes[0]
}

func (s *StaticController) visibleLocked(n *html.Node) bool {
	if !s.attachedLocked(n) {
		return false
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if hasAttr(cur, "hidden") {
			return false
		}
		if t, _ := attr(cur, "type"); cur.Data == "input" && t == "hidden" {
			return false
		}
		style := inlineStyle(cur)
		if style["display"] == "none" || style["visibility"] == "hidden" {
			return false
		}
		if v, ok := attr(cur, "data-min-width"); ok {
			if w, err := strconv.Atoi(v); err == nil && s.viewport.Width < w {
				return false
			}
		}
		if v, ok := attr(cur, "data-max-width"); ok {
			if w, err := strconv.Atoi(v); err == nil && s.viewport.Width > w {
				return false
			}
		}
	}
	return true
}

func sameDocument(a, b *url.URL) bool {
	ac, bc := *a, *b
	ac.Fragment, bc.Fragment = "", ""
	return ac.String() == bc.String()
}

// offsetOf returns the nearest data-y of n or its ancestors
func offsetOf(n *html.Node) float64 {
	for cur := n; cur != nil; cur = cur.Parent {
		if v, ok := attr(cur, "data-y"); ok {
			if y, err := strconv.ParseFloat(v, 64); err == nil {
				return y
			}
		}
	}
	return 0
}

func attr(n *html.Node, name string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, name string) bool {
	_, ok := attr(n, name)
	return ok
}

func inlineStyle(n *html.Node) map[string]string {
	out := make(map[string]string)
	raw, ok := attr(n, "style")
	if !ok {
		return out
	}
	for _, decl := range strings.Split(raw, ";") {
		k, v, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return out
}

// staticNode is a Node backed by an x/net/html node of a StaticController document
type staticNode struct {
	owner *StaticController
	node  *html.Node
}

func (n *staticNode) Tag(ctx context.Context) (string, error) {
	return n.node.Data, nil
}

func (n *staticNode) Text(ctx context.Context) (string, error) {
	n.owner.mu.Lock()
	defer n.owner.mu.Unlock()
	return goquery.NewDocumentFromNode(n.node).Text(), nil
}

func (n *staticNode) Attribute(ctx context.Context, name string) (string, bool, error) {
	n.owner.mu.Lock()
	defer n.owner.mu.Unlock()
	v, ok := attr(n.node, name)
	return v, ok, nil
}

func (n *staticNode) Visible(ctx context.Context) (bool, error) {
	n.owner.mu.Lock()
	defer n.owner.mu.Unlock()
	return n.owner.visibleLocked(n.node), nil
}

func (n *staticNode) Click(ctx context.Context) error {
	n.owner.mu.Lock()
	defer n.owner.mu.Unlock()
	if !n.owner.visibleLocked(n.node) {
		if !n.owner.attachedLocked(n.node) {
			return errStale
		}
		return fmt.Errorf("element <%s> is not visible", n.node.Data)
	}
	return n.owner.clickLocked(ctx, n.node)
}

func (n *staticNode) Hover(ctx context.Context) error {
	n.owner.mu.Lock()
	defer n.owner.mu.Unlock()
	if !n.owner.attachedLocked(n.node) {
		return errStale
	}
	return nil
}

func (n *staticNode) Focus(ctx context.Context) error {
	n.owner.mu.Lock()
	defer n.owner.mu.Unlock()
	if !n.owner.attachedLocked(n.node) {
		return errStale
	}
	n.owner.focused = n.node
	return nil
}

func (n *staticNode) ScrollIntoView(ctx context.Context) error {
	n.owner.mu.Lock()
	defer n.owner.mu.Unlock()
	if !n.owner.attachedLocked(n.node) {
		return errStale
	}
	n.owner.scrollY = n.owner.clampLocked(offsetOf(n.node))
	return nil
}

func (n *staticNode) Focused(ctx context.Context) (bool, error) {
	n.owner.mu.Lock()
	defer n.owner.mu.Unlock()
	return n.owner.focused == n.node, nil
}

// CSS - returns the inline value of property, inherited where CSS inherits it,
// or a user-agent style default
func (n *staticNode) CSS(ctx context.Context, property string) (string, error) {
	n.owner.mu.Lock()
	defer n.owner.mu.Unlock()

	property = strings.ToLower(property)
	if v, ok := inlineStyle(n.node)[property]; ok {
		return v, nil
	}
	if inheritedProperty(property) {
		for cur := n.node.Parent; cur != nil; cur = cur.Parent {
			if v, ok := inlineStyle(cur)[property]; ok {
				return v, nil
			}
		}
	}
	return defaultStyle(n.node, property), nil
}

func (n *staticNode) Contains(ctx context.Context, other interfaces.Node) (bool, error) {
	o, ok := other.(*staticNode)
	if !ok {
		return false, fmt.Errorf("cannot compare static node with %T", other)
	}
	for cur := o.node.Parent; cur != nil; cur = cur.Parent {
		if cur == n.node {
			return true, nil
		}
	}
	return false, nil
}

func inheritedProperty(p string) bool {
	switch p {
	case "color", "font-size", "font-family", "cursor", "visibility":
		return true
	}
	return false
}

func defaultStyle(n *html.Node, property string) string {
	tag := n.Data
	switch property {
	case "display":
		switch tag {
		case "a", "span", "img", "button", "strong", "em", "b", "i", "svg":
			return "inline"
		case "li":
			return "list-item"
		case "table":
			return "table"
		default:
			return "block"
		}
	case "cursor":
		if tag == "button" || (tag == "a" && hasAttr(n, "href")) {
			return "pointer"
		}
		return "auto"
	case "font-size":
		switch tag {
		case "h1":
			return "32px"
		case "h2":
			return "24px"
		case "h3":
			return "18.72px"
		default:
			return "16px"
		}
	case "color":
		return "rgb(0, 0, 0)"
	case "background-color":
		return "rgba(0, 0, 0, 0)"
	case "text-decoration":
		if tag == "a" {
			return "underline solid rgb(0, 0, 0)"
		}
		return "none solid rgb(0, 0, 0)"
	case "padding", "margin":
		return "0px"
	}
	return ""
}

var _ interfaces.Browser = (*StaticController)(nil)
