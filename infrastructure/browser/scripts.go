package browser

import (
	"fmt"
	"strings"

	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"
)

// Element scripts take the element as first argument
const (
	jsTag       = `(e) => e.tagName.toLowerCase()`
	jsText      = `(e) => e.textContent || ""`
	jsAttribute = `(e, name) => e.getAttribute(name)`
	jsFocused   = `(e) => document.activeElement === e`
	jsCSS       = `(e, prop) => window.getComputedStyle(e).getPropertyValue(prop)`
	jsContains  = `(e, other) => e !== other && e.contains(other)`
	jsFocus     = `(e) => { e.focus(); return true }`
	jsVisible   = `(e) => {
		if (!e.isConnected) return false;
		const s = window.getComputedStyle(e);
		if (s.display === "none" || s.visibility === "hidden" || s.opacity === "0") return false;
		const r = e.getBoundingClientRect();
		return r.width > 0 && r.height > 0;
	}`
)

// Page scripts
const (
	jsScrollY    = `() => window.scrollY`
	jsReadyState = `() => document.readyState`
	jsBodyText   = `() => document.body ? document.body.textContent : ""`
	jsScrollToY  = `(y) => { window.scrollTo({top: y, behavior: "instant"}); return window.scrollY }`
	jsScrollMax  = `() => Math.max(document.body.scrollHeight, document.documentElement.scrollHeight)`
	jsQueryText  = `(sel) => Array.from(document.querySelectorAll(sel), (e) => e.textContent || "")`
)

// scrollY returns the absolute offset for target, with max as the document height
func scrollY(target entities.ScrollTarget, max float64) float64 {
	switch target.Kind {
	case entities.ScrollTop:
		return 0
	case entities.ScrollBottom:
		return max
	default:
		return target.Y
	}
}

// toFloat converts a number decoded from a driver response
func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected number type %T", v)
	}
}

// toAttribute converts a getAttribute result, nil meaning absent
func toAttribute(v interface{}) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v), true
	}
	return s, true
}

// ignoreClosed drops errors caused by an already closed browser
func ignoreClosed(err error) error {
	if err == nil {
		return nil
	}
	errStr := err.Error()
	if strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed") {
		return nil
	}
	return err
}

// toStrings converts a decoded array of strings, nil meaning empty
func toStrings(v interface{}) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected text list type %T", v)
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i], _ = item.(string)
	}
	return out, nil
}

// alignTexts pairs the texts read by jsQueryText with the nodes of the same
// selector. A document that changed between both reads is an error.
func alignTexts(nodes []interfaces.Node, texts []string) ([]interfaces.Node, []string, error) {
	if len(nodes) != len(texts) {
		return nil, nil, fmt.Errorf("document changed while reading texts: %d elements, %d texts", len(nodes), len(texts))
	}
	return nodes, texts, nil
}
