package entities

import (
	"fmt"
	"sort"
	"strings"
)

// PageElement is a snapshot of a located element, used for reporting
type PageElement struct {
	Type       string            `json:"type" yaml:"type"`         // a, button, div, etc.
	Selector   string            `json:"selector" yaml:"selector"` // locator that produced it
	Text       string            `json:"text" yaml:"text"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	IsVisible  bool              `json:"is_visible" yaml:"is_visible"`
}

// String renders the element as a start tag followed by its text
func (e PageElement) String() string {
	names := make([]string, 0, len(e.Attributes))
	for name := range e.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("<" + e.Type)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%q", name, e.Attributes[name])
	}
	b.WriteString(">")
	if e.Text != "" {
		fmt.Fprintf(&b, " %q", e.Text)
	}
	return b.String()
}

// ScrollTargetKind tells ScrollTo where to go
type ScrollTargetKind string

const (
	ScrollTop      ScrollTargetKind = "top"
	ScrollBottom   ScrollTargetKind = "bottom"
	ScrollAbsolute ScrollTargetKind = "absolute"
)

// ScrollTarget is a viewport destination
type ScrollTarget struct {
	Kind ScrollTargetKind `json:"kind"`
	Y    float64          `json:"y,omitempty"`
}

// ScrollToTop is the top of the document
func ScrollToTop() ScrollTarget { return ScrollTarget{Kind: ScrollTop} }

// ScrollToBottom is the end of the document
func ScrollToBottom() ScrollTarget { return ScrollTarget{Kind: ScrollBottom} }

// ScrollToY is an absolute vertical offset in pixels
func ScrollToY(y float64) ScrollTarget { return ScrollTarget{Kind: ScrollAbsolute, Y: y} }

// Viewport is a browser window size in CSS pixels
type Viewport struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}
