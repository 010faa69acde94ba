package security

import (
	"io"
	"testing"

	"fundix_e2e/domain/entities"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newPolicy() *LinkPolicy {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewLinkPolicy("fundix.pro", logger)
}

func TestLinkPolicy_Classify(t *testing.T) {
	p := newPolicy()
	base := "https://fundix.pro/"

	tests := []struct {
		href string
		kind entities.LinkKind
		url  string
	}{
		{"", entities.LinkEmpty, ""},
		{"   ", entities.LinkEmpty, ""},
		{"#faq", entities.LinkAnchor, "https://fundix.pro/#faq"},
		{"/legal", entities.LinkInternal, "https://fundix.pro/legal"},
		{"https://fundix.pro/blog", entities.LinkInternal, "https://fundix.pro/blog"},
		{"https://app.fundix.pro/register", entities.LinkInternal, "https://app.fundix.pro/register"},
		{"https://play.google.com/store/apps/details?id=pro.fundix", entities.LinkExternal, "https://play.google.com/store/apps/details?id=pro.fundix"},
		{"https://fundix.pro.example.com/", entities.LinkExternal, "https://fundix.pro.example.com/"},
		{"mailto:support@fundix.pro", entities.LinkMailto, ""},
		{"tel:+100000", entities.LinkMailto, ""},
		{"JavaScript:void(0)", entities.LinkJavaScript, ""},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			kind, abs := p.Classify(base, tt.href)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.url, abs)
		})
	}
}

func TestLinkPolicy_ShouldCheckStatus(t *testing.T) {
	p := newPolicy()

	assert.True(t, p.ShouldCheckStatus(entities.Link{Kind: entities.LinkInternal, URL: "https://fundix.pro/legal"}))
	assert.False(t, p.ShouldCheckStatus(entities.Link{Kind: entities.LinkInternal, URL: "https://fundix.pro/logout"}))
	assert.False(t, p.ShouldCheckStatus(entities.Link{Kind: entities.LinkExternal, URL: "https://t.me/fundix"}))
	assert.False(t, p.ShouldCheckStatus(entities.Link{Kind: entities.LinkMailto}))
	assert.False(t, p.ShouldCheckStatus(entities.Link{Kind: entities.LinkJavaScript}))
	assert.False(t, p.ShouldCheckStatus(entities.Link{Kind: entities.LinkAnchor, URL: "https://fundix.pro/#faq"}))
}

func TestLinkPolicy_RiskLevel(t *testing.T) {
	p := newPolicy()

	assert.Equal(t, "high", p.RiskLevel(entities.Link{Kind: entities.LinkJavaScript}))
	assert.Equal(t, "medium", p.RiskLevel(entities.Link{Kind: entities.LinkExternal}))
	assert.Equal(t, "low", p.RiskLevel(entities.Link{Kind: entities.LinkExternal, Target: "_blank"}))
	assert.Equal(t, "low", p.RiskLevel(entities.Link{Kind: entities.LinkInternal}))
}
