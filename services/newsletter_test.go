package services

import (
	"strings"
	"testing"

	"wellness-dashboard-system/models"
)

func TestRenderNewsletterHTML(t *testing.T) {
	issue := &models.Newsletter{
		Subject:  "September Stack Guide",
		BodyHTML: "<p>New creatine flavors are here.</p>",
	}

	html := RenderNewsletterHTML(issue, "Alex")

	for _, want := range []string{
		"September Stack Guide",
		"Hi Alex,",
		"<p>New creatine flavors are here.</p>",
		"you subscribed to our newsletter",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}

func TestRenderNewsletterHTMLNameFallback(t *testing.T) {
	issue := &models.Newsletter{Subject: "Hello", BodyHTML: "<p>Body</p>"}

	html := RenderNewsletterHTML(issue, "")
	if !strings.Contains(html, "Hi there,") {
		t.Error("empty recipient name should fall back to \"there\"")
	}
}
