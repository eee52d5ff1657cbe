package catalog

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var introMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		gmhtml.WithHardWraps(),
	),
)

var introPolicy = newIntroPolicy()

func newIntroPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// RenderIntro converts the header intro from Markdown to sanitized HTML.
// Blank input yields an empty string.
func RenderIntro(markdown string) (string, error) {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := introMarkdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render intro: %w", err)
	}
	return strings.TrimSpace(introPolicy.Sanitize(buf.String())), nil
}
