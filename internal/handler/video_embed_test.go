package handler

import (
	"strings"
	"testing"
)

func TestRenderMarkdownVideoEmbeds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		markdown string
		wantSrc  string
	}{
		{
			name:     "youtube watch",
			markdown: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=1m30s",
			wantSrc:  "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ?rel=0&amp;start=90",
		},
		{
			name:     "youtu.be short link",
			markdown: "<https://youtu.be/dQw4w9WgXcQ>",
			wantSrc:  "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ?rel=0",
		},
		{
			name:     "vimeo",
			markdown: "https://vimeo.com/76979871",
			wantSrc:  "https://player.vimeo.com/video/76979871",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html, err := renderMarkdown("Intro\n\n" + tt.markdown + "\n\nOutro")
			if err != nil {
				t.Fatalf("render markdown: %v", err)
			}
			if !strings.Contains(html, `src="`+tt.wantSrc+`"`) {
				t.Fatalf("expected iframe src %q, got: %s", tt.wantSrc, html)
			}
			if !strings.Contains(html, "<p>Outro</p>") {
				t.Fatalf("expected surrounding markdown to render, got: %s", html)
			}
		})
	}
}

func TestRenderMarkdownLeavesNonStandaloneLinks(t *testing.T) {
	cases := []string{
		"Watch https://www.youtube.com/watch?v=dQw4w9WgXcQ today",
		"```\nhttps://www.youtube.com/watch?v=dQw4w9WgXcQ\n```",
		"- https://vimeo.com/76979871",
		"> https://vimeo.com/76979871",
		"https://example.com/video/1",
	}
	for _, markdown := range cases {
		html, err := renderMarkdown(markdown)
		if err != nil {
			t.Fatalf("render markdown: %v", err)
		}
		if strings.Contains(html, "<iframe") {
			t.Errorf("expected no player for %q, got: %s", markdown, html)
		}
	}
}

func TestSanitizerRejectsForeignIframes(t *testing.T) {
	html, err := renderMarkdown(`<iframe src="https://evil.example.com/embed/x"></iframe>`)
	if err != nil {
		t.Fatalf("render markdown: %v", err)
	}
	if strings.Contains(html, "evil.example.com") {
		t.Fatalf("expected foreign iframe src to be stripped, got: %s", html)
	}
}
