package handler

import (
	"fmt"
	htmlstd "html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const (
	videoPlatformYouTube = "youtube"
	videoPlatformVimeo   = "vimeo"
)

var (
	bareURLLinePattern = regexp.MustCompile(`^<?(https?://\S+?)>?$`)
	embedSrcPattern    = regexp.MustCompile(`^https://(?:www\.youtube-nocookie\.com/embed/|player\.vimeo\.com/video/)[A-Za-z0-9_-]+(?:\?[A-Za-z0-9=&_-]*)?$`)
	youTubeIDPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{6,20}$`)
	youTubeTimePattern = regexp.MustCompile(`(?i)(\d+)(h|m|s)`)
	orderedListPattern = regexp.MustCompile(`^\d+\.\s+`)
)

// buildContentSanitizer 在 UGC 策略基础上仅放行白名单播放器的 iframe。
func buildContentSanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class", "data-video-platform").OnElements("div")
	policy.AllowAttrs("src").Matching(embedSrcPattern).OnElements("iframe")
	policy.AllowAttrs("title", "allow", "allowfullscreen", "loading", "referrerpolicy").OnElements("iframe")
	return policy
}

type videoEmbed struct {
	Platform string
	EmbedURL string
}

// expandVideoLinks replaces lines that hold nothing but a YouTube or Vimeo
// link with a player. Code blocks, quotes and list items are left alone.
func expandVideoLinks(markdown string) string {
	if !strings.Contains(markdown, "http") {
		return markdown
	}

	lines := strings.Split(markdown, "\n")
	fence := ""
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if marker := fenceMarker(trimmed); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case strings.HasPrefix(trimmed, fence):
				fence = ""
			}
			continue
		}
		if fence != "" || !embeddableLine(line, trimmed) {
			continue
		}

		match := bareURLLinePattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}
		if embed, ok := parseVideoURL(match[1]); ok {
			lines[i] = embed.html()
		}
	}
	return strings.Join(lines, "\n")
}

func fenceMarker(line string) string {
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(line, marker) {
			return marker
		}
	}
	return ""
}

func embeddableLine(raw, trimmed string) bool {
	if trimmed == "" || strings.HasPrefix(raw, "    ") || strings.HasPrefix(raw, "\t") {
		return false
	}
	for _, prefix := range []string{">", "- ", "* ", "+ "} {
		if strings.HasPrefix(trimmed, prefix) {
			return false
		}
	}
	return !orderedListPattern.MatchString(trimmed)
}

func parseVideoURL(raw string) (videoEmbed, bool) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return videoEmbed{}, false
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case host == "youtu.be" || isHostOrSubdomain(host, "youtube.com"):
		return parseYouTube(u, host)
	case isHostOrSubdomain(host, "vimeo.com"):
		return parseVimeo(u)
	}
	return videoEmbed{}, false
}

func parseYouTube(u *url.URL, host string) (videoEmbed, bool) {
	path := strings.Trim(u.Path, "/")
	var id string
	if host == "youtu.be" {
		id = path
	} else if path == "watch" {
		id = u.Query().Get("v")
	} else {
		for _, prefix := range []string{"shorts/", "embed/", "live/"} {
			if strings.HasPrefix(path, prefix) {
				id = strings.TrimPrefix(path, prefix)
				break
			}
		}
	}
	id, _, _ = strings.Cut(id, "/")
	if !youTubeIDPattern.MatchString(id) {
		return videoEmbed{}, false
	}

	params := url.Values{}
	params.Set("rel", "0")
	if start := youTubeStart(u.Query()); start > 0 {
		params.Set("start", strconv.Itoa(start))
	}
	return videoEmbed{
		Platform: videoPlatformYouTube,
		EmbedURL: "https://www.youtube-nocookie.com/embed/" + id + "?" + params.Encode(),
	}, true
}

func youTubeStart(query url.Values) int {
	value := query.Get("start")
	if value == "" {
		value = query.Get("t")
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return seconds
	}

	total := 0
	for _, match := range youTubeTimePattern.FindAllStringSubmatch(value, -1) {
		n, _ := strconv.Atoi(match[1])
		switch strings.ToLower(match[2]) {
		case "h":
			total += n * 3600
		case "m":
			total += n * 60
		case "s":
			total += n
		}
	}
	return total
}

func parseVimeo(u *url.URL) (videoEmbed, bool) {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) > 0 && segments[0] == "video" {
		segments = segments[1:]
	}
	if len(segments) == 0 || !onlyDigits(segments[0]) {
		return videoEmbed{}, false
	}
	return videoEmbed{
		Platform: videoPlatformVimeo,
		EmbedURL: "https://player.vimeo.com/video/" + segments[0],
	}, true
}

func (e videoEmbed) html() string {
	title := "YouTube video player"
	if e.Platform == videoPlatformVimeo {
		title = "Vimeo video player"
	}
	return fmt.Sprintf(
		`<div class="video-embed" data-video-platform="%s"><iframe src="%s" title="%s" loading="lazy" allow="encrypted-media; picture-in-picture; fullscreen" allowfullscreen referrerpolicy="strict-origin-when-cross-origin"></iframe></div>`,
		e.Platform,
		htmlstd.EscapeString(e.EmbedURL),
		title,
	)
}

func onlyDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value != ""
}

func isHostOrSubdomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
