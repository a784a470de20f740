package service

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SectionKind identifies the shape of a section's JSON content.
type SectionKind string

const (
	SectionKindHero    SectionKind = "hero"
	SectionKindStory   SectionKind = "story"
	SectionKindCulture SectionKind = "culture"
	SectionKindStats   SectionKind = "stats"
	SectionKindGeneric SectionKind = "generic"
)

// SectionBody is the decoded content of a section.
type SectionBody interface {
	Kind() SectionKind
}

// HeroSection is the banner at the top of a page.
type HeroSection struct {
	Headline           string `json:"headline"`
	Subheadline        string `json:"subheadline,omitempty"`
	CtaLabel           string `json:"ctaLabel,omitempty"`
	CtaHref            string `json:"ctaHref,omitempty"`
	BackgroundImageURL string `json:"backgroundImageUrl,omitempty"`
}

func (HeroSection) Kind() SectionKind { return SectionKindHero }

// StoryMilestone is one entry on the company timeline.
type StoryMilestone struct {
	Year        string `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// StorySection tells the company story.
type StorySection struct {
	Paragraphs []string         `json:"paragraphs"`
	ImageURL   string           `json:"imageUrl,omitempty"`
	Milestones []StoryMilestone `json:"milestones,omitempty"`
}

func (StorySection) Kind() SectionKind { return SectionKindStory }

// CultureValue is a single value card.
type CultureValue struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// CultureSection lists company values.
type CultureSection struct {
	Values []CultureValue `json:"values"`
}

func (CultureSection) Kind() SectionKind { return SectionKindCulture }

// StatItem is a headline number.
type StatItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// StatsSection shows headline numbers.
type StatsSection struct {
	Items []StatItem `json:"items"`
}

func (StatsSection) Kind() SectionKind { return SectionKindStats }

// GenericSection keeps content for section keys without a known shape.
type GenericSection struct {
	Raw json.RawMessage
}

func (GenericSection) Kind() SectionKind { return SectionKindGeneric }

// MarshalJSON writes the raw content unchanged.
func (g GenericSection) MarshalJSON() ([]byte, error) {
	if len(g.Raw) == 0 {
		return []byte("null"), nil
	}
	return g.Raw, nil
}

// SectionKindFor maps a section key to its content kind.
func SectionKindFor(sectionKey string) SectionKind {
	switch SectionKind(strings.ToLower(strings.TrimSpace(sectionKey))) {
	case SectionKindHero:
		return SectionKindHero
	case SectionKindStory:
		return SectionKindStory
	case SectionKindCulture:
		return SectionKindCulture
	case SectionKindStats:
		return SectionKindStats
	}
	return SectionKindGeneric
}

// DecodeSectionBody decodes raw content according to the section key. Empty
// or null content decodes to nil. Unknown object fields are tolerated.
func DecodeSectionBody(sectionKey string, raw []byte) (SectionBody, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		return nil, invalid("content", "content must be valid JSON")
	}

	var body SectionBody
	switch SectionKindFor(sectionKey) {
	case SectionKindHero:
		var hero HeroSection
		if err := json.Unmarshal(trimmed, &hero); err != nil {
			return nil, invalid("content", "hero content must be an object with a headline")
		}
		if strings.TrimSpace(hero.Headline) == "" {
			return nil, invalid("content", "hero content must be an object with a headline")
		}
		body = hero
	case SectionKindStory:
		var story StorySection
		if err := json.Unmarshal(trimmed, &story); err != nil {
			return nil, invalid("content", "story content must be an object with paragraphs")
		}
		body = story
	case SectionKindCulture:
		var culture CultureSection
		if err := json.Unmarshal(trimmed, &culture); err != nil {
			return nil, invalid("content", "culture content must be an object with values")
		}
		body = culture
	case SectionKindStats:
		var stats StatsSection
		if err := json.Unmarshal(trimmed, &stats); err != nil {
			return nil, invalid("content", "stats content must be an object with items")
		}
		body = stats
	default:
		body = GenericSection{Raw: json.RawMessage(append([]byte(nil), trimmed...))}
	}
	return body, nil
}
