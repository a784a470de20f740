package service

import "testing"

func TestSectionKindFor(t *testing.T) {
	cases := map[string]SectionKind{
		"hero":    SectionKindHero,
		" Story ": SectionKindStory,
		"CULTURE": SectionKindCulture,
		"stats":   SectionKindStats,
		"faq":     SectionKindGeneric,
	}
	for key, expected := range cases {
		if got := SectionKindFor(key); got != expected {
			t.Errorf("SectionKindFor(%q) = %s, want %s", key, got, expected)
		}
	}
}

func TestDecodeSectionBody(t *testing.T) {
	body, err := DecodeSectionBody("hero", []byte(`{"headline":"Build","ctaHref":"/contact","extra":true}`))
	if err != nil {
		t.Fatalf("DecodeSectionBody returned error: %v", err)
	}
	hero, ok := body.(HeroSection)
	if !ok || hero.Headline != "Build" || hero.CtaHref != "/contact" {
		t.Fatalf("unexpected hero body %#v", body)
	}

	body, err = DecodeSectionBody("faq", []byte(` [1,2] `))
	if err != nil {
		t.Fatalf("DecodeSectionBody returned error: %v", err)
	}
	generic, ok := body.(GenericSection)
	if !ok || string(generic.Raw) != "[1,2]" {
		t.Fatalf("unexpected generic body %#v", body)
	}

	if body, err := DecodeSectionBody("hero", []byte("null")); err != nil || body != nil {
		t.Fatalf("expected nil body for null content, got %#v, %v", body, err)
	}
}

func TestDecodeSectionBodyRejectsInvalid(t *testing.T) {
	cases := []struct {
		key string
		raw string
	}{
		{key: "faq", raw: `{not json`},
		{key: "hero", raw: `"just a string"`},
		{key: "stats", raw: `{"items":"many"}`},
		{key: "story", raw: `[1]`},
	}
	for _, tc := range cases {
		if _, err := DecodeSectionBody(tc.key, []byte(tc.raw)); !IsValidation(err) {
			t.Errorf("DecodeSectionBody(%q, %s) expected validation error, got %v", tc.key, tc.raw, err)
		}
	}
}
