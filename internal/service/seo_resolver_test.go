package service

import (
	"context"
	"encoding/json"
	"testing"

	"gorm.io/gorm"
)

func newTestResolver(gdb *gorm.DB, baseURL string) *SeoResolver {
	return NewSeoResolver(NewPageService(gdb), NewPageSeoService(gdb), NewSeoSettingsService(gdb), baseURL)
}

func TestResolvePageSeoUnknownSlugReturnsNullFields(t *testing.T) {
	resolver := newTestResolver(setupServiceTestDB(t), "https://example.com")

	resolved, err := resolver.ResolvePageSeo(context.Background(), "Nope")
	if err != nil {
		t.Fatalf("ResolvePageSeo returned error: %v", err)
	}

	payload, err := json.Marshal(resolved)
	if err != nil {
		t.Fatalf("marshal resolved: %v", err)
	}
	expected := `{"slug":"nope","metaTitle":null,"metaDescription":null,"canonicalUrl":null,"ogTitle":null,"ogDescription":null,"ogImageUrl":null,"robots":null}`
	if string(payload) != expected {
		t.Fatalf("unexpected payload:\n got %s\nwant %s", payload, expected)
	}
}

func TestResolvePageSeoAdminIsNoIndex(t *testing.T) {
	gdb := setupServiceTestDB(t)
	pages := NewPageService(gdb)
	overrides := NewPageSeoService(gdb)
	resolver := newTestResolver(gdb, "https://example.com")
	ctx := context.Background()

	page, err := pages.Upsert(ctx, "admin", PageInput{PageType: strPtr("ADMIN"), IsIndexable: boolPtr(true)})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if _, err := overrides.UpsertByPageID(ctx, page.ID, PageSeoInput{Robots: strPtr("index,follow")}); err != nil {
		t.Fatalf("UpsertByPageID returned error: %v", err)
	}

	resolved, err := resolver.ResolvePageSeo(ctx, "admin")
	if err != nil {
		t.Fatalf("ResolvePageSeo returned error: %v", err)
	}
	if deref(resolved.Robots) != RobotsNoIndexNoFollow {
		t.Fatalf("expected noindex,nofollow, got %s", deref(resolved.Robots))
	}
	if resolved.IsIndexable == nil || *resolved.IsIndexable {
		t.Fatal("expected admin page to be reported non-indexable")
	}
}

func TestResolvePageSeoComposesOverrideAndDefaults(t *testing.T) {
	gdb := setupServiceTestDB(t)
	pages := NewPageService(gdb)
	overrides := NewPageSeoService(gdb)
	settings := NewSeoSettingsService(gdb)
	resolver := newTestResolver(gdb, "https://example.com/")
	ctx := context.Background()

	page, err := pages.Upsert(ctx, "about", PageInput{})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if _, err := settings.UpsertDefaults(ctx, SeoSettingsInput{
		SiteName:      strPtr("Realwork"),
		TitleTemplate: strPtr("%s | Realwork"),
	}); err != nil {
		t.Fatalf("UpsertDefaults returned error: %v", err)
	}
	if _, err := overrides.UpsertByPageID(ctx, page.ID, PageSeoInput{
		MetaTitle: strPtr("About"),
		Robots:    strPtr("index,nofollow"),
	}); err != nil {
		t.Fatalf("UpsertByPageID returned error: %v", err)
	}

	resolved, err := resolver.ResolvePageSeo(ctx, "about")
	if err != nil {
		t.Fatalf("ResolvePageSeo returned error: %v", err)
	}
	if deref(resolved.MetaTitle) != "About" {
		t.Fatalf("expected meta title verbatim, got %s", deref(resolved.MetaTitle))
	}
	if deref(resolved.Title) != "About | Realwork" {
		t.Fatalf("expected templated title, got %s", deref(resolved.Title))
	}
	if deref(resolved.CanonicalURL) != "https://example.com/about" {
		t.Fatalf("unexpected canonical %s", deref(resolved.CanonicalURL))
	}
	if deref(resolved.Robots) != RobotsIndexNoFollow {
		t.Fatalf("expected override robots, got %s", deref(resolved.Robots))
	}
	if resolved.MetaDescription != nil {
		t.Fatalf("expected unset description to stay null, got %s", deref(resolved.MetaDescription))
	}

	if _, err := overrides.UpsertByPageID(ctx, page.ID, PageSeoInput{MetaTitle: strPtr("About Us")}); err != nil {
		t.Fatalf("second UpsertByPageID returned error: %v", err)
	}
	resolved, err = resolver.ResolvePageSeo(ctx, "about")
	if err != nil {
		t.Fatalf("ResolvePageSeo returned error: %v", err)
	}
	if deref(resolved.MetaTitle) != "About Us" {
		t.Fatalf("expected overwritten title, got %s", deref(resolved.MetaTitle))
	}
	if deref(resolved.Robots) != RobotsIndexFollow {
		t.Fatalf("expected robots default after overwrite, got %s", deref(resolved.Robots))
	}
}

func TestResolvePageSeoOverrideCanonicalWins(t *testing.T) {
	gdb := setupServiceTestDB(t)
	pages := NewPageService(gdb)
	overrides := NewPageSeoService(gdb)
	resolver := newTestResolver(gdb, "https://example.com")
	ctx := context.Background()

	page, err := pages.Upsert(ctx, "products", PageInput{})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if _, err := overrides.UpsertByPageID(ctx, page.ID, PageSeoInput{CanonicalURL: strPtr("https://products.example.com")}); err != nil {
		t.Fatalf("UpsertByPageID returned error: %v", err)
	}

	resolved, err := resolver.ResolvePageSeo(ctx, "products")
	if err != nil {
		t.Fatalf("ResolvePageSeo returned error: %v", err)
	}
	if deref(resolved.CanonicalURL) != "https://products.example.com" {
		t.Fatalf("expected override canonical, got %s", deref(resolved.CanonicalURL))
	}
}

func TestResolveByPageNameAcceptsRoutes(t *testing.T) {
	gdb := setupServiceTestDB(t)
	pages := NewPageService(gdb)
	resolver := newTestResolver(gdb, "https://example.com/")
	ctx := context.Background()

	if err := pages.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults returned error: %v", err)
	}
	if _, err := pages.Upsert(ctx, "team", PageInput{RoutePath: strPtr("/about-us")}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	home, err := resolver.ResolveByPageName(ctx, "")
	if err != nil {
		t.Fatalf("ResolveByPageName returned error: %v", err)
	}
	if home.Slug != "home" || deref(home.CanonicalURL) != "https://example.com" {
		t.Fatalf("unexpected home resolution: slug=%s canonical=%s", home.Slug, deref(home.CanonicalURL))
	}

	team, err := resolver.ResolveByPageName(ctx, "/about-us")
	if err != nil {
		t.Fatalf("ResolveByPageName returned error: %v", err)
	}
	if team.Slug != "team" {
		t.Fatalf("expected route lookup to find team, got %s", team.Slug)
	}

	missing, err := resolver.ResolveByPageName(ctx, "ghost")
	if err != nil {
		t.Fatalf("ResolveByPageName returned error: %v", err)
	}
	if missing.Slug != "ghost" || missing.Robots != nil {
		t.Fatalf("expected null record for unknown page, got %+v", missing)
	}
}

func TestCanonicalURL(t *testing.T) {
	cases := []struct {
		base, path, expected string
	}{
		{"https://example.com/", "/", "https://example.com"},
		{"https://example.com", "", "https://example.com"},
		{"https://example.com/", "/about", "https://example.com/about"},
		{"https://example.com", "about", "https://example.com/about"},
	}
	for _, tc := range cases {
		if got := CanonicalURL(tc.base, tc.path); got != tc.expected {
			t.Errorf("CanonicalURL(%q, %q) = %q, want %q", tc.base, tc.path, got, tc.expected)
		}
	}
}

func TestApplyTitleTemplate(t *testing.T) {
	cases := []struct {
		template, title, site, expected string
	}{
		{"%s | Realwork", "About", "Realwork", "About | Realwork"},
		{"%s", "About", "Realwork", "About"},
		{"Realwork", "About", "Realwork", "About"},
		{"%s | Realwork", "", "Realwork", "Realwork"},
		{"%s", "", "", ""},
	}
	for _, tc := range cases {
		if got := ApplyTitleTemplate(tc.template, tc.title, tc.site); got != tc.expected {
			t.Errorf("ApplyTitleTemplate(%q, %q, %q) = %q, want %q", tc.template, tc.title, tc.site, got, tc.expected)
		}
	}
}
