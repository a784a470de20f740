package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/realwork/site/internal/db"
	"gorm.io/datatypes"
)

func TestSectionUpsertIsIdempotent(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSectionService(gdb)
	ctx := context.Background()

	input := SectionInput{
		PageName:   "about",
		SectionKey: "hero",
		Title:      strPtr("Hello"),
		Content:    json.RawMessage(`{"headline":"We build","ctaLabel":"Talk to us"}`),
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.Upsert(ctx, input); err != nil {
			t.Fatalf("Upsert #%d returned error: %v", i+1, err)
		}
	}

	var count int64
	gdb.Table("section_contents").Count(&count)
	if count != 1 {
		t.Fatalf("expected one section row, got %d", count)
	}

	section, err := svc.Get(ctx, "about", "hero")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if section == nil || deref(section.Title) != "Hello" {
		t.Fatalf("unexpected section %+v", section)
	}
	if !section.IsActive {
		t.Fatal("expected section to default to active")
	}
}

func TestSectionUpsertOverwritesPreviousValues(t *testing.T) {
	svc := NewSectionService(setupServiceTestDB(t))
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, SectionInput{
		PageName:    "about",
		SectionKey:  "hero",
		Title:       strPtr("Old"),
		Subtitle:    strPtr("Old subtitle"),
		VisionTitle: strPtr("Vision"),
		Content:     json.RawMessage(`{"headline":"Old"}`),
		Order:       intPtr(3),
	}); err != nil {
		t.Fatalf("first Upsert returned error: %v", err)
	}

	section, err := svc.Upsert(ctx, SectionInput{
		PageName:   "about",
		SectionKey: "hero",
		Title:      strPtr("New"),
		IsActive:   boolPtr(false),
	})
	if err != nil {
		t.Fatalf("second Upsert returned error: %v", err)
	}

	if deref(section.Title) != "New" {
		t.Fatalf("expected title New, got %s", deref(section.Title))
	}
	if section.Subtitle != nil || section.VisionTitle != nil {
		t.Fatalf("expected omitted fields to be cleared, got subtitle=%s vision=%s", deref(section.Subtitle), deref(section.VisionTitle))
	}
	if string(section.Content) != "null" {
		t.Fatalf("expected null content, got %s", section.Content)
	}
	if section.Order != 0 {
		t.Fatalf("expected order reset to 0, got %d", section.Order)
	}
	if section.IsActive {
		t.Fatal("expected section to be inactive")
	}
}

func TestSectionUpsertRequiresKeys(t *testing.T) {
	svc := NewSectionService(setupServiceTestDB(t))

	_, err := svc.Upsert(context.Background(), SectionInput{SectionKey: "hero"})
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Field != "pageName" {
		t.Fatalf("expected pageName validation error, got %v", err)
	}

	_, err = svc.Upsert(context.Background(), SectionInput{PageName: "about", SectionKey: " "})
	if !errors.As(err, &validation) || validation.Field != "sectionKey" {
		t.Fatalf("expected sectionKey validation error, got %v", err)
	}
}

func TestSectionUpsertRejectsMalformedContent(t *testing.T) {
	svc := NewSectionService(setupServiceTestDB(t))

	_, err := svc.Upsert(context.Background(), SectionInput{
		PageName:   "about",
		SectionKey: "hero",
		Content:    json.RawMessage(`{"subheadline":"no headline"}`),
	})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSectionGetMissingReturnsNil(t *testing.T) {
	svc := NewSectionService(setupServiceTestDB(t))

	section, err := svc.Get(context.Background(), "about", "nothing")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if section != nil {
		t.Fatalf("expected nil section, got %+v", section)
	}
}

func TestSectionListByPageOrdersAndFilters(t *testing.T) {
	svc := NewSectionService(setupServiceTestDB(t))
	ctx := context.Background()

	seed := []SectionInput{
		{PageName: "home", SectionKey: "stats", Order: intPtr(2), Content: json.RawMessage(`{"items":[{"label":"Clients","value":"40+"}]}`)},
		{PageName: "home", SectionKey: "hero", Order: intPtr(1), Content: json.RawMessage(`{"headline":"Realwork"}`)},
		{PageName: "home", SectionKey: "legacy", Order: intPtr(0), IsActive: boolPtr(false)},
		{PageName: "about", SectionKey: "story", Content: json.RawMessage(`{"paragraphs":["Founded"]}`)},
	}
	for _, input := range seed {
		if _, err := svc.Upsert(ctx, input); err != nil {
			t.Fatalf("Upsert %s/%s returned error: %v", input.PageName, input.SectionKey, err)
		}
	}

	active, err := svc.ListByPage(ctx, "home", true)
	if err != nil {
		t.Fatalf("ListByPage returned error: %v", err)
	}
	if len(active) != 2 || active[0].SectionKey != "hero" || active[1].SectionKey != "stats" {
		t.Fatalf("unexpected active sections: %+v", active)
	}

	all, err := svc.ListByPage(ctx, "", false)
	if err != nil {
		t.Fatalf("ListByPage returned error: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 sections across pages, got %d", len(all))
	}
}

func TestSectionDelete(t *testing.T) {
	svc := NewSectionService(setupServiceTestDB(t))
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, SectionInput{PageName: "about", SectionKey: "intro"}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if err := svc.Delete(ctx, "about", "intro"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(ctx, "about", "intro"); !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestSectionGetTypedDecodesBody(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSectionService(gdb)
	ctx := context.Background()

	inputs := []SectionInput{
		{PageName: "about", SectionKey: "stats", Content: json.RawMessage(`{"items":[{"label":"Studios","value":"3"}]}`)},
		{PageName: "about", SectionKey: "faq", Content: json.RawMessage(`[{"q":"Why?"}]`)},
	}
	for _, input := range inputs {
		if _, err := svc.Upsert(ctx, input); err != nil {
			t.Fatalf("Upsert %s returned error: %v", input.SectionKey, err)
		}
	}

	stats, err := svc.GetTyped(ctx, "about", "stats")
	if err != nil {
		t.Fatalf("GetTyped returned error: %v", err)
	}
	body, ok := stats.Body.(StatsSection)
	if stats.Kind != SectionKindStats || !ok {
		t.Fatalf("expected stats body, got kind %q body %T", stats.Kind, stats.Body)
	}
	if len(body.Items) != 1 || body.Items[0].Value != "3" {
		t.Fatalf("unexpected stats items %+v", body.Items)
	}

	faq, err := svc.GetTyped(ctx, "about", "faq")
	if err != nil {
		t.Fatalf("GetTyped returned error: %v", err)
	}
	if faq.Kind != SectionKindGeneric {
		t.Fatalf("expected generic kind, got %q", faq.Kind)
	}
	encoded, err := json.Marshal(faq)
	if err != nil {
		t.Fatalf("marshal typed section: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal typed section: %v", err)
	}
	if string(decoded["body"]) != `[{"q":"Why?"}]` || string(decoded["kind"]) != `"generic"` {
		t.Fatalf("unexpected encoding %s", encoded)
	}
	if string(decoded["sectionKey"]) != `"faq"` {
		t.Fatalf("expected stored fields to be flattened, got %s", encoded)
	}

	missing, err := svc.GetTyped(ctx, "about", "missing")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing section, got %+v, %v", missing, err)
	}
}

func TestNewTypedSectionFallsBackForStaleContent(t *testing.T) {
	section := &db.SectionContent{SectionKey: "hero", Content: datatypes.JSON(`{"subheadline":"no headline"}`)}

	typed := NewTypedSection(section)
	if typed.Kind != SectionKindGeneric {
		t.Fatalf("expected generic kind for content without headline, got %q", typed.Kind)
	}
	if _, ok := typed.Body.(GenericSection); !ok {
		t.Fatalf("expected generic body, got %T", typed.Body)
	}
}
