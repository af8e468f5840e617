package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/congregate/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeSaver records save payloads and plays the persistence collaborator's
// part: it assigns ids on create and echoes the document back.
type fakeSaver struct {
	saveCalls    int
	publishCalls int
	lastPage     models.Page
	lastPayload  []models.PageSection
	lastSections []models.PageSection
	failSave     error
	failPublish  error
	// omitPageID simulates a create response missing the new page id.
	omitPageID bool
}

func (f *fakeSaver) SavePageWithSections(_ context.Context, page models.Page, sections []models.PageSection, existingID primitive.ObjectID) (models.Page, []models.PageSection, error) {
	f.saveCalls++
	if f.failSave != nil {
		return models.Page{}, nil, f.failSave
	}

	if existingID.IsZero() {
		if !f.omitPageID {
			page.ID = primitive.NewObjectID()
		}
	} else {
		page.ID = existingID
	}

	f.lastPayload = append([]models.PageSection(nil), sections...)
	saved := make([]models.PageSection, len(sections))
	for i, s := range sections {
		s.ID = primitive.NewObjectID()
		s.PageID = page.ID
		saved[i] = s
	}
	f.lastPage = page
	f.lastSections = saved
	return page, saved, nil
}

func (f *fakeSaver) Publish(context.Context, primitive.ObjectID) error {
	f.publishCalls++
	return f.failPublish
}

func (f *fakeSaver) Unpublish(context.Context, primitive.ObjectID) error {
	f.publishCalls++
	return f.failPublish
}

func ctx() context.Context { return context.Background() }

// assertContiguous checks that section orders are exactly 0..n-1 in sequence.
func assertContiguous(t *testing.T, sections []Section) {
	t.Helper()
	for i, s := range sections {
		if s.Order != i {
			t.Errorf("sections[%d].Order = %d, want %d", i, s.Order, i)
		}
	}
}

func TestEditor_AddSection(t *testing.T) {
	ed := New(&fakeSaver{})

	tempID, err := ed.AddSection(models.SectionHero)
	if err != nil {
		t.Fatalf("AddSection() error = %v", err)
	}
	if tempID == "" {
		t.Fatal("AddSection() returned empty temp id")
	}

	sections := ed.Sections()
	if len(sections) != 1 {
		t.Fatalf("len(sections) = %d, want 1", len(sections))
	}
	if sections[0].Type != models.SectionHero {
		t.Errorf("Type = %q, want hero", sections[0].Type)
	}
	if sections[0].Order != 0 {
		t.Errorf("Order = %d, want 0", sections[0].Order)
	}
	if sections[0].Props["heading"] != "Hero Heading" {
		t.Errorf("Props missing hero defaults: %v", sections[0].Props)
	}
}

func TestEditor_AddSection_UnknownType(t *testing.T) {
	ed := New(&fakeSaver{})

	_, err := ed.AddSection(models.SectionType("holograms"))
	if !errors.Is(err, ErrUnknownSectionType) {
		t.Fatalf("AddSection(unknown) error = %v, want ErrUnknownSectionType", err)
	}
	if len(ed.Sections()) != 0 {
		t.Error("buffer changed after failed AddSection")
	}
}

func TestEditor_Reorder(t *testing.T) {
	// Scenario: add hero then call_to_action, move the second to the front.
	ed := New(&fakeSaver{})
	ed.AddSection(models.SectionHero)
	ed.AddSection(models.SectionCallToAction)

	if err := ed.Reorder(1, 0); err != nil {
		t.Fatalf("Reorder(1, 0) error = %v", err)
	}

	sections := ed.Sections()
	if sections[0].Type != models.SectionCallToAction {
		t.Errorf("sections[0].Type = %q, want call_to_action", sections[0].Type)
	}
	if sections[1].Type != models.SectionHero {
		t.Errorf("sections[1].Type = %q, want hero", sections[1].Type)
	}
	assertContiguous(t, sections)
}

func TestEditor_Reorder_SameIndex(t *testing.T) {
	ed := New(&fakeSaver{})
	ed.AddSection(models.SectionHero)
	ed.AddSection(models.SectionEventList)

	if err := ed.Reorder(1, 1); err != nil {
		t.Fatalf("Reorder(1, 1) error = %v", err)
	}
	sections := ed.Sections()
	if sections[0].Type != models.SectionHero || sections[1].Type != models.SectionEventList {
		t.Error("Reorder to same index changed section order")
	}
	assertContiguous(t, sections)
}

func TestEditor_Reorder_OutOfRange(t *testing.T) {
	ed := New(&fakeSaver{})
	ed.AddSection(models.SectionHero)

	for _, pair := range [][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 1}} {
		if err := ed.Reorder(pair[0], pair[1]); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Reorder(%d, %d) error = %v, want ErrIndexOutOfRange", pair[0], pair[1], err)
		}
	}
	assertContiguous(t, ed.Sections())
}

func TestEditor_Reorder_ContiguousAfterGaps(t *testing.T) {
	// Removing does not renumber, so orders may gap; any reorder must
	// restore a contiguous 0..n-1 sequence.
	ed := New(&fakeSaver{})
	ed.AddSection(models.SectionHero)
	ed.AddSection(models.SectionEventCarousel)
	ed.AddSection(models.SectionIconGrid)
	ed.AddSection(models.SectionCallToAction)

	sections := ed.Sections()
	ed.RemoveSection(sections[1].TempID)

	if err := ed.Reorder(2, 0); err != nil {
		t.Fatalf("Reorder(2, 0) error = %v", err)
	}

	got := ed.Sections()
	if len(got) != 3 {
		t.Fatalf("len(sections) = %d, want 3", len(got))
	}
	assertContiguous(t, got)
	if got[0].Type != models.SectionCallToAction {
		t.Errorf("sections[0].Type = %q, want call_to_action", got[0].Type)
	}
}

func TestEditor_RemoveSection(t *testing.T) {
	ed := New(&fakeSaver{})
	ed.AddSection(models.SectionHero)
	tempID := ed.Sections()[0].TempID

	ed.RemoveSection(tempID)
	if len(ed.Sections()) != 0 {
		t.Error("section not removed")
	}

	// Removing an unknown id is a no-op.
	ed.RemoveSection("missing")
}

func TestEditor_UpdateSectionProps(t *testing.T) {
	ed := New(&fakeSaver{})
	tempID, _ := ed.AddSection(models.SectionHero)

	err := ed.UpdateSectionProps(tempID, map[string]any{
		"heading": "Sunday Services",
		"extra":   true,
	})
	if err != nil {
		t.Fatalf("UpdateSectionProps() error = %v", err)
	}

	props := ed.Sections()[0].Props
	if props["heading"] != "Sunday Services" {
		t.Errorf("heading = %v, want Sunday Services", props["heading"])
	}
	if props["extra"] != true {
		t.Error("new key not merged")
	}
	// Untouched defaults survive a shallow merge.
	if props["subheading"] != "Subheading text goes here" {
		t.Errorf("subheading = %v, want default preserved", props["subheading"])
	}
}

func TestEditor_UpdateSectionProps_NotFound(t *testing.T) {
	ed := New(&fakeSaver{})
	if err := ed.UpdateSectionProps("missing", map[string]any{"a": 1}); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("UpdateSectionProps(missing) error = %v, want ErrSectionNotFound", err)
	}
}

func TestEditor_Save_Validation(t *testing.T) {
	saver := &fakeSaver{}
	ed := New(saver)
	ed.SetSlug("valid-slug")

	if err := ed.Save(ctx()); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("Save() error = %v, want ErrTitleRequired", err)
	}

	ed.SetTitle("Welcome")
	ed.SetSlug("")
	if err := ed.Save(ctx()); !errors.Is(err, ErrSlugRequired) {
		t.Fatalf("Save() error = %v, want ErrSlugRequired", err)
	}

	// No store call may be made when validation fails.
	if saver.saveCalls != 0 {
		t.Errorf("saveCalls = %d, want 0", saver.saveCalls)
	}
}

func TestEditor_Save_Create(t *testing.T) {
	saver := &fakeSaver{}
	ed := New(saver)
	ed.SetTitle("Welcome Home")
	ed.GenerateSlug()
	ed.AddSection(models.SectionHero)
	ed.AddSection(models.SectionCallToAction)

	if err := ed.Save(ctx()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if ed.Page().ID.IsZero() {
		t.Error("editor did not adopt the server-assigned page id")
	}
	if ed.Page().Slug != "welcome-home" {
		t.Errorf("Slug = %q, want welcome-home", ed.Page().Slug)
	}
	if len(saver.lastSections) != 2 {
		t.Fatalf("persisted %d sections, want 2", len(saver.lastSections))
	}
	for i, s := range saver.lastSections {
		if s.Order != i {
			t.Errorf("persisted sections[%d].Order = %d, want %d", i, s.Order, i)
		}
	}
}

func TestEditor_Save_StripsTempIDs(t *testing.T) {
	saver := &fakeSaver{}
	ed := New(saver)
	ed.SetTitle("Welcome")
	ed.SetSlug("welcome")
	tempID, _ := ed.AddSection(models.SectionHero)

	if err := ed.Save(ctx()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// The payload carries only type, order, and props; the temp id must not
	// leak into any persisted field.
	sent := saver.lastSections[0]
	if sent.Type != models.SectionHero {
		t.Errorf("Type = %q, want hero", sent.Type)
	}
	for key, val := range sent.Props {
		if val == tempID {
			t.Errorf("temp id leaked into props[%q]", key)
		}
	}
}

func TestEditor_Save_CarriesPersistedIDs(t *testing.T) {
	saver := &fakeSaver{}
	pageID := primitive.NewObjectID()
	secID := primitive.NewObjectID()
	ed := Load(saver, models.Page{
		ID:    pageID,
		Title: "Welcome",
		Slug:  "welcome",
	}, []models.PageSection{
		{ID: secID, PageID: pageID, Type: models.SectionHero, Order: 0, Props: map[string]any{"title": "Hi"}},
	})
	if _, err := ed.AddSection(models.SectionCallToAction); err != nil {
		t.Fatalf("AddSection() error = %v", err)
	}

	if err := ed.Save(ctx()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if len(saver.lastPayload) != 2 {
		t.Fatalf("payload sections = %d, want 2", len(saver.lastPayload))
	}
	// The loaded section keeps its real id through the payload; the section
	// added this session has none yet.
	if saver.lastPayload[0].ID != secID {
		t.Errorf("payload[0].ID = %v, want persisted id %v", saver.lastPayload[0].ID, secID)
	}
	if !saver.lastPayload[1].ID.IsZero() {
		t.Errorf("payload[1].ID = %v, want zero for a new section", saver.lastPayload[1].ID)
	}
}

func TestEditor_Save_Idempotent(t *testing.T) {
	saver := &fakeSaver{}
	ed := New(saver)
	ed.SetTitle("Welcome")
	ed.SetSlug("welcome")
	ed.AddSection(models.SectionHero)
	ed.AddSection(models.SectionEventList)
	ed.AddSection(models.SectionContactSection)

	if err := ed.Save(ctx()); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	first := saver.lastSections

	if err := ed.Save(ctx()); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	second := saver.lastSections

	if len(first) != len(second) {
		t.Fatalf("section count changed across saves: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Type != second[i].Type {
			t.Errorf("sections[%d].Type changed: %q -> %q", i, first[i].Type, second[i].Type)
		}
		if first[i].Order != second[i].Order {
			t.Errorf("sections[%d].Order changed: %d -> %d", i, first[i].Order, second[i].Order)
		}
	}
}

func TestEditor_Save_RemoveThenSave(t *testing.T) {
	// Scenario: save 3 sections, remove one, save again; the persisted
	// count drops to 2 with orders renumbered 0, 1.
	saver := &fakeSaver{}
	ed := New(saver)
	ed.SetTitle("Welcome")
	ed.SetSlug("welcome")
	ed.AddSection(models.SectionHero)
	ed.AddSection(models.SectionEventCarousel)
	ed.AddSection(models.SectionCallToAction)

	if err := ed.Save(ctx()); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	if len(saver.lastSections) != 3 {
		t.Fatalf("persisted %d sections, want 3", len(saver.lastSections))
	}

	ed.RemoveSection(ed.Sections()[1].TempID)
	if err := ed.Save(ctx()); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	if len(saver.lastSections) != 2 {
		t.Fatalf("persisted %d sections, want 2", len(saver.lastSections))
	}
	for i, s := range saver.lastSections {
		if s.Order != i {
			t.Errorf("persisted sections[%d].Order = %d, want %d", i, s.Order, i)
		}
	}
	if saver.lastSections[0].Type != models.SectionHero || saver.lastSections[1].Type != models.SectionCallToAction {
		t.Errorf("wrong sections persisted: %q, %q", saver.lastSections[0].Type, saver.lastSections[1].Type)
	}
}

func TestEditor_Save_FailureLeavesBuffer(t *testing.T) {
	saver := &fakeSaver{failSave: errors.New("connection reset")}
	ed := New(saver)
	ed.SetTitle("Welcome")
	ed.SetSlug("welcome")
	ed.AddSection(models.SectionHero)

	if err := ed.Save(ctx()); err == nil {
		t.Fatal("Save() succeeded, want error")
	}

	if !ed.Page().ID.IsZero() {
		t.Error("page id adopted despite failed save")
	}
	if len(ed.Sections()) != 1 {
		t.Error("buffer changed despite failed save")
	}

	// Retry after the store recovers.
	saver.failSave = nil
	if err := ed.Save(ctx()); err != nil {
		t.Fatalf("retry Save() error = %v", err)
	}
	if ed.Page().ID.IsZero() {
		t.Error("page id not adopted on retry")
	}
}

func TestEditor_Save_MissingPageID(t *testing.T) {
	saver := &fakeSaver{omitPageID: true}
	ed := New(saver)
	ed.SetTitle("Welcome")
	ed.SetSlug("welcome")

	if err := ed.Save(ctx()); !errors.Is(err, ErrNoPageID) {
		t.Fatalf("Save() error = %v, want ErrNoPageID", err)
	}
}

func TestEditor_Save_PublishOnCreate(t *testing.T) {
	saver := &fakeSaver{}
	ed := New(saver)
	ed.SetTitle("Welcome")
	ed.SetSlug("welcome")
	ed.SetPublished(true)

	if err := ed.Save(ctx()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if ed.Page().PublishedAt == nil {
		t.Error("PublishedAt not set when creating with the publish toggle on")
	}
}

func TestEditor_PublishRequiresSave(t *testing.T) {
	saver := &fakeSaver{}
	ed := New(saver)

	if err := ed.Publish(ctx()); !errors.Is(err, ErrNotSaved) {
		t.Errorf("Publish() error = %v, want ErrNotSaved", err)
	}
	if err := ed.Unpublish(ctx()); !errors.Is(err, ErrNotSaved) {
		t.Errorf("Unpublish() error = %v, want ErrNotSaved", err)
	}
	if saver.publishCalls != 0 {
		t.Errorf("publishCalls = %d, want 0", saver.publishCalls)
	}
}

func TestEditor_PublishIndependence(t *testing.T) {
	// Publishing flips only the publish timestamp: section props and order
	// stay untouched, and saving does not change the publish timestamp.
	saver := &fakeSaver{}
	ed := New(saver)
	ed.SetTitle("Welcome")
	ed.SetSlug("welcome")
	tempID, _ := ed.AddSection(models.SectionHero)
	ed.UpdateSectionProps(tempID, map[string]any{"heading": "Edited"})

	if err := ed.Save(ctx()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	before := ed.Sections()
	if err := ed.Publish(ctx()); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	after := ed.Sections()

	if len(before) != len(after) {
		t.Fatal("Publish changed section count")
	}
	for i := range before {
		if before[i].Order != after[i].Order {
			t.Errorf("Publish changed sections[%d].Order", i)
		}
		if before[i].Props["heading"] != after[i].Props["heading"] {
			t.Errorf("Publish changed sections[%d].Props", i)
		}
	}
	if ed.Page().PublishedAt == nil {
		t.Fatal("PublishedAt not set after Publish")
	}

	// Save must not alter the publish timestamp.
	publishedAt := *ed.Page().PublishedAt
	if err := ed.Save(ctx()); err != nil {
		t.Fatalf("Save() after Publish error = %v", err)
	}
	if got := ed.Page().PublishedAt; got == nil || !got.Equal(publishedAt) {
		t.Errorf("Save changed PublishedAt: %v -> %v", publishedAt, got)
	}

	if err := ed.Unpublish(ctx()); err != nil {
		t.Fatalf("Unpublish() error = %v", err)
	}
	if ed.Page().PublishedAt != nil {
		t.Error("PublishedAt not cleared after Unpublish")
	}
}

func TestEditor_Publish_FailureLeavesState(t *testing.T) {
	saver := &fakeSaver{}
	ed := New(saver)
	ed.SetTitle("Welcome")
	ed.SetSlug("welcome")
	if err := ed.Save(ctx()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	saver.failPublish = errors.New("server error")
	if err := ed.Publish(ctx()); err == nil {
		t.Fatal("Publish() succeeded, want error")
	}
	if ed.Page().PublishedAt != nil {
		t.Error("PublishedAt set despite failed Publish")
	}
}

func TestLoad_AdoptsPersistedSections(t *testing.T) {
	pageID := primitive.NewObjectID()
	secID := primitive.NewObjectID()
	now := time.Now().UTC()

	page := models.Page{ID: pageID, Title: "Home", Slug: "home", PublishedAt: &now}
	sections := []models.PageSection{
		{ID: secID, PageID: pageID, Type: models.SectionHero, Order: 0, Props: map[string]any{"heading": "Hi"}},
	}

	ed := Load(&fakeSaver{}, page, sections)

	got := ed.Sections()
	if len(got) != 1 {
		t.Fatalf("len(sections) = %d, want 1", len(got))
	}
	if got[0].TempID != secID.Hex() {
		t.Errorf("TempID = %q, want persisted id %q", got[0].TempID, secID.Hex())
	}
	if got[0].ID != secID {
		t.Error("persisted section id not retained")
	}
}

func TestEditor_UnknownTypes_Lenient(t *testing.T) {
	pageID := primitive.NewObjectID()
	page := models.Page{ID: pageID, Title: "Home", Slug: "home"}
	sections := []models.PageSection{
		{ID: primitive.NewObjectID(), Type: models.SectionHero, Order: 0, Props: map[string]any{"heading": "Hi"}},
		{ID: primitive.NewObjectID(), Type: "future_widget", Order: 1, Props: map[string]any{"mystery": 42}},
	}

	saver := &fakeSaver{}
	ed := Load(saver, page, sections)

	unknown := ed.UnknownTypes()
	if len(unknown) != 1 || unknown[0] != "future_widget" {
		t.Fatalf("UnknownTypes() = %v, want [future_widget]", unknown)
	}

	// Unknown sections ride along on save with their props untouched.
	if err := ed.Save(ctx()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(saver.lastSections) != 2 {
		t.Fatalf("persisted %d sections, want 2", len(saver.lastSections))
	}
	if saver.lastSections[1].Props["mystery"] != 42 {
		t.Error("unknown section props altered on save")
	}
}
