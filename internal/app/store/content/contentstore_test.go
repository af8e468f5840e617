package contentstore

import (
	"testing"

	"github.com/dalemusser/congregate/internal/domain/models"
	"github.com/dalemusser/congregate/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return New(db, zap.NewNop())
}

func samplePage() models.Page {
	return models.Page{
		Title: "Welcome",
		Slug:  "welcome",
		SEOMeta: models.SEOMeta{
			Title:       "Welcome",
			Description: "Our church home page",
		},
	}
}

func sampleSections() []models.PageSection {
	return []models.PageSection{
		{Type: models.SectionHero, Props: map[string]any{"title": "Welcome Home"}},
		{Type: models.SectionCallToAction, Props: map[string]any{"title": "Plan a Visit"}},
	}
}

func TestStore_SavePageWithSections_Create(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	page, sections, err := store.SavePageWithSections(ctx, samplePage(), sampleSections(), primitive.NilObjectID)
	if err != nil {
		t.Fatalf("SavePageWithSections() error = %v", err)
	}

	if page.ID.IsZero() {
		t.Fatal("created page should have an id")
	}
	if page.CreatedAt.IsZero() || page.UpdatedAt.IsZero() {
		t.Error("created page should have timestamps")
	}
	if page.PublishedAt != nil {
		t.Error("new page should be a draft")
	}
	if len(sections) != 2 {
		t.Fatalf("sections count = %d, want 2", len(sections))
	}
	for i, sec := range sections {
		if sec.ID.IsZero() {
			t.Errorf("section %d should have an id", i)
		}
		if sec.PageID != page.ID {
			t.Errorf("section %d PageID = %v, want %v", i, sec.PageID, page.ID)
		}
		if sec.Order != i {
			t.Errorf("section %d Order = %d, want %d", i, sec.Order, i)
		}
	}

	// Sections should come back in order through GetSections too.
	loaded, err := store.GetSections(ctx, page.ID)
	if err != nil {
		t.Fatalf("GetSections() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("GetSections() count = %d, want 2", len(loaded))
	}
	if loaded[0].Type != models.SectionHero || loaded[1].Type != models.SectionCallToAction {
		t.Errorf("GetSections() order = [%s, %s], want [hero, call_to_action]", loaded[0].Type, loaded[1].Type)
	}
}

func TestStore_SavePageWithSections_UpdateReplacesSections(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	page, _, err := store.SavePageWithSections(ctx, samplePage(), sampleSections(), primitive.NilObjectID)
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	// Replace the section list with a single different section.
	page.Title = "Welcome Updated"
	replacement := []models.PageSection{
		{Type: models.SectionCallToAction, Props: map[string]any{"title": "Join Us"}},
	}
	updated, sections, err := store.SavePageWithSections(ctx, page, replacement, page.ID)
	if err != nil {
		t.Fatalf("update error = %v", err)
	}

	if updated.ID != page.ID {
		t.Errorf("update should keep page id, got %v want %v", updated.ID, page.ID)
	}
	if updated.Title != "Welcome Updated" {
		t.Errorf("Title = %q, want 'Welcome Updated'", updated.Title)
	}
	if len(sections) != 1 {
		t.Fatalf("sections count = %d, want 1", len(sections))
	}

	// Old sections must be gone, not orphaned.
	loaded, err := store.GetSections(ctx, page.ID)
	if err != nil {
		t.Fatalf("GetSections() error = %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("GetSections() count after replace = %d, want 1", len(loaded))
	}
	if loaded[0].Type != models.SectionCallToAction {
		t.Errorf("remaining section type = %s, want call_to_action", loaded[0].Type)
	}
}

func TestStore_SavePageWithSections_UpdatePreservesPublishedAt(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	page, _, err := store.SavePageWithSections(ctx, samplePage(), sampleSections(), primitive.NilObjectID)
	if err != nil {
		t.Fatalf("create error = %v", err)
	}
	if err := store.Publish(ctx, page.ID); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	published, err := store.GetPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatal("page should be published")
	}

	// A subsequent save must not touch publish state.
	published.Title = "Still Published"
	saved, _, err := store.SavePageWithSections(ctx, published, sampleSections(), published.ID)
	if err != nil {
		t.Fatalf("save after publish error = %v", err)
	}
	if saved.PublishedAt == nil {
		t.Fatal("save cleared published_at")
	}
	if !saved.PublishedAt.Equal(*published.PublishedAt) {
		t.Errorf("save changed published_at: got %v, want %v", saved.PublishedAt, published.PublishedAt)
	}
}

func TestStore_SavePageWithSections_UpdateMissingPage(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, _, err := store.SavePageWithSections(ctx, samplePage(), nil, primitive.NewObjectID())
	if err != mongo.ErrNoDocuments {
		t.Errorf("update of missing page error = %v, want %v", err, mongo.ErrNoDocuments)
	}
}

func TestStore_SavePageWithSections_EmptySections(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	page, sections, err := store.SavePageWithSections(ctx, samplePage(), nil, primitive.NilObjectID)
	if err != nil {
		t.Fatalf("SavePageWithSections() error = %v", err)
	}
	if len(sections) != 0 {
		t.Errorf("sections count = %d, want 0", len(sections))
	}

	loaded, err := store.GetSections(ctx, page.ID)
	if err != nil {
		t.Fatalf("GetSections() error = %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("GetSections() count = %d, want 0", len(loaded))
	}
}

func TestStore_PublishUnpublish(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	page, _, err := store.SavePageWithSections(ctx, samplePage(), nil, primitive.NilObjectID)
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	if err := store.Publish(ctx, page.ID); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	got, _ := store.GetPage(ctx, page.ID)
	if !got.IsPublished() {
		t.Error("page should be published")
	}

	if err := store.Unpublish(ctx, page.ID); err != nil {
		t.Fatalf("Unpublish() error = %v", err)
	}
	got, _ = store.GetPage(ctx, page.ID)
	if got.IsPublished() {
		t.Error("page should be a draft after Unpublish")
	}

	// Publishing a missing page reports no documents.
	if err := store.Publish(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("Publish() for missing page error = %v, want %v", err, mongo.ErrNoDocuments)
	}
}

func TestStore_GetBySlug(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _, err := store.SavePageWithSections(ctx, samplePage(), nil, primitive.NilObjectID)
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	got, err := store.GetBySlug(ctx, "welcome")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetBySlug() id = %v, want %v", got.ID, created.ID)
	}

	_, err = store.GetBySlug(ctx, "nonexistent")
	if err != mongo.ErrNoDocuments {
		t.Errorf("GetBySlug() for missing slug error = %v, want %v", err, mongo.ErrNoDocuments)
	}
}

func TestStore_ListPages(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, slug := range []string{"home", "about", "giving"} {
		p := samplePage()
		p.Slug = slug
		p.Title = "Page " + slug
		if _, _, err := store.SavePageWithSections(ctx, p, nil, primitive.NilObjectID); err != nil {
			t.Fatalf("create %q error = %v", slug, err)
		}
	}

	pages, err := store.ListPages(ctx)
	if err != nil {
		t.Fatalf("ListPages() error = %v", err)
	}
	if len(pages) != 3 {
		t.Errorf("ListPages() count = %d, want 3", len(pages))
	}
}

func TestStore_SlugExistsForOther(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	page, _, err := store.SavePageWithSections(ctx, samplePage(), nil, primitive.NilObjectID)
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	// Another page wanting this slug collides.
	exists, err := store.SlugExistsForOther(ctx, "welcome", primitive.NilObjectID)
	if err != nil {
		t.Fatalf("SlugExistsForOther() error = %v", err)
	}
	if !exists {
		t.Error("slug should collide for a new page")
	}

	// The page itself does not collide with its own slug.
	exists, err = store.SlugExistsForOther(ctx, "welcome", page.ID)
	if err != nil {
		t.Fatalf("SlugExistsForOther() error = %v", err)
	}
	if exists {
		t.Error("slug should not collide with the owning page")
	}
}

func TestStore_DeletePage(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	page, _, err := store.SavePageWithSections(ctx, samplePage(), sampleSections(), primitive.NilObjectID)
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	if err := store.DeletePage(ctx, page.ID); err != nil {
		t.Fatalf("DeletePage() error = %v", err)
	}

	if _, err := store.GetPage(ctx, page.ID); err != mongo.ErrNoDocuments {
		t.Errorf("GetPage() after delete error = %v, want %v", err, mongo.ErrNoDocuments)
	}
	sections, err := store.GetSections(ctx, page.ID)
	if err != nil {
		t.Fatalf("GetSections() error = %v", err)
	}
	if len(sections) != 0 {
		t.Errorf("sections left after delete = %d, want 0", len(sections))
	}

	if err := store.DeletePage(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("DeletePage() for missing page error = %v, want %v", err, mongo.ErrNoDocuments)
	}
}

func TestStore_CountPages(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, _, err := store.SavePageWithSections(ctx, samplePage(), nil, primitive.NilObjectID)
	if err != nil {
		t.Fatalf("create error = %v", err)
	}
	second := samplePage()
	second.Slug = "about"
	if _, _, err := store.SavePageWithSections(ctx, second, nil, primitive.NilObjectID); err != nil {
		t.Fatalf("create error = %v", err)
	}
	if err := store.Publish(ctx, first.ID); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	total, err := store.CountPages(ctx, false)
	if err != nil {
		t.Fatalf("CountPages() error = %v", err)
	}
	if total != 2 {
		t.Errorf("total pages = %d, want 2", total)
	}

	published, err := store.CountPages(ctx, true)
	if err != nil {
		t.Fatalf("CountPages(published) error = %v", err)
	}
	if published != 1 {
		t.Errorf("published pages = %d, want 1", published)
	}
}
