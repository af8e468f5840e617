package contentapi

import (
	"net/http"
	"testing"

	contentstore "github.com/dalemusser/congregate/internal/app/store/content"
	"github.com/dalemusser/congregate/internal/domain/models"
	"github.com/dalemusser/congregate/internal/testutil"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T) (http.Handler, *contentstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := contentstore.New(db, zap.NewNop())
	h := NewHandler(store, zap.NewNop())
	return Routes(h, testutil.TestAPIKey, zap.NewNop()), store
}

func createPage(t *testing.T, router http.Handler, payload map[string]any) pageResponse {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/pages", payload)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	var resp pageResponse
	rec.DecodeJSON(t, &resp)
	return resp
}

func TestCreatePage(t *testing.T) {
	router, _ := setupRouter(t)

	resp := createPage(t, router, map[string]any{
		"title": "Welcome Home",
		"sections": []map[string]any{
			{"type": "hero", "props": map[string]any{"title": "Sunday at 10am"}},
			{"type": "event_list"},
		},
	})

	if resp.Page.Title != "Welcome Home" {
		t.Errorf("title = %q, want 'Welcome Home'", resp.Page.Title)
	}
	// Slug is generated from the title when the payload omits one.
	if resp.Page.Slug != "welcome-home" {
		t.Errorf("slug = %q, want 'welcome-home'", resp.Page.Slug)
	}
	if resp.Page.PublishedAt != nil {
		t.Error("page should be a draft by default")
	}
	if len(resp.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(resp.Sections))
	}
	if resp.Sections[0].Type != "hero" || resp.Sections[0].Order != 0 {
		t.Errorf("section 0 = %s/%d, want hero/0", resp.Sections[0].Type, resp.Sections[0].Order)
	}
	// Props merge over the type's defaults.
	if resp.Sections[0].Props["title"] != "Sunday at 10am" {
		t.Errorf("hero title = %v, want override", resp.Sections[0].Props["title"])
	}
	if _, ok := resp.Sections[0].Props["ctaButtons"]; !ok {
		t.Error("hero section should keep default ctaButtons")
	}
	if resp.Sections[1].Order != 1 {
		t.Errorf("section 1 order = %d, want 1", resp.Sections[1].Order)
	}
}

func TestCreatePage_Validation(t *testing.T) {
	router, _ := setupRouter(t)

	// Missing title
	req := testutil.NewJSONRequest(t, http.MethodPost, "/pages", map[string]any{
		"slug": "untitled",
	})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)

	// Unknown section type
	req = testutil.NewJSONRequest(t, http.MethodPost, "/pages", map[string]any{
		"title":    "Bad Section",
		"sections": []map[string]any{{"type": "jumbotron"}},
	})
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "jumbotron")
}

func TestCreatePage_SlugConflict(t *testing.T) {
	router, _ := setupRouter(t)

	createPage(t, router, map[string]any{"title": "About Us"})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/pages", map[string]any{
		"title": "Another About",
		"slug":  "about-us",
	})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusConflict)
}

func TestCreatePage_Publish(t *testing.T) {
	router, _ := setupRouter(t)

	resp := createPage(t, router, map[string]any{
		"title":   "Launch Day",
		"publish": true,
	})
	if resp.Page.PublishedAt == nil {
		t.Error("page created with publish=true should be live")
	}
}

func TestUpdatePage_ReplacesSections(t *testing.T) {
	router, _ := setupRouter(t)

	created := createPage(t, router, map[string]any{
		"title": "Ministries",
		"sections": []map[string]any{
			{"type": "hero"},
			{"type": "ministries_grid"},
			{"type": "call_to_action"},
		},
	})

	// Keep the hero (with a props change), drop the grid, add events, and
	// put call_to_action first.
	req := testutil.NewJSONRequest(t, http.MethodPut, "/pages/"+created.Page.ID.Hex(), map[string]any{
		"title": "Ministries",
		"slug":  created.Page.Slug,
		"sections": []map[string]any{
			{"id": created.Sections[2].ID, "type": "call_to_action"},
			{"id": created.Sections[0].ID, "type": "hero", "props": map[string]any{"title": "Serve With Us"}},
			{"type": "events_list"},
		},
	})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var resp pageResponse
	rec.DecodeJSON(t, &resp)

	if len(resp.Sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(resp.Sections))
	}
	wantTypes := []string{"call_to_action", "hero", "events_list"}
	for i, want := range wantTypes {
		if resp.Sections[i].Type != want {
			t.Errorf("section %d type = %s, want %s", i, resp.Sections[i].Type, want)
		}
		if resp.Sections[i].Order != i {
			t.Errorf("section %d order = %d, want %d", i, resp.Sections[i].Order, i)
		}
	}
	if resp.Sections[1].Props["title"] != "Serve With Us" {
		t.Errorf("hero title = %v, want 'Serve With Us'", resp.Sections[1].Props["title"])
	}
}

func TestUpdatePage_DoesNotUnpublish(t *testing.T) {
	router, _ := setupRouter(t)

	created := createPage(t, router, map[string]any{
		"title":   "Give",
		"publish": true,
	})
	if created.Page.PublishedAt == nil {
		t.Fatal("setup: page should be published")
	}

	req := testutil.NewJSONRequest(t, http.MethodPut, "/pages/"+created.Page.ID.Hex(), map[string]any{
		"title": "Giving",
		"slug":  created.Page.Slug,
	})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var resp pageResponse
	rec.DecodeJSON(t, &resp)
	if resp.Page.PublishedAt == nil {
		t.Error("saving an edit must not unpublish the page")
	}
	if resp.Page.Title != "Giving" {
		t.Errorf("title = %q, want 'Giving'", resp.Page.Title)
	}
}

func TestPublishUnpublish(t *testing.T) {
	router, _ := setupRouter(t)

	created := createPage(t, router, map[string]any{"title": "Visit"})

	req := testutil.NewAPIRequest(http.MethodPost, "/pages/"+created.Page.ID.Hex()+"/publish", nil)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Page models.Page `json:"page"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.Page.PublishedAt == nil {
		t.Fatal("page should be published")
	}

	req = testutil.NewAPIRequest(http.MethodPost, "/pages/"+created.Page.ID.Hex()+"/unpublish", nil)
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	rec.DecodeJSON(t, &resp)
	if resp.Page.PublishedAt != nil {
		t.Error("page should be back to draft")
	}
}

func TestDeletePage(t *testing.T) {
	router, store := setupRouter(t)

	created := createPage(t, router, map[string]any{
		"title":    "Temporary",
		"sections": []map[string]any{{"type": "hero"}},
	})

	req := testutil.NewAPIRequest(http.MethodDelete, "/pages/"+created.Page.ID.Hex(), nil)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusNoContent)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	sections, err := store.GetSections(ctx, created.Page.ID)
	if err != nil {
		t.Fatalf("GetSections() error = %v", err)
	}
	if len(sections) != 0 {
		t.Errorf("sections left after delete = %d, want 0", len(sections))
	}

	// Deleting again is a 404.
	req = testutil.NewAPIRequest(http.MethodDelete, "/pages/"+created.Page.ID.Hex(), nil)
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestSectionTypes(t *testing.T) {
	router, _ := setupRouter(t)

	req := testutil.NewAPIRequest(http.MethodGet, "/section-types", nil)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		SectionTypes []struct {
			Type         string         `json:"type"`
			DefaultProps map[string]any `json:"default_props"`
		} `json:"section_types"`
	}
	rec.DecodeJSON(t, &resp)

	if len(resp.SectionTypes) != len(models.AllSectionTypes()) {
		t.Fatalf("section types = %d, want %d", len(resp.SectionTypes), len(models.AllSectionTypes()))
	}
	for _, st := range resp.SectionTypes {
		if len(st.DefaultProps) == 0 {
			t.Errorf("type %s has empty default props", st.Type)
		}
	}
}

func TestAuth_Required(t *testing.T) {
	router, _ := setupRouter(t)

	// No Authorization header
	req := testutil.NewRequest(http.MethodGet, "/pages")
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusUnauthorized)

	// Wrong key
	req = testutil.NewRequest(http.MethodGet, "/pages")
	req.Header.Set("Authorization", "Bearer wrong-key")
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestSanitizeProps(t *testing.T) {
	in := map[string]any{
		"title": `<script>alert("x")</script>Welcome`,
		"body":  "<p>Hello <b>there</b></p>",
		"nested": map[string]any{
			"text": `<iframe src="https://evil.example"></iframe>safe`,
		},
		"items": []any{"<script>bad</script>ok", 42},
		"count": 3,
	}

	out := sanitizeProps(in)

	if out["title"] != "Welcome" {
		t.Errorf("title = %q, want script stripped", out["title"])
	}
	if out["body"] != "<p>Hello <b>there</b></p>" {
		t.Errorf("body = %q, want safe markup kept", out["body"])
	}
	nested := out["nested"].(map[string]any)
	if nested["text"] != "safe" {
		t.Errorf("nested text = %q, want 'safe'", nested["text"])
	}
	items := out["items"].([]any)
	if items[0] != "ok" {
		t.Errorf("items[0] = %q, want 'ok'", items[0])
	}
	if items[1] != 42 {
		t.Errorf("items[1] = %v, want untouched", items[1])
	}
	if out["count"] != 3 {
		t.Errorf("count = %v, want untouched", out["count"])
	}
}
