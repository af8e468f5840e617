package reports

import (
	"net/http"
	"testing"
	"time"

	contactstore "github.com/dalemusser/congregate/internal/app/store/contacts"
	contentstore "github.com/dalemusser/congregate/internal/app/store/content"
	groupstore "github.com/dalemusser/congregate/internal/app/store/groups"
	prayerstore "github.com/dalemusser/congregate/internal/app/store/prayer"
	visitstore "github.com/dalemusser/congregate/internal/app/store/visits"
	"github.com/dalemusser/congregate/internal/domain/models"
	"github.com/dalemusser/congregate/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestDashboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	contacts := contactstore.New(db)
	groups := groupstore.New(db)
	prayer := prayerstore.New(db)
	visits := visitstore.New(db)
	content := contentstore.New(db, zap.NewNop())

	h := NewHandler(contacts, groups, prayer, visits, content, zap.NewNop())
	router := Routes(h, testutil.TestAPIKey, zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Two members, one visitor.
	for _, c := range []models.Contact{
		{FirstName: "Ann", Lifecycle: models.LifecycleMember},
		{FirstName: "Ben", Lifecycle: models.LifecycleMember},
		{FirstName: "Cy", Lifecycle: models.LifecycleVisitor},
	} {
		if _, err := contacts.Create(ctx, c); err != nil {
			t.Fatalf("Create contact: %v", err)
		}
	}
	if _, err := groups.Create(ctx, models.Group{Name: "Choir"}); err != nil {
		t.Fatalf("Create group: %v", err)
	}
	if _, err := prayer.Create(ctx, models.PrayerRequest{Title: "Healing"}); err != nil {
		t.Fatalf("Create prayer request: %v", err)
	}
	if _, err := visits.Create(ctx, models.PlannedVisit{
		EventName: "Sunday Service",
		EventDate: time.Now().UTC().Add(48 * time.Hour),
	}); err != nil {
		t.Fatalf("Create visit: %v", err)
	}

	// One published page, one draft.
	published := models.Page{Title: "Home", Slug: "home"}
	saved, _, err := content.SavePageWithSections(ctx, published, nil, primitive.NilObjectID)
	if err != nil {
		t.Fatalf("SavePageWithSections: %v", err)
	}
	if err := content.Publish(ctx, saved.ID); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, _, err := content.SavePageWithSections(ctx, models.Page{Title: "About", Slug: "about"}, nil, primitive.NilObjectID); err != nil {
		t.Fatalf("SavePageWithSections: %v", err)
	}

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAPIRequest(http.MethodGet, "/dashboard", nil))
	rec.AssertStatus(t, http.StatusOK)

	var d Dashboard
	rec.DecodeJSON(t, &d)

	if d.ContactsByLifecycle[models.LifecycleMember] != 2 {
		t.Errorf("members = %d, want 2", d.ContactsByLifecycle[models.LifecycleMember])
	}
	if d.NewContacts30Days != 3 {
		t.Errorf("new contacts = %d, want 3", d.NewContacts30Days)
	}
	if d.ActiveGroups != 1 {
		t.Errorf("active groups = %d, want 1", d.ActiveGroups)
	}
	if d.PrayerByStatus[models.PrayerStatusNew] != 1 {
		t.Errorf("new prayer requests = %d, want 1", d.PrayerByStatus[models.PrayerStatusNew])
	}
	if d.VisitsByStatus[models.VisitStatusPlanned] != 1 {
		t.Errorf("planned visits = %d, want 1", d.VisitsByStatus[models.VisitStatusPlanned])
	}
	if d.PagesTotal != 2 || d.PagesPublished != 1 {
		t.Errorf("pages = %d/%d published, want 2/1", d.PagesTotal, d.PagesPublished)
	}
}
