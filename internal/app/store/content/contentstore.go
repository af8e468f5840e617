// internal/app/store/content/contentstore.go

// Package contentstore persists pages and their sections.
//
// A page and its section list are written as one document-level unit:
// SavePageWithSections replaces the entire section list on every save
// (delete + reinsert) rather than diffing, so saves are idempotent and
// last-write-wins at the document level.
package contentstore

import (
	"context"
	"time"

	"github.com/dalemusser/congregate/internal/app/system/txn"
	"github.com/dalemusser/congregate/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names
const (
	PagesCollection    = "pages"
	SectionsCollection = "page_sections"
)

// Store provides access to the pages and page_sections collections.
type Store struct {
	db       *mongo.Database
	pages    *mongo.Collection
	sections *mongo.Collection
	logger   *zap.Logger
}

// New creates a new content store.
func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		db:       db,
		pages:    db.Collection(PagesCollection),
		sections: db.Collection(SectionsCollection),
		logger:   logger,
	}
}

// SavePageWithSections creates or replaces a page and its entire section
// list in one call. With a zero existingID the page is created and assigned
// a fresh id; otherwise the existing page's editable fields are updated.
// In both cases every persisted section for the page is deleted and the
// given list reinserted with order renumbered to list position.
//
// Updating a page never touches published_at: publish state changes only
// through Publish and Unpublish.
//
// The write runs in a transaction where the deployment supports one; the
// returned page and sections reflect the persisted state.
func (s *Store) SavePageWithSections(ctx context.Context, page models.Page, sections []models.PageSection, existingID primitive.ObjectID) (models.Page, []models.PageSection, error) {
	now := time.Now().UTC()

	var savedSections []models.PageSection
	err := txn.Run(ctx, s.db, s.logger, func(ctx context.Context) error {
		savedSections = nil

		if existingID.IsZero() {
			page.ID = primitive.NewObjectID()
			page.CreatedAt = now
			page.UpdatedAt = now
			if _, err := s.pages.InsertOne(ctx, page); err != nil {
				return err
			}
		} else {
			page.ID = existingID
			page.UpdatedAt = now
			res, err := s.pages.UpdateByID(ctx, existingID, bson.M{
				"$set": bson.M{
					"title":      page.Title,
					"slug":       page.Slug,
					"seo_meta":   page.SEOMeta,
					"updated_at": page.UpdatedAt,
				},
			})
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return mongo.ErrNoDocuments
			}
		}

		if _, err := s.sections.DeleteMany(ctx, bson.M{"page_id": page.ID}); err != nil {
			return err
		}

		if len(sections) == 0 {
			return nil
		}
		docs := make([]interface{}, len(sections))
		for i, sec := range sections {
			sec.ID = primitive.NewObjectID()
			sec.PageID = page.ID
			sec.Order = i
			sec.CreatedAt = now
			docs[i] = sec
			savedSections = append(savedSections, sec)
		}
		_, err := s.sections.InsertMany(ctx, docs)
		return err
	})
	if err != nil {
		return models.Page{}, nil, err
	}

	// Return the authoritative page document, including fields this save
	// did not touch (published_at, created_at).
	saved, err := s.GetPage(ctx, page.ID)
	if err != nil {
		// The write committed; fall back to our copy rather than failing.
		s.logger.Warn("failed to reload page after save",
			zap.String("page_id", page.ID.Hex()),
			zap.Error(err))
		return page, savedSections, nil
	}
	return saved, savedSections, nil
}

// Publish sets the page's publish timestamp to now.
func (s *Store) Publish(ctx context.Context, id primitive.ObjectID) error {
	return s.setPublishedAt(ctx, id, time.Now().UTC())
}

// Unpublish clears the page's publish timestamp, returning it to draft.
func (s *Store) Unpublish(ctx context.Context, id primitive.ObjectID) error {
	return s.setPublishedAt(ctx, id, nil)
}

func (s *Store) setPublishedAt(ctx context.Context, id primitive.ObjectID, at any) error {
	res, err := s.pages.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"published_at": at,
			"updated_at":   time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetPage returns a page by id.
func (s *Store) GetPage(ctx context.Context, id primitive.ObjectID) (models.Page, error) {
	var page models.Page
	err := s.pages.FindOne(ctx, bson.M{"_id": id}).Decode(&page)
	if err != nil {
		return models.Page{}, err
	}
	return page, nil
}

// GetBySlug returns a page by its slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (models.Page, error) {
	var page models.Page
	err := s.pages.FindOne(ctx, bson.M{"slug": slug}).Decode(&page)
	if err != nil {
		return models.Page{}, err
	}
	return page, nil
}

// GetSections returns a page's sections sorted by order.
func (s *Store) GetSections(ctx context.Context, pageID primitive.ObjectID) ([]models.PageSection, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cur, err := s.sections.Find(ctx, bson.M{"page_id": pageID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sections []models.PageSection
	if err := cur.All(ctx, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// ListPages returns all pages, newest first.
func (s *Store) ListPages(ctx context.Context) ([]models.Page, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.pages.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var pages []models.Page
	if err := cur.All(ctx, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// SlugExistsForOther checks whether another page already uses the slug.
func (s *Store) SlugExistsForOther(ctx context.Context, slug string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"slug": slug}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := s.pages.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeletePage removes a page and all of its sections. Sections have no
// independent lifecycle, so they go with the page.
func (s *Store) DeletePage(ctx context.Context, id primitive.ObjectID) error {
	return txn.Run(ctx, s.db, s.logger, func(ctx context.Context) error {
		res, err := s.pages.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return mongo.ErrNoDocuments
		}
		_, err = s.sections.DeleteMany(ctx, bson.M{"page_id": id})
		return err
	})
}

// CountPages returns the number of pages, optionally restricted to
// published ones.
func (s *Store) CountPages(ctx context.Context, publishedOnly bool) (int64, error) {
	filter := bson.M{}
	if publishedOnly {
		filter["published_at"] = bson.M{"$ne": nil}
	}
	return s.pages.CountDocuments(ctx, filter)
}
