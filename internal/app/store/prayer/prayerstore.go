// internal/app/store/prayer/prayerstore.go
package prayerstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/congregate/internal/app/store/storeutil"
	"github.com/dalemusser/congregate/internal/app/system/normalize"
	"github.com/dalemusser/congregate/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	errBadPrayerStatus = errors.New(`status must be "new"|"in-prayer"|"answered"|"archived"`)
	errEmptyTitle      = errors.New("prayer request title is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("prayer_requests")}
}

// Create inserts a new prayer request. New requests start in the "new"
// status regardless of what the caller set.
func (s *Store) Create(ctx context.Context, p models.PrayerRequest) (models.PrayerRequest, error) {
	p.Title = normalize.Name(p.Title)
	if p.Title == "" {
		return models.PrayerRequest{}, errEmptyTitle
	}

	p.ID = primitive.NewObjectID()
	p.Status = models.PrayerStatusNew
	if p.Source == "" {
		p.Source = models.PrayerSourceManual
	}

	now := time.Now().UTC()
	p.SubmittedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.PrayerRequest{}, err
	}
	return p, nil
}

// GetByID loads a prayer request by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PrayerRequest, error) {
	var p models.PrayerRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Assign hands the request to a staff member and moves it to in-prayer.
func (s *Store) Assign(ctx context.Context, id, assigneeID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"assigned_to": assigneeID,
			"status":      models.PrayerStatusInPrayer,
			"updated_at":  time.Now().UTC(),
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

// RecordAnswer marks the request answered with the given response notes.
func (s *Store) RecordAnswer(ctx context.Context, id primitive.ObjectID, notes string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":         models.PrayerStatusAnswered,
			"response_notes": notes,
			"updated_at":     time.Now().UTC(),
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

// SetStatus moves a request to the given status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !models.IsValidPrayerStatus(status) {
		return errBadPrayerStatus
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
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

// ListFilter narrows List results. Zero values mean "no restriction".
type ListFilter struct {
	Status     string
	AssignedTo primitive.ObjectID
	ContactID  primitive.ObjectID
}

func (f ListFilter) build() bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if !f.AssignedTo.IsZero() {
		filter["assigned_to"] = f.AssignedTo
	}
	if !f.ContactID.IsZero() {
		filter["contact_id"] = f.ContactID
	}
	return filter
}

// List returns a page of prayer requests, newest first, with the total
// count for the filter.
func (s *Store) List(ctx context.Context, f ListFilter, limit, page int64) ([]models.PrayerRequest, int64, error) {
	filter := f.build()

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := storeutil.Paginate(limit, page).SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var requests []models.PrayerRequest
	if err := cur.All(ctx, &requests); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// Delete deletes a prayer request by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByStatus returns request counts grouped by status.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := make(map[string]int64)
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.ID] = row.Count
	}
	return counts, cur.Err()
}
