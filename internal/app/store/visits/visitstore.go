// internal/app/store/visits/visitstore.go
package visitstore

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	errBadVisitStatus = errors.New(`status must be "planned"|"confirmed"|"completed"|"cancelled"|"no-show"`)
	errEmptyEventName = errors.New("visit event name is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("planned_visits")}
}

// Create inserts a new planned visit. New visits start as "planned".
func (s *Store) Create(ctx context.Context, v models.PlannedVisit) (models.PlannedVisit, error) {
	v.EventName = normalize.Name(v.EventName)
	if v.EventName == "" {
		return models.PlannedVisit{}, errEmptyEventName
	}

	v.ID = primitive.NewObjectID()
	v.Status = models.VisitStatusPlanned

	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.PlannedVisit{}, err
	}
	return v, nil
}

// GetByID loads a planned visit by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PlannedVisit, error) {
	var v models.PlannedVisit
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SetStatus moves a visit to the given status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !models.IsValidVisitStatus(status) {
		return errBadVisitStatus
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

// AssignFollowUp hands the visit to a staff member with an optional
// follow-up date.
func (s *Store) AssignFollowUp(ctx context.Context, id, assigneeID primitive.ObjectID, followUp *time.Time) error {
	set := bson.M{
		"assigned_to": assigneeID,
		"updated_at":  time.Now().UTC(),
	}
	if followUp != nil {
		set["follow_up_date"] = *followUp
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
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
	Status    string
	ContactID primitive.ObjectID
	// From/To restrict by event date when non-zero.
	From time.Time
	To   time.Time
}

func (f ListFilter) build() bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if !f.ContactID.IsZero() {
		filter["contact_id"] = f.ContactID
	}
	dateRange := bson.M{}
	if !f.From.IsZero() {
		dateRange["$gte"] = f.From
	}
	if !f.To.IsZero() {
		dateRange["$lt"] = f.To
	}
	if len(dateRange) > 0 {
		filter["event_date"] = dateRange
	}
	return filter
}

// List returns a page of planned visits sorted by event date ascending,
// with the total count for the filter.
func (s *Store) List(ctx context.Context, f ListFilter, limit, page int64) ([]models.PlannedVisit, int64, error) {
	filter := f.build()

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := storeutil.Paginate(limit, page).SetSort(bson.D{{Key: "event_date", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var visits []models.PlannedVisit
	if err := cur.All(ctx, &visits); err != nil {
		return nil, 0, err
	}
	return visits, total, nil
}

// ListUpcoming returns visits with an event date at or after now that are
// still planned or confirmed, soonest first.
func (s *Store) ListUpcoming(ctx context.Context, limit int64) ([]models.PlannedVisit, error) {
	filter := bson.M{
		"event_date": bson.M{"$gte": time.Now().UTC()},
		"status":     bson.M{"$in": []string{models.VisitStatusPlanned, models.VisitStatusConfirmed}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "event_date", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var visits []models.PlannedVisit
	if err := cur.All(ctx, &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// Delete deletes a planned visit by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByStatus returns visit counts grouped by status.
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
