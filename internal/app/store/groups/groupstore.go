// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/congregate/internal/app/system/normalize"
	"github.com/dalemusser/congregate/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errBadGroupStatus = errors.New(`status must be "active"|"paused"|"archived"`)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

// Create inserts a new group.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	g.ID = primitive.NewObjectID()
	g.Name = normalize.Name(g.Name)

	if g.Status == "" {
		g.Status = models.GroupStatusActive
	}
	if !models.IsValidGroupStatus(g.Status) {
		return models.Group{}, errBadGroupStatus
	}

	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// GetByID loads a group by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

// UpdateInput holds the optional fields for updating a group.
// All fields are pointers - nil means "don't update this field".
type UpdateInput struct {
	Name        *string
	Description *string
	LeaderID    *primitive.ObjectID
	MeetingDay  *string
	MeetingTime *string
	Status      *string
}

// Update updates a group using optional fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, input UpdateInput) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}

	if input.Name != nil {
		set["name"] = normalize.Name(*input.Name)
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.LeaderID != nil {
		set["leader_id"] = *input.LeaderID
	}
	if input.MeetingDay != nil {
		set["meeting_day"] = *input.MeetingDay
	}
	if input.MeetingTime != nil {
		set["meeting_time"] = *input.MeetingTime
	}
	if input.Status != nil {
		if !models.IsValidGroupStatus(*input.Status) {
			return errBadGroupStatus
		}
		set["status"] = *input.Status
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

// Delete deletes a group by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// AddMember adds a contact to the group. Adding a contact that is already
// a member is a no-op.
func (s *Store) AddMember(ctx context.Context, groupID, contactID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": groupID}, bson.M{
		"$addToSet": bson.M{"member_ids": contactID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveMember removes a contact from the group. Removing a contact that
// is not a member is a no-op.
func (s *Store) RemoveMember(ctx context.Context, groupID, contactID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": groupID}, bson.M{
		"$pull": bson.M{"member_ids": contactID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveContactFromAll pulls a contact out of every group. Called when a
// contact is deleted so groups do not keep dangling member ids.
func (s *Store) RemoveContactFromAll(ctx context.Context, contactID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx, bson.M{"member_ids": contactID}, bson.M{
		"$pull": bson.M{"member_ids": contactID},
	})
	return err
}

// List returns groups, optionally restricted to a status, sorted by name.
func (s *Store) List(ctx context.Context, status string) ([]models.Group, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// ListForContact returns the groups a contact belongs to.
func (s *Store) ListForContact(ctx context.Context, contactID primitive.ObjectID) ([]models.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"member_ids": contactID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// CountActive returns the number of active groups.
func (s *Store) CountActive(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": models.GroupStatusActive})
}
