// internal/app/store/media/mediastore.go
package mediastore

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

var (
	errBadMediaKind = errors.New(`kind must be "image"|"video"`)
	errEmptyURL     = errors.New("media asset url is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("media_assets")}
}

// Create registers an externally hosted asset.
func (s *Store) Create(ctx context.Context, m models.MediaAsset) (models.MediaAsset, error) {
	m.Title = normalize.Name(m.Title)
	if m.URL == "" {
		return models.MediaAsset{}, errEmptyURL
	}
	if m.Kind == "" {
		m.Kind = models.MediaKindImage
	}
	if !models.IsValidMediaKind(m.Kind) {
		return models.MediaAsset{}, errBadMediaKind
	}

	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.MediaAsset{}, err
	}
	return m, nil
}

// GetByID loads a media asset by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.MediaAsset, error) {
	var m models.MediaAsset
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns assets newest first, optionally restricted to a kind or tag.
func (s *Store) List(ctx context.Context, kind, tag string) ([]models.MediaAsset, error) {
	filter := bson.M{}
	if kind != "" {
		filter["kind"] = kind
	}
	if tag != "" {
		filter["tags"] = tag
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var assets []models.MediaAsset
	if err := cur.All(ctx, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// Delete removes an asset reference. The externally hosted file is not
// touched.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
