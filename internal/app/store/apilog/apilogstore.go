// internal/app/store/apilog/apilogstore.go
package apilogstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Entry is a single logged API request in the api_ledger collection.
// The middleware records only failed requests (status >= 400) by
// default, so the collection stays small and useful for debugging
// integration issues.
type Entry struct {
	ID primitive.ObjectID `bson:"_id" json:"id"`

	RequestID       string `bson:"request_id" json:"request_id"`
	ClientRequestID string `bson:"client_request_id,omitempty" json:"client_request_id,omitempty"`

	Method   string `bson:"method" json:"method"`
	Path     string `bson:"path" json:"path"`
	Query    string `bson:"query,omitempty" json:"query,omitempty"`
	RemoteIP string `bson:"remote_ip" json:"remote_ip"`

	RequestBodySize    int64  `bson:"request_body_size" json:"request_body_size"`
	RequestBodyPreview string `bson:"request_body_preview,omitempty" json:"request_body_preview,omitempty"`
	RequestContentType string `bson:"request_content_type,omitempty" json:"request_content_type,omitempty"`

	StatusCode   int    `bson:"status_code" json:"status_code"`
	ResponseSize int64  `bson:"response_size" json:"response_size"`
	ErrorClass   string `bson:"error_class,omitempty" json:"error_class,omitempty"`

	DurationMs float64   `bson:"duration_ms" json:"duration_ms"`
	StartedAt  time.Time `bson:"started_at" json:"started_at"`
}

// Store provides api_ledger persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a new API log store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("api_ledger")}
}

// Create inserts a new entry.
func (s *Store) Create(ctx context.Context, entry Entry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err := s.c.InsertOne(ctx, entry)
	return err
}

// GetByRequestID retrieves an entry by the request id the middleware
// generated (also returned to clients in the X-Request-ID header).
func (s *Store) GetByRequestID(ctx context.Context, requestID string) (*Entry, error) {
	var entry Entry
	if err := s.c.FindOne(ctx, bson.M{"request_id": requestID}).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListFilter narrows List results. Zero values mean "no restriction".
type ListFilter struct {
	PathPrefix    string
	Method        string
	StatusCodeMin int
	ErrorClass    string
	From          time.Time
	To            time.Time
}

func (f ListFilter) build() bson.M {
	query := bson.M{}
	if f.PathPrefix != "" {
		query["path"] = bson.M{"$regex": "^" + f.PathPrefix}
	}
	if f.Method != "" {
		query["method"] = f.Method
	}
	if f.StatusCodeMin > 0 {
		query["status_code"] = bson.M{"$gte": f.StatusCodeMin}
	}
	if f.ErrorClass != "" {
		query["error_class"] = f.ErrorClass
	}
	timeRange := bson.M{}
	if !f.From.IsZero() {
		timeRange["$gte"] = f.From
	}
	if !f.To.IsZero() {
		timeRange["$lt"] = f.To
	}
	if len(timeRange) > 0 {
		query["started_at"] = timeRange
	}
	return query
}

// List returns a page of entries, newest first, with the total count
// for the filter.
func (s *Store) List(ctx context.Context, f ListFilter, page, pageSize int) ([]Entry, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}

	query := f.build()

	total, err := s.c.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// CountByClass returns entry counts grouped by error class since the
// given time.
func (s *Store) CountByClass(ctx context.Context, since time.Time) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"started_at": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$error_class",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	result := make(map[string]int64)
	for cur.Next(ctx) {
		var doc struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		result[doc.ID] = doc.Count
	}
	return result, cur.Err()
}

// DeleteOlderThan removes entries started before the cutoff. Used for
// retention cleanup.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.c.DeleteMany(ctx, bson.M{
		"started_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
