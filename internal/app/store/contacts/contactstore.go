// internal/app/store/contacts/contactstore.go
package contactstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/congregate/internal/app/store/storeutil"
	"github.com/dalemusser/congregate/internal/app/system/normalize"
	"github.com/dalemusser/congregate/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateEmail is returned when another contact already has the email.
	ErrDuplicateEmail = errors.New("a contact with this email already exists")
	errBadLifecycle   = errors.New(`lifecycle must be "visitor"|"regular"|"member"|"leader"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contacts")}
}

// Create inserts a new contact after normalizing and validating fields.
func (s *Store) Create(ctx context.Context, c models.Contact) (models.Contact, error) {
	c.ID = primitive.NewObjectID()
	c.FirstName = normalize.Name(c.FirstName)
	c.LastName = normalize.Name(c.LastName)
	c.NameCI = text.Fold(c.FullName())
	if c.Email != "" {
		c.Email = normalize.Email(c.Email)
	}

	if c.Lifecycle == "" {
		c.Lifecycle = models.LifecycleVisitor
	}
	if !models.IsValidLifecycle(c.Lifecycle) {
		return models.Contact{}, errBadLifecycle
	}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Contact{}, ErrDuplicateEmail
		}
		return models.Contact{}, err
	}
	return c, nil
}

// GetByID loads a contact by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error) {
	var c models.Contact
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByIDs loads multiple contacts by their ObjectIDs.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var contacts []models.Contact
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// UpdateInput holds the optional fields for updating a contact.
// All fields are pointers - nil means "don't update this field".
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Address   *string
	Lifecycle *string
	Tags      *[]string
	Notes     *string
}

// Update updates a contact using optional fields.
// Only non-nil fields in input are updated.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, input UpdateInput) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}

	if input.FirstName != nil {
		set["first_name"] = normalize.Name(*input.FirstName)
	}
	if input.LastName != nil {
		set["last_name"] = normalize.Name(*input.LastName)
	}
	if input.Email != nil {
		set["email"] = normalize.Email(*input.Email)
	}
	if input.Phone != nil {
		set["phone"] = *input.Phone
	}
	if input.Address != nil {
		set["address"] = *input.Address
	}
	if input.Lifecycle != nil {
		if !models.IsValidLifecycle(*input.Lifecycle) {
			return errBadLifecycle
		}
		set["lifecycle"] = *input.Lifecycle
	}
	if input.Tags != nil {
		set["tags"] = *input.Tags
	}
	if input.Notes != nil {
		set["notes"] = *input.Notes
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	// Rebuild the folded search name when either name part changed.
	if input.FirstName != nil || input.LastName != nil {
		c, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		_, err = s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
			"$set": bson.M{"name_ci": text.Fold(c.FullName())},
		})
		return err
	}
	return nil
}

// Delete deletes a contact by ID.
// Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListFilter narrows List results. Zero values mean "no restriction".
type ListFilter struct {
	Lifecycle string
	Tag       string
	// Search matches against the folded full name.
	Search string
}

func (f ListFilter) build() bson.M {
	filter := bson.M{}
	if f.Lifecycle != "" {
		filter["lifecycle"] = f.Lifecycle
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.Search != "" {
		filter["name_ci"] = bson.M{"$regex": text.Fold(f.Search)}
	}
	return filter
}

// List returns a page of contacts sorted by name, with the total count
// for the filter so callers can build pagination.
func (s *Store) List(ctx context.Context, f ListFilter, limit, page int64) ([]models.Contact, int64, error) {
	filter := f.build()

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := storeutil.Paginate(limit, page).SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var contacts []models.Contact
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// SetLifecycle moves a contact to a new lifecycle stage.
func (s *Store) SetLifecycle(ctx context.Context, id primitive.ObjectID, lifecycle string) error {
	if !models.IsValidLifecycle(lifecycle) {
		return errBadLifecycle
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"lifecycle":  lifecycle,
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

// CountByLifecycle returns contact counts grouped by lifecycle stage.
func (s *Store) CountByLifecycle(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$lifecycle",
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

// CountCreatedSince returns the number of contacts created at or after the
// given time. Used for "new this month" style reporting.
func (s *Store) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"created_at": bson.M{"$gte": since},
	})
}

// ListAll returns all contacts sorted by name.
func (s *Store) ListAll(ctx context.Context) ([]models.Contact, error) {
	opts := options.Find().SetSort(bson.M{"name_ci": 1})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var contacts []models.Contact
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}
