// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	// Core collections this app uses
	ensure("pages", pagesSchema())
	ensure("page_sections", pageSectionsSchema())
	ensure("contacts", contactsSchema())
	ensure("groups", groupsSchema())
	ensure("prayer_requests", prayerRequestsSchema())
	ensure("planned_visits", plannedVisitsSchema())
	ensure("tenant_settings", nil)
	ensure("media_assets", nil)
	ensure("api_ledger", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func pagesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "slug"},
			"properties": bson.M{
				"title":        bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"slug":         bson.M{"bsonType": "string", "minLength": 1, "pattern": "^[a-z0-9-]+$"},
				"published_at": bson.M{"bsonType": bson.A{"date", "null"}},
			},
		},
	}
}

func pageSectionsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"page_id", "type", "order"},
			"properties": bson.M{
				"page_id": bson.M{"bsonType": "objectId"},
				"type":    bson.M{"bsonType": "string", "minLength": 1},
				"order":   bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"props":   bson.M{"bsonType": bson.A{"object", "null"}},
			},
		},
	}
}

func contactsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"first_name", "last_name", "lifecycle"},
			"properties": bson.M{
				"first_name": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"last_name":  bson.M{"bsonType": "string"},
				"name_ci":    bson.M{"bsonType": "string"},
				"email":      bson.M{"bsonType": bson.A{"string", "null"}},
				"lifecycle":  bson.M{"enum": bson.A{"visitor", "regular", "member", "leader"}},
			},
		},
	}
}

func groupsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "status"},
			"properties": bson.M{
				"name":   bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"status": bson.M{"enum": bson.A{"active", "paused", "archived"}},
			},
		},
	}
}

func prayerRequestsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "status"},
			"properties": bson.M{
				"title":  bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"status": bson.M{"enum": bson.A{"new", "in-prayer", "answered", "archived"}},
				"source": bson.M{"enum": bson.A{"manual", "app", "website"}},
			},
		},
	}
}

func plannedVisitsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"event_name", "event_date", "status"},
			"properties": bson.M{
				"event_name": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"event_date": bson.M{"bsonType": "date"},
				"status":     bson.M{"enum": bson.A{"planned", "confirmed", "completed", "cancelled", "no-show"}},
			},
		},
	}
}
