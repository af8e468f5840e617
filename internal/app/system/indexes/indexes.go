// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensurePages(ctx, db); err != nil {
		problems = append(problems, "pages: "+err.Error())
	}
	if err := ensurePageSections(ctx, db); err != nil {
		problems = append(problems, "page_sections: "+err.Error())
	}
	if err := ensureContacts(ctx, db); err != nil {
		problems = append(problems, "contacts: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensurePrayerRequests(ctx, db); err != nil {
		problems = append(problems, "prayer_requests: "+err.Error())
	}
	if err := ensurePlannedVisits(ctx, db); err != nil {
		problems = append(problems, "planned_visits: "+err.Error())
	}
	if err := ensureTenantSettings(ctx, db); err != nil {
		problems = append(problems, "tenant_settings: "+err.Error())
	}
	if err := ensureMediaAssets(ctx, db); err != nil {
		problems = append(problems, "media_assets: "+err.Error())
	}
	if err := ensureAPILedger(ctx, db); err != nil {
		problems = append(problems, "api_ledger: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))

		// 1) Load existing indexes
		existing := map[string]existingIndex{} // sig -> index
		cur, err := coll.Indexes().List(ctx)
		if err == nil {
			defer cur.Close(ctx)
			for cur.Next(ctx) {
				var idx existingIndex
				if err := cur.Decode(&idx); err != nil {
					zap.L().Warn("failed to decode existing index",
						zap.String("collection", coll.Name()),
						zap.Error(err))
					continue
				}
				existing[keySig(idx.Key)] = idx
			}
		}

		if ex, ok := existing[desiredSig]; ok {
			// Same key pattern exists already.
			if sameBoolPtr(desiredUnique, ex.Unique) {
				// Names aligned (or we don't care) → reuse
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Bool("unique", ex.Unique != nil && *ex.Unique),
					zap.String("took", time.Since(start).String()))
				continue
			}

			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
					errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
				} else {
					errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				}
				continue
			}
			zap.L().Info("index dropped and recreated",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
			continue
		}

		// 2) No existing index with the same keys: create it.
		if created, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				zap.L().Warn("index ensure failed (options conflict)",
					zap.String("collection", coll.Name()),
					zap.String("name", desiredName),
					zap.String("keys", desiredSig),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				continue
			}

			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		} else {
			zap.L().Info("index ensured",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("created_name", created),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensurePages(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("pages")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One page per slug
		{
			Keys: bson.D{
				{Key: "slug", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_pages_slug"),
		},

		// Public site queries published pages by publish state + recency
		{
			Keys: bson.D{
				{Key: "published_at", Value: -1},
			},
			Options: options.Index().SetName("idx_pages_published_at"),
		},
	})
}

func ensurePageSections(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("page_sections")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Section lookup is always "sections of page X ordered by position"
		{
			Keys: bson.D{
				{Key: "page_id", Value: 1},
				{Key: "order", Value: 1},
			},
			Options: options.Index().SetName("idx_sections_page_order"),
		},
	})
}

func ensureContacts(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("contacts")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Name search path
		{
			Keys: bson.D{
				{Key: "name_ci", Value: 1},
			},
			Options: options.Index().SetName("idx_contacts_nameci"),
		},

		// One contact per email where an email is present
		{
			Keys: bson.D{
				{Key: "email", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetSparse(true).
				SetName("uniq_contacts_email"),
		},

		// Lifecycle list queries: stage + name sort
		{
			Keys: bson.D{
				{Key: "lifecycle", Value: 1},
				{Key: "name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_contacts_lifecycle_nameci_id"),
		},
	})
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("groups")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Group list queries: status + name sort
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "name", Value: 1},
			},
			Options: options.Index().SetName("idx_groups_status_name"),
		},

		// "Which groups is this contact in?"
		{
			Keys: bson.D{
				{Key: "member_ids", Value: 1},
			},
			Options: options.Index().SetName("idx_groups_memberids"),
		},
	})
}

func ensurePrayerRequests(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("prayer_requests")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Queue views: status + recency
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "submitted_at", Value: -1},
			},
			Options: options.Index().SetName("idx_prayer_status_submitted"),
		},

		// "My assignments" view
		{
			Keys: bson.D{
				{Key: "assigned_to", Value: 1},
				{Key: "submitted_at", Value: -1},
			},
			Options: options.Index().SetSparse(true).SetName("idx_prayer_assigned_submitted"),
		},
	})
}

func ensurePlannedVisits(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("planned_visits")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Upcoming-visit queries: date range scoped by status
		{
			Keys: bson.D{
				{Key: "event_date", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("idx_visits_eventdate_status"),
		},

		// Visits for a contact
		{
			Keys: bson.D{
				{Key: "contact_id", Value: 1},
			},
			Options: options.Index().SetSparse(true).SetName("idx_visits_contactid"),
		},
	})
}

func ensureTenantSettings(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("tenant_settings")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Enforce the singleton settings document
		{
			Keys: bson.D{
				{Key: "singleton", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_settings_singleton"),
		},
	})
}

func ensureMediaAssets(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("media_assets")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Library browsing: kind + recency
		{
			Keys: bson.D{
				{Key: "kind", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_media_kind_created"),
		},
	})
}

func ensureAPILedger(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("api_ledger")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "request_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_apiledger_request"),
		},
		// Recent-first browsing and retention sweeps
		{
			Keys: bson.D{
				{Key: "started_at", Value: -1},
			},
			Options: options.Index().SetName("idx_apiledger_started"),
		},
		{
			Keys: bson.D{
				{Key: "error_class", Value: 1},
				{Key: "started_at", Value: -1},
			},
			Options: options.Index().SetName("idx_apiledger_class_started"),
		},
	})
}
