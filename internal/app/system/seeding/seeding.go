// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"

	contentstore "github.com/dalemusser/congregate/internal/app/store/content"
	settingsstore "github.com/dalemusser/congregate/internal/app/store/settings"
	"github.com/dalemusser/congregate/internal/domain/content"
	"github.com/dalemusser/congregate/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SeedAll seeds default data if not already present.
func SeedAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if err := seedSettings(ctx, db, logger); err != nil {
		return err
	}
	if err := seedHomePage(ctx, db, logger); err != nil {
		return err
	}
	return nil
}

// seedSettings writes default tenant settings on first boot.
func seedSettings(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := settingsstore.New(db)

	exists, err := store.Exists(ctx)
	if err != nil {
		logger.Error("failed to check if settings exist", zap.Error(err))
		return err
	}
	if exists {
		return nil
	}

	err = store.Save(ctx, models.TenantSettings{
		Name:           models.DefaultChurchName,
		TimeZone:       models.DefaultTimeZone,
		PrimaryColor:   models.DefaultPrimaryColor,
		SecondaryColor: models.DefaultSecondaryColor,
	})
	if err != nil {
		logger.Error("failed to seed tenant settings", zap.Error(err))
		return err
	}
	logger.Info("seeded default tenant settings")
	return nil
}

// seedHomePage creates a draft home page with a starter section layout so
// a new deployment opens with something to edit rather than a blank list.
func seedHomePage(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := contentstore.New(db, logger)

	if _, err := store.GetBySlug(ctx, "home"); err == nil {
		return nil
	} else if err != mongo.ErrNoDocuments {
		logger.Error("failed to check for home page", zap.Error(err))
		return err
	}

	page := models.Page{
		Title: "Home",
		Slug:  "home",
		SEOMeta: models.SEOMeta{
			Title:       "Welcome",
			Description: "Welcome to our church",
		},
	}

	starterTypes := []models.SectionType{
		models.SectionHero,
		models.SectionCallToAction,
	}
	sections := make([]models.PageSection, 0, len(starterTypes))
	for i, t := range starterTypes {
		props, err := content.DefaultProps(t)
		if err != nil {
			return err
		}
		sections = append(sections, models.PageSection{
			Type:  t,
			Order: i,
			Props: props,
		})
	}

	if _, _, err := store.SavePageWithSections(ctx, page, sections, primitive.NilObjectID); err != nil {
		logger.Error("failed to seed home page", zap.Error(err))
		return err
	}
	logger.Info("seeded draft home page", zap.String("slug", "home"))
	return nil
}
