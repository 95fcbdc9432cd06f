package database

import (
	"embed"
	"fmt"

	"guildboard/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed fixtures/*.yml
var fixtureFS embed.FS

type fixtureFile struct {
	Categories []string `yaml:"categories"`
	Groups     []string `yaml:"groups"`
}

// LoadFixtures creates the closed category set and the capability groups.
// Existing rows are left untouched, so the loader is idempotent.
func LoadFixtures(db *gorm.DB) error {
	raw, err := fixtureFS.ReadFile("fixtures/categories.yml")
	if err != nil {
		return fmt.Errorf("read fixture file: %w", err)
	}

	var fixtures fixtureFile
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		return fmt.Errorf("parse fixture file: %w", err)
	}

	for _, name := range fixtures.Categories {
		category := models.Category{Name: name}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&category).Error; err != nil {
			return fmt.Errorf("create category %q: %w", name, err)
		}
	}

	for _, name := range fixtures.Groups {
		group := models.Group{Name: name}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&group).Error; err != nil {
			return fmt.Errorf("create group %q: %w", name, err)
		}
	}

	return nil
}
