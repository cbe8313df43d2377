package query

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/urbannest/urbannest/dao/model"
)

// Migrate runs the versioned schema migrations. New migrations append to the
// list; IDs are dates and never reused.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250301-initial-schema",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&model.User{},
					&model.Project{},
					&model.Floor{},
					&model.Phase{},
					&model.Lead{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					"leads", "phases", "floors", "projects", "users",
				)
			},
		},
		{
			ID: "20250414-otp-and-reset-tokens",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.OTPCode{}, &model.ResetToken{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("otp_codes", "reset_tokens")
			},
		},
	})
	return m.Migrate()
}
