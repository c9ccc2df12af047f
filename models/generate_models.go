package models

import (
	"fmt"
	"log"
	"os"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Student{},
		&Media{},
		&Project{},
		&Article{},
		&Candidate{},
	}
}

// Migrate creates or updates every table, including the project_students and
// project_media join tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto-migrate models: %w", err)
	}
	return nil
}

/*
GenerateModels migrates the schema with verbose logging and then writes typed
query helpers for every model into ./generated.

Run it with GENERATE_MODELS=true go run .
*/
func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	fmt.Println("Migrating models...")
	if err := Migrate(db); err != nil {
		return err
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)
	g.Execute()

	fmt.Println("Model generation complete!")
	return nil
}
