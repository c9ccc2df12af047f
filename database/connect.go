package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rpupo63/student-showcase-backend/config"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Connect opens the database selected by DB_TYPE and registers read replicas
// listed in DB_REPLICA_DSNS.
func Connect(c map[string]string) (*gorm.DB, error) {
	dbType := strings.ToLower(config.GetString(c, "DB_TYPE", "postgres"))
	zlog.Info().Str("dbType", dbType).Msg("connecting to database")

	dialector, replica, err := dialectorFor(dbType, c)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, gormConfig(logger.Warn))
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if replicas := config.GetStrings(c, "DB_REPLICA_DSNS"); len(replicas) > 0 {
		dialectors := make([]gorm.Dialector, 0, len(replicas))
		for _, dsn := range replicas {
			dialectors = append(dialectors, replica(dsn))
		}
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: dialectors,
			Policy:   dbresolver.RandomPolicy{},
		}).SetMaxOpenConns(config.GetInt(c, "DB_MAX_OPEN_CONNS", 25)))
		if err != nil {
			return nil, fmt.Errorf("error registering read replicas: %w", err)
		}
		zlog.Info().Int("replicas", len(replicas)).Msg("read replicas registered")
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("error testing database connection: %w", err)
	}

	return db, nil
}

func dialectorFor(dbType string, c map[string]string) (gorm.Dialector, func(string) gorm.Dialector, error) {
	pg := func(dsn string) gorm.Dialector {
		return postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	}

	switch dbType {
	case "postgres":
		dsn := config.GetString(c, "DATABASE_URL", "")
		if dsn == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for DB_TYPE=postgres")
		}
		return pg(dsn), pg, nil
	case "supa":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		)
		return pg(dsn), pg, nil
	case "mysql":
		dsn := config.GetString(c, "DATABASE_URL", "")
		if dsn == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for DB_TYPE=mysql")
		}
		my := func(dsn string) gorm.Dialector { return mysql.Open(dsn) }
		return my(dsn), my, nil
	case "sqlite":
		dsn := config.GetString(c, "DATABASE_URL", "showcase.db?_foreign_keys=on")
		return sqlite.Open(dsn), func(dsn string) gorm.Dialector { return sqlite.Open(dsn) }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported DB_TYPE %q (use postgres, supa, mysql or sqlite)", dbType)
	}
}

func gormConfig(level logger.LogLevel) *gorm.Config {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	return &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	}
}

// OpenSQLite opens a SQLite database with foreign keys enforced. An in-memory
// DSN is pinned to a single connection so every query sees the same schema.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	if !strings.Contains(dsn, "_foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(logger.Silent))
	if err != nil {
		return nil, err
	}
	if strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}
