package database

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"gestao_alunos_backend/internals/configs"
)

// ConnectDB opens the store selected by cfg.DBDriver.
func ConnectDB(cfg configs.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:         configs.NewGormLogger(cfg.SlowQueryThreshold, gormLogger.Warn),
		TranslateError: true,
	}

	switch cfg.DBDriver {
	case "sqlite":
		log.Printf("🔌 Conectando ao SQLite (%s)...", cfg.DBPath)
		return ConnectSQLite(sqliteFileDSN(cfg.DBPath), gcfg)
	case "", "postgres", "postgresql":
		log.Println("🔌 Conectando ao PostgreSQL...")
		return connectPostgres(postgresDSN(cfg), gcfg)
	default:
		return nil, fmt.Errorf("DB_DRIVER não suportado: %q", cfg.DBDriver)
	}
}

func postgresDSN(cfg configs.Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:   cfg.DBHost + ":" + cfg.DBPort,
		Path:   "/" + cfg.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", cfg.DBSSLMode)
	q.Set("application_name", "gestao_alunos")
	q.Set("options", "-c statement_timeout=3000")
	u.RawQuery = q.Encode()
	return u.String()
}

func connectPostgres(dsn string, gcfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer friendly
	}), gcfg)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no postgres: %w", err)
	}
	log.Println("✅ DB connected.")
	return db, nil
}

// ConnectSQLite opens a pure-Go SQLite database. FK enforcement is switched
// on per connection through the DSN pragma.
func ConnectSQLite(dsn string, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{TranslateError: true, Logger: gormLogger.Discard}
	}
	db, err := gorm.Open(sqlite.Open(dsn), gcfg)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite has a single writer; keep one connection so transactions queue
	// in the pool instead of failing with SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func sqliteFileDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}

// InMemorySQLiteDSN names a private in-memory database that survives
// connection recycling within the same process.
func InMemorySQLiteDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", url.PathEscape(name))
}

func TunePool(db *gorm.DB) {
	if db.Dialector.Name() == "sqlite" {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries(db *gorm.DB) {
	go func() {
		time.Sleep(500 * time.Millisecond) // let the server come up first
		if err := Ping(db); err != nil {
			log.Printf("warm-up ping err: %v", err)
			return
		}
		if err := db.Exec("SELECT 1").Error; err != nil {
			log.Printf("warm-up query err: %v", err)
		}
	}()
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Migrate creates/updates the tables for the given models.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	log.Printf("[INFO] Schema ok (%d models)", len(models))
	return nil
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
