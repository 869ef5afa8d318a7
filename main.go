package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"gestao_alunos_backend/internals/configs"
	database "gestao_alunos_backend/internals/databases"
	"gestao_alunos_backend/internals/features/school/turmas/model"
	routes "gestao_alunos_backend/internals/route"
)

func main() {
	cfg := configs.LoadEnv()

	// 🔌 DB connect + pool + schema + warm-up
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	database.TunePool(db)
	if cfg.DBAutoMigrate {
		if err := database.Migrate(db, model.All()...); err != nil {
			log.Fatalf("❌ migrate: %v", err)
		}
	}
	database.WarmUpQueries(db)

	// 🧮 limiter counters in Redis when configured, else in memory
	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		rs, err := database.NewRedisStorage(cfg.RedisURL, "gestao_alunos:limiter:")
		if err != nil {
			log.Printf("[WARN] %v; limiter em memória", err)
		} else {
			limiterStorage = rs
			defer rs.Close()
		}
	}

	app := routes.NewApp(cfg, db, limiterStorage)

	go func() {
		log.Printf("✅ Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown, then close the DB pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	database.Close(db)
}
