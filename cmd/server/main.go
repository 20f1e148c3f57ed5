package main

import (
	"log"

	"github.com/buddyboard/buddyboard/internal/config"
	"github.com/buddyboard/buddyboard/internal/logger"
	"github.com/buddyboard/buddyboard/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zlog.Sync()

	srv, err := server.New(cfg, zlog)
	if err != nil {
		zlog.Fatalw("server init failed", "error", err)
	}
	defer srv.Shutdown()

	if err := srv.Run(); err != nil {
		zlog.Fatalw("server exited", "error", err)
	}
}
