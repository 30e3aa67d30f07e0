package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"dh2ocol/internal/api"
	"dh2ocol/internal/config"
	"dh2ocol/internal/db"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	conn, err := db.Open(ctx, cfg.MySQL)
	cancel()
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	defer conn.Close()

	server := api.NewServer(conn, cfg)

	log.Printf("escuchando en %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server.Handler()); err != nil {
		log.Fatalf("http: %v", err)
	}
}
