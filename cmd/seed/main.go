package main

import (
	"context"
	"fmt"
	"time"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/config"
	dbpkg "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/db"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/logging"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/seed"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.AppEnv)

	db := dbpkg.NewDB(cfg, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	salon, err := seed.Demo(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Uint("salon_id", salon.ID).Str("slug", salon.Slug).Msg("demo salon ready")

	if !cfg.IsDevelopment() {
		return
	}

	token, err := seed.ConsoleToken(cfg.JWTSecret, 1, salon.ID, 24*time.Hour)
	if err != nil {
		log.Fatal().Err(err).Msg("sign console token")
	}
	fmt.Println(token)
}
