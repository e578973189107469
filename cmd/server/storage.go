package main

import (
	"github.com/rs/zerolog/log"

	"github.com/FouadMagdy01/sabeel-sub000/internal/kv"
)

// InitStore selects and returns the configured key-value backend
func InitStore(env Environment) kv.Store {
	switch env.KVBackend {
	case "postgres":
		store, err := kv.NewPostgresStore(env.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize postgres store")
		}
		log.Info().Msg("Using Postgres key-value store")
		return store
	case "memory":
		log.Info().Msg("Using in-memory key-value store (no durable cache)")
		return kv.NewMemoryStore()
	default:
		store, err := kv.NewRedisStore(env.RedisAddress, env.RedisUsername, env.RedisPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize redis store")
		}
		log.Info().Str("address", env.RedisAddress).Msg("Using Redis key-value store")
		return store
	}
}
