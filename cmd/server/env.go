package main

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

type Environment struct {
	Environment   string
	ServerAddress string
	SecretKey     string

	KVBackend   string
	DatabaseURL string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL string
	DeviceID      string

	AladhanBaseURL string

	StaticLatitude  float64
	StaticLongitude float64
	HasStaticCoords bool

	DefaultLanguage string
}

// LoadEnvironment reads and validates env vars
func LoadEnvironment() Environment {
	env := Environment{
		Environment:   os.Getenv("APP_ENV"),
		ServerAddress: os.Getenv("SERVER_ADDRESS"),
		SecretKey:     os.Getenv("JWT_SECRET"),

		KVBackend:   os.Getenv("KV_BACKEND"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBrokerURL: os.Getenv("MQTT_BROKER_URL"),
		DeviceID:      os.Getenv("DEVICE_ID"),

		AladhanBaseURL: os.Getenv("ALADHAN_BASE_URL"),

		DefaultLanguage: os.Getenv("DEFAULT_LANGUAGE"),
	}

	if env.ServerAddress == "" {
		env.ServerAddress = ":8080"
	}
	if env.KVBackend == "" {
		env.KVBackend = "redis"
	}
	if env.DefaultLanguage == "" {
		env.DefaultLanguage = "en"
	}

	if lat, ok := parseCoord("STATIC_LATITUDE"); ok {
		if lng, ok := parseCoord("STATIC_LONGITUDE"); ok {
			env.StaticLatitude = lat
			env.StaticLongitude = lng
			env.HasStaticCoords = true
		}
	}

	// Basic validation
	if env.SecretKey == "" {
		log.Fatal().Msg("Missing required environment variable JWT_SECRET")
	}
	if env.KVBackend == "postgres" && env.DatabaseURL == "" {
		log.Fatal().Msg("KV_BACKEND=postgres requires DATABASE_URL")
	}
	if env.KVBackend == "redis" && env.RedisAddress == "" {
		log.Fatal().Msg("KV_BACKEND=redis requires REDIS_ADDRESS")
	}
	if env.MQTTBrokerURL != "" && env.DeviceID == "" {
		log.Fatal().Msg("MQTT_BROKER_URL requires DEVICE_ID")
	}

	return env
}

func parseCoord(name string) (float64, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatal().Str("var", name).Str("value", raw).Msg("invalid coordinate")
	}
	return value, true
}
