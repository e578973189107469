package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/FouadMagdy01/sabeel-sub000/internal/aladhan"
	"github.com/FouadMagdy01/sabeel-sub000/internal/cache"
	"github.com/FouadMagdy01/sabeel-sub000/internal/engine"
	"github.com/FouadMagdy01/sabeel-sub000/internal/location"
	"github.com/FouadMagdy01/sabeel-sub000/internal/model"
	"github.com/FouadMagdy01/sabeel-sub000/internal/notify"
)

func main() {
	// .env is optional; real deployments set env vars directly
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment")
	}

	env := LoadEnvironment()

	if env.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store := InitStore(env)
	prayerCache := cache.New(store)

	var resolver location.Resolver
	var deviceResolver *location.DeviceResolver
	if env.HasStaticCoords {
		resolver = location.NewStaticResolver(model.Coordinates{
			Latitude:  env.StaticLatitude,
			Longitude: env.StaticLongitude,
		})
		log.Info().
			Float64("lat", env.StaticLatitude).
			Float64("lng", env.StaticLongitude).
			Msg("using static coordinates")
	} else {
		deviceResolver = location.NewDeviceResolver(store)
		resolver = deviceResolver
	}

	var scheduler *notify.Scheduler
	if env.MQTTBrokerURL != "" {
		client, err := notify.NewMQTTClient(env.MQTTBrokerURL, "sabeel-server")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to MQTT broker")
		}
		scheduler = notify.NewScheduler(notify.NewMQTTNotifier(client, env.DeviceID))
	} else {
		log.Info().Msg("MQTT broker not configured, adhan scheduling disabled")
	}

	eng := engine.New(engine.Config{
		Cache:     prayerCache,
		Fetcher:   aladhan.NewClient(env.AladhanBaseURL),
		Resolver:  resolver,
		Scheduler: scheduler,
		Language:  env.DefaultLanguage,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cold-start sync runs off the serving path; the API answers from
	// whatever state the engine is in.
	go eng.Bootstrap(ctx)
	go eng.RunDailyResync(ctx, 24*time.Hour)

	r := gin.Default()
	RegisterRoutes(r, env, eng, prayerCache, deviceResolver)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
