package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/FouadMagdy01/sabeel-sub000/internal/cache"
	"github.com/FouadMagdy01/sabeel-sub000/internal/engine"
	"github.com/FouadMagdy01/sabeel-sub000/internal/http/api"
	clientapi "github.com/FouadMagdy01/sabeel-sub000/internal/http/api/client/endpoints"
	"github.com/FouadMagdy01/sabeel-sub000/internal/location"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env Environment, eng *engine.Engine, prayerCache *cache.PrayerCache, deviceResolver *location.DeviceResolver) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		AllowCredentials: false,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/client",
	},
		clientapi.RegisterModule(env.SecretKey),
	)

	modules := []api.Module{
		clientapi.PrayerModule(eng, prayerCache),
		clientapi.StreamModule(eng),
	}
	if deviceResolver != nil {
		modules = append(modules, clientapi.LocationModule(deviceResolver))
	}

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/client",
		Auth:      true,
		SecretKey: env.SecretKey,
	}, modules...)
}
