package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FouadMagdy01/sabeel-sub000/internal/cache"
	"github.com/FouadMagdy01/sabeel-sub000/internal/engine"
	"github.com/FouadMagdy01/sabeel-sub000/internal/http/api"
	"github.com/FouadMagdy01/sabeel-sub000/internal/http/api/client/packets"
	"github.com/FouadMagdy01/sabeel-sub000/internal/model"
)

type PrayerController struct {
	engine      *engine.Engine
	prayerCache *cache.PrayerCache
}

func NewPrayerController(eng *engine.Engine, prayerCache *cache.PrayerCache) *PrayerController {
	return &PrayerController{engine: eng, prayerCache: prayerCache}
}

func PrayerModule(eng *engine.Engine, prayerCache *cache.PrayerCache) api.Module {
	ctl := NewPrayerController(eng, prayerCache)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/prayers/today", api.ResolveEndpoint(ctl.today))
		c.GET("/prayers/status", api.ResolveEndpoint(ctl.status))
		c.POST("/prayers/refresh", api.ResolveEndpoint(ctl.refresh))

		c.GET("/prayers/preferences", api.ResolveEndpoint(ctl.getPreferences))
		c.PUT("/prayers/preferences", api.ResolveEndpoint(ctl.updatePreferences))
		c.PUT("/prayers/language", api.ResolveEndpoint(ctl.setLanguage))
	})
}

func (p *PrayerController) today(ctx *gin.Context) (any, *api.APIError) {
	data := p.engine.Data()
	if data == nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "no prayer data available yet"}
	}

	dayKey := p.engine.TodayKey()
	day, ok := data.Days[dayKey]
	if !ok {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "no prayer data for today"}
	}

	snap := p.engine.Snapshot()
	return packets.TodayResponse{
		DayKey:  dayKey,
		Timings: day,
		Hijri:   day.Hijri,
		IsStale: snap.IsStale,
	}, nil
}

func (p *PrayerController) status(ctx *gin.Context) (any, *api.APIError) {
	return packets.StatusResponse{
		Snapshot: p.engine.Snapshot(),
		DayKey:   p.engine.TodayKey(),
	}, nil
}

// refresh runs the prompting sync path: the caller explicitly opted into a
// potential permission dialog on the device.
func (p *PrayerController) refresh(ctx *gin.Context) (any, *api.APIError) {
	p.engine.Refresh(ctx.Request.Context())

	snap := p.engine.Snapshot()
	if snap.State == engine.StateError {
		return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: string(snap.Error)}
	}
	return packets.StatusResponse{Snapshot: snap, DayKey: p.engine.TodayKey()}, nil
}

func (p *PrayerController) getPreferences(ctx *gin.Context) (any, *api.APIError) {
	rctx := ctx.Request.Context()
	return packets.PreferencesResponse{
		AdhanEnabled: p.prayerCache.AdhanEnabled(rctx),
		AdhanSound:   p.prayerCache.AdhanSound(rctx),
	}, nil
}

func (p *PrayerController) updatePreferences(ctx *gin.Context) (any, *api.APIError) {
	var request packets.UpdatePreferencesRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	rctx := ctx.Request.Context()
	if request.AdhanEnabled != nil {
		p.prayerCache.SetAdhanEnabled(rctx, *request.AdhanEnabled)
	}
	if request.AdhanSound != nil {
		p.prayerCache.SetAdhanSound(rctx, *request.AdhanSound)
	}
	p.engine.ApplyPreferences(rctx)

	return packets.PreferencesResponse{
		AdhanEnabled: p.prayerCache.AdhanEnabled(rctx),
		AdhanSound:   p.prayerCache.AdhanSound(rctx),
	}, nil
}

func (p *PrayerController) setLanguage(ctx *gin.Context) (any, *api.APIError) {
	var request packets.SetLanguageRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	var names map[model.PrayerKey]string
	if len(request.Names) > 0 {
		names = make(map[model.PrayerKey]string, len(request.Names))
		for key, name := range request.Names {
			names[model.PrayerKey(key)] = name
		}
	}
	p.engine.SetLanguage(ctx.Request.Context(), request.Language, names)

	return packets.AckResponse{Success: true}, nil
}
