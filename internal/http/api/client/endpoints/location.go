package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FouadMagdy01/sabeel-sub000/internal/http/api"
	"github.com/FouadMagdy01/sabeel-sub000/internal/http/api/client/packets"
	"github.com/FouadMagdy01/sabeel-sub000/internal/location"
	"github.com/FouadMagdy01/sabeel-sub000/internal/model"
)

type LocationController struct {
	resolver *location.DeviceResolver
}

func NewLocationController(resolver *location.DeviceResolver) *LocationController {
	return &LocationController{resolver: resolver}
}

// LocationModule accepts the device-side reports the resolver reads back:
// permission grant, positioning-service state, and position fixes.
func LocationModule(resolver *location.DeviceResolver) api.Module {
	ctl := NewLocationController(resolver)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/location/permission", api.ResolveEndpoint(ctl.reportPermission))
		c.POST("/location/service", api.ResolveEndpoint(ctl.reportService))
		c.POST("/location/fix", api.ResolveEndpoint(ctl.reportFix))
	})
}

func (l *LocationController) reportPermission(ctx *gin.Context) (any, *api.APIError) {
	var request packets.ReportPermissionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	l.resolver.ReportPermission(request.Granted)
	return packets.AckResponse{Success: true}, nil
}

func (l *LocationController) reportService(ctx *gin.Context) (any, *api.APIError) {
	var request packets.ReportServiceRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	l.resolver.ReportServiceEnabled(request.Enabled)
	return packets.AckResponse{Success: true}, nil
}

func (l *LocationController) reportFix(ctx *gin.Context) (any, *api.APIError) {
	var request packets.ReportFixRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	lat, lng := *request.Latitude, *request.Longitude
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "coordinates out of range"}
	}
	l.resolver.ReportFix(ctx.Request.Context(), model.Coordinates{
		Latitude:  lat,
		Longitude: lng,
	})
	return packets.AckResponse{Success: true}, nil
}
