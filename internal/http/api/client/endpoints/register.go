package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/FouadMagdy01/sabeel-sub000/internal/http/api"
	"github.com/FouadMagdy01/sabeel-sub000/internal/http/api/client/packets"
	"github.com/FouadMagdy01/sabeel-sub000/internal/http/middleware"
)

type RegisterController struct {
	secretKey string
}

// RegisterModule is the public entry point: a device registers its ID and
// receives the JWT the rest of the client API requires.
func RegisterModule(secretKey string) api.Module {
	ctl := &RegisterController{secretKey: secretKey}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/register", api.ResolveEndpoint(ctl.registerDevice))
	})
}

func (r *RegisterController) registerDevice(ctx *gin.Context) (any, *api.APIError) {
	var request packets.RegisterDeviceRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	token, err := middleware.GenerateDeviceJWT(request.DeviceID, r.secretKey)
	if err != nil {
		log.Error().Err(err).Str("deviceID", request.DeviceID).Msg("failed to issue device token")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to issue token"}
	}

	log.Info().Str("deviceID", request.DeviceID).Msg("device registered")
	return packets.RegisterDeviceResponse{DeviceID: request.DeviceID, Token: token}, nil
}
