package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/FouadMagdy01/sabeel-sub000/internal/engine"
	"github.com/FouadMagdy01/sabeel-sub000/internal/http/api"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type StreamController struct {
	engine *engine.Engine
	tick   time.Duration
}

// StreamModule pushes the derived prayer status over a websocket once per
// minute, so clients get countdown updates without polling.
func StreamModule(eng *engine.Engine) api.Module {
	ctl := &StreamController{engine: eng, tick: time.Minute}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/prayers/stream", ctl.stream)
	})
}

func (s *StreamController) stream(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Drain reads so close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(s.engine.Snapshot()); err != nil {
		return
	}

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Request.Context().Done():
			return
		case <-ticker.C:
			if err := conn.WriteJSON(s.engine.Snapshot()); err != nil {
				return
			}
		}
	}
}
