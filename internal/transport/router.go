package transport

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PiyushDatta/senseboard/internal/health"
	"github.com/PiyushDatta/senseboard/internal/middleware"
	"github.com/PiyushDatta/senseboard/internal/personalization"
	"github.com/PiyushDatta/senseboard/internal/ratelimit"
	"github.com/PiyushDatta/senseboard/internal/room"
	"github.com/PiyushDatta/senseboard/internal/scheduler"
	"github.com/PiyushDatta/senseboard/internal/transcription"
)

// Router wires SenseBoard's full HTTP/JSON and websocket surface onto the
// domain packages it depends on: CORS, recovery, metrics, health, and the
// REST and ws route groups, framed as JSON rather than binary protobuf.
type Router struct {
	Store           *room.Store
	Scheduler       *scheduler.Scheduler
	Health          *health.Handler
	RateLimiter     *ratelimit.RateLimiter
	Transcription   transcription.Provider
	Personalization personalization.Store

	aiPatchTimeout time.Duration

	engine *gin.Engine
}

// New builds a Router and registers every route. aiPatchTimeout bounds how
// long POST /rooms/:id/ai-patch blocks on the main queue's result.
func New(store *room.Store, sched *scheduler.Scheduler, healthHandler *health.Handler, limiter *ratelimit.RateLimiter, transcriber transcription.Provider, personalStore personalization.Store, aiPatchTimeout time.Duration) *Router {
	if aiPatchTimeout <= 0 {
		aiPatchTimeout = 20 * time.Second
	}

	rt := &Router{
		Store:           store,
		Scheduler:       sched,
		Health:          healthHandler,
		RateLimiter:     limiter,
		Transcription:   transcriber,
		Personalization: personalStore,
		aiPatchTimeout:  aiPatchTimeout,
	}
	rt.build()
	return rt
}

// Engine exposes the underlying gin.Engine, e.g. for http.Server.Handler.
func (rt *Router) Engine() *gin.Engine {
	return rt.engine
}

func (rt *Router) build() {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CorrelationID())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Correlation-Id")
	r.Use(cors.New(corsConfig))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", rt.Health.Health)
	r.GET("/ai/preflight", rt.Health.Preflight)

	rooms := r.Group("/rooms")
	rooms.Use(rt.RateLimiter.Middleware("rooms"))
	{
		rooms.POST("", rt.createRoom)
		rooms.GET("/:id", rt.getRoom)
		rooms.POST("/:id/ai-patch", rt.requestAiPatch)
		rooms.POST("/:id/transcribe", rt.transcribe)
		rooms.GET("/:id/personal-board", rt.getPersonalBoard)
		rooms.POST("/:id/personal-board/ai-patch", rt.requestPersonalAiPatch)
	}

	personalizationGroup := r.Group("/personalization")
	personalizationGroup.Use(rt.RateLimiter.Middleware("api"))
	{
		personalizationGroup.GET("/context", rt.getPersonalizationContext)
		personalizationGroup.POST("/context", rt.appendPersonalizationContext)
	}

	r.GET("/ws", rt.serveWs)

	rt.engine = r
}

