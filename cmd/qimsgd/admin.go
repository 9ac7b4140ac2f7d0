package main

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danmuck/qimsg/internal/capability"
	"github.com/danmuck/qimsg/internal/config"
	"github.com/danmuck/qimsg/internal/observability"
)

type adminServer struct {
	router    *gin.Engine
	startedAt time.Time
	name      string
}

func newAdminServer(cfg config.ListenerConfig, reg *streamRegistry) *adminServer {
	observability.RegisterMetrics()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger())
	r.Use(observability.RequestMetricsMiddleware(cfg.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	adm := &adminServer{router: r, startedAt: time.Now(), name: cfg.Name}
	adm.registerRoutes(reg)
	return adm
}

func (a *adminServer) registerRoutes(reg *streamRegistry) {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(a.startedAt).String(),
			"service": a.name,
		})
	})

	a.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.router.GET("/debug/streams", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"streams": debugStreams(reg)})
	})
}

func (a *adminServer) Run(addr string) error {
	return a.router.Run(addr)
}

type debugStreamView struct {
	ID                    string `json:"id"`
	DirectDispatchAllowed bool   `json:"direct_dispatch_allowed"`
	ObjectPtrUID          bool   `json:"object_ptr_uid"`
	DirectMessageDispatch bool   `json:"direct_message_dispatch"`
}

func debugStreams(reg *streamRegistry) []debugStreamView {
	snapshot := reg.snapshot()
	out := make([]debugStreamView, 0, len(snapshot))
	for id, ctx := range snapshot {
		out = append(out, debugStreamView{
			ID:                    id,
			DirectDispatchAllowed: ctx.DirectDispatchAllowed(),
			ObjectPtrUID:          ctx.SharedCapabilityBool(capability.ObjectPtrUID, false),
			DirectMessageDispatch: ctx.SharedCapabilityBool(capability.DirectMessageDispatch, false),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
