package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prateushsharma/sei-Firewall/config"
	"github.com/prateushsharma/sei-Firewall/controllers"
	streamCtrl "github.com/prateushsharma/sei-Firewall/controllers/stream"
	"github.com/prateushsharma/sei-Firewall/routers/middleware"
	streamSvc "github.com/prateushsharma/sei-Firewall/services/stream"
	u "github.com/prateushsharma/sei-Firewall/utils"
)

// Routes registers the API routes on a fresh engine
func Routes(gateway *streamSvc.Gateway) *gin.Engine {
	conf := config.ServerConfig()
	if conf.Environment == "production" || conf.Environment == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())

	ctrl := controllers.NewController(gateway)
	stream := streamCtrl.NewController(gateway)

	router.GET("/health", ctrl.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1", middleware.RateLimitMiddleware())
	v1.GET("/stream", stream.OpenStream)
	v1.POST("/stream/messages", stream.SubmitMessage)
	v1.GET("/token/:address/transfers", ctrl.GetTokenTransfers)
	v1.GET("/nft/:address/transfers", ctrl.GetNFTTransfers)

	router.NoRoute(func(ctx *gin.Context) {
		u.APIResponse(ctx, http.StatusNotFound, "error", "Route not found", nil)
	})

	return router
}
