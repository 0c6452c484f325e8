package handler

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/farmwise/farmwise/internal/middleware"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Predict   *PredictHandler
	Chat      *ChatHandler
	JWTSecret []byte
	CORS      []string
}

// NewRouter builds the HTTP surface. Auth and chat are public; every
// prediction and history route sits behind the JWT gate.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(deps.CORS))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.POST("/api/auth/register", deps.Auth.Register)
	router.POST("/api/auth/login", deps.Auth.Login)
	router.POST("/ask", deps.Chat.Ask)

	authed := router.Group("")
	authed.Use(middleware.JWTAuth(deps.JWTSecret))
	authed.POST("/predict", deps.Predict.PredictCrop)
	authed.POST("/fertilizer-predict", deps.Predict.PredictFertilizer)
	authed.POST("/cropyield-predict", deps.Predict.PredictYield)
	authed.GET("/api/crop-predictions", deps.Predict.CropHistory)
	authed.GET("/api/fertilizer-recommendations", deps.Predict.FertilizerHistory)
	authed.GET("/api/yield-predictions", deps.Predict.YieldHistory)

	return router
}
