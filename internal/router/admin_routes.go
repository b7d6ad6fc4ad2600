package router

import (
	"github.com/Mrkivi24/onlycats/internal/middleware"
	picturehandler "github.com/Mrkivi24/onlycats/internal/modules/picture/handler"

	"github.com/gin-gonic/gin"
)

func registerAdminRoutes(api *gin.RouterGroup, authorizer middleware.Authorizer, h *picturehandler.Handler) {
	adminAuth := middleware.AdminAuth(authorizer)

	api.DELETE("/pictures/:id", adminAuth, h.DeletePicture)
	api.POST("/pictures/:id/sparkle", adminAuth, h.ForceSparkle)
}
