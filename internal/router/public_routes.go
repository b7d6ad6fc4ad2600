package router

import (
	picturehandler "github.com/Mrkivi24/onlycats/internal/modules/picture/handler"

	"github.com/gin-gonic/gin"
)

func registerPublicRoutes(api *gin.RouterGroup, likeLimiter gin.HandlerFunc, h *picturehandler.Handler) {
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong from gin"})
	})
	api.GET("/pictures", h.ListPictures)
	api.GET("/pictures/:id", h.GetPicture)
	api.GET("/search", h.SearchPictures)
	api.POST("/like/:id", likeLimiter, h.LikePicture)
}
