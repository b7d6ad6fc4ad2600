package handler

import (
	"net/http"
	"strconv"

	"github.com/Mrkivi24/onlycats/internal/model"
	moduledto "github.com/Mrkivi24/onlycats/internal/modules/picture/dto"
	pictureservice "github.com/Mrkivi24/onlycats/internal/modules/picture/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	pictureService *pictureservice.Service
}

func New(pictureService *pictureservice.Service) *Handler {
	return &Handler{pictureService: pictureService}
}

func (h *Handler) toResponses(pictures []model.Picture) []moduledto.PictureResponse {
	list := make([]moduledto.PictureResponse, 0, len(pictures))
	for i := range pictures {
		list = append(list, moduledto.NewPictureResponse(&pictures[i], h.pictureService.ImagePath(&pictures[i])))
	}
	return list
}

// parseID 解析路径参数 id，失败时写入 400 响应并返回 false。
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "id 参数错误"})
		return 0, false
	}
	return uint(id), true
}
