package handler

import (
	"net/http"

	"github.com/Mrkivi24/onlycats/internal/common/httpx"

	"github.com/gin-gonic/gin"
)

// DeletePicture 管理员删除图片及其资源
func (h *Handler) DeletePicture(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.pictureService.DeletePicture(c.Request.Context(), id); err != nil {
		httpx.WriteServiceError(c, err, "删除失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ForceSparkle 管理员强制设置金色闪耀
func (h *Handler) ForceSparkle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.pictureService.ForceSparkle(c.Request.Context(), id); err != nil {
		httpx.WriteServiceError(c, err, "设置失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
