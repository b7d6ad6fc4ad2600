package httpx

import (
	"net/http"

	"github.com/Mrkivi24/onlycats/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// WriteServiceError writes a standardized HTTP error response for service-layer errors.
// 响应体保持原有前端约定：{"success": false, "error": "..."}。
func WriteServiceError(c *gin.Context, err error, fallbackMessage string) {
	if serviceErr, ok := common.AsServiceError(err); ok {
		if serviceErr.Code == common.ErrorCodeStorage || serviceErr.Code == common.ErrorCodeInternal {
			log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("请求处理失败")
		}
		c.JSON(serviceErrorStatus(serviceErr.Code), gin.H{"success": false, "error": serviceErr.Message})
		return
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("未分类错误")
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": fallbackMessage})
}

func serviceErrorStatus(code common.ErrorCode) int {
	switch code {
	case common.ErrorCodeValidation:
		return http.StatusBadRequest
	case common.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case common.ErrorCodeForbidden:
		return http.StatusForbidden
	case common.ErrorCodeConflict:
		return http.StatusConflict
	case common.ErrorCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
