package service

import (
	"fmt"

	"github.com/Mrkivi24/onlycats/internal/common"
)

var (
	ErrEmptyFile        = common.NewValidationError("请选择要上传的图片")
	ErrUnsupportedType  = common.NewValidationError("不支持的图片类型，仅支持 JPEG、PNG、GIF、WebP")
	ErrContentMismatch  = common.NewValidationError("文件内容与声明的图片类型不一致")
	ErrFileTooLarge     = common.NewValidationError(fmt.Sprintf("图片大小不能超过 %dMB", maxUploadMB))
	ErrTitleRequired    = common.NewValidationError("标题不能为空")
	ErrCategoryRequired = common.NewValidationError("分类不能为空")
	ErrInvalidField     = common.NewValidationError("字段格式不正确")

	ErrClientIdentityRequired = common.NewValidationError("无法识别客户端地址")
	ErrPictureNotFound        = common.NewNotFoundError("图片不存在")
)

// invalidField 返回带具体说明的 ErrInvalidField。
func invalidField(message string) error {
	return &common.ServiceError{Code: common.ErrorCodeValidation, Message: message, Err: ErrInvalidField}
}
