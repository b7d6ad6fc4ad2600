package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Mrkivi24/onlycats/internal/consts"
	"github.com/Mrkivi24/onlycats/internal/common/httpx"
	moduledto "github.com/Mrkivi24/onlycats/internal/modules/picture/dto"
	pictureservice "github.com/Mrkivi24/onlycats/internal/modules/picture/service"

	"github.com/gin-gonic/gin"
)

// UploadPicture 接收 multipart 上传，文件字段为 image（兼容 file）。
func (h *Handler) UploadPicture(c *gin.Context) {
	file, err := uploadedFile(c)
	if err != nil {
		httpx.WriteServiceError(c, err, "上传失败")
		return
	}

	data, err := readUpload(file)
	if err != nil {
		httpx.WriteServiceError(c, err, "无法读取上传文件")
		return
	}

	picture, err := h.pictureService.Upload(c.Request.Context(), pictureservice.UploadInput{
		Data:       data,
		MimeType:   file.Header.Get("Content-Type"),
		Filename:   file.Filename,
		Title:      c.PostForm("title"),
		Category:   c.PostForm("category"),
		Tags:       c.PostForm("tags"),
		TitleColor: c.PostForm("title_color"),
	})
	if err != nil {
		httpx.WriteServiceError(c, err, "上传失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, moduledto.UploadResponse{
		Success:   true,
		ID:        picture.ID,
		AssetPath: picture.AssetPath,
		ImagePath: h.pictureService.ImagePath(picture),
	})
}

// uploadedFile 取出上传文件。未声明长度的请求体在解析途中超限时按文件过大处理。
func uploadedFile(c *gin.Context) (*multipart.FileHeader, error) {
	file, err := c.FormFile("image")
	if err != nil && !isBodyTooLarge(err) {
		file, err = c.FormFile("file")
	}
	if err != nil {
		if isBodyTooLarge(err) {
			return nil, pictureservice.ErrFileTooLarge
		}
		return nil, pictureservice.ErrEmptyFile
	}
	return file, nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// readUpload 读取上传内容，超出上限时只多读一个字节，交由业务层判定过大。
func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, pictureservice.ErrEmptyFile
	}
	defer func() { _ = src.Close() }()

	data, err := io.ReadAll(io.LimitReader(src, consts.MaxUploadSize+1))
	if err != nil {
		return nil, pictureservice.ErrEmptyFile
	}
	return data, nil
}

// ListPictures 返回按点赞数降序的图片列表，可选 ?limit=N。
func (h *Handler) ListPictures(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "limit 参数错误"})
			return
		}
		limit = parsed
	}

	pictures, err := h.pictureService.ListAll(c.Request.Context(), limit)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取图片列表失败")
		return
	}
	c.JSON(http.StatusOK, h.toResponses(pictures))
}

func (h *Handler) GetPicture(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	picture, err := h.pictureService.GetByID(c.Request.Context(), id)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取图片失败")
		return
	}
	c.JSON(http.StatusOK, moduledto.NewPictureResponse(picture, h.pictureService.ImagePath(picture)))
}

// SearchPictures 空查询返回空数组。
func (h *Handler) SearchPictures(c *gin.Context) {
	pictures, err := h.pictureService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		httpx.WriteServiceError(c, err, "搜索失败")
		return
	}
	c.JSON(http.StatusOK, h.toResponses(pictures))
}

// LikePicture 重复点赞返回 200 与 success=false，不视为错误。
func (h *Handler) LikePicture(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.pictureService.Like(c.Request.Context(), id, c.ClientIP())
	if err != nil {
		httpx.WriteServiceError(c, err, "点赞失败")
		return
	}
	if !result.Accepted {
		c.JSON(http.StatusOK, moduledto.MessageResponse{Success: false, Message: consts.AlreadyLikedMessage})
		return
	}
	c.JSON(http.StatusOK, moduledto.LikeResponse{
		Success:       true,
		NewLikeCount:  result.NewCount,
		GoldenSparkle: result.Golden,
	})
}
