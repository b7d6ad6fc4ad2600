package service

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Mrkivi24/onlycats/internal/consts"
	"github.com/Mrkivi24/onlycats/internal/metrics"
	"github.com/Mrkivi24/onlycats/internal/model"
	"github.com/Mrkivi24/onlycats/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const maxUploadMB = consts.MaxUploadSize >> 20

// UploadInput 上传请求的原始输入，字段尚未清洗。
type UploadInput struct {
	Data       []byte
	MimeType   string
	Filename   string
	Title      string
	Category   string
	Tags       string
	TitleColor string
}

type uploadFields struct {
	Title      string `validate:"max=200"`
	Category   string `validate:"max=100"`
	Tags       string `validate:"max=500"`
	TitleColor string `validate:"max=32,iscolor"`
}

var uploadFieldMessages = map[string]string{
	"Title":      "标题长度不能超过 200 个字符",
	"Category":   "分类长度不能超过 100 个字符",
	"Tags":       "标签总长度不能超过 500 个字符",
	"TitleColor": "标题颜色格式不正确",
}

// Upload 校验输入，保存资源并写入图片记录。
// 记录写入失败时删除刚保存的资源后再返回错误。
func (s *Service) Upload(ctx context.Context, input UploadInput) (*model.Picture, error) {
	mimeType, err := validateImage(input.Data, input.MimeType)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("validation").Inc()
		return nil, err
	}
	fields, err := s.validateFields(input)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	storeCtx, cancel := s.withTimeout(ctx)
	ref, err := s.assets.Store(storeCtx, input.Data, chooseExtension(input.Filename, mimeType))
	cancel()
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("storage").Inc()
		return nil, translateStoreError(err, "保存图片失败")
	}

	picture := &model.Picture{
		Title:      fields.Title,
		Category:   fields.Category,
		Tags:       fields.Tags,
		AssetPath:  ref,
		TitleColor: fields.TitleColor,
	}

	insertCtx, cancel := s.withTimeout(ctx)
	err = s.store.Insert(insertCtx, picture)
	cancel()
	if err != nil {
		s.compensate(ctx, ref)
		metrics.UploadsTotal.WithLabelValues("storage").Inc()
		return nil, translateStoreError(err, "系统错误: 数据库记录失败")
	}

	metrics.UploadsTotal.WithLabelValues("success").Inc()
	log.Info().Uint("id", picture.ID).Str("ref", ref).Msg("📷 图片上传成功")
	return picture, nil
}

// compensate 删除记录写入失败后遗留的资源。
func (s *Service) compensate(ctx context.Context, ref string) {
	delCtx, cancel := s.detachedTimeout(ctx)
	defer cancel()
	if err := s.assets.Delete(delCtx, ref); err != nil {
		metrics.UploadCompensations.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("ref", ref).Msg("回滚已保存的图片失败，等待孤儿清理")
		return
	}
	metrics.UploadCompensations.WithLabelValues("deleted").Inc()
}

// validateImage 按顺序检查：非空、类型白名单、内容一致、大小上限。
func validateImage(data []byte, declared string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	mimeType := utils.NormalizeMimeType(declared)
	if _, ok := consts.AllowedImageTypes[mimeType]; !ok {
		return "", ErrUnsupportedType
	}
	if !utils.ContentMatchesType(data, mimeType) {
		return "", ErrContentMismatch
	}
	if len(data) > consts.MaxUploadSize {
		return "", ErrFileTooLarge
	}
	return mimeType, nil
}

func (s *Service) validateFields(input UploadInput) (uploadFields, error) {
	fields := uploadFields{
		Title:      strings.TrimSpace(input.Title),
		Category:   strings.TrimSpace(input.Category),
		Tags:       NormalizeTags(input.Tags),
		TitleColor: strings.TrimSpace(input.TitleColor),
	}
	if fields.Title == "" {
		return fields, ErrTitleRequired
	}
	if fields.Category == "" {
		return fields, ErrCategoryRequired
	}
	if fields.TitleColor == "" {
		fields.TitleColor = consts.DefaultTitleColor
	}

	if err := s.validate.Struct(fields); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			if msg, ok := uploadFieldMessages[verrs[0].Field()]; ok {
				return fields, invalidField(msg)
			}
		}
		return fields, ErrInvalidField
	}
	return fields, nil
}

// NormalizeTags 清洗逗号分隔的标签：去空白、去空项、忽略大小写去重，保留首次出现的写法。
func NormalizeTags(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, tag := range strings.Split(raw, consts.TagSeparator) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	return strings.Join(tags, consts.TagSeparator)
}

// chooseExtension 优先沿用原文件扩展名，与类型不符时使用该类型的规范扩展名。
func chooseExtension(filename, mimeType string) string {
	allowed := consts.AllowedImageTypes[mimeType]
	if len(allowed) == 0 {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if slices.Contains(allowed, ext) {
		return ext
	}
	return allowed[0]
}

