package consts

const (
	// GoldenThreshold 点赞数达到该值后图片进入金色闪耀状态
	GoldenThreshold = 100

	// MaxUploadSize 单张图片最大字节数 (10 MiB)
	MaxUploadSize = 10 << 20

	// DefaultTitleColor 未指定标题颜色时使用的默认值
	DefaultTitleColor = "#ff6b9d"

	// AlreadyLikedMessage 重复点赞时返回给前端的提示
	AlreadyLikedMessage = "Already liked"

	// TagSeparator 标签分隔符
	TagSeparator = ","
)

// AllowedImageTypes 允许上传的 MIME 类型及其规范扩展名
var AllowedImageTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
	"image/webp": {".webp"},
}
