package utils

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectImageType 通过文件头 (Magic Bytes) 检测真实 MIME 类型，不含参数部分。
func DetectImageType(data []byte) string {
	return NormalizeMimeType(mimetype.Detect(data).String())
}

// NormalizeMimeType 去掉参数并转为小写，将常见别名归一到标准写法。
func NormalizeMimeType(mimeType string) string {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = strings.TrimSpace(m[:i])
	}
	switch m {
	case "image/jpg", "image/pjpeg":
		return "image/jpeg"
	case "image/x-png":
		return "image/png"
	}
	return m
}

// ContentMatchesType 判断文件内容是否与声明的 MIME 类型一致。
func ContentMatchesType(data []byte, declared string) bool {
	return mimetype.Detect(data).Is(NormalizeMimeType(declared))
}
