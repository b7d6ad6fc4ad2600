package consts

const (
	// ApplicationName 应用名称
	ApplicationName = "OnlyCats Gallery"

	// ApplicationVersion 后端版本
	ApplicationVersion = "1.0.0"
)
