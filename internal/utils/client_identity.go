package utils

import (
	"net/netip"
	"strings"
)

// NormalizeClientIdentity 将请求来源地址规整为点赞去重使用的客户端标识。
//
// 去掉端口与 IPv6 zone，并把 IPv4 映射地址 (::ffff:a.b.c.d) 还原为 a.b.c.d，
// 保证同一客户端无论经由 IPv4 还是双栈监听进入都得到同一个标识。
// 无法解析为 IP 的输入按原样（去空白、转小写）返回。
func NormalizeClientIdentity(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if ap, err := netip.ParseAddrPort(s); err == nil {
		return ap.Addr().Unmap().WithZone("").String()
	}

	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if addr, err := netip.ParseAddr(s); err == nil {
		return addr.Unmap().WithZone("").String()
	}

	// 兜底处理形如 "::ffff:host" 的非标准写法
	lower := strings.ToLower(s)
	return strings.TrimPrefix(lower, "::ffff:")
}
