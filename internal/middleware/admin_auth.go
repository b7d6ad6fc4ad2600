package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/Mrkivi24/onlycats/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const adminRealm = `Basic realm="OnlyCats Admin", charset="UTF-8"`

// Authorizer 判断一组凭据是否具有管理员权限。
type Authorizer interface {
	Authorize(username, password string) bool
}

// BasicAuthorizer 使用配置中的管理员用户名与 bcrypt 哈希校验凭据。
type BasicAuthorizer struct {
	username string
	hash     []byte
}

// dummyHash 用户名不匹配时仍执行一次 bcrypt 比较，使耗时与用户名是否正确无关
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("onlycats-dummy"), bcrypt.MinCost)

// NewBasicAuthorizer 根据管理员配置创建校验器。
// password_hash 优先；仅配置明文 password 时在启动时计算哈希。
// 未配置管理员时返回的校验器拒绝所有凭据。
func NewBasicAuthorizer(cfg config.AdminConfig) (*BasicAuthorizer, error) {
	username := strings.TrimSpace(cfg.Username)
	if username == "" {
		return &BasicAuthorizer{}, nil
	}

	if cfg.PasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
			return nil, errors.New("admin.password_hash 不是合法的 bcrypt 哈希")
		}
		return &BasicAuthorizer{username: username, hash: []byte(cfg.PasswordHash)}, nil
	}
	if cfg.Password == "" {
		return &BasicAuthorizer{}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &BasicAuthorizer{username: username, hash: hash}, nil
}

func (a *BasicAuthorizer) Authorize(username, password string) bool {
	if a == nil || a.username == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	if !userOK {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
}

// AdminAuth 校验 Basic 凭据：缺失或格式错误返回 401，凭据错误返回 403。
func AdminAuth(authorizer Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", adminRealm)
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "需要管理员认证"})
			c.Abort()
			return
		}

		if !authorizer.Authorize(username, password) {
			log.Warn().Str("ip", c.ClientIP()).Str("path", c.Request.URL.Path).Msg("管理员凭据校验失败")
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "管理员凭据错误"})
			c.Abort()
			return
		}
		c.Next()
	}
}
