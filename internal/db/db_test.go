package db

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mrkivi24/onlycats/internal/config"
	"github.com/Mrkivi24/onlycats/internal/model"
)

// 测试内容：验证使用 sqlite 临时文件初始化数据库并创建 pictures 与 likes 表。
func TestOpen_SQLiteTempFile(t *testing.T) {
	dbFile := filepath.Join(t.TempDir(), "db", "test.db")

	gdb, err := Open(config.DatabaseConfig{Type: "sqlite", Filename: dbFile})
	if err != nil {
		t.Fatalf("打开数据库失败: %v", err)
	}
	t.Cleanup(func() { _ = Close(gdb) })

	if !gdb.Migrator().HasTable(&model.Picture{}) {
		t.Fatalf("期望 pictures 表存在")
	}
	if !gdb.Migrator().HasTable(&model.LikeRecord{}) {
		t.Fatalf("期望 likes 表存在")
	}
	if !gdb.Migrator().HasIndex(&model.LikeRecord{}, "uk_picture_client") {
		t.Fatalf("期望 likes 表存在 (picture_id, client_identity) 唯一索引")
	}
}

// 测试内容：验证不支持的数据库类型返回错误。
func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := Open(config.DatabaseConfig{Type: "oracle"}); err == nil {
		t.Fatalf("期望 不支持的数据库类型返回错误")
	}
}

// 测试内容：验证 SQLite DSN 包含 WAL 与 busy_timeout 参数，并对非法超时回退默认值。
func TestSQLiteDSN(t *testing.T) {
	dsn := SQLiteDSN("a.db", 0)
	if !strings.Contains(dsn, "journal_mode(WAL)") || !strings.Contains(dsn, "busy_timeout(5000)") {
		t.Fatalf("非预期 DSN: %s", dsn)
	}
	if !strings.Contains(SQLiteDSN("a.db", 200), "busy_timeout(200)") {
		t.Fatalf("期望 自定义 busy_timeout 生效")
	}
}

// 测试内容：验证 Close 对 nil 句柄安全。
func TestClose_Nil(t *testing.T) {
	if err := Close(nil); err != nil {
		t.Fatalf("期望 nil 句柄关闭无错误，实际为 %v", err)
	}
}
