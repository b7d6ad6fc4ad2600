package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mrkivi24/onlycats/internal/modules/asset"
	"github.com/Mrkivi24/onlycats/internal/modules/picture/repo"
	pictureservice "github.com/Mrkivi24/onlycats/internal/modules/picture/service"
	"github.com/Mrkivi24/onlycats/internal/testutils"

	"github.com/gin-gonic/gin"
)

type testServer struct {
	router *gin.Engine
	svc    *pictureservice.Service
	assets *asset.LocalStore
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := testutils.SetupDB(t)
	assets, err := asset.NewLocalStore(filepath.Join(t.TempDir(), "images"), "/images/")
	if err != nil {
		t.Fatalf("创建资源存储失败: %v", err)
	}
	svc := pictureservice.New(repo.NewPictureRepository(gdb), assets, 10*time.Second)
	h := New(svc)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/upload", h.UploadPicture)
	api.GET("/pictures", h.ListPictures)
	api.GET("/pictures/:id", h.GetPicture)
	api.GET("/search", h.SearchPictures)
	api.POST("/like/:id", h.LikePicture)
	api.DELETE("/pictures/:id", h.DeletePicture)
	api.POST("/pictures/:id/sparkle", h.ForceSparkle)

	return &testServer{router: r, svc: svc, assets: assets}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// newUploadRequest 构造 multipart 上传请求，fileField 为空时不附带文件。
func newUploadRequest(t *testing.T, fileField, contentType string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("写入表单字段失败: %v", err)
		}
	}
	if fileField != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="cat.jpg"`)
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("创建文件字段失败: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("写入文件失败: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("关闭 multipart 失败: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("解析响应失败: %v, body=%s", err, w.Body.String())
	}
	return v
}
