package asset

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/Mrkivi24/onlycats/internal/common"
	"github.com/Mrkivi24/onlycats/internal/config"
	"github.com/Mrkivi24/onlycats/internal/utils"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStore 将资源保存到 S3 兼容的对象存储中，对象键即资源引用。
type MinIOStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinIOStore 创建 MinIO 客户端，bucket 不存在时自动创建。
func NewMinIOStore(ctx context.Context, cfg config.MinIOConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, client.EndpointURL().Host, cfg.Bucket)
	}

	return &MinIOStore{client: client, bucket: cfg.Bucket, publicURL: publicURL}, nil
}

func (s *MinIOStore) Store(ctx context.Context, data []byte, ext string) (string, error) {
	key, err := NewName(time.Now(), ext)
	if err != nil {
		return "", common.NewStorageError("系统错误: 无法生成文件名", err)
	}

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = utils.DetectImageType(data)
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", common.NewStorageError("文件保存失败", err)
	}
	return key, nil
}

func (s *MinIOStore) Exists(ctx context.Context, ref string) (bool, error) {
	if !utils.IsPlainFileName(ref) {
		return false, common.NewStorageError("非法资源引用", fmt.Errorf("ref %q", ref))
	}
	_, err := s.client.StatObject(ctx, s.bucket, ref, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, common.NewStorageError("检查图片文件失败", err)
	}
	return true, nil
}

// Delete 对象存储的删除本身是幂等的，不存在的键不会报错。
func (s *MinIOStore) Delete(ctx context.Context, ref string) error {
	if !utils.IsPlainFileName(ref) {
		return common.NewStorageError("非法资源引用", fmt.Errorf("ref %q", ref))
	}
	if err := s.client.RemoveObject(ctx, s.bucket, ref, minio.RemoveObjectOptions{}); err != nil {
		return common.NewStorageError("删除图片文件失败", err)
	}
	return nil
}

func (s *MinIOStore) List(ctx context.Context) ([]Info, error) {
	var infos []Info
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: false}) {
		if object.Err != nil {
			return nil, common.NewStorageError("列出资源失败", object.Err)
		}
		if strings.HasSuffix(object.Key, "/") {
			continue
		}
		infos = append(infos, Info{Ref: object.Key, ModTime: object.LastModified})
	}
	return infos, nil
}

func (s *MinIOStore) PublicURL(ref string) string {
	return s.publicURL + "/" + ref
}
