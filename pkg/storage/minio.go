// Package storage 는 완료된 결과 아티팩트를 오브젝트 스토리지로
// 미러링하는 아카이브 기능을 제공한다.
package storage

import (
	"context"
	"path/filepath"

	"sgr-safety-go/internal/config"
	"sgr-safety-go/pkg/log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient 는 아카이브용 MinIO 클라이언트 인스턴스다.
// minio.enabled=false 이면 nil 로 남는다.
var MinioClient *minio.Client

// InitMinIO 는 MinIO 클라이언트를 초기화하고 버킷 존재를 보장한다.
func InitMinIO(cfg config.MinIOConfig) {
	var err error

	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Fatal("MinIO 클라이언트 초기화 실패", err)
	}

	ctx := context.Background()
	bucketName := cfg.BucketName
	exists, err := MinioClient.BucketExists(ctx, bucketName)
	if err != nil {
		log.Fatal("MinIO 버킷 확인 실패", err)
	}

	if !exists {
		log.Infof("버킷 '%s' 이 없어 생성합니다", bucketName)
		if err := MinioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			log.Fatal("MinIO 버킷 생성 실패", err)
		}
		log.Infof("버킷 '%s' 생성 완료", bucketName)
	} else {
		log.Infof("버킷 '%s' 확인 완료", bucketName)
	}

	log.Info("MinIO 클라이언트 초기화 완료")
}

// ArchiveArtifact 는 로컬 아티팩트 파일 하나를 버킷에 업로드한다.
// 아카이브는 부가 기능이므로 호출자는 실패를 치명적으로 다루지 않는다.
func ArchiveArtifact(ctx context.Context, bucketName, objectName, localPath string) error {
	contentType := "text/plain; charset=utf-8"
	switch filepath.Ext(localPath) {
	case ".html":
		contentType = "text/html; charset=utf-8"
	case ".md":
		contentType = "text/markdown; charset=utf-8"
	case ".json":
		contentType = "application/json"
	}

	_, err := MinioClient.FPutObject(ctx, bucketName, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		log.Errorf("아티팩트 아카이브 실패, object: %s, error: %v", objectName, err)
		return err
	}
	return nil
}
