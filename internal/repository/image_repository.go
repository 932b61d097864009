package repository

import (
	"sgr-safety-go/internal/model"

	"gorm.io/gorm"
)

// ImageRepository 는 업로드 이미지 레코드의 영속화 연산을 정의한다.
type ImageRepository interface {
	Create(image *model.UploadedImage) error
	FindBySession(sessionID uint) ([]model.UploadedImage, error)
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository 는 새 ImageRepository 를 생성한다.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

// Create 는 새 업로드 이미지 레코드를 생성한다.
func (r *imageRepository) Create(image *model.UploadedImage) error {
	return r.db.Create(image).Error
}

// FindBySession 은 세션에 속한 이미지 레코드를 조회한다.
func (r *imageRepository) FindBySession(sessionID uint) ([]model.UploadedImage, error) {
	var images []model.UploadedImage
	err := r.db.Where("session_id = ?", sessionID).Order("id ASC").Find(&images).Error
	return images, err
}
