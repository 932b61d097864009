package repository

import (
	"sgr-safety-go/internal/model"

	"gorm.io/gorm"
)

// ResultFileRepository 는 분석 결과 파일 레코드의 영속화 연산을 정의한다.
type ResultFileRepository interface {
	Create(file *model.AnalysisFile) error
	FindBySession(sessionID uint) ([]model.AnalysisFile, error)
	FindBySessionAndType(sessionID uint, fileType string) (*model.AnalysisFile, error)
}

type resultFileRepository struct {
	db *gorm.DB
}

// NewResultFileRepository 는 새 ResultFileRepository 를 생성한다.
func NewResultFileRepository(db *gorm.DB) ResultFileRepository {
	return &resultFileRepository{db: db}
}

// Create 는 새 결과 파일 레코드를 생성한다.
func (r *resultFileRepository) Create(file *model.AnalysisFile) error {
	return r.db.Create(file).Error
}

// FindBySession 은 세션에 속한 결과 파일 레코드를 조회한다.
func (r *resultFileRepository) FindBySession(sessionID uint) ([]model.AnalysisFile, error) {
	var files []model.AnalysisFile
	err := r.db.Where("session_id = ?", sessionID).Order("id ASC").Find(&files).Error
	return files, err
}

// FindBySessionAndType 은 세션의 특정 종류 결과 파일 한 건을 조회한다.
func (r *resultFileRepository) FindBySessionAndType(sessionID uint, fileType string) (*model.AnalysisFile, error) {
	var file model.AnalysisFile
	err := r.db.Where("session_id = ? AND file_type = ?", sessionID, fileType).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}
