package model

import "time"

// AnalysisFile 은 analysis_files 테이블의 ORM 모델이다.
// 렌더링된 보고서 섹션 파일과 전체 보고서 파일의 저장 위치를 기록한다.
// FileType 은 risk_analysis / sgr_checklist / recommendations / full_report 중 하나다.
type AnalysisFile struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID uint      `gorm:"not null;index" json:"sessionId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	FileType  string    `gorm:"type:varchar(50);not null" json:"fileType"`
	FilePath  string    `gorm:"type:varchar(500);not null" json:"filePath"`
	FileSize  int64     `json:"fileSize"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 은 이 모델이 대응하는 테이블 이름을 지정한다.
func (AnalysisFile) TableName() string {
	return "analysis_files"
}
