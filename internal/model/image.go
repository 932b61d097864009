package model

import "time"

// UploadedImage 는 uploaded_images 테이블의 ORM 모델이다.
// 하나의 세션과 사용자에 묶인 저장 파일 한 건이며, 생성 이후 변경되지 않는다.
type UploadedImage struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID  uint      `gorm:"not null;index" json:"sessionId"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	Filename   string    `gorm:"type:varchar(255);not null" json:"filename"`
	FilePath   string    `gorm:"type:varchar(500);not null" json:"filePath"`
	FileSize   int64     `json:"fileSize"`
	MimeType   string    `gorm:"type:varchar(100)" json:"mimeType"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploadedAt"`
}

// TableName 은 이 모델이 대응하는 테이블 이름을 지정한다.
func (UploadedImage) TableName() string {
	return "uploaded_images"
}
