package model

import "time"

// 분석 세션의 생명주기 상태. pending 에서 completed 로 단 한 번 전이한다.
// analyzing 은 저장되지 않고 상태 스트림으로만 중계되는 중간 상태다.
const (
	SessionStatusPending   = "pending"
	SessionStatusAnalyzing = "analyzing"
	SessionStatusCompleted = "completed"
)

// AnalysisSession 은 analysis_sessions 테이블의 ORM 모델이다.
// 한 번의 사진 일괄 업로드와 보고서 생성 주기를 나타낸다.
// StorageKey 는 세션 생성 시점에 한 번 계산되어 저장되며,
// 이후 모든 아티팩트 쓰기는 이 키가 가리키는 디렉토리를 재사용한다.
type AnalysisSession struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"userId"`
	SessionName    string     `gorm:"type:varchar(200)" json:"sessionName"`
	ImageCount     int        `gorm:"not null" json:"imageCount"`
	AnalysisStatus string     `gorm:"type:varchar(20);not null;default:'pending'" json:"analysisStatus"`
	StorageKey     string     `gorm:"type:varchar(255);not null" json:"storageKey"`
	AnalysisResult string     `gorm:"type:json" json:"analysisResult,omitempty"`
	Feedback       string     `gorm:"type:text" json:"feedback,omitempty"`
	FeedbackRating *int       `json:"feedbackRating,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	CompletedAt    *time.Time `gorm:"default:null" json:"completedAt,omitempty"`
}

// TableName 은 이 모델이 대응하는 테이블 이름을 지정한다.
func (AnalysisSession) TableName() string {
	return "analysis_sessions"
}
