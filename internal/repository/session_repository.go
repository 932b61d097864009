package repository

import (
	"errors"
	"time"

	"sgr-safety-go/internal/model"

	"gorm.io/gorm"
)

// ErrNoPendingSession 은 pending 상태가 아닌 세션을 완료하려 할 때 반환된다.
var ErrNoPendingSession = errors.New("no pending session to complete")

// SessionRepository 는 분석 세션 레코드의 영속화 연산을 정의한다.
type SessionRepository interface {
	Create(session *model.AnalysisSession) error
	FindByID(sessionID uint) (*model.AnalysisSession, error)
	FindByUser(userID uint) ([]model.AnalysisSession, error)
	// MarkCompleted 는 pending -> completed 전이만 허용한다.
	// 이미 완료된 세션이면 영향받은 행이 없으므로 ErrNoPendingSession 을 반환한다.
	MarkCompleted(sessionID uint, resultJSON string, completedAt time.Time) error
	UpdateFeedback(sessionID uint, feedback string, rating int) error
}

// sessionRepository 는 SessionRepository 의 GORM 구현이다.
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 는 새 SessionRepository 를 생성한다.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create 는 새 분석 세션 레코드를 생성한다.
func (r *sessionRepository) Create(session *model.AnalysisSession) error {
	return r.db.Create(session).Error
}

// FindByID 는 세션 ID 로 세션을 조회한다.
func (r *sessionRepository) FindByID(sessionID uint) (*model.AnalysisSession, error) {
	var session model.AnalysisSession
	err := r.db.First(&session, sessionID).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// FindByUser 는 사용자의 세션을 생성 시각 역순으로 조회한다.
func (r *sessionRepository) FindByUser(userID uint) ([]model.AnalysisSession, error) {
	var sessions []model.AnalysisSession
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

// MarkCompleted 는 조건부 UPDATE 로 상태 전이를 보호한다.
// WHERE 절에 pending 조건을 걸어 두 번째 완료 시도가 조용히 결과를
// 덮어쓰는 대신 실패하도록 한다.
func (r *sessionRepository) MarkCompleted(sessionID uint, resultJSON string, completedAt time.Time) error {
	res := r.db.Model(&model.AnalysisSession{}).
		Where("id = ? AND analysis_status = ?", sessionID, model.SessionStatusPending).
		Updates(map[string]interface{}{
			"analysis_status": model.SessionStatusCompleted,
			"analysis_result": resultJSON,
			"completed_at":    completedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoPendingSession
	}
	return nil
}

// UpdateFeedback 은 세션의 피드백 본문과 평점을 갱신한다.
// 세션이 completed 상태일 필요는 없다.
// 존재 확인은 조회로 한다. MySQL 드라이버의 기본 affected-rows 는
// "변경된 행" 이므로, 같은 내용을 다시 제출하면 0 이 되어
// 존재하는 세션을 없는 것으로 오인하게 된다.
func (r *sessionRepository) UpdateFeedback(sessionID uint, feedback string, rating int) error {
	var session model.AnalysisSession
	if err := r.db.Select("id").First(&session, sessionID).Error; err != nil {
		return err
	}
	return r.db.Model(&session).Updates(map[string]interface{}{
		"feedback":        feedback,
		"feedback_rating": rating,
	}).Error
}
