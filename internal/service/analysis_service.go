package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"sgr-safety-go/internal/config"
	"sgr-safety-go/internal/model"
	"sgr-safety-go/internal/report"
	"sgr-safety-go/internal/repository"
	"sgr-safety-go/internal/storage"
	"sgr-safety-go/pkg/imaging"
	"sgr-safety-go/pkg/log"
	"sgr-safety-go/pkg/tasks"
	"sgr-safety-go/pkg/vision"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const timestampFormat = "2006-01-02 15:04:05"

// ImageUpload 는 요청에서 받은 업로드 파일 한 건이다.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StoredFile 은 저장된 결과 아티팩트 파일 정보다.
type StoredFile struct {
	Filename string `json:"filename"`
	FilePath string `json:"filePath"`
	FileSize int64  `json:"fileSize"`
}

// Result 는 한 세션의 분석 결과 페이로드다. 세션 레코드에 JSON 으로 붙는다.
type Result struct {
	SessionID  uint              `json:"sessionId"`
	UserID     uint              `json:"userId"`
	ImageNames []string          `json:"imageNames"`
	ImageCount int               `json:"imageCount"`
	FullReport string            `json:"fullReport"`
	Sections   map[string]string `json:"sections"`
	Timestamp  string            `json:"timestamp"`
}

// SessionSummary 는 세션 목록 조회용 요약이다.
type SessionSummary struct {
	SessionID      uint            `json:"sessionId"`
	SessionName    string          `json:"sessionName"`
	CreatedAt      model.LocalTime `json:"createdAt"`
	ImageCount     int             `json:"imageCount"`
	Status         string          `json:"status"`
	HasFeedback    bool            `json:"hasFeedback"`
	FeedbackRating *int            `json:"feedbackRating,omitempty"`
}

// AnalysisService 는 세션/아티팩트 영속화 파사드다.
// 세션 생성, 이미지 저장, 분석 호출, 결과 저장을 하나의 선형 흐름으로 조율한다.
type AnalysisService interface {
	CreateSession(userID uint, sessionName string, imageCount int) (*model.AnalysisSession, error)
	StoreImages(ctx context.Context, sessionID, userID uint, files []ImageUpload) ([]model.UploadedImage, error)
	StoreResult(ctx context.Context, sessionID, userID uint, rawReport string, sections map[string]string) (map[string]StoredFile, error)
	RecordFeedback(sessionID uint, feedback string, rating int) error
	Run(ctx context.Context, user *model.User, sessionName string, files []ImageUpload) (*Result, error)
	ListSessions(userID uint) ([]SessionSummary, error)
	GetSession(sessionID uint) (*model.AnalysisSession, error)
}

type analysisService struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	imageRepo    repository.ImageRepository
	fileRepo     repository.ResultFileRepository
	store        *storage.Store
	visionClient vision.Client
	hub          *StatusHub
	visionCfg    config.VisionConfig
	// produceIndex 와 archive 는 선택적 후처리 훅이다. nil 이면 생략한다.
	produceIndex func(tasks.ReportIndexTask) error
	archive      func(ctx context.Context, objectName, localPath string) error
}

// NewAnalysisService 는 새 AnalysisService 를 생성한다.
// 후처리 훅(색인 생산, 아카이브)은 nil 을 허용한다.
func NewAnalysisService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	imageRepo repository.ImageRepository,
	fileRepo repository.ResultFileRepository,
	store *storage.Store,
	visionClient vision.Client,
	hub *StatusHub,
	visionCfg config.VisionConfig,
	produceIndex func(tasks.ReportIndexTask) error,
	archive func(ctx context.Context, objectName, localPath string) error,
) AnalysisService {
	return &analysisService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		imageRepo:    imageRepo,
		fileRepo:     fileRepo,
		store:        store,
		visionClient: visionClient,
		hub:          hub,
		visionCfg:    visionCfg,
		produceIndex: produceIndex,
		archive:      archive,
	}
}

// CreateSession 은 pending 상태의 새 분석 세션을 만든다.
// 저장 키는 이 시점에 한 번만 계산되어 레코드에 저장되고,
// 같은 세션의 모든 아티팩트 쓰기가 이 키를 재사용한다.
func (s *analysisService) CreateSession(userID uint, sessionName string, imageCount int) (*model.AnalysisSession, error) {
	if imageCount < 1 {
		return nil, fmt.Errorf("%w: 이미지 수는 1장 이상이어야 합니다", ErrValidation)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 사용자 ID %d", ErrNotFound, userID)
		}
		return nil, err
	}

	session := &model.AnalysisSession{
		UserID:         userID,
		SessionName:    sessionName,
		ImageCount:     imageCount,
		AnalysisStatus: model.SessionStatusPending,
		StorageKey:     s.store.NewSessionKey(user.Username),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}

	log.Infof("[CreateSession] 세션 생성: id=%d, user=%s, images=%d, key=%s",
		session.ID, user.Username, imageCount, session.StorageKey)
	s.hub.Publish(session.ID, model.SessionStatusPending)
	return session, nil
}

// StoreImages 는 업로드 파일 중 이미지 타입만 골라 세션 디렉토리에 쓰고
// 레코드를 남긴다. 이미지가 아닌 파일은 오류 없이 건너뛴다.
// 바이트 쓰기 실패는 ErrStorage 로 보고하며, 같은 배치에서 이미 기록된
// 파일은 롤백하지 않는다.
func (s *analysisService) StoreImages(ctx context.Context, sessionID, userID uint, files []ImageUpload) ([]model.UploadedImage, error) {
	session, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	var saved []model.UploadedImage
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			log.Infof("[StoreImages] 이미지가 아닌 파일 건너뜀: %s (%s)", f.Filename, f.ContentType)
			continue
		}

		// 저장 파일명은 충돌을 피하기 위해 UUID 로 새로 만든다.
		storedName := uuid.NewString() + filepath.Ext(f.Filename)
		path, err := s.store.WriteArtifact(storage.CategoryImages, session.StorageKey, storedName, f.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}

		image := &model.UploadedImage{
			SessionID: session.ID,
			UserID:    userID,
			Filename:  f.Filename,
			FilePath:  path,
			FileSize:  int64(len(f.Data)),
			MimeType:  f.ContentType,
		}
		if err := s.imageRepo.Create(image); err != nil {
			return nil, err
		}
		saved = append(saved, *image)
	}

	log.Infof("[StoreImages] 세션 %d: %d/%d 파일 저장", sessionID, len(saved), len(files))
	return saved, nil
}

// StoreResult 는 비어 있지 않은 섹션별 아티팩트와 전체 보고서 아티팩트를 쓰고,
// 세션을 completed 로 전이시키면서 원본 결과 페이로드를 붙인다.
// 이미 완료된 세션에 다시 호출하면 ErrSessionCompleted 를 반환한다.
func (s *analysisService) StoreResult(ctx context.Context, sessionID, userID uint, rawReport string, sections map[string]string) (map[string]StoredFile, error) {
	session, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	completedAt := time.Now().In(model.KST)
	savedFiles := make(map[string]StoredFile)

	writeOne := func(fileType, filename, content string) error {
		path, err := s.store.WriteArtifact(storage.CategoryResults, session.StorageKey, filename, []byte(content))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		record := &model.AnalysisFile{
			SessionID: session.ID,
			UserID:    userID,
			FileType:  fileType,
			FilePath:  path,
			FileSize:  int64(len(content)),
		}
		if err := s.fileRepo.Create(record); err != nil {
			return err
		}
		savedFiles[fileType] = StoredFile{Filename: filename, FilePath: path, FileSize: int64(len(content))}
		return nil
	}

	// 전체 보고서는 섹션이 모두 비어 있어도 항상 저장한다.
	fullReportName := fmt.Sprintf("full_report_%d.md", session.ID)
	if err := writeOne("full_report", fullReportName, rawReport); err != nil {
		return nil, err
	}

	for _, sectionName := range []string{report.SectionRiskAnalysis, report.SectionSGRChecklist, report.SectionRecommendations} {
		content := sections[sectionName]
		if content == "" {
			continue
		}
		filename := fmt.Sprintf("%s_%d.html", sectionName, session.ID)
		if err := writeOne(sectionName, filename, content); err != nil {
			return nil, err
		}
	}

	payload := Result{
		SessionID:  session.ID,
		UserID:     userID,
		ImageCount: session.ImageCount,
		FullReport: rawReport,
		Sections:   sections,
		Timestamp:  completedAt.Format(timestampFormat),
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.MarkCompleted(session.ID, string(payloadJSON), completedAt); err != nil {
		if errors.Is(err, repository.ErrNoPendingSession) {
			return nil, fmt.Errorf("%w: 세션 %d", ErrSessionCompleted, session.ID)
		}
		return nil, err
	}
	s.hub.Publish(session.ID, model.SessionStatusCompleted)
	log.Infof("[StoreResult] 세션 %d 완료, 아티팩트 %d건 저장", session.ID, len(savedFiles))

	s.postProcess(ctx, session, completedAt, savedFiles)
	return savedFiles, nil
}

// postProcess 는 완료된 세션의 후처리(검색 색인 작업 생산, 아카이브)를 수행한다.
// 후처리 실패는 완료된 세션에 영향을 주지 않으므로 로그만 남긴다.
func (s *analysisService) postProcess(ctx context.Context, session *model.AnalysisSession, completedAt time.Time, savedFiles map[string]StoredFile) {
	fullReport, ok := savedFiles["full_report"]
	if !ok {
		return
	}

	if s.produceIndex != nil {
		user, err := s.userRepo.FindByID(session.UserID)
		username := ""
		if err == nil {
			username = user.Username
		}
		task := tasks.ReportIndexTask{
			SessionID:   session.ID,
			UserID:      session.UserID,
			Username:    username,
			SessionName: session.SessionName,
			ReportPath:  fullReport.FilePath,
			CompletedAt: completedAt.Format(timestampFormat),
		}
		if err := s.produceIndex(task); err != nil {
			log.Errorf("[StoreResult] 색인 작업 생산 실패: sessionID=%d, error: %v", session.ID, err)
		}
	}

	if s.archive != nil {
		for _, f := range savedFiles {
			objectName := filepath.ToSlash(filepath.Join("results", session.StorageKey, f.Filename))
			if err := s.archive(ctx, objectName, f.FilePath); err != nil {
				log.Warnf("[StoreResult] 아카이브 실패: %s, error: %v", objectName, err)
			}
		}
	}
}

// RecordFeedback 은 세션에 피드백 본문과 평점을 기록한다.
// 평점은 1~5 범위를 벗어나면 ErrValidation 이며, 세션 상태는 제한하지 않는다.
func (s *analysisService) RecordFeedback(sessionID uint, feedback string, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: 평점은 1-5 사이여야 합니다", ErrValidation)
	}
	if err := s.sessionRepo.UpdateFeedback(sessionID, feedback, rating); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: 세션 %d", ErrNotFound, sessionID)
		}
		return err
	}
	return nil
}

// Run 은 배치 분석의 전체 흐름을 실행한다.
// 세션 생성 → 이미지 저장 → 비전 분석 → 섹션 분류/렌더링 → 결과 저장.
// 각 단계는 호출자를 블로킹하며 독립적으로 실패할 수 있다.
func (s *analysisService) Run(ctx context.Context, user *model.User, sessionName string, files []ImageUpload) (*Result, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: 업로드된 파일이 없습니다", ErrValidation)
	}

	session, err := s.CreateSession(user.ID, sessionName, len(files))
	if err != nil {
		return nil, err
	}

	if _, err := s.StoreImages(ctx, session.ID, user.ID, files); err != nil {
		return nil, err
	}

	// 비전 API 전송용으로 이미지를 정규화한다. 디코드 불가 파일은 건너뛴다.
	var (
		visionImages []vision.Image
		imageNames   []string
	)
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			continue
		}
		normalized, err := imaging.Normalize(f.Data, s.visionCfg.MaxImageEdge)
		if err != nil {
			log.Warnf("[Run] 이미지 정규화 실패, 제외: %s, error: %v", f.Filename, err)
			continue
		}
		visionImages = append(visionImages, vision.Image{Name: f.Filename, Data: normalized})
		imageNames = append(imageNames, f.Filename)
	}
	if len(visionImages) == 0 {
		return nil, fmt.Errorf("%w: 유효한 이미지 파일이 없습니다", ErrValidation)
	}

	s.hub.Publish(session.ID, model.SessionStatusAnalyzing)
	log.Infof("[Run] 비전 분석 시작: 세션 %d, 이미지 %d장", session.ID, len(visionImages))

	rawReport, err := s.visionClient.Analyze(ctx, visionImages, report.BuildPrompt(imageNames))
	if err != nil {
		// 분석 호출이 실패하면 세션은 pending 으로 남는다. 자동 복구는 없다.
		return nil, fmt.Errorf("%w: %v", ErrCollaborator, err)
	}

	sections := report.RenderSections(report.Classify(rawReport))

	if _, err := s.StoreResult(ctx, session.ID, user.ID, rawReport, sections); err != nil {
		return nil, err
	}

	return &Result{
		SessionID:  session.ID,
		UserID:     user.ID,
		ImageNames: imageNames,
		ImageCount: len(files),
		FullReport: rawReport,
		Sections:   sections,
		Timestamp:  time.Now().In(model.KST).Format(timestampFormat),
	}, nil
}

// ListSessions 는 사용자의 세션 요약 목록을 생성 시각 역순으로 반환한다.
func (s *analysisService) ListSessions(userID uint) ([]SessionSummary, error) {
	sessions, err := s.sessionRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, SessionSummary{
			SessionID:      sess.ID,
			SessionName:    sess.SessionName,
			CreatedAt:      model.LocalTime(sess.CreatedAt),
			ImageCount:     sess.ImageCount,
			Status:         sess.AnalysisStatus,
			HasFeedback:    sess.Feedback != "",
			FeedbackRating: sess.FeedbackRating,
		})
	}
	return summaries, nil
}

// GetSession 은 세션 한 건을 조회한다.
func (s *analysisService) GetSession(sessionID uint) (*model.AnalysisSession, error) {
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 세션 %d", ErrNotFound, sessionID)
		}
		return nil, err
	}
	return session, nil
}

// ownedSession 은 세션을 조회하고 소유자를 검증한다.
func (s *analysisService) ownedSession(sessionID, userID uint) (*model.AnalysisSession, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("%w: 세션 %d", ErrNotFound, sessionID)
	}
	return session, nil
}
