package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"sgr-safety-go/internal/config"
	"sgr-safety-go/internal/model"
	"sgr-safety-go/internal/repository"
	"sgr-safety-go/internal/storage"
	"sgr-safety-go/pkg/tasks"
	"sgr-safety-go/pkg/vision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- 인메모리 repository 구현 ---

type fakeUserRepo struct {
	users map[uint]*model.User
}

func (r *fakeUserRepo) Create(user *model.User) error {
	user.ID = uint(len(r.users) + 1)
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(userID uint) (*model.User, error) {
	if u, ok := r.users[userID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeSessionRepo struct {
	sessions map[uint]*model.AnalysisSession
	nextID   uint
}

func (r *fakeSessionRepo) Create(session *model.AnalysisSession) error {
	r.nextID++
	session.ID = r.nextID
	session.CreatedAt = time.Now()
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) FindByID(sessionID uint) (*model.AnalysisSession, error) {
	if s, ok := r.sessions[sessionID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) FindByUser(userID uint) ([]model.AnalysisSession, error) {
	var out []model.AnalysisSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) MarkCompleted(sessionID uint, resultJSON string, completedAt time.Time) error {
	s, ok := r.sessions[sessionID]
	if !ok || s.AnalysisStatus != model.SessionStatusPending {
		return repository.ErrNoPendingSession
	}
	s.AnalysisStatus = model.SessionStatusCompleted
	s.AnalysisResult = resultJSON
	s.CompletedAt = &completedAt
	return nil
}

func (r *fakeSessionRepo) UpdateFeedback(sessionID uint, feedback string, rating int) error {
	s, ok := r.sessions[sessionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Feedback = feedback
	s.FeedbackRating = &rating
	return nil
}

type fakeImageRepo struct {
	images []model.UploadedImage
}

func (r *fakeImageRepo) Create(img *model.UploadedImage) error {
	img.ID = uint(len(r.images) + 1)
	r.images = append(r.images, *img)
	return nil
}

func (r *fakeImageRepo) FindBySession(sessionID uint) ([]model.UploadedImage, error) {
	var out []model.UploadedImage
	for _, img := range r.images {
		if img.SessionID == sessionID {
			out = append(out, img)
		}
	}
	return out, nil
}

type fakeFileRepo struct {
	files []model.AnalysisFile
}

func (r *fakeFileRepo) Create(f *model.AnalysisFile) error {
	f.ID = uint(len(r.files) + 1)
	r.files = append(r.files, *f)
	return nil
}

func (r *fakeFileRepo) FindBySession(sessionID uint) ([]model.AnalysisFile, error) {
	var out []model.AnalysisFile
	for _, f := range r.files {
		if f.SessionID == sessionID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFileRepo) FindBySessionAndType(sessionID uint, fileType string) (*model.AnalysisFile, error) {
	for _, f := range r.files {
		if f.SessionID == sessionID && f.FileType == fileType {
			copied := f
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// stubVision 은 고정된 한국어 보고서를 반환하는 비전 클라이언트다.
type stubVision struct {
	report string
	err    error
	calls  int
}

func (v *stubVision) Analyze(ctx context.Context, images []vision.Image, prompt string) (string, error) {
	v.calls++
	if v.err != nil {
		return "", v.err
	}
	return v.report, nil
}

const stubReport = `안전 분석 결과입니다.

### 1. 현장 전체 잠재 위험요인 분석 및 위험성 감소대책
| 번호 | 잠재 위험요인 | 잠재 위험요인 설명 | 위험성 감소대책 |
|---|---|---|---|
| 1 | 추락 위험 | 개구부 주변 안전난간 미설치 | ① 안전난간 설치 ② 덮개 설치 |

### 2. SGR 체크리스트 항목별 통합 체크 결과
| 항목 | 준수여부 | 세부 내용 |
|---|---|---|
| 1. 안전보호구 착용 | X | 안전모 미착용 작업자 확인 |

### 3. 현장 전체 통합 추가 권장사항
1. 전 작업자 안전모 착용 교육 시행
`

// makeImageUpload 은 작은 단색 PNG 를 담은 업로드를 만든다.
func makeImageUpload(t *testing.T, name string) ImageUpload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: 100, G: 100, B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return ImageUpload{Filename: name, ContentType: "image/png", Data: buf.Bytes()}
}

type testEnv struct {
	svc         AnalysisService
	userRepo    *fakeUserRepo
	sessionRepo *fakeSessionRepo
	imageRepo   *fakeImageRepo
	fileRepo    *fakeFileRepo
	store       *storage.Store
	vision      *stubVision
	produced    *[]tasks.ReportIndexTask
	user        *model.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	user := &model.User{ID: 1, Username: "tester1", IsActive: true}
	userRepo := &fakeUserRepo{users: map[uint]*model.User{1: user}}
	sessionRepo := &fakeSessionRepo{sessions: map[uint]*model.AnalysisSession{}}
	imageRepo := &fakeImageRepo{}
	fileRepo := &fakeFileRepo{}
	store := storage.NewStoreWithClock(t.TempDir(), func() time.Time {
		return time.Date(2025, 3, 1, 5, 5, 9, 0, time.UTC)
	})
	visionClient := &stubVision{report: stubReport}

	produced := &[]tasks.ReportIndexTask{}
	svc := NewAnalysisService(
		userRepo, sessionRepo, imageRepo, fileRepo,
		store, visionClient, NewStatusHub(),
		config.VisionConfig{MaxImageEdge: 1024},
		func(task tasks.ReportIndexTask) error {
			*produced = append(*produced, task)
			return nil
		},
		nil,
	)

	return &testEnv{
		svc: svc, userRepo: userRepo, sessionRepo: sessionRepo,
		imageRepo: imageRepo, fileRepo: fileRepo, store: store,
		vision: visionClient, produced: produced, user: user,
	}
}

func TestCreateSession(t *testing.T) {
	env := newTestEnv(t)

	t.Run("이미지 수가 0이면 거부한다", func(t *testing.T) {
		_, err := env.svc.CreateSession(1, "테스트", 0)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("없는 사용자는 거부한다", func(t *testing.T) {
		_, err := env.svc.CreateSession(99, "테스트", 2)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("저장 키는 생성 시 한 번만 계산되어 레코드에 남는다", func(t *testing.T) {
		session, err := env.svc.CreateSession(1, "현장 A동", 2)
		require.NoError(t, err)

		assert.Equal(t, model.SessionStatusPending, session.AnalysisStatus)
		assert.Equal(t, filepath.Join("2025-03-01", "tester1_14-05-09"), session.StorageKey)
	})
}

func TestStoreImages(t *testing.T) {
	env := newTestEnv(t)
	session, err := env.svc.CreateSession(1, "현장 A동", 2)
	require.NoError(t, err)

	files := []ImageUpload{
		makeImageUpload(t, "현장1.png"),
		{Filename: "문서.pdf", ContentType: "application/pdf", Data: []byte("pdf")},
	}
	saved, err := env.svc.StoreImages(context.Background(), session.ID, 1, files)
	require.NoError(t, err)

	// 이미지가 아닌 파일은 오류 없이 건너뛴다.
	require.Len(t, saved, 1)
	assert.Equal(t, "현장1.png", saved[0].Filename)
	assert.True(t, env.store.Exists(saved[0].FilePath))
	// 저장 파일명은 원본과 다르고 확장자는 유지한다.
	assert.NotEqual(t, "현장1.png", filepath.Base(saved[0].FilePath))
	assert.Equal(t, ".png", filepath.Ext(saved[0].FilePath))
}

func TestStoreImagesOwnership(t *testing.T) {
	env := newTestEnv(t)
	session, err := env.svc.CreateSession(1, "현장 A동", 1)
	require.NoError(t, err)

	// 다른 사용자의 세션에는 접근할 수 없다.
	_, err = env.svc.StoreImages(context.Background(), session.ID, 2, []ImageUpload{makeImageUpload(t, "a.png")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRunFullFlow(t *testing.T) {
	env := newTestEnv(t)

	files := []ImageUpload{makeImageUpload(t, "현장1.png"), makeImageUpload(t, "현장2.png")}
	result, err := env.svc.Run(context.Background(), env.user, "현장 A동 점검", files)
	require.NoError(t, err)

	assert.Equal(t, stubReport, result.FullReport)
	assert.Equal(t, []string{"현장1.png", "현장2.png"}, result.ImageNames)
	assert.Contains(t, result.Sections["risk_analysis"], "<td>추락 위험</td>")
	assert.Contains(t, result.Sections["sgr_checklist"], "<td>X</td>")
	assert.Contains(t, result.Sections["recommendations"], "안전모 착용 교육")

	// 세션은 완료 상태이고 결과 JSON 이 붙어 있다.
	session, err := env.svc.GetSession(result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusCompleted, session.AnalysisStatus)
	assert.NotEmpty(t, session.AnalysisResult)
	require.NotNil(t, session.CompletedAt)

	// 전체 보고서와 섹션별 아티팩트가 디스크에 남는다.
	storedFiles, err := env.fileRepo.FindBySession(result.SessionID)
	require.NoError(t, err)
	byType := map[string]model.AnalysisFile{}
	for _, f := range storedFiles {
		byType[f.FileType] = f
		assert.True(t, env.store.Exists(f.FilePath))
	}
	assert.Contains(t, byType, "full_report")
	assert.Contains(t, byType, "risk_analysis")
	assert.Contains(t, byType, "sgr_checklist")
	assert.Contains(t, byType, "recommendations")

	// 색인 작업이 생산된다.
	require.Len(t, *env.produced, 1)
	task := (*env.produced)[0]
	assert.Equal(t, result.SessionID, task.SessionID)
	assert.Equal(t, "tester1", task.Username)
	assert.Equal(t, byType["full_report"].FilePath, task.ReportPath)
}

func TestRunRejectsEmptyAndInvalidUploads(t *testing.T) {
	env := newTestEnv(t)

	t.Run("파일이 없으면 거부한다", func(t *testing.T) {
		_, err := env.svc.Run(context.Background(), env.user, "빈 요청", nil)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("디코드 가능한 이미지가 한 장도 없으면 거부한다", func(t *testing.T) {
		files := []ImageUpload{{Filename: "깨진파일.jpg", ContentType: "image/jpeg", Data: []byte("이미지 아님")}}
		_, err := env.svc.Run(context.Background(), env.user, "손상 업로드", files)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, 0, env.vision.calls)
	})
}

func TestStoreResultCompletionGuard(t *testing.T) {
	env := newTestEnv(t)
	session, err := env.svc.CreateSession(1, "현장 A동", 1)
	require.NoError(t, err)

	sections := map[string]string{"recommendations": "권장사항 본문"}
	_, err = env.svc.StoreResult(context.Background(), session.ID, 1, "# 보고서", sections)
	require.NoError(t, err)

	// 두 번째 완료 시도는 결과를 덮어쓰지 않고 실패한다.
	_, err = env.svc.StoreResult(context.Background(), session.ID, 1, "# 다른 보고서", sections)
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestRecordFeedback(t *testing.T) {
	env := newTestEnv(t)
	session, err := env.svc.CreateSession(1, "현장 A동", 1)
	require.NoError(t, err)

	t.Run("평점 범위를 벗어나면 거부한다", func(t *testing.T) {
		assert.ErrorIs(t, env.svc.RecordFeedback(session.ID, "좋아요", 6), ErrValidation)
		assert.ErrorIs(t, env.svc.RecordFeedback(session.ID, "좋아요", 0), ErrValidation)
	})

	t.Run("없는 세션이면 ErrNotFound", func(t *testing.T) {
		assert.ErrorIs(t, env.svc.RecordFeedback(999, "좋아요", 3), ErrNotFound)
	})

	t.Run("pending 세션에도 기록할 수 있다", func(t *testing.T) {
		require.NoError(t, env.svc.RecordFeedback(session.ID, "표가 읽기 쉬웠습니다", 4))

		stored := env.sessionRepo.sessions[session.ID]
		assert.Equal(t, "표가 읽기 쉬웠습니다", stored.Feedback)
		require.NotNil(t, stored.FeedbackRating)
		assert.Equal(t, 4, *stored.FeedbackRating)
	})

	t.Run("같은 내용을 다시 제출해도 성공한다", func(t *testing.T) {
		// UPDATE 가 아무 열도 바꾸지 않아도 존재하는 세션이면 성공해야 한다.
		require.NoError(t, env.svc.RecordFeedback(session.ID, "표가 읽기 쉬웠습니다", 4))
		require.NoError(t, env.svc.RecordFeedback(session.ID, "표가 읽기 쉬웠습니다", 4))

		stored := env.sessionRepo.sessions[session.ID]
		assert.Equal(t, "표가 읽기 쉬웠습니다", stored.Feedback)
	})
}

func TestListSessions(t *testing.T) {
	env := newTestEnv(t)
	s1, err := env.svc.CreateSession(1, "첫 점검", 1)
	require.NoError(t, err)
	_, err = env.svc.CreateSession(1, "둘째 점검", 2)
	require.NoError(t, err)
	require.NoError(t, env.svc.RecordFeedback(s1.ID, "의견", 5))

	summaries, err := env.svc.ListSessions(1)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byName := map[string]SessionSummary{}
	for _, s := range summaries {
		byName[s.SessionName] = s
	}
	assert.True(t, byName["첫 점검"].HasFeedback)
	require.NotNil(t, byName["첫 점검"].FeedbackRating)
	assert.Equal(t, 5, *byName["첫 점검"].FeedbackRating)
	assert.False(t, byName["둘째 점검"].HasFeedback)
	assert.Equal(t, model.SessionStatusPending, byName["둘째 점검"].Status)
}
