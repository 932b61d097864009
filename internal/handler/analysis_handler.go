package handler

import (
	"errors"
	"io"
	"net/http"

	"sgr-safety-go/internal/model"
	"sgr-safety-go/internal/service"
	"sgr-safety-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AnalysisHandler 는 사진 분석 요청과 세션 조회 요청을 처리한다.
type AnalysisHandler struct {
	analysisService service.AnalysisService
}

// NewAnalysisHandler 는 새 AnalysisHandler 를 생성한다.
func NewAnalysisHandler(analysisService service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// statusForServiceError 는 서비스 오류 분류를 HTTP 상태 코드로 바꾼다.
func statusForServiceError(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSessionCompleted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// currentUser 는 AuthMiddleware 가 넣어 둔 사용자 객체를 꺼낸다.
func currentUser(c *gin.Context) (*model.User, bool) {
	userValue, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := userValue.(*model.User)
	return user, ok
}

// Analyze 는 multipart 로 업로드된 현장 사진 묶음을 분석한다.
// 전체 흐름(세션 생성 → 저장 → 비전 분석 → 결과 저장)이 끝날 때까지 블로킹한다.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "인증 정보가 없습니다"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "multipart 폼 파싱에 실패했습니다"})
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "업로드된 파일이 없습니다"})
		return
	}

	sessionName := c.PostForm("session_name")
	if sessionName == "" {
		sessionName = "현장 안전 분석"
	}

	var uploads []service.ImageUpload
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "업로드 파일을 열 수 없습니다: " + fh.Filename})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "업로드 파일을 읽을 수 없습니다: " + fh.Filename})
			return
		}
		uploads = append(uploads, service.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	result, err := h.analysisService.Run(c.Request.Context(), user, sessionName, uploads)
	if err != nil {
		log.Errorf("Analyze: 사용자 '%s' 분석 실패, error: %v", user.Username, err)
		c.JSON(statusForServiceError(err), gin.H{
			"code":    statusForServiceError(err),
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "분석이 완료되었습니다",
		"data":    result,
	})
}

// ListSessions 는 현재 사용자의 분석 세션 이력을 반환한다.
func (h *AnalysisHandler) ListSessions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "인증 정보가 없습니다"})
		return
	}

	summaries, err := h.analysisService.ListSessions(user.ID)
	if err != nil {
		log.Errorf("ListSessions: 사용자 '%s' 조회 실패, error: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "세션 조회에 실패했습니다"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"sessions": summaries,
			"total":    len(summaries),
		},
	})
}
