package handler

import (
	"net/http"
	"strconv"

	"sgr-safety-go/internal/service"
	"sgr-safety-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler 는 분석 세션에 대한 베타 테스터 피드백을 처리한다.
type FeedbackHandler struct {
	analysisService service.AnalysisService
}

// NewFeedbackHandler 는 새 FeedbackHandler 를 생성한다.
func NewFeedbackHandler(analysisService service.AnalysisService) *FeedbackHandler {
	return &FeedbackHandler{analysisService: analysisService}
}

// Submit 은 세션에 피드백 본문과 평점(1~5)을 기록한다.
// 본인 소유 세션이 아니면 404 로 응답한다.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "인증 정보가 없습니다"})
		return
	}

	sessionID, err := strconv.ParseUint(c.Param("sessionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "잘못된 세션 ID 입니다"})
		return
	}

	rating, err := strconv.Atoi(c.PostForm("rating"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "평점은 1-5 사이의 숫자여야 합니다"})
		return
	}
	feedback := c.PostForm("feedback")

	// 소유권 확인 후 기록한다. 타인의 세션은 존재 여부를 드러내지 않는다.
	session, err := h.analysisService.GetSession(uint(sessionID))
	if err != nil || session.UserID != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "세션을 찾을 수 없습니다"})
		return
	}

	if err := h.analysisService.RecordFeedback(uint(sessionID), feedback, rating); err != nil {
		log.Warnf("Submit: 세션 %d 피드백 기록 실패, error: %v", sessionID, err)
		c.JSON(statusForServiceError(err), gin.H{
			"code":    statusForServiceError(err),
			"message": err.Error(),
		})
		return
	}

	log.Infof("세션 %d 피드백 기록 완료 (rating=%d)", sessionID, rating)
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "피드백이 저장되었습니다",
	})
}
