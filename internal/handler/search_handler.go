package handler

import (
	"net/http"
	"strconv"

	"sgr-safety-go/internal/service"
	"sgr-safety-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// SearchHandler 는 완료 보고서 전문 검색 요청을 처리한다.
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler 는 새 SearchHandler 를 생성한다.
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchReports 는 현재 사용자 소유 보고서에서 세션 이름과 본문을 검색한다.
func (h *SearchHandler) SearchReports(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "인증 정보가 없습니다"})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "검색어(q)는 필수입니다"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.searchService.SearchReports(c.Request.Context(), user.ID, query, size)
	if err != nil {
		log.Errorf("SearchReports: 사용자 '%s' 검색 실패, error: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "보고서 검색에 실패했습니다"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"hits":  hits,
			"total": len(hits),
		},
	})
}
