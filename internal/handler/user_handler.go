// Package handler 는 HTTP 요청을 처리하는 컨트롤러 계층이다.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"sgr-safety-go/internal/model"
	"sgr-safety-go/internal/service"
	"sgr-safety-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// UserHandler 는 사용자 관련 API 요청을 처리한다.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 는 새 UserHandler 를 생성한다.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest 는 회원가입 요청 본문이다.
type RegisterRequest struct {
	Username     string `json:"username" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	FullName     string `json:"fullName"`
	Organization string `json:"organization"`
}

// Register 는 베타 테스터 회원가입을 처리한다.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Register: 잘못된 요청 본문, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "사용자명, 이메일, 비밀번호는 필수입니다",
		})
		return
	}

	user, err := h.userService.Register(req.Username, req.Email, req.Password, req.FullName, req.Organization)
	if err != nil {
		log.Warnf("Register: '%s' 등록 실패, error: %v", req.Username, err)
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusConflict, gin.H{"code": http.StatusConflict, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "회원가입에 실패했습니다"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "회원가입이 완료되었습니다",
		"data":    gin.H{"username": user.Username},
	})
}

// LoginRequest 는 로그인 요청 본문이다.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 은 로그인 요청을 처리하고 토큰을 발급한다.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Login: 잘못된 요청 본문, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "사용자명과 비밀번호는 필수입니다",
		})
		return
	}

	accessToken, refreshToken, err := h.userService.Login(req.Username, req.Password)
	if err != nil {
		log.Warnf("Login: '%s' 인증 실패, error: %v", req.Username, err)
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    http.StatusUnauthorized,
			"message": "잘못된 자격 증명입니다",
		})
		return
	}

	log.Infof("사용자 '%s' 로그인 성공", req.Username)
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "로그인 성공",
		"data": gin.H{
			"token":        accessToken,
			"refreshToken": refreshToken,
		},
	})
}

// GetProfile 은 현재 로그인한 사용자의 정보를 반환한다.
// 사용자 객체는 AuthMiddleware 가 이미 컨텍스트에 넣어 두었다.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "사용자 정보를 가져올 수 없습니다"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": user, "message": "success"})
}

// Logout 은 현재 토큰을 무효화한다.
func (h *UserHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	if err := h.userService.Logout(tokenString); err != nil {
		log.Error("Logout: 로그아웃 실패", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "로그아웃에 실패했습니다",
		})
		return
	}

	userValue, _ := c.Get("user")
	if user, ok := userValue.(*model.User); ok {
		log.Infof("사용자 '%s' 로그아웃 완료", user.Username)
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "로그아웃되었습니다",
	})
}
