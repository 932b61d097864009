// Package middleware 는 Gin HTTP 요청 처리 미들웨어를 제공한다.
package middleware

import (
	"net/http"
	"strings"

	"sgr-safety-go/internal/service"
	"sgr-safety-go/pkg/token"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 는 JWT 인증 미들웨어를 생성한다.
// 요청 헤더에서 토큰을 추출해 검증하고, 블랙리스트 여부를 확인한 뒤
// 완전한 User 객체를 Gin 컨텍스트에 넣는다.
func AuthMiddleware(jwtManager *token.JWTManager, userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "인증 헤더가 없습니다"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "잘못된 인증 헤더 형식입니다"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "유효하지 않거나 만료된 토큰입니다"})
			return
		}

		// 로그아웃으로 무효화된 토큰인지 확인한다.
		if userService.IsTokenRevoked(tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "로그아웃된 토큰입니다"})
			return
		}

		// 토큰의 사용자가 여전히 존재하는지 DB 에서 확인한다.
		user, err := userService.GetProfile(claims.Username)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "사용자를 찾을 수 없습니다"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "비활성화된 사용자입니다"})
			return
		}

		// 이후 핸들러에서 사용할 수 있도록 컨텍스트에 저장한다.
		c.Set("user", user)
		c.Set("claims", claims)
		c.Set("token", tokenString)

		c.Next()
	}
}
