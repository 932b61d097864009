package middleware

import (
	"bytes"
	"io"
	"strings"
	"time"

	"sgr-safety-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// bodyLogWriter 는 응답 본문을 캡처한다.
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write 는 응답을 gin.ResponseWriter 와 내부 버퍼에 함께 쓴다.
func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// RequestLogger 는 요청/응답 상세를 기록하는 Gin 미들웨어다.
// 이미지 업로드(multipart) 본문은 바이너리이므로 기록하지 않는다.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		var requestBody []byte
		contentType := c.GetHeader("Content-Type")
		if c.Request.Body != nil && !strings.HasPrefix(contentType, "multipart/form-data") {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		latency := time.Since(startTime)
		log.Infow("HTTP Request Log",
			"statusCode", c.Writer.Status(),
			"latency", latency.String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"requestBody", string(requestBody),
			"responseBody", blw.body.String(),
		)
	}
}
