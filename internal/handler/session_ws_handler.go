package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"sgr-safety-go/internal/service"
	"sgr-safety-go/pkg/log"
	"sgr-safety-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 모든 출처 허용
	},
}

// wsTicketTTL 은 일회용 WebSocket 티켓의 유효 시간이다.
const wsTicketTTL = 60 * time.Second

// SessionWSHandler 는 세션 상태 스트림용 WebSocket 연결을 처리한다.
// 브라우저 WebSocket 은 Authorization 헤더를 보낼 수 없으므로
// 인증된 HTTP 요청으로 일회용 티켓을 발급받아 연결에 사용한다.
type SessionWSHandler struct {
	analysisService service.AnalysisService
	userService     service.UserService
	hub             *service.StatusHub
	rdb             *redis.Client
}

// NewSessionWSHandler 는 새 SessionWSHandler 를 생성한다.
func NewSessionWSHandler(analysisService service.AnalysisService, userService service.UserService, hub *service.StatusHub, rdb *redis.Client) *SessionWSHandler {
	return &SessionWSHandler{
		analysisService: analysisService,
		userService:     userService,
		hub:             hub,
		rdb:             rdb,
	}
}

// GetWebsocketTicket 은 일회용 WebSocket 접속 티켓을 발급한다.
// 인증 미들웨어 뒤에서만 호출되며, 티켓은 Redis 에 짧은 TTL 로 저장된다.
func (h *SessionWSHandler) GetWebsocketTicket(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "인증 정보가 없습니다"})
		return
	}

	ticket := token.GenerateRandomString(32)
	key := "ws:ticket:" + ticket
	if err := h.rdb.Set(context.Background(), key, user.Username, wsTicketTTL).Err(); err != nil {
		log.Error("WebSocket 티켓 저장 실패", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "티켓 발급에 실패했습니다"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": gin.H{"ticket": ticket}})
}

// StreamStatus 는 세션 상태 전이를 WebSocket 으로 스트리밍한다.
// 경로 파라미터의 티켓으로 인증하고 sessionId 쿼리로 대상 세션을 지정한다.
func (h *SessionWSHandler) StreamStatus(c *gin.Context) {
	ticket := c.Param("ticket")
	key := "ws:ticket:" + ticket
	username, err := h.rdb.Get(context.Background(), key).Result()
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "유효하지 않은 티켓입니다"})
		return
	}
	// 티켓은 일회용이다.
	_ = h.rdb.Del(context.Background(), key).Err()

	user, err := h.userService.GetProfile(username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "사용자를 찾을 수 없습니다"})
		return
	}

	sessionID, err := strconv.ParseUint(c.Query("sessionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "잘못된 세션 ID 입니다"})
		return
	}

	session, err := h.analysisService.GetSession(uint(sessionID))
	if err != nil || session.UserID != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "세션을 찾을 수 없습니다"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 업그레이드 실패", err)
		return
	}
	defer conn.Close()

	log.Infof("세션 %d 상태 스트림 연결: 사용자 %s", session.ID, username)

	events := h.hub.Subscribe(session.ID)
	defer h.hub.Unsubscribe(session.ID, events)

	// 접속 시점의 현재 상태를 먼저 보낸다.
	current := service.StatusEvent{SessionID: session.ID, Status: session.AnalysisStatus, Timestamp: time.Now()}
	if b, err := json.Marshal(current); err == nil {
		_ = conn.WriteMessage(websocket.TextMessage, b)
	}

	// 클라이언트 종료를 감지하는 읽기 루프.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			b, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				log.Warnf("세션 %d 상태 전송 실패: %v", session.ID, err)
				return
			}
		case <-done:
			return
		}
	}
}
