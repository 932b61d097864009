package service

import (
	"sync"
	"time"
)

// StatusEvent 는 세션 생명주기 전이 한 건이다.
type StatusEvent struct {
	SessionID uint      `json:"sessionId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusHub 는 세션 상태 전이를 WebSocket 구독자에게 중계한다.
// 세션별 구독자 집합만 들고 있는 단순한 팬아웃 허브다.
type StatusHub struct {
	mu   sync.Mutex
	subs map[uint]map[chan StatusEvent]struct{}
}

// NewStatusHub 는 새 StatusHub 를 생성한다.
func NewStatusHub() *StatusHub {
	return &StatusHub{subs: make(map[uint]map[chan StatusEvent]struct{})}
}

// Subscribe 는 세션의 상태 이벤트 채널을 등록한다.
func (h *StatusHub) Subscribe(sessionID uint) chan StatusEvent {
	ch := make(chan StatusEvent, 8)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan StatusEvent]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	return ch
}

// Unsubscribe 는 구독을 해지하고 채널을 닫는다.
func (h *StatusHub) Unsubscribe(sessionID uint, ch chan StatusEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sessionID]; ok {
		if _, ok := set[ch]; ok {
			delete(set, ch)
			close(ch)
		}
		if len(set) == 0 {
			delete(h.subs, sessionID)
		}
	}
}

// Publish 는 세션의 상태 전이를 모든 구독자에게 알린다.
// 느린 구독자의 버퍼가 가득 차면 그 구독자는 건너뛴다.
func (h *StatusHub) Publish(sessionID uint, status string) {
	event := StatusEvent{SessionID: sessionID, Status: status, Timestamp: time.Now()}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[sessionID] {
		select {
		case ch <- event:
		default:
		}
	}
}
