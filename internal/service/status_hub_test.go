package service

import (
	"testing"

	"sgr-safety-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusHubPublishSubscribe(t *testing.T) {
	hub := NewStatusHub()

	ch := hub.Subscribe(1)
	other := hub.Subscribe(2)

	hub.Publish(1, model.SessionStatusAnalyzing)

	event := <-ch
	assert.Equal(t, uint(1), event.SessionID)
	assert.Equal(t, model.SessionStatusAnalyzing, event.Status)

	// 다른 세션 구독자에게는 전달되지 않는다.
	select {
	case e := <-other:
		t.Fatalf("다른 세션의 이벤트를 수신함: %+v", e)
	default:
	}
}

func TestStatusHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewStatusHub()
	ch := hub.Subscribe(1)
	hub.Unsubscribe(1, ch)

	_, open := <-ch
	assert.False(t, open)

	// 구독자가 없어도 Publish 는 안전하다.
	hub.Publish(1, model.SessionStatusCompleted)
}

func TestStatusHubSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewStatusHub()
	ch := hub.Subscribe(1)

	// 버퍼(8)를 넘겨도 Publish 는 블로킹하지 않는다.
	for i := 0; i < 20; i++ {
		hub.Publish(1, model.SessionStatusPending)
	}

	require.Len(t, ch, 8)
}
