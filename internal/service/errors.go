// Package service 는 애플리케이션의 비즈니스 로직 계층이다.
package service

import "errors"

// 서비스 계층의 오류 분류. 핸들러는 errors.Is 로 분기해 HTTP 상태를 정한다.
var (
	// ErrValidation 은 잘못된 호출자 입력이다. 재시도하지 않는다.
	ErrValidation = errors.New("validation error")
	// ErrNotFound 는 참조한 세션이나 사용자가 없는 경우다.
	ErrNotFound = errors.New("not found")
	// ErrSessionCompleted 는 이미 완료된 세션을 다시 완료하려는 시도다.
	ErrSessionCompleted = errors.New("session already completed")
	// ErrStorage 는 바이트 쓰기나 디렉토리 생성 실패다. 부분 쓰기는 롤백하지 않는다.
	ErrStorage = errors.New("storage error")
	// ErrCollaborator 는 외부 분석/영속화 호출 실패다. 상위 메시지를 함께 감싼다.
	ErrCollaborator = errors.New("collaborator error")
)
