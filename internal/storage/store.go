// Package storage 는 세션 아티팩트의 로컬 저장 레이아웃을 구현한다.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sgr-safety-go/internal/model"
)

// 아티팩트 카테고리 루트. base 경로 바로 아래 디렉토리 이름이 된다.
const (
	CategoryImages  = "images"
	CategoryResults = "results"
)

// Store 는 base/category/{YYYY-MM-DD}/{userKey}_{HH-MM-SS} 레이아웃으로
// 아티팩트를 쓰고 읽는 로컬 저장소다.
type Store struct {
	base string
	now  func() time.Time
}

// NewStore 는 base 경로를 루트로 하는 Store 를 생성한다.
func NewStore(basePath string) *Store {
	return &Store{base: basePath, now: time.Now}
}

// NewStoreWithClock 은 시계 주입이 가능한 Store 를 생성한다. 테스트용.
func NewStoreWithClock(basePath string, now func() time.Time) *Store {
	return &Store{base: basePath, now: now}
}

// NewSessionKey 는 현재 KST 시각으로 세션 저장 키를 만든다.
// 키는 세션 생성 시 한 번만 계산해 세션 레코드에 저장하고, 이후의 모든
// 쓰기가 같은 키를 재사용한다. 같은 사용자가 같은 초에 두 세션을 만들면
// 키가 충돌하지만, 이는 설계상 허용된 한계다.
func (s *Store) NewSessionKey(userKey string) string {
	t := s.now().In(model.KST)
	return filepath.Join(t.Format("2006-01-02"), fmt.Sprintf("%s_%s", userKey, t.Format("15-04-05")))
}

// SessionDir 는 카테고리와 세션 키에 해당하는 디렉토리를 만들고 경로를 반환한다.
// 중간 디렉토리는 모두 생성하며, 이미 있으면 그대로 둔다.
func (s *Store) SessionDir(category, sessionKey string) (string, error) {
	dir := filepath.Join(s.base, category, sessionKey)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("저장 디렉토리 생성 실패 %s: %w", dir, err)
	}
	return dir, nil
}

// WriteArtifact 는 세션 디렉토리 아래에 파일 하나를 통째로 쓴다.
// 기록된 절대 경로를 반환한다.
func (s *Store) WriteArtifact(category, sessionKey, filename string, data []byte) (string, error) {
	dir, err := s.SessionDir(category, sessionKey)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("아티팩트 쓰기 실패 %s: %w", path, err)
	}
	return path, nil
}

// ReadArtifact 는 저장된 아티팩트 파일을 읽는다.
func (s *Store) ReadArtifact(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Exists 는 경로에 파일이 존재하는지 확인한다.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
