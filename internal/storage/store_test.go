package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock 은 2025-03-01 05:05:09 UTC, 즉 KST 14:05:09 를 반환한다.
func fixedClock() time.Time {
	return time.Date(2025, 3, 1, 5, 5, 9, 0, time.UTC)
}

func TestNewSessionKey(t *testing.T) {
	store := NewStoreWithClock(t.TempDir(), fixedClock)

	key := store.NewSessionKey("tester1")
	assert.Equal(t, filepath.Join("2025-03-01", "tester1_14-05-09"), key)
}

func TestNewSessionKeyCrossesMidnight(t *testing.T) {
	// UTC 2025-03-01 16:30:00 은 KST 로 다음 날이다.
	store := NewStoreWithClock(t.TempDir(), func() time.Time {
		return time.Date(2025, 3, 1, 16, 30, 0, 0, time.UTC)
	})

	key := store.NewSessionKey("tester1")
	assert.Equal(t, filepath.Join("2025-03-02", "tester1_01-30-00"), key)
}

func TestSessionDirIdempotent(t *testing.T) {
	store := NewStoreWithClock(t.TempDir(), fixedClock)
	key := store.NewSessionKey("tester1")

	dir1, err := store.SessionDir(CategoryImages, key)
	require.NoError(t, err)
	dir2, err := store.SessionDir(CategoryImages, key)
	require.NoError(t, err)
	assert.Equal(t, dir1, dir2)

	info, err := os.Stat(dir1)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteAndReadArtifact(t *testing.T) {
	base := t.TempDir()
	store := NewStoreWithClock(base, fixedClock)
	key := store.NewSessionKey("tester1")

	path, err := store.WriteArtifact(CategoryResults, key, "full_report_1.md", []byte("# 보고서"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, CategoryResults, key, "full_report_1.md"), path)
	assert.True(t, store.Exists(path))

	data, err := store.ReadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, "# 보고서", string(data))

	// 같은 파일명으로 다시 쓰면 덮어쓴다.
	_, err = store.WriteArtifact(CategoryResults, key, "full_report_1.md", []byte("갱신"))
	require.NoError(t, err)
	data, err = store.ReadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, "갱신", string(data))
}

func TestExistsMissingFile(t *testing.T) {
	store := NewStore(t.TempDir())
	assert.False(t, store.Exists(filepath.Join(t.TempDir(), "없는파일.md")))
}
