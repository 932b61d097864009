package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTableBlock(t *testing.T) {
	t.Run("본문 중간의 첫 표를 찾는다", func(t *testing.T) {
		text := "분석 결과입니다.\n\n" +
			"| 번호 | 잠재 위험요인 |\n" +
			"|------|---------------|\n" +
			"| 1 | 추락 위험 |\n" +
			"| 2 | 낙하물 위험 |\n\n" +
			"표 뒤의 설명 문단."

		block := ExtractTableBlock(text)
		require.Len(t, block, 4)
		assert.Equal(t, "| 번호 | 잠재 위험요인 |", block[0])
		assert.Equal(t, "| 2 | 낙하물 위험 |", block[3])
	})

	t.Run("구분선이 없으면 표로 인정하지 않는다", func(t *testing.T) {
		text := "| 번호 | 항목 |\n| 1 | 추락 |"
		assert.Nil(t, ExtractTableBlock(text))
	})

	t.Run("표가 전혀 없으면 nil", func(t *testing.T) {
		assert.Nil(t, ExtractTableBlock("표 없는 일반 텍스트\n둘째 줄"))
	})

	t.Run("두 번째 표는 무시한다", func(t *testing.T) {
		text := "| a |\n|---|\n| 1 |\n\n| b |\n|---|\n| 2 |"
		block := ExtractTableBlock(text)
		require.Len(t, block, 3)
		assert.Equal(t, "| a |", block[0])
	})

	t.Run("파이프가 아닌 라인에서 표가 끝난다", func(t *testing.T) {
		text := "| h |\n|---|\n| 1 |\n끝\n| 2 |"
		block := ExtractTableBlock(text)
		require.Len(t, block, 3)
	})

	t.Run("정렬 콜론이 있는 구분선도 인정한다", func(t *testing.T) {
		text := "| h1 | h2 |\n|:---|---:|\n| a | b |"
		block := ExtractTableBlock(text)
		require.Len(t, block, 3)
	})

	t.Run("들여쓰기된 헤더도 인정한다", func(t *testing.T) {
		text := "  | h |\n  |---|\n  | 1 |"
		block := ExtractTableBlock(text)
		require.Len(t, block, 3)
	})
}

func TestIsSeparatorRow(t *testing.T) {
	assert.True(t, isSeparatorRow("|---|---|"))
	assert.True(t, isSeparatorRow("|:--- | ---:|"))
	assert.False(t, isSeparatorRow("---"))   // 파이프 없음
	assert.False(t, isSeparatorRow("|-a-|")) // 허용되지 않는 문자
	assert.False(t, isSeparatorRow(""))
}

func TestSplitRow(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitRow("| a | b | c |"))
	assert.Equal(t, []string{"a", "b"}, SplitRow("a | b"))
	assert.Equal(t, []string{"", "x"}, SplitRow("|  | x |"))
	// 양 끝 파이프는 각각 한 개만 벗긴다.
	assert.Equal(t, []string{"", "a", ""}, SplitRow("|| a ||"))
}
