package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt([]string{"site1.jpg", "site2.jpg"})

	// 16개 체크리스트 항목이 번호와 함께 모두 들어간다.
	require.Len(t, ChecklistItems, 16)
	for i, item := range ChecklistItems {
		assert.Contains(t, prompt, fmt.Sprintf("%d. %s", i+1, item))
	}

	// 두 표의 열 계약이 그대로 들어간다.
	assert.Contains(t, prompt, "| 번호 | 잠재 위험요인 | 잠재 위험요인 설명 | 위험성 감소대책 |")
	assert.Contains(t, prompt, "| 항목 | 준수여부 | 세부 내용 |")

	// 준수여부 라벨 안내가 체크리스트 예시 행마다 들어간다.
	assert.Equal(t, 16, strings.Count(prompt, "[O 또는 X 또는 해당없음 또는 알수없음]"))

	// 이미지 이름과 장수.
	assert.Contains(t, prompt, "site1.jpg, site2.jpg")
	assert.Contains(t, prompt, "총 이미지 수: 2장")
	assert.Contains(t, prompt, "제공된 2장의 현장 사진")
}
