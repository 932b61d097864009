package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("세 섹션으로 분할한다", func(t *testing.T) {
		text := "서두 인사말\n" +
			"## 1. 위험요인 분석\n" +
			"위험 내용 A\n" +
			"## 2. SGR 체크리스트\n" +
			"체크 내용 B\n" +
			"## 3. 추가 권장사항\n" +
			"권장 내용 C\n"

		sections := Classify(text)
		require.Len(t, sections, 3)

		assert.Contains(t, sections[SectionRiskAnalysis], "위험요인 분석")
		assert.Contains(t, sections[SectionRiskAnalysis], "위험 내용 A")
		assert.Contains(t, sections[SectionSGRChecklist], "체크 내용 B")
		assert.Contains(t, sections[SectionRecommendations], "권장 내용 C")

		// 키워드 이전의 선행 라인은 버린다.
		assert.NotContains(t, sections[SectionRiskAnalysis], "서두 인사말")
	})

	t.Run("트리거 라인은 해당 섹션에 포함된다", func(t *testing.T) {
		sections := Classify("잠재 위험 목록\n내용")
		assert.True(t, strings.HasPrefix(sections[SectionRiskAnalysis], "잠재 위험 목록"))
	})

	t.Run("한 라인에 여러 키워드가 있으면 마지막 일치가 이긴다", func(t *testing.T) {
		// "위험요인" 과 "체크리스트" 가 같은 라인에 있으면 체크리스트로 전이한다.
		sections := Classify("위험요인 체크리스트\n내용")
		assert.Empty(t, sections[SectionRiskAnalysis])
		assert.Contains(t, sections[SectionSGRChecklist], "내용")
	})

	t.Run("키워드가 없으면 모든 섹션이 빈 문자열", func(t *testing.T) {
		sections := Classify("아무 키워드도 없는 텍스트")
		require.Len(t, sections, 3)
		for _, v := range sections {
			assert.Empty(t, v)
		}
	})

	t.Run("빈 입력도 세 개의 고정 키를 가진다", func(t *testing.T) {
		sections := Classify("")
		assert.Contains(t, sections, SectionRiskAnalysis)
		assert.Contains(t, sections, SectionSGRChecklist)
		assert.Contains(t, sections, SectionRecommendations)
	})

	t.Run("이후 섹션 라인은 이전 섹션으로 돌아가지 않는다", func(t *testing.T) {
		text := "위험요인\nA\n권장사항\nB\n일반 라인"
		sections := Classify(text)
		assert.NotContains(t, sections[SectionRiskAnalysis], "일반 라인")
		assert.Contains(t, sections[SectionRecommendations], "일반 라인")
	})
}
