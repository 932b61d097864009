package report

import "strings"

// 보고서 섹션의 고정 키. 이 세 개가 닫힌 집합이다.
const (
	SectionRiskAnalysis    = "risk_analysis"
	SectionSGRChecklist    = "sgr_checklist"
	SectionRecommendations = "recommendations"
)

// sectionState 는 분류기의 명시적 상태다.
type sectionState int

const (
	stateNone sectionState = iota
	stateRisk
	stateChecklist
	stateRecommendations
)

// transition 은 라인에 포함된 키워드와 그때 진입하는 상태의 대응이다.
type transition struct {
	keyword string
	next    sectionState
}

// 상태 전이 테이블. 한 라인에 여러 키워드가 있으면 마지막 일치가 이긴다.
var transitions = []transition{
	{"위험요인", stateRisk},
	{"잠재 위험", stateRisk},
	{"체크리스트", stateChecklist},
	{"SGR", stateChecklist},
	{"권장사항", stateRecommendations},
	{"추가 권장", stateRecommendations},
}

func (s sectionState) key() string {
	switch s {
	case stateRisk:
		return SectionRiskAnalysis
	case stateChecklist:
		return SectionSGRChecklist
	case stateRecommendations:
		return SectionRecommendations
	}
	return ""
}

// Classify 는 전체 보고서 텍스트를 라인 단위로 훑어 세 섹션으로 분할한다.
// 키워드를 포함한 라인은 그 라인부터 해당 섹션을 연다. 아직 어떤 섹션도
// 열리지 않았다면 선행 라인은 버린다. 결과 맵은 항상 세 개의 고정 키를 가진다.
func Classify(text string) map[string]string {
	acc := map[string]*strings.Builder{
		SectionRiskAnalysis:    {},
		SectionSGRChecklist:    {},
		SectionRecommendations: {},
	}

	state := stateNone
	for _, line := range strings.Split(text, "\n") {
		for _, t := range transitions {
			if strings.Contains(line, t.keyword) {
				state = t.next
			}
		}
		if state == stateNone {
			continue
		}
		b := acc[state.key()]
		b.WriteString(line)
		b.WriteString("\n")
	}

	sections := make(map[string]string, len(acc))
	for key, b := range acc {
		sections[key] = b.String()
	}
	return sections
}
