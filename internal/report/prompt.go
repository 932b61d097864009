package report

import (
	"fmt"
	"strings"
)

// ChecklistItems 는 SGR 안전 체크리스트의 고정 16개 항목이다.
var ChecklistItems = []string{
	"모든 작업자는 작업조건에 맞는 안전보호구를 착용한다.",
	"모든 공사성 작업시에는 위험성평가를 시행하고 결과를 기록/보관한다.",
	"작업 전 반드시 TBM작업계획 공유 및 위험성 예지 등 시행",
	"고위험 작업 시에는 2인1조 작업 및 작업계획서를 비치한다.",
	"이동식사다리 및 고소작업대(차량) 사용 시 안전수칙 준수",
	"전원작업 및 고압선 주변 작업 시 감전예방 조치",
	"도로 횡단 및 도로 주변 작업 시 교통안전 시설물과 신호수를 배치한다.",
	"밀폐공간(맨홀 등) 작업 시 산소/유해가스 농도 측정 및 감시인 배치",
	"하절기/동절기 기상상황에 따른 옥외작업 금지",
	"유해위험물 MSDS의 관리 및 예방 조치",
	"중량물 이동 인력, 장비 이용 시 안전 조치",
	"화기 작업 화상, 화재 위험 예방 조치",
	"추락 예방 안전 조치",
	"건설 기계장비, 설비 등 안전 및 방호조치(끼임)",
	"혼재 작업(부딪힘) 시 안전 예방 조치",
	"충돌 방지 조치(부딪힘)",
}

const complianceLabels = "[O 또는 X 또는 해당없음 또는 알수없음]"

// BuildPrompt 는 비전 모델에 보낼 고정 구조의 지시 프롬프트를 만든다.
// 위험요인 표와 체크리스트 표의 열 계약, 16개 체크리스트 항목별 행 예시를
// 포함하며 세 개의 제목 달린 섹션으로 한국어 응답을 요구한다.
func BuildPrompt(imageNames []string) string {
	count := len(imageNames)

	var checklist strings.Builder
	for i, item := range ChecklistItems {
		fmt.Fprintf(&checklist, "%d. %s\n", i+1, item)
	}

	var checklistRows strings.Builder
	for i, item := range ChecklistItems {
		fmt.Fprintf(&checklistRows, "| %d. %s | %s | [현장 사진들에서 확인된 구체적 상황] |\n",
			i+1, item, complianceLabels)
	}

	return fmt.Sprintf(`당신은 건설현장 안전관리 전문가입니다. 제공된 %d장의 현장 사진을 분석하여 다음 형식으로 위험성 평가서를 작성해주세요.

**중요사항**:
- 제공된 %d장의 사진은 모두 동일한 공사현장의 서로 다른 각도/영역을 촬영한 것입니다.
- 모든 사진을 종합적으로 분석하여 현장 전체의 통합된 위험성 평가를 수행해주세요.
- 각 사진별로 개별 분석하지 말고, 전체 현장의 종합적인 관점에서 분석해주세요.

## 분석 요구사항:
1. 현장 전체 잠재 위험요인 분석 및 위험성 감소대책 (표 형식)
2. SGR 체크리스트 항목별 통합 체크 결과 (표 형식)
3. 현장 전체 통합 추가 권장사항

## SGR 체크리스트 항목:
%s
## 출력 형식: 마크다운 표 형식으로 작성하고 현장 전체에서 식별된 모든 주요 위험요인들을 설명한다

### 1. 현장 전체 잠재 위험요인 분석 및 위험성 감소대책
| 번호 | 잠재 위험요인 | 잠재 위험요인 설명 | 위험성 감소대책 |
| 1 | [위험요인1] | [현장 전체 관점에서의 상세 설명] | ① [대책1] ② [대책2] ③ [대책3] ④ [대책4] |
| 2 | [위험요인2] | [현장 전체 관점에서의 상세 설명] | ① [대책1] ② [대책2] ③ [대책3] ④ [대책4] |

### 2. SGR 체크리스트 항목별 통합 체크 결과
| 항목 | 준수여부 | 세부 내용 |
|----------------|----------|-------------------|
%s
### 3. 현장 전체 통합 추가 권장사항
구체적이고 실용적인 권장사항을 제시해주세요.

**제약사항**
- 모든 내용은 실제 산업안전보건 기준에 부합하도록 구체적이고 실무적인 수준으로 작성
- 위험성 감소대책은 각각 4개 이상의 구체적인 조치로 구성
- 체크리스트는 현장 전체 상황에 맞게 O, X, 해당없음, 알수없음 중 하나로 표시하고 구체적인 확인 내용도 포함
  O: 사진에서 준수가 명확히 확인됨, X: 사진에서 명확히 미준수가 확인됨, 해당없음: 준수가 필요 없는 항목임, 알수없음: 이미지의 내용으로 확인 불가한 경우
  **중요사항** 각 상태에 대한 판단은 최대한 사진에서 확인되는 사항에 대해서만 표시하고 여러 번 수행해도 동일한 결과가 나오도록 해주세요.
- 모든 출력은 한국어로 작성
- 실무에서 바로 활용 가능한 수준의 상세한 내용 포함
- 개별 사진 분석이 아닌 현장 전체의 통합적 관점에서 분석

분석 대상 이미지: %s
총 이미지 수: %d장
`, count, count, checklist.String(), checklistRows.String(), strings.Join(imageNames, ", "), count)
}
