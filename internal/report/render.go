package report

import "strings"

// TableToInnerHTML 은 마크다운 표를 thead/tbody 조각(HTML, table 태그 제외)으로
// 변환한다. 표가 없으면 빈 문자열을 반환한다.
func TableToInnerHTML(markdownText string) string {
	block := ExtractTableBlock(markdownText)
	if len(block) < 2 {
		// 헤더와 구분선 두 라인은 있어야 표다.
		return ""
	}

	var sb strings.Builder
	sb.WriteString("<thead><tr>")
	for _, h := range SplitRow(block[0]) {
		sb.WriteString("<th>")
		sb.WriteString(escapeHTML(h))
		sb.WriteString("</th>")
	}
	sb.WriteString("</tr></thead>")

	// block[1] 은 구분선이므로 건너뛴다.
	sb.WriteString("<tbody>")
	for _, row := range block[2:] {
		sb.WriteString("<tr>")
		for _, c := range SplitRow(row) {
			sb.WriteString("<td>")
			sb.WriteString(escapeHTML(c))
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody>")
	return sb.String()
}

// escapeHTML 은 '&', '<', '>' 세 문자만 이스케이프한다.
func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}

// RenderSections 는 분류된 원문 섹션을 표시용 조각으로 변환한다.
// 위험요인 분석과 SGR 체크리스트는 표 조각으로 렌더링하고,
// 권장사항은 원문 그대로 통과시킨다.
func RenderSections(raw map[string]string) map[string]string {
	return map[string]string{
		SectionRiskAnalysis:    TableToInnerHTML(raw[SectionRiskAnalysis]),
		SectionSGRChecklist:    TableToInnerHTML(raw[SectionSGRChecklist]),
		SectionRecommendations: raw[SectionRecommendations],
	}
}
