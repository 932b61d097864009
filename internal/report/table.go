// Package report 는 비전 모델의 자유 텍스트 응답을 구조화된
// 보고서 섹션으로 조립하는 파이프라인을 구현한다.
package report

import "strings"

// ExtractTableBlock 은 텍스트에서 첫 번째 마크다운 표 블록을 라인 목록으로 반환한다.
// 표 블록은 파이프 구분 헤더 라인 바로 다음에 구분선 라인이 오고,
// 그 뒤로 파이프로 시작하는 라인이 이어지는 연속 구간이다.
// 표가 없으면 nil 을 반환하며, 같은 텍스트의 두 번째 이후 표는 무시한다.
func ExtractTableBlock(text string) []string {
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t\r")
	}

	n := len(lines)
	for i := 0; i < n; i++ {
		header := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(header, "|") {
			continue
		}
		// 다음 라인이 구분선이어야 표 시작으로 인정한다.
		// 구분선 후보가 아니면 되돌아가지 않고 다음 라인부터 계속 탐색한다.
		j := i + 1
		if j >= n || !isSeparatorRow(strings.TrimSpace(lines[j])) {
			continue
		}

		block := []string{lines[i], lines[j]}
		for k := j + 1; k < n && strings.HasPrefix(strings.TrimSpace(lines[k]), "|"); k++ {
			block = append(block, lines[k])
		}
		return block
	}
	return nil
}

// isSeparatorRow 는 '-', ':', '|' 와 공백만으로 이루어진 구분선 라인인지 판단한다.
func isSeparatorRow(s string) bool {
	if !strings.ContainsRune(s, '|') {
		return false
	}
	for _, r := range s {
		switch r {
		case '-', ':', '|', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

// SplitRow 는 표의 한 행을 셀 값 목록으로 분해한다.
// 양 끝의 파이프는 각각 최대 한 개만 제거하고, 나머지를 파이프로 분리한 뒤
// 셀마다 공백을 정리한다. 셀 내용 안의 파이프 이스케이프는 지원하지 않는다.
func SplitRow(row string) []string {
	core := strings.TrimSpace(row)
	core = strings.TrimPrefix(core, "|")
	core = strings.TrimSuffix(core, "|")

	parts := strings.Split(core, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
