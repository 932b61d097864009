// Package imaging 은 비전 API 전송 전에 이미지를 정규화한다.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// 업로드에서 흔한 포맷의 디코더 등록
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

// Normalize 는 이미지를 디코드해 긴 변이 maxEdge 를 넘으면 비율을 유지한 채
// 축소하고, JPEG 로 다시 인코딩해 반환한다. maxEdge 가 0 이하이면 크기는
// 건드리지 않고 재인코딩만 한다. 디코드할 수 없는 데이터면 오류를 반환한다.
func Normalize(data []byte, maxEdge int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("이미지 디코드 실패: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	longest := w
	if h > longest {
		longest = h
	}
	if maxEdge > 0 && longest > maxEdge {
		ratio := float64(maxEdge) / float64(longest)
		nw := int(float64(w) * ratio)
		nh := int(float64(h) * ratio)
		if nw < 1 {
			nw = 1
		}
		if nh < 1 {
			nh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("JPEG 인코딩 실패: %w", err)
	}
	return buf.Bytes(), nil
}
