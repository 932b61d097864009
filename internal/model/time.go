package model

import (
	"fmt"
	"time"
)

// KST 는 서비스 전반에서 사용하는 고정 UTC+9 시간대다.
var KST = time.FixedZone("KST", 9*60*60)

const timeFormat = "2006-01-02 15:04:05"

// LocalTime 은 "YYYY-MM-DD HH:MM:SS" (KST) 로 직렬화되는 시간 타입이다.
type LocalTime time.Time

// MarshalJSON implements the json.Marshaler interface.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	formatted := fmt.Sprintf("\"%s\"", time.Time(t).In(KST).Format(timeFormat))
	return []byte(formatted), nil
}
