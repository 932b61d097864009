// Package tasks defines the structure for tasks that are sent to Kafka.
package tasks

// ReportIndexTask 는 완료된 세션의 보고서를 검색 색인에 반영하는 작업이다.
type ReportIndexTask struct {
	SessionID   uint   `json:"session_id"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	SessionName string `json:"session_name"`
	ReportPath  string `json:"report_path"`
	CompletedAt string `json:"completed_at"`
}
