// Package pipeline 은 Kafka 로 전달된 보고서 색인 작업을 처리한다.
package pipeline

import (
	"context"
	"fmt"

	"sgr-safety-go/internal/storage"
	"sgr-safety-go/pkg/es"
	"sgr-safety-go/pkg/log"
	"sgr-safety-go/pkg/tasks"
)

// Processor 는 완료 보고서를 읽어 검색 색인에 저장하는 파이프라인이다.
// Kafka 소비자 루프가 작업 한 건마다 Process 를 호출한다.
type Processor struct {
	store     *storage.Store
	indexName string
}

// NewProcessor 는 새 Processor 를 생성한다.
func NewProcessor(store *storage.Store, indexName string) *Processor {
	return &Processor{store: store, indexName: indexName}
}

// Process 는 색인 작업 한 건을 처리한다.
// 보고서 아티팩트를 디스크에서 읽어 Elasticsearch 에 색인한다.
// 문서 ID 가 세션 ID 이므로 재처리는 멱등하다.
func (p *Processor) Process(ctx context.Context, task tasks.ReportIndexTask) error {
	content, err := p.store.ReadArtifact(task.ReportPath)
	if err != nil {
		return fmt.Errorf("보고서 아티팩트 읽기 실패 %s: %w", task.ReportPath, err)
	}

	doc := es.ReportDocument{
		SessionID:   task.SessionID,
		UserID:      task.UserID,
		Username:    task.Username,
		SessionName: task.SessionName,
		Content:     string(content),
		CompletedAt: task.CompletedAt,
	}
	if err := es.IndexReport(ctx, p.indexName, doc); err != nil {
		return fmt.Errorf("보고서 색인 실패: sessionID=%d: %w", task.SessionID, err)
	}

	log.Infof("보고서 색인 완료: sessionID=%d, session='%s'", task.SessionID, task.SessionName)
	return nil
}
