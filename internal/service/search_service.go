package service

import (
	"context"

	"sgr-safety-go/pkg/es"
)

// SearchService 는 완료 보고서 전문 검색을 제공한다.
type SearchService interface {
	SearchReports(ctx context.Context, userID uint, query string, size int) ([]es.ReportHit, error)
}

type searchService struct {
	indexName string
}

// NewSearchService 는 새 SearchService 를 생성한다.
func NewSearchService(indexName string) SearchService {
	return &searchService{indexName: indexName}
}

// SearchReports 는 호출자 소유 보고서에 한정한 전문 검색을 수행한다.
func (s *searchService) SearchReports(ctx context.Context, userID uint, query string, size int) ([]es.ReportHit, error) {
	return es.SearchReports(ctx, s.indexName, userID, query, size)
}
