// Package es 는 보고서 검색 색인과의 연동을 제공한다.
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"sgr-safety-go/internal/config"
	"sgr-safety-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ESClient *elasticsearch.Client

// ReportDocument 는 색인에 저장되는 완료 보고서 문서다.
type ReportDocument struct {
	SessionID   uint   `json:"session_id"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	SessionName string `json:"session_name"`
	Content     string `json:"content"`
	CompletedAt string `json:"completed_at"`
}

// ReportHit 은 검색 결과 한 건이다.
type ReportHit struct {
	SessionID   uint    `json:"sessionId"`
	SessionName string  `json:"sessionName"`
	CompletedAt string  `json:"completedAt"`
	Score       float64 `json:"score"`
}

// InitES 는 Elasticsearch 클라이언트를 초기화하고 색인을 보장한다.
func InitES(esCfg config.ElasticsearchConfig) error {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client
	return createIndexIfNotExists(esCfg.IndexName)
}

// createIndexIfNotExists 는 색인이 없으면 매핑과 함께 생성한다.
func createIndexIfNotExists(indexName string) error {
	res, err := ESClient.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("색인 존재 확인 실패: %v", err)
		return err
	}
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("색인 '%s' 이미 존재", indexName)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Errorf("색인 '%s' 존재 확인 중 예상치 못한 상태 코드: %d", indexName, res.StatusCode)
		return fmt.Errorf("색인 존재 확인 중 예상치 못한 상태 코드: %d", res.StatusCode)
	}

	// 보고서 본문은 한국어이므로 nori 분석기를 사용한다. (analysis-nori 플러그인 필요)
	mapping := `{
		"mappings": {
			"properties": {
				"session_id": { "type": "long" },
				"user_id": { "type": "long" },
				"username": { "type": "keyword" },
				"session_name": {
					"type": "text",
					"analyzer": "nori"
				},
				"content": {
					"type": "text",
					"analyzer": "nori"
				},
				"completed_at": { "type": "date", "format": "yyyy-MM-dd HH:mm:ss||strict_date_optional_time" }
			}
		}
	}`

	res, err = ESClient.Indices.Create(
		indexName,
		ESClient.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		log.Errorf("색인 '%s' 생성 실패: %v", indexName, err)
		return err
	}
	if res.IsError() {
		log.Errorf("색인 '%s' 생성 시 Elasticsearch 오류: %s", indexName, res.String())
		return errors.New("색인 생성 시 Elasticsearch 가 오류를 반환했습니다")
	}

	log.Infof("색인 '%s' 생성 완료", indexName)
	return nil
}

// IndexReport 는 완료된 보고서 문서를 색인에 저장한다.
// 문서 ID 는 세션 ID 를 사용하므로 같은 세션 재색인은 덮어쓰기가 된다.
func IndexReport(ctx context.Context, indexName string, doc ReportDocument) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: strconv.FormatUint(uint64(doc.SessionID), 10),
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("보고서 색인 중 Elasticsearch 오류: %s", res.String())
		return errors.New("failed to index report")
	}
	return nil
}

// SearchReports 는 호출자의 보고서에 한정해 세션 이름과 본문을 전문 검색한다.
func SearchReports(ctx context.Context, indexName string, userID uint, query string, size int) ([]ReportHit, error) {
	if size <= 0 {
		size = 10
	}

	body := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"session_name^2", "content"},
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"user_id": userID},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := ESClient.Search(
		ESClient.Search.WithContext(ctx),
		ESClient.Search.WithIndex(indexName),
		ESClient.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("보고서 검색 중 Elasticsearch 오류: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64        `json:"_score"`
				Source ReportDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	hits := make([]ReportHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, ReportHit{
			SessionID:   h.Source.SessionID,
			SessionName: h.Source.SessionName,
			CompletedAt: h.Source.CompletedAt,
			Score:       h.Score,
		})
	}
	return hits, nil
}
