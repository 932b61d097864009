// Package vision 은 비전 분석 모델 호출 클라이언트를 제공한다.
// 이미지 목록과 지시 프롬프트를 넣으면 자유 텍스트 보고서가 나오는
// 불투명한 외부 함수로 취급한다.
package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"sgr-safety-go/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// Image 는 분석 요청에 포함될 이미지 한 장이다. Data 는 전송용으로
// 정규화된 JPEG 바이트다.
type Image struct {
	Name string
	Data []byte
}

// Client 는 비전 분석 호출 인터페이스다.
type Client interface {
	Analyze(ctx context.Context, images []Image, prompt string) (string, error)
}

type openaiClient struct {
	client *openai.Client
	cfg    config.VisionConfig
}

// NewClient 는 OpenAI 호환 API 를 사용하는 비전 클라이언트를 생성한다.
func NewClient(cfg config.VisionConfig) Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &openaiClient{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
}

// Analyze 는 프롬프트와 이미지들을 하나의 멀티모달 사용자 메시지로 보내고
// 모델의 텍스트 응답을 그대로 반환한다. 스트리밍과 재시도는 하지 않는다.
func (c *openaiClient) Analyze(ctx context.Context, images []Image, prompt string) (string, error) {
	model := c.cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	maxTokens := c.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4000
	}

	parts := make([]openai.ChatMessagePart, 0, len(images)+1)
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: prompt,
	})
	for _, img := range images {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL: fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(img.Data)),
			},
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: parts,
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("비전 분석 호출 실패: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("비전 분석 응답에 결과가 없습니다")
	}
	return resp.Choices[0].Message.Content, nil
}
