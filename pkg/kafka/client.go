// Package kafka 는 보고서 색인 작업의 생산/소비를 담당한다.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sgr-safety-go/internal/config"
	"sgr-safety-go/pkg/database"
	"sgr-safety-go/pkg/log"
	"sgr-safety-go/pkg/tasks"

	"github.com/segmentio/kafka-go"
)

// TaskProcessor 는 색인 작업을 처리할 수 있는 구현체의 인터페이스다.
// 소비자 루프를 구체 파이프라인 구현과 분리한다.
type TaskProcessor interface {
	Process(ctx context.Context, task tasks.ReportIndexTask) error
}

var producer *kafka.Writer

// InitProducer 는 Kafka 생산자를 초기화한다.
func InitProducer(cfg config.KafkaConfig) {
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 생산자 초기화 완료")
}

// ProduceIndexTask 는 보고서 색인 작업을 Kafka 로 보낸다.
func ProduceIndexTask(task tasks.ReportIndexTask) error {
	taskBytes, err := json.Marshal(task)
	if err != nil {
		return err
	}

	return producer.WriteMessages(context.Background(),
		kafka.Message{Value: taskBytes},
	)
}

// StartConsumer 는 색인 작업을 소비하는 루프를 시작한다.
// 처리 실패는 Redis 로 횟수를 세어 3회 이상이면 offset 을 커밋해 재시도를 멈춘다.
func StartConsumer(cfg config.KafkaConfig, processor TaskProcessor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.Topic,
		GroupID:  "sgr-safety-go-consumer",
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	log.Infof("Kafka 소비자 시작, 토픽 '%s' 수신 중", cfg.Topic)

	for {
		m, err := r.FetchMessage(context.Background())
		if err != nil {
			log.Error("Kafka 메시지 수신 실패", err)
			break
		}

		var task tasks.ReportIndexTask
		if err := json.Unmarshal(m.Value, &task); err != nil {
			log.Errorf("Kafka 메시지 파싱 실패: %v, value: %s", err, string(m.Value))
			// 형식이 깨진 메시지는 큐를 막지 않도록 바로 커밋한다.
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("오류 메시지 커밋 실패: %v", err)
			}
			continue
		}

		log.Infof("보고서 색인 작업 수신: sessionID=%d", task.SessionID)
		if err := processor.Process(context.Background(), task); err != nil {
			log.Errorf("보고서 색인 작업 실패: sessionID=%d, error: %v", task.SessionID, err)
			attemptsKey := fmt.Sprintf("kafka:attempts:%d", task.SessionID)
			attempts, incErr := database.RDB.Incr(context.Background(), attemptsKey).Result()
			if incErr != nil {
				// Redis 장애 시에는 커밋하지 않고 Kafka 재시도에 맡긴다.
				continue
			}
			_ = database.RDB.Expire(context.Background(), attemptsKey, 24*time.Hour).Err()
			if attempts >= 3 {
				log.Errorf("색인 작업 3회 이상 실패, offset 커밋으로 재시도 종료: sessionID=%d", task.SessionID)
				if err := r.CommitMessages(context.Background(), m); err != nil {
					log.Errorf("Kafka offset 커밋 실패: %v", err)
				}
			}
		} else {
			log.Infof("보고서 색인 작업 완료: sessionID=%d", task.SessionID)
			_ = database.RDB.Del(context.Background(), fmt.Sprintf("kafka:attempts:%d", task.SessionID)).Err()
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("Kafka offset 커밋 실패: %v", err)
			}
		}
	}

	if err := r.Close(); err != nil {
		log.Fatalf("Kafka 소비자 종료 실패: %v", err)
	}
}
