// Package config 는 애플리케이션 설정 로딩을 담당한다.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Conf 는 설정 파일에서 로드된 전역 설정이다.
var Conf Config

// Config 는 config.yaml 파일 구조와 대응하는 전체 설정 구조체다.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Log           LogConfig           `mapstructure:"log"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Vision        VisionConfig        `mapstructure:"vision"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
}

// ServerConfig 는 HTTP 서버 설정이다.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 는 모든 데이터베이스 연결 설정을 담는다.
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 는 MySQL 설정이다.
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 는 Redis 설정이다.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig 는 토큰 발급 설정이다.
type JWTConfig struct {
	Secret                 string `mapstructure:"secret"`
	AccessTokenExpireHours int    `mapstructure:"access_token_expire_hours"`
	RefreshTokenExpireDays int    `mapstructure:"refresh_token_expire_days"`
}

// LogConfig 는 로깅 설정이다.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// StorageConfig 는 로컬 아티팩트 저장소 설정이다.
type StorageConfig struct {
	BasePath string `mapstructure:"base_path"`
}

// VisionConfig 는 비전 분석 모델 호출 설정이다.
type VisionConfig struct {
	APIKey       string  `mapstructure:"api_key"`
	BaseURL      string  `mapstructure:"base_url"`
	Model        string  `mapstructure:"model"`
	MaxTokens    int     `mapstructure:"max_tokens"`
	Temperature  float32 `mapstructure:"temperature"`
	MaxImageEdge int     `mapstructure:"max_image_edge"`
}

// KafkaConfig 는 보고서 색인 파이프라인용 Kafka 설정이다.
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// ElasticsearchConfig 는 보고서 검색 색인 설정이다.
type ElasticsearchConfig struct {
	Addresses string `mapstructure:"addresses"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	IndexName string `mapstructure:"index_name"`
}

// MinIOConfig 는 결과 아티팩트 아카이브용 오브젝트 스토리지 설정이다.
type MinIOConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// Init 은 지정된 경로의 YAML 파일을 읽어 Conf 에 채워 넣는다.
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("설정 파일을 읽지 못했습니다: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("설정을 구조체로 파싱하지 못했습니다: %w", err))
	}
}
