// Package log 는 zap 기반의 전역 로거를 제공한다.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init 전에는 no-op 로거를 사용한다.
var sugar = zap.NewNop().Sugar()

// Init 은 설정값으로 zap 로거를 초기화한다.
func Init(level, format, outputPath string) {
	var zapConfig zap.Config

	// 로그 레벨 파싱. 잘못된 값이면 info 로 둔다.
	logLevel := zap.NewAtomicLevel()
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel.SetLevel(zap.InfoLevel)
	}

	encoding := "json"
	if format == "console" {
		encoding = "console"
	}

	if format == "console" {
		// 개발 환경 설정
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		// 운영 환경 설정
		zapConfig = zap.NewProductionConfig()
	}

	zapConfig.Level = logLevel
	zapConfig.Encoding = encoding
	zapConfig.OutputPaths = []string{"stdout"}
	if outputPath != "" {
		// 파일 출력 경로가 지정되면 stdout 과 파일에 동시에 기록한다.
		_ = os.MkdirAll(outputPath, os.ModePerm)
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, outputPath+"/app.log")
	}

	logger, err := zapConfig.Build()
	if err != nil {
		panic(err)
	}

	sugar = logger.Sugar()
}

// Info 는 info 레벨 로그를 남긴다.
func Info(msg string) {
	sugar.Info(msg)
}

// Infof 는 포맷 문자열로 info 레벨 로그를 남긴다.
func Infof(template string, args ...interface{}) {
	sugar.Infof(template, args...)
}

// Infow 는 키-값 쌍으로 구조화된 info 로그를 남긴다.
func Infow(msg string, keysAndValues ...interface{}) {
	sugar.Infow(msg, keysAndValues...)
}

// Warnf 는 포맷 문자열로 warn 레벨 로그를 남긴다.
func Warnf(template string, args ...interface{}) {
	sugar.Warnf(template, args...)
}

// Error 는 error 레벨 로그를 남기고 err 를 함께 기록한다.
func Error(msg string, err error) {
	sugar.Errorw(msg, "error", err)
}

// Errorf 는 포맷 문자열로 error 레벨 로그를 남긴다.
func Errorf(template string, args ...interface{}) {
	sugar.Errorf(template, args...)
}

// Fatal 은 fatal 레벨 로그를 남긴 뒤 프로세스를 종료한다.
func Fatal(msg string, err error) {
	sugar.Fatalw(msg, "error", err)
}

// Fatalf 는 포맷 문자열로 fatal 레벨 로그를 남긴 뒤 프로세스를 종료한다.
func Fatalf(template string, args ...interface{}) {
	sugar.Fatalf(template, args...)
}

// Sync 는 버퍼에 남아 있는 로그를 강제로 기록한다. 종료 직전에 호출한다.
func Sync() {
	_ = sugar.Sync()
}
