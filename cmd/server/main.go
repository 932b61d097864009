// Package main 은 애플리케이션 진입점이다.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sgr-safety-go/internal/config"
	"sgr-safety-go/internal/handler"
	"sgr-safety-go/internal/middleware"
	"sgr-safety-go/internal/model"
	"sgr-safety-go/internal/pipeline"
	"sgr-safety-go/internal/repository"
	"sgr-safety-go/internal/service"
	intstorage "sgr-safety-go/internal/storage"
	"sgr-safety-go/pkg/database"
	"sgr-safety-go/pkg/es"
	"sgr-safety-go/pkg/kafka"
	"sgr-safety-go/pkg/log"
	"sgr-safety-go/pkg/storage"
	"sgr-safety-go/pkg/tasks"
	"sgr-safety-go/pkg/token"
	"sgr-safety-go/pkg/vision"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 설정 초기화
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 로거 초기화
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("로거 초기화 완료")

	// 3. 데이터베이스 / Redis / 외부 시스템 초기화
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	if err := database.DB.AutoMigrate(
		&model.User{},
		&model.AnalysisSession{},
		&model.UploadedImage{},
		&model.AnalysisFile{},
	); err != nil {
		log.Fatalf("데이터베이스 마이그레이션 실패: %v", err)
	}

	if cfg.MinIO.Enabled {
		storage.InitMinIO(cfg.MinIO)
	}
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("Elasticsearch 초기화 실패: %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)

	// 4. Repository 초기화
	userRepository := repository.NewUserRepository(database.DB)
	sessionRepository := repository.NewSessionRepository(database.DB)
	imageRepository := repository.NewImageRepository(database.DB)
	resultFileRepository := repository.NewResultFileRepository(database.DB)

	// 5. Service 초기화 (의존성 주입)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	artifactStore := intstorage.NewStore(cfg.Storage.BasePath)
	visionClient := vision.NewClient(cfg.Vision)
	statusHub := service.NewStatusHub()

	userService := service.NewUserService(userRepository, jwtManager, database.RDB)
	searchService := service.NewSearchService(cfg.Elasticsearch.IndexName)

	// 아카이브 훅은 MinIO 가 켜진 경우에만 연결한다.
	var archive func(ctx context.Context, objectName, localPath string) error
	if cfg.MinIO.Enabled {
		bucket := cfg.MinIO.BucketName
		archive = func(ctx context.Context, objectName, localPath string) error {
			return storage.ArchiveArtifact(ctx, bucket, objectName, localPath)
		}
	}
	analysisService := service.NewAnalysisService(
		userRepository,
		sessionRepository,
		imageRepository,
		resultFileRepository,
		artifactStore,
		visionClient,
		statusHub,
		cfg.Vision,
		func(task tasks.ReportIndexTask) error { return kafka.ProduceIndexTask(task) },
		archive,
	)

	// 6. 보고서 색인 파이프라인 초기화
	processor := pipeline.NewProcessor(artifactStore, cfg.Elasticsearch.IndexName)

	// 7. 백그라운드 Kafka 소비자 시작
	go kafka.StartConsumer(cfg.Kafka, processor)

	// 7.1 베타 테스터 계정 시드 (멱등)
	go seedBetaTesters(userRepository, userService)

	// 8. Gin 모드 설정과 라우터 생성
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 9. 라우트 등록
	userHandler := handler.NewUserHandler(userService)
	analysisHandler := handler.NewAnalysisHandler(analysisService)
	feedbackHandler := handler.NewFeedbackHandler(analysisService)
	searchHandler := handler.NewSearchHandler(searchService)
	wsHandler := handler.NewSessionWSHandler(analysisService, userService, statusHub, database.RDB)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "sgr-safety"})
	})

	apiV1 := r.Group("/api/v1")
	{
		users := apiV1.Group("/users")
		{
			// 인증이 필요 없는 공개 라우트
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)

			// 로그인 사용자 전용 라우트
			authed := users.Group("/")
			authed.Use(middleware.AuthMiddleware(jwtManager, userService))
			{
				authed.GET("/me", userHandler.GetProfile)
				authed.POST("/logout", userHandler.Logout)
			}
		}

		// 분석 라우트, 인증 필요
		analyze := apiV1.Group("/")
		analyze.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			analyze.POST("/analyze", analysisHandler.Analyze)
			analyze.GET("/auth/sessions", analysisHandler.ListSessions)
			analyze.POST("/feedback/:sessionId", feedbackHandler.Submit)
			analyze.GET("/search/reports", searchHandler.SearchReports)
			analyze.GET("/ws/ticket", wsHandler.GetWebsocketTicket)
		}

		// WebSocket 상태 스트림은 일회용 티켓으로 인증한다.
		r.GET("/ws/status/:ticket", wsHandler.StreamStatus)
	}

	// HTTP 서버 시작과 우아한 종료
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("서비스 시작: %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP 서비스 수신 실패: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("종료 신호 수신, 서비스를 종료합니다...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 서버 종료 실패: %v", err)
	}

	log.Info("서비스가 정상 종료되었습니다")
}

// seedBetaTesters 는 베타 테스트용 기본 계정을 생성한다. 이미 있으면 건너뛴다.
func seedBetaTesters(userRepo repository.UserRepository, userService service.UserService) {
	seeds := []struct {
		username string
		email    string
		password string
		fullName string
		org      string
	}{
		{"tester1", "tester1@example.com", "tester1234!", "베타 테스터 1", "안전관리팀"},
		{"tester2", "tester2@example.com", "tester1234!", "베타 테스터 2", "현장시공팀"},
		{"tester3", "tester3@example.com", "tester1234!", "베타 테스터 3", "품질관리팀"},
	}

	for _, s := range seeds {
		if _, err := userRepo.FindByUsername(s.username); err == nil {
			continue
		}
		if _, err := userService.Register(s.username, s.email, s.password, s.fullName, s.org); err != nil {
			log.Warnf("seedBetaTesters: '%s' 생성 실패: %v", s.username, err)
			continue
		}
		log.Infof("seedBetaTesters: 베타 테스터 계정 '%s' 생성 완료", s.username)
	}
}
