package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sgr-safety-go/internal/model"
	"sgr-safety-go/internal/repository"
	"sgr-safety-go/pkg/hash"
	"sgr-safety-go/pkg/log"
	"sgr-safety-go/pkg/token"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// UserService 는 사용자 관련 비즈니스 연산을 정의한다.
type UserService interface {
	Register(username, email, password, fullName, organization string) (*model.User, error)
	Login(username, password string) (accessToken, refreshToken string, err error)
	GetProfile(username string) (*model.User, error)
	Logout(tokenString string) error
	IsTokenRevoked(tokenString string) bool
}

// userService 는 UserService 의 구현이다.
type userService struct {
	userRepo   repository.UserRepository
	jwtManager *token.JWTManager
	rdb        *redis.Client
}

// NewUserService 는 새 UserService 를 생성한다.
func NewUserService(userRepo repository.UserRepository, jwtManager *token.JWTManager, rdb *redis.Client) UserService {
	return &userService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		rdb:        rdb,
	}
}

// Register 는 새 사용자를 등록한다. 사용자명 중복은 ErrValidation 으로 보고한다.
func (s *userService) Register(username, email, password, fullName, organization string) (*model.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: 사용자명, 이메일, 비밀번호는 필수입니다", ErrValidation)
	}

	_, err := s.userRepo.FindByUsername(username)
	if err == nil {
		return nil, fmt.Errorf("%w: 이미 존재하는 사용자명입니다", ErrValidation)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		FullName:     fullName,
		Organization: organization,
		Role:         "beta_tester",
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	log.Infof("사용자 등록 완료: %s", username)
	return user, nil
}

// Login 은 자격 증명을 검증하고 access/refresh 토큰을 발급한다.
func (s *userService) Login(username, password string) (string, string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", errors.New("invalid credentials")
		}
		return "", "", err
	}

	if !user.IsActive {
		return "", "", errors.New("inactive user")
	}

	if !hash.CheckPasswordHash(password, user.PasswordHash) {
		return "", "", errors.New("invalid credentials")
	}

	accessToken, err := s.jwtManager.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// GetProfile 은 사용자명으로 사용자 정보를 조회한다.
func (s *userService) GetProfile(username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 사용자 '%s'", ErrNotFound, username)
		}
		return nil, err
	}
	return user, nil
}

// Logout 은 토큰을 Redis 블랙리스트에 올린다.
// 토큰의 남은 유효기간을 키 만료 시간으로 사용한다.
func (s *userService) Logout(tokenString string) error {
	claims, err := s.jwtManager.VerifyToken(tokenString)
	if err != nil {
		return err
	}
	expiration := time.Until(claims.ExpiresAt.Time)
	return s.rdb.Set(context.Background(), "blacklist:"+tokenString, "true", expiration).Err()
}

// IsTokenRevoked 는 토큰이 블랙리스트에 있는지 확인한다.
// Redis 조회 실패 시에는 차단하지 않는 쪽을 택한다.
func (s *userService) IsTokenRevoked(tokenString string) bool {
	val, err := s.rdb.Get(context.Background(), "blacklist:"+tokenString).Result()
	if err != nil {
		return false
	}
	return val == "true"
}
