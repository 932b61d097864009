// Package repository 는 데이터베이스 접근 인터페이스와 GORM 구현을 정의한다.
package repository

import (
	"sgr-safety-go/internal/model"

	"gorm.io/gorm"
)

// UserRepository 는 사용자 레코드의 영속화 연산을 정의한다.
type UserRepository interface {
	Create(user *model.User) error
	FindByUsername(username string) (*model.User, error)
	FindByID(userID uint) (*model.User, error)
}

// userRepository 는 UserRepository 의 GORM 구현이다.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 는 새 UserRepository 를 생성한다.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 는 새 사용자 레코드를 생성한다.
func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// FindByUsername 은 사용자명으로 사용자를 조회한다.
func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID 는 사용자 ID 로 사용자를 조회한다.
func (r *userRepository) FindByID(userID uint) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
