// Package model 은 데이터베이스 테이블과 대응하는 구조체를 정의한다.
package model

import "time"

// User 는 users 테이블의 ORM 모델이다.
// 등록 시 한 번 생성되며 활성 플래그 외에는 변경하지 않는다.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string    `gorm:"type:varchar(100)" json:"fullName"`
	Organization string    `gorm:"type:varchar(100)" json:"organization"`
	Role         string    `gorm:"type:varchar(20);not null;default:'beta_tester'" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 은 이 모델이 대응하는 테이블 이름을 지정한다.
func (User) TableName() string {
	return "users"
}
