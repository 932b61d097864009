// Package hash 는 비밀번호 해싱 유틸리티를 제공한다.
package hash

import "golang.org/x/crypto/bcrypt"

// HashPassword 는 bcrypt 로 비밀번호를 해싱한다.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash 는 평문 비밀번호와 해시가 일치하는지 확인한다.
func CheckPasswordHash(password, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
