package tokenutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// CreateAccessToken 签发 HS256 访问令牌
func CreateAccessToken(subject, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parse(requestToken, secret string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(requestToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func IsAuthorized(requestToken, secret string) (bool, error) {
	if _, err := parse(requestToken, secret); err != nil {
		return false, err
	}
	return true, nil
}

// ExtractSubjectFromToken 返回令牌的 sub 声明
func ExtractSubjectFromToken(requestToken, secret string) (string, error) {
	claims, err := parse(requestToken, secret)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
