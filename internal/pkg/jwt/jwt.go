package jwt

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const purposeVerifyEmail = "verify_email"

// SessionClaims 会话 Cookie 内容：user_id + 会话 Token + 过期时间（Unix 秒）
type SessionClaims struct {
	UserID  string `json:"uid"`
	Token   string `json:"tok"`
	Expires int64  `json:"exp_at"`
	jwt.RegisteredClaims
}

// VerifyClaims 邮箱验证 Token
type VerifyClaims struct {
	UserID  string `json:"uid"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Codec 签名工具（HS256）
type Codec struct {
	secret []byte
}

// NewCodec 创建签名工具
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// EncodeSession 签发会话 Cookie
func (c *Codec) EncodeSession(userID, token string, expires int64) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID:  userID,
		Token:   token,
		Expires: expires,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Unix(expires, 0)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// DecodeSession 解析会话 Cookie
// 过期的 Cookie 仍然返回 Claims（连同 ErrExpiredToken），由认证服务决定如何注销
func (c *Codec) DecodeSession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && claims.UserID != "" {
			return claims, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// EncodeVerification 签发邮箱验证 Token
func (c *Codec) EncodeVerification(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &VerifyClaims{
		UserID:  userID,
		Email:   email,
		Purpose: purposeVerifyEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// DecodeVerification 验证邮箱验证 Token
func (c *Codec) DecodeVerification(tokenString string) (*VerifyClaims, error) {
	claims := &VerifyClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purposeVerifyEmail || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Codec) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return c.secret, nil
}

// GenerateToken 生成不透明的随机 Token（64位十六进制）
func GenerateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}
