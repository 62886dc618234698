package community

import (
	"time"
)

// Session 服务端会话记录，以 user_id 为键（每个用户仅一个活动会话）
type Session struct {
	Token     string    `json:"token"`
	Expires   int64     `json:"expires"` // Unix 秒
	CreatedAt time.Time `json:"created_at"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
}

// IsExpired 检查会话是否已过期；到达 expires 那一秒仍然有效
func (s *Session) IsExpired(now time.Time) bool {
	return s.Expires < now.Unix()
}

// PasswordReset 密码重置 Token 记录
type PasswordReset struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	Expires   int64     `json:"expires"` // Unix 秒
	CreatedAt time.Time `json:"created_at"`
}
