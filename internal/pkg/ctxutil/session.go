package ctxutil

import "context"

// Session 请求级会话状态
// 由会话中间件从签名 Cookie（或 Bearer Token）还原，认证服务读写它，
// 请求结束时中间件根据 Dirty 决定是否回写 Cookie。
type Session struct {
	UserID  string
	Token   string
	Expires int64 // Unix 秒

	// 客户端信息，登录时写入服务端会话记录
	IPAddress string
	UserAgent string

	Dirty bool // 本次请求中会话内容发生变化
}

// Set 写入登录状态
func (s *Session) Set(userID, token string, expires int64) {
	s.UserID = userID
	s.Token = token
	s.Expires = expires
	s.Dirty = true
}

// Clear 清空登录状态
func (s *Session) Clear() {
	if s.UserID == "" && s.Token == "" && s.Expires == 0 {
		return
	}
	s.UserID = ""
	s.Token = ""
	s.Expires = 0
	s.Dirty = true
}

// Empty 是否未登录
func (s *Session) Empty() bool {
	return s.UserID == "" || s.Token == ""
}

type sessionKeyType struct{}

var sessionKey = sessionKeyType{}

// WithSession 将会话注入到 context
func WithSession(ctx context.Context, sess *Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionKey, sess)
}

// GetSession 从 context 获取会话，不存在时返回一个空会话（不会为 nil）
func GetSession(ctx context.Context) *Session {
	if ctx != nil {
		if sess, ok := ctx.Value(sessionKey).(*Session); ok && sess != nil {
			return sess
		}
	}
	return &Session{}
}
