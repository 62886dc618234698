package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// MailService 邮件服务
// 目前只记录日志，不实际发送邮件
type MailService struct {
	baseURL string // 链接前缀，例如 https://example.com
}

// NewMailService 创建邮件服务
func NewMailService(baseURL string) *MailService {
	return &MailService{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// SendVerification 发送邮箱验证邮件
func (m *MailService) SendVerification(_ context.Context, email, token string) error {
	link := m.link("/api/v1/auth/verify", token)
	log.Info().
		Str("to", email).
		Str("link", link).
		Msg("verification email queued")
	return nil
}

// SendPasswordReset 发送密码重置邮件
func (m *MailService) SendPasswordReset(_ context.Context, email, token string) error {
	link := m.link("/reset-password", token)
	log.Info().
		Str("to", email).
		Str("link", link).
		Msg("password reset email queued")
	return nil
}

func (m *MailService) link(path, token string) string {
	return fmt.Sprintf("%s%s?token=%s", m.baseURL, path, url.QueryEscape(token))
}
