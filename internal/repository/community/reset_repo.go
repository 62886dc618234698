package community

import (
	"context"

	model "mujtama/internal/model/community"
)

// StorePasswordResetToken 追加一条重置记录
func (d *Database) StorePasswordResetToken(ctx context.Context, email, token string, expires int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.doc.PasswordResets = append(d.doc.PasswordResets, &model.PasswordReset{
		Email:     email,
		Token:     token,
		Expires:   expires,
		CreatedAt: d.now(),
	})
	return d.persist(ctx)
}

// GetEmailByResetToken Token 匹配且未过期时返回邮箱
func (d *Database) GetEmailByResetToken(_ context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	now := d.now().Unix()
	for _, r := range d.doc.PasswordResets {
		if r.Token == token && r.Expires >= now {
			return r.Email, true
		}
	}
	return "", false
}

// DeletePasswordResetToken 删除指定 Token 的记录
func (d *Database) DeletePasswordResetToken(ctx context.Context, token string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	kept := make([]*model.PasswordReset, 0, len(d.doc.PasswordResets))
	for _, r := range d.doc.PasswordResets {
		if r.Token != token {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(d.doc.PasswordResets) {
		return nil
	}
	d.doc.PasswordResets = kept
	return d.persist(ctx)
}
