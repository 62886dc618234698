package community

import (
	"context"

	model "mujtama/internal/model/community"
)

// SaveSession 写入服务端会话（覆盖该用户已有的会话）
func (d *Database) SaveSession(ctx context.Context, userID string, sess model.Session) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.doc.Sessions[userID] = &sess
	return d.persist(ctx)
}

// GetSession 获取用户的服务端会话，不存在返回 nil
func (d *Database) GetSession(_ context.Context, userID string) *model.Session {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if s, ok := d.doc.Sessions[userID]; ok {
		cp := *s
		return &cp
	}
	return nil
}

// DeleteSession 删除用户的服务端会话
func (d *Database) DeleteSession(ctx context.Context, userID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.doc.Sessions[userID]; !ok {
		return nil
	}
	delete(d.doc.Sessions, userID)
	return d.persist(ctx)
}

// FindSessionByToken 线性扫描所有会话，返回匹配且未过期的会话及其用户ID
func (d *Database) FindSessionByToken(_ context.Context, token string) (string, *model.Session) {
	if token == "" {
		return "", nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	now := d.now()
	for userID, s := range d.doc.Sessions {
		if s.Token == token && !s.IsExpired(now) {
			cp := *s
			return userID, &cp
		}
	}
	return "", nil
}

// ReplaceSessionToken 轮换会话 Token；旧 Token 不匹配时返回 false
func (d *Database) ReplaceSessionToken(ctx context.Context, userID, oldToken, newToken string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.doc.Sessions[userID]
	if !ok || s.Token != oldToken {
		return false, nil
	}
	s.Token = newToken
	if err := d.persist(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// PurgeExpiredSessions 删除已过期的会话，返回删除数量
func (d *Database) PurgeExpiredSessions(ctx context.Context) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	purged := 0
	for userID, s := range d.doc.Sessions {
		if s.IsExpired(now) {
			delete(d.doc.Sessions, userID)
			purged++
		}
	}
	if purged == 0 {
		return 0, nil
	}
	if err := d.persist(ctx); err != nil {
		return 0, err
	}
	return purged, nil
}
