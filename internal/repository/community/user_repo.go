package community

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	model "mujtama/internal/model/community"
	"mujtama/internal/pkg/id"
)

func (d *Database) findUser(userID string) *model.User {
	for _, u := range d.doc.Users {
		if u.ID == userID {
			return u
		}
	}
	return nil
}

func (d *Database) findUserBy(match func(*model.User) bool) *model.User {
	for _, u := range d.doc.Users {
		if match(u) {
			return u
		}
	}
	return nil
}

// UserExistsByEmail 是否存在该邮箱的用户（空字符串永远返回 false）
func (d *Database) UserExistsByEmail(_ context.Context, email string) bool {
	if email == "" {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.findUserBy(func(u *model.User) bool { return u.Email == email }) != nil
}

// UserExistsByPhone 是否存在该手机号的用户（空字符串永远返回 false）
func (d *Database) UserExistsByPhone(_ context.Context, phone string) bool {
	if phone == "" {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.findUserBy(func(u *model.User) bool { return u.Phone == phone }) != nil
}

// GetUserByID 根据ID获取用户（包含密码哈希，供认证使用），不存在返回 nil
func (d *Database) GetUserByID(_ context.Context, userID string) *model.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return copyUser(d.findUser(userID))
}

// GetUserByEmail 根据邮箱获取用户，不存在返回 nil
func (d *Database) GetUserByEmail(_ context.Context, email string) *model.User {
	if email == "" {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return copyUser(d.findUserBy(func(u *model.User) bool { return u.Email == email }))
}

// GetUserByPhone 根据手机号获取用户，不存在返回 nil
func (d *Database) GetUserByPhone(_ context.Context, phone string) *model.User {
	if phone == "" {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return copyUser(d.findUserBy(func(u *model.User) bool { return u.Phone == phone }))
}

// CreateUser 创建用户
// 唯一性检查与插入在同一把写锁内完成；手机号注册的账号自动视为已验证
func (d *Database) CreateUser(ctx context.Context, name, email, phone, passwordHash, avatar string) (string, error) {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return "", ErrMissingContact
	}
	if avatar == "" {
		avatar = model.DefaultAvatar
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if email != "" && d.findUserBy(func(u *model.User) bool { return u.Email == email }) != nil {
		return "", ErrEmailTaken
	}
	if phone != "" && d.findUserBy(func(u *model.User) bool { return u.Phone == phone }) != nil {
		return "", ErrPhoneTaken
	}

	user := &model.User{
		ID:         id.New(),
		Name:       name,
		Email:      email,
		Phone:      phone,
		Password:   passwordHash,
		Avatar:     avatar,
		JoinDate:   d.now(),
		IsActive:   true,
		IsVerified: email == "",
	}
	d.doc.Users = append(d.doc.Users, user)

	if err := d.persistWithStats(ctx); err != nil {
		return "", err
	}
	log.Info().Str("user_id", user.ID).Msg("user created")
	return user.ID, nil
}

// updateUser 线性查找 -> 修改 -> 持久化；用户不存在返回 false
func (d *Database) updateUser(ctx context.Context, userID string, mutate func(*model.User)) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u := d.findUser(userID)
	if u == nil {
		return false, nil
	}
	mutate(u)
	if err := d.persist(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateUserProfile 更新资料
func (d *Database) UpdateUserProfile(ctx context.Context, userID, name, bio, avatar string) (bool, error) {
	return d.updateUser(ctx, userID, func(u *model.User) {
		u.Name = name
		u.Bio = bio
		u.Avatar = avatar
	})
}

// UpdateUserAvatar 更新头像
func (d *Database) UpdateUserAvatar(ctx context.Context, userID, avatar string) (bool, error) {
	return d.updateUser(ctx, userID, func(u *model.User) {
		u.Avatar = avatar
	})
}

// UpdateUserLastLogin 记录登录时间
func (d *Database) UpdateUserLastLogin(ctx context.Context, userID string) (bool, error) {
	now := d.now()
	return d.updateUser(ctx, userID, func(u *model.User) {
		u.LastLogin = &now
	})
}

// UpdateUserPassword 更新密码哈希
func (d *Database) UpdateUserPassword(ctx context.Context, userID, passwordHash string) (bool, error) {
	return d.updateUser(ctx, userID, func(u *model.User) {
		u.Password = passwordHash
	})
}

// SetUserVerified 标记单个用户邮箱已验证
func (d *Database) SetUserVerified(ctx context.Context, userID string) (bool, error) {
	return d.updateUser(ctx, userID, func(u *model.User) {
		u.IsVerified = true
	})
}

// SetUserActive 启用/停用账号
func (d *Database) SetUserActive(ctx context.Context, userID string, active bool) (bool, error) {
	return d.updateUser(ctx, userID, func(u *model.User) {
		u.IsActive = active
	})
}

// GetUsers 按插入顺序分页返回用户（去除密码）
func (d *Database) GetUsers(_ context.Context, limit, offset int) []*model.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	page := paginate(d.doc.Users, offset, limit)
	users := make([]*model.User, 0, len(page))
	for _, u := range page {
		users = append(users, u.Sanitized())
	}
	return users
}

// CountUsers 用户总数
func (d *Database) CountUsers(_ context.Context) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.doc.Users)
}

func copyUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	return u.Clone()
}
