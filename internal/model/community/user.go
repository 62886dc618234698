package community

import (
	"time"
)

// DefaultAvatar 新用户默认头像
const DefaultAvatar = "default"

// User 用户实体
// email 与 phone 至多一个为空；非空时各自全局唯一
type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Password      string     `json:"password,omitempty"` // 哈希值；对外返回的副本中为空
	Avatar        string     `json:"avatar"`
	Bio           string     `json:"bio"`
	JoinDate      time.Time  `json:"join_date"`
	LastLogin     *time.Time `json:"last_login"`
	IsActive      bool       `json:"is_active"`
	IsVerified    bool       `json:"is_verified"`
	PostsCount    int        `json:"posts_count"`
	CommentsCount int        `json:"comments_count"`
	IdeasCount    int        `json:"ideas_count"`
	Reputation    int        `json:"reputation"`
}

// Sanitized 返回去除密码的副本
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Password = ""
	if u.LastLogin != nil {
		t := *u.LastLogin
		cp.LastLogin = &t
	}
	return &cp
}

// Clone 深拷贝（保留密码哈希，仅供存储层内部使用）
func (u *User) Clone() *User {
	cp := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		cp.LastLogin = &t
	}
	return &cp
}

// DeletedUserName 作者已被删除时的占位名称
const DeletedUserName = "مستخدم محذوف"

// PlaceholderAuthor 作者记录缺失时使用的占位用户
func PlaceholderAuthor(userID string) *User {
	return &User{
		ID:     userID,
		Name:   DeletedUserName,
		Avatar: DefaultAvatar,
	}
}
