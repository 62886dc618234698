package community

import (
	"time"
)

// Settings 站点设置
type Settings struct {
	SiteName                 string `json:"site_name"`
	SiteDescription          string `json:"site_description"`
	PostsPerPage             int    `json:"posts_per_page"`
	AllowRegistration        bool   `json:"allow_registration"`
	RequireEmailVerification bool   `json:"require_email_verification"`
	DefaultLanguage          string `json:"default_language"`
}

// DefaultSettings 首次初始化时写入的设置
func DefaultSettings() Settings {
	return Settings{
		SiteName:                 "مجتمع",
		SiteDescription:          "منصة مجتمعية للمقالات والأفكار",
		PostsPerPage:             10,
		AllowRegistration:        true,
		RequireEmailVerification: false,
		DefaultLanguage:          "ar",
	}
}

// Stats 派生统计，结构性变更后按集合长度重算
type Stats struct {
	TotalUsers    int       `json:"total_users"`
	TotalPosts    int       `json:"total_posts"`
	TotalComments int       `json:"total_comments"`
	TotalIdeas    int       `json:"total_ideas"`
	LastUpdated   time.Time `json:"last_updated"`
}

// Document 持久化文档根结构，对应 JSON 文件的顶层键
type Document struct {
	Users          []*User             `json:"users"`
	Posts          []*Post             `json:"posts"`
	Comments       []*Comment          `json:"comments"`
	Ideas          []*Idea             `json:"ideas"`
	Sessions       map[string]*Session `json:"sessions"`
	PasswordResets []*PasswordReset    `json:"password_resets"`
	Settings       Settings            `json:"settings"`
	Stats          Stats               `json:"stats"`
}

// NewDocument 创建空文档（空集合 + 默认设置）
func NewDocument() *Document {
	return &Document{
		Users:          []*User{},
		Posts:          []*Post{},
		Comments:       []*Comment{},
		Ideas:          []*Idea{},
		Sessions:       map[string]*Session{},
		PasswordResets: []*PasswordReset{},
		Settings:       DefaultSettings(),
	}
}

// Normalize 补齐反序列化后缺失的集合，保证后续操作无需判空
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []*User{}
	}
	if d.Posts == nil {
		d.Posts = []*Post{}
	}
	if d.Comments == nil {
		d.Comments = []*Comment{}
	}
	if d.Ideas == nil {
		d.Ideas = []*Idea{}
	}
	if d.Sessions == nil {
		d.Sessions = map[string]*Session{}
	}
	if d.PasswordResets == nil {
		d.PasswordResets = []*PasswordReset{}
	}
	for _, p := range d.Posts {
		if p.Tags == nil {
			p.Tags = []string{}
		}
		if p.Likes == nil {
			p.Likes = []string{}
		}
	}
	for _, c := range d.Comments {
		if c.Likes == nil {
			c.Likes = []string{}
		}
	}
	for _, i := range d.Ideas {
		if i.Votes == nil {
			i.Votes = []string{}
		}
	}
}

// RecomputeStats 按集合长度重算统计
func (d *Document) RecomputeStats(now time.Time) {
	d.Stats = Stats{
		TotalUsers:    len(d.Users),
		TotalPosts:    len(d.Posts),
		TotalComments: len(d.Comments),
		TotalIdeas:    len(d.Ideas),
		LastUpdated:   now,
	}
}

// Clone 深拷贝整个文档，存储层用它保留最近一次成功落盘的状态
func (d *Document) Clone() *Document {
	cp := &Document{
		Users:          make([]*User, len(d.Users)),
		Posts:          make([]*Post, len(d.Posts)),
		Comments:       make([]*Comment, len(d.Comments)),
		Ideas:          make([]*Idea, len(d.Ideas)),
		Sessions:       make(map[string]*Session, len(d.Sessions)),
		PasswordResets: make([]*PasswordReset, len(d.PasswordResets)),
		Settings:       d.Settings,
		Stats:          d.Stats,
	}
	for i, u := range d.Users {
		cp.Users[i] = u.Clone()
	}
	for i, p := range d.Posts {
		cp.Posts[i] = p.Clone()
	}
	for i, c := range d.Comments {
		cp.Comments[i] = c.Clone()
	}
	for i, idea := range d.Ideas {
		cp.Ideas[i] = idea.Clone()
	}
	for userID, s := range d.Sessions {
		sess := *s
		cp.Sessions[userID] = &sess
	}
	for i, r := range d.PasswordResets {
		reset := *r
		cp.PasswordResets[i] = &reset
	}
	return cp
}
