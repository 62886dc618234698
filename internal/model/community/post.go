package community

import (
	"time"
)

// PostStatus 帖子状态
type PostStatus string

const (
	PostStatusPublished PostStatus = "published"
	PostStatusDraft     PostStatus = "draft"
)

// Post 帖子实体
type Post struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	Category      string     `json:"category"`
	Tags          []string   `json:"tags"`
	Featured      bool       `json:"featured"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Views         int        `json:"views"`
	Likes         []string   `json:"likes"` // 点赞用户ID集合
	CommentsCount int        `json:"comments_count"`
	Status        PostStatus `json:"status"`

	Author *User `json:"author,omitempty"` // 查询时附加，不落盘
}

// LikesCount 点赞数
func (p *Post) LikesCount() int {
	return len(p.Likes)
}

// Clone 深拷贝，避免调用方修改内存文档
func (p *Post) Clone() *Post {
	cp := *p
	cp.Tags = append(make([]string, 0, len(p.Tags)), p.Tags...)
	cp.Likes = append(make([]string, 0, len(p.Likes)), p.Likes...)
	cp.Author = nil
	return &cp
}

// PostUpdate 帖子可编辑字段
type PostUpdate struct {
	Title    string
	Content  string
	Category string
	Tags     string // 逗号分隔
	Featured *bool  // 为 nil 时保持原值
}
