package community

import (
	"time"
)

// Comment 评论实体
// ParentID 仅存储，不做楼中楼重建
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	ParentID  *string   `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
	Likes     []string  `json:"likes"`

	Author *User `json:"author,omitempty"`
}

// Clone 深拷贝
func (c *Comment) Clone() *Comment {
	cp := *c
	cp.Likes = append(make([]string, 0, len(c.Likes)), c.Likes...)
	if c.ParentID != nil {
		parent := *c.ParentID
		cp.ParentID = &parent
	}
	cp.Author = nil
	return &cp
}
