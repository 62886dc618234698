package community

import (
	"time"
)

// IdeaStatus 想法状态
type IdeaStatus string

const (
	IdeaStatusPending  IdeaStatus = "pending"
	IdeaStatusApproved IdeaStatus = "approved"
	IdeaStatusRejected IdeaStatus = "rejected"
)

// Idea 想法实体
type Idea struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	CreatedAt     time.Time  `json:"created_at"`
	Votes         []string   `json:"votes"` // 投票用户ID集合
	Status        IdeaStatus `json:"status"`
	CommentsCount int        `json:"comments_count"`

	Author     *User `json:"author,omitempty"`
	VotesCount *int  `json:"votes_count,omitempty"` // 查询时派生
}

// Clone 深拷贝
func (i *Idea) Clone() *Idea {
	cp := *i
	cp.Votes = append(make([]string, 0, len(i.Votes)), i.Votes...)
	cp.Author = nil
	cp.VotesCount = nil
	return &cp
}
