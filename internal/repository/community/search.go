package community

import (
	"context"

	model "mujtama/internal/model/community"
	"mujtama/internal/pkg/textutil"
)

// 搜索类型
const (
	SearchAll   = "all"
	SearchPosts = "posts"
	SearchIdeas = "ideas"
	SearchUsers = "users"
)

// SearchResult 搜索结果
// 只包含被搜索且至少命中一条的类型；未命中的类型直接省略键（而不是空数组）
type SearchResult struct {
	Posts []*model.Post `json:"posts,omitempty"`
	Ideas []*model.Idea `json:"ideas,omitempty"`
	Users []*model.User `json:"users,omitempty"`
}

// Search 大小写不敏感子串搜索：帖子（标题+正文）、想法（标题+描述）、用户（名称+邮箱）
func (d *Database) Search(_ context.Context, query, typ string) SearchResult {
	if typ == "" {
		typ = SearchAll
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var result SearchResult

	if typ == SearchAll || typ == SearchPosts {
		for _, p := range d.doc.Posts {
			if textutil.ContainsFold(p.Title, query) || textutil.ContainsFold(p.Content, query) {
				result.Posts = append(result.Posts, p.Clone())
			}
		}
	}

	if typ == SearchAll || typ == SearchIdeas {
		for _, i := range d.doc.Ideas {
			if textutil.ContainsFold(i.Title, query) || textutil.ContainsFold(i.Description, query) {
				result.Ideas = append(result.Ideas, i.Clone())
			}
		}
	}

	if typ == SearchAll || typ == SearchUsers {
		for _, u := range d.doc.Users {
			if textutil.ContainsFold(u.Name, query) || textutil.ContainsFold(u.Email, query) {
				result.Users = append(result.Users, u.Sanitized())
			}
		}
	}

	return result
}
