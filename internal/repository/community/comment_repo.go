package community

import (
	"context"
	"sort"

	model "mujtama/internal/model/community"
	"mujtama/internal/pkg/id"
)

// AddComment 发表评论：帖子 comments_count+1，作者 comments_count+1
// 帖子不存在时返回 ErrPostNotFound
func (d *Database) AddComment(ctx context.Context, postID, userID, content string, parentID *string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	post := d.findPost(postID)
	if post == nil {
		return "", ErrPostNotFound
	}

	comment := &model.Comment{
		ID:        id.New(),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: d.now(),
		Likes:     []string{},
	}
	if parentID != nil && *parentID != "" {
		parent := *parentID
		comment.ParentID = &parent
	}
	d.doc.Comments = append(d.doc.Comments, comment)

	post.CommentsCount++
	if author := d.findUser(userID); author != nil {
		author.CommentsCount++
	}

	if err := d.persistWithStats(ctx); err != nil {
		return "", err
	}
	return comment.ID, nil
}

// GetComments 帖子的评论，按创建时间正序（与帖子/想法相反），附加作者
func (d *Database) GetComments(_ context.Context, postID string) []*model.Comment {
	d.mu.RLock()
	defer d.mu.RUnlock()

	comments := make([]*model.Comment, 0)
	for _, c := range d.doc.Comments {
		if c.PostID == postID {
			cp := c.Clone()
			cp.Author = d.authorOf(c.UserID)
			comments = append(comments, cp)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments
}
