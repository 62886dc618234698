package community

import (
	"context"
	"sort"

	model "mujtama/internal/model/community"
	"mujtama/internal/pkg/id"
	"mujtama/internal/pkg/textutil"
)

func (d *Database) findPost(postID string) *model.Post {
	for _, p := range d.doc.Posts {
		if p.ID == postID {
			return p
		}
	}
	return nil
}

// matchPost 分类精确匹配 + 标题/正文/摘要大小写不敏感子串匹配
func matchPost(p *model.Post, category, search string) bool {
	if category != "" && p.Category != category {
		return false
	}
	if search != "" &&
		!textutil.ContainsFold(p.Title, search) &&
		!textutil.ContainsFold(p.Content, search) &&
		!textutil.ContainsFold(p.Excerpt, search) {
		return false
	}
	return true
}

// AddPost 发布帖子：生成摘要、拆分标签、作者 posts_count+1
func (d *Database) AddPost(ctx context.Context, userID, title, content, category, tagsCSV string, featured bool) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	post := &model.Post{
		ID:        id.New(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Excerpt:   textutil.Excerpt(content),
		Category:  category,
		Tags:      textutil.SplitTags(tagsCSV),
		Featured:  featured,
		CreatedAt: now,
		UpdatedAt: now,
		Likes:     []string{},
		Status:    model.PostStatusPublished,
	}
	d.doc.Posts = append(d.doc.Posts, post)

	if author := d.findUser(userID); author != nil {
		author.PostsCount++
	}

	if err := d.persistWithStats(ctx); err != nil {
		return "", err
	}
	return post.ID, nil
}

// GetPosts 过滤、按创建时间倒序、分页，并附加作者信息
func (d *Database) GetPosts(_ context.Context, page, limit int, category, search string) []*model.Post {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	filtered := make([]*model.Post, 0)
	for _, p := range d.doc.Posts {
		if matchPost(p, category, search) {
			filtered = append(filtered, p)
		}
	}
	sortPostsNewestFirst(filtered)

	return d.withAuthors(paginate(filtered, (page-1)*limit, limit))
}

// GetPostsCount 与 GetPosts 相同的过滤条件，不分页
func (d *Database) GetPostsCount(_ context.Context, category, search string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	count := 0
	for _, p := range d.doc.Posts {
		if matchPost(p, category, search) {
			count++
		}
	}
	return count
}

// GetPost 获取单个帖子（附加作者），不存在返回 nil
func (d *Database) GetPost(_ context.Context, postID string) *model.Post {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p := d.findPost(postID)
	if p == nil {
		return nil
	}
	cp := p.Clone()
	cp.Author = d.authorOf(p.UserID)
	return cp
}

// IncrementPostViews 浏览数+1
func (d *Database) IncrementPostViews(ctx context.Context, postID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.findPost(postID)
	if p == nil {
		return false, nil
	}
	p.Views++
	if err := d.persist(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// GetUserPosts 用户的全部帖子，按创建时间倒序
func (d *Database) GetUserPosts(_ context.Context, userID string) []*model.Post {
	d.mu.RLock()
	defer d.mu.RUnlock()

	posts := make([]*model.Post, 0)
	for _, p := range d.doc.Posts {
		if p.UserID == userID {
			posts = append(posts, p.Clone())
		}
	}
	sortPostsNewestFirst(posts)
	return posts
}

// UpdatePost 更新帖子（仅作者本人）；重新生成摘要与标签
func (d *Database) UpdatePost(ctx context.Context, postID, userID string, upd model.PostUpdate) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.findPost(postID)
	if p == nil || p.UserID != userID {
		return false, nil
	}

	p.Title = upd.Title
	p.Content = upd.Content
	p.Excerpt = textutil.Excerpt(upd.Content)
	p.Category = upd.Category
	p.Tags = textutil.SplitTags(upd.Tags)
	if upd.Featured != nil {
		p.Featured = *upd.Featured
	}
	p.UpdatedAt = d.now()

	if err := d.persist(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// DeletePost 删除帖子（仅作者本人），级联删除评论，作者 posts_count-1（不低于0）
func (d *Database) DeletePost(ctx context.Context, postID, userID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := -1
	for i, p := range d.doc.Posts {
		if p.ID == postID && p.UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	d.doc.Posts = append(d.doc.Posts[:idx:idx], d.doc.Posts[idx+1:]...)

	comments := make([]*model.Comment, 0, len(d.doc.Comments))
	for _, c := range d.doc.Comments {
		if c.PostID != postID {
			comments = append(comments, c)
		}
	}
	d.doc.Comments = comments

	if author := d.findUser(userID); author != nil && author.PostsCount > 0 {
		author.PostsCount--
	}

	if err := d.persistWithStats(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// TogglePostLike 点赞/取消点赞；任何用户都可以点赞（包括作者自己）
func (d *Database) TogglePostLike(ctx context.Context, postID, userID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.findPost(postID)
	if p == nil {
		return false, nil
	}
	p.Likes, _ = toggleMember(p.Likes, userID)

	if err := d.persist(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// withAuthors 复制帖子并附加作者（调用方持有读锁）
func (d *Database) withAuthors(posts []*model.Post) []*model.Post {
	out := make([]*model.Post, 0, len(posts))
	for _, p := range posts {
		cp := p.Clone()
		cp.Author = d.authorOf(p.UserID)
		out = append(out, cp)
	}
	return out
}

func sortPostsNewestFirst(posts []*model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
