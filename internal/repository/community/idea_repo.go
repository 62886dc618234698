package community

import (
	"context"
	"sort"

	model "mujtama/internal/model/community"
	"mujtama/internal/pkg/id"
)

func (d *Database) findIdea(ideaID string) *model.Idea {
	for _, i := range d.doc.Ideas {
		if i.ID == ideaID {
			return i
		}
	}
	return nil
}

// AddIdea 提交想法（初始状态 pending），作者 ideas_count+1
func (d *Database) AddIdea(ctx context.Context, userID, title, description, category string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idea := &model.Idea{
		ID:          id.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Category:    category,
		CreatedAt:   d.now(),
		Votes:       []string{},
		Status:      model.IdeaStatusPending,
	}
	d.doc.Ideas = append(d.doc.Ideas, idea)

	if author := d.findUser(userID); author != nil {
		author.IdeasCount++
	}

	if err := d.persistWithStats(ctx); err != nil {
		return "", err
	}
	return idea.ID, nil
}

// GetIdeas 想法列表：按创建时间倒序，附加作者和 votes_count；limit<=0 表示全部
func (d *Database) GetIdeas(_ context.Context, limit, offset int) []*model.Idea {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ideas := make([]*model.Idea, len(d.doc.Ideas))
	copy(ideas, d.doc.Ideas)
	sort.SliceStable(ideas, func(i, j int) bool {
		return ideas[i].CreatedAt.After(ideas[j].CreatedAt)
	})

	page := paginate(ideas, offset, limit)
	out := make([]*model.Idea, 0, len(page))
	for _, i := range page {
		out = append(out, d.annotateIdea(i))
	}
	return out
}

// GetIdea 获取单个想法，不存在返回 nil
func (d *Database) GetIdea(_ context.Context, ideaID string) *model.Idea {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i := d.findIdea(ideaID)
	if i == nil {
		return nil
	}
	return d.annotateIdea(i)
}

// ToggleIdeaVote 投票/取消投票
func (d *Database) ToggleIdeaVote(ctx context.Context, ideaID, userID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.findIdea(ideaID)
	if i == nil {
		return false, nil
	}
	i.Votes, _ = toggleMember(i.Votes, userID)

	if err := d.persist(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Database) annotateIdea(i *model.Idea) *model.Idea {
	cp := i.Clone()
	cp.Author = d.authorOf(i.UserID)
	votes := len(i.Votes)
	cp.VotesCount = &votes
	return cp
}
