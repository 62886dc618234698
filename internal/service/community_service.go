package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	model "mujtama/internal/model/community"
	"mujtama/internal/pkg/apperr"
	"mujtama/internal/pkg/cache"
	"mujtama/internal/pkg/id"
	"mujtama/internal/pkg/storage"
	"mujtama/internal/repository/community"
)

var (
	ErrTitleRequired   = apperr.Validation("العنوان مطلوب")
	ErrContentRequired = apperr.Validation("المحتوى مطلوب")
	ErrCommentRequired = apperr.Validation("نص التعليق مطلوب")
	ErrQueryTooShort   = apperr.Validation("كلمة البحث قصيرة جداً")
	ErrInvalidSearch   = apperr.Validation("نوع البحث غير صالح")
	ErrPostNotFound    = apperr.Validation("المنشور غير موجود")
	ErrPostForbidden   = apperr.Validation("المنشور غير موجود أو لا تملك صلاحية تعديله")
	ErrIdeaNotFound    = apperr.Validation("الفكرة غير موجودة")
	ErrInvalidAvatar   = apperr.Validation("صيغة الصورة غير مدعومة")
	ErrAvatarTooLarge  = apperr.Validation("حجم الصورة كبير جداً")
	ErrStorageDisabled = apperr.Validation("رفع الصور غير متاح")
)

const (
	defaultCategory = "general"
	minQueryLength  = 2
	maxUsersPage    = 100

	// MaxAvatarSize 头像大小上限
	MaxAvatarSize = 2 << 20
)

// StatsCache 统计缓存（Redis 实现见 cache.RedisCache）
type StatsCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CommunityService 帖子、想法、评论、用户资料、搜索和统计
type CommunityService struct {
	db       *community.Database
	cache    StatsCache      // 可选
	store    storage.Storage // 可选，头像上传
	statsTTL time.Duration
}

// NewCommunityService 创建社区服务；cache 和 store 可以为 nil
func NewCommunityService(db *community.Database, statsCache StatsCache, store storage.Storage, statsTTL time.Duration) *CommunityService {
	if statsTTL <= 0 {
		statsTTL = time.Minute
	}
	return &CommunityService{
		db:       db,
		cache:    statsCache,
		store:    store,
		statsTTL: statsTTL,
	}
}

// PostPage 分页结果
type PostPage struct {
	Posts      []*model.Post `json:"posts"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
}

// Profile 个人主页
type Profile struct {
	User  *model.User   `json:"user"`
	Posts []*model.Post `json:"posts"`
}

// PostInput 发布/编辑帖子的输入
type PostInput struct {
	Title    string
	Content  string
	Category string
	Tags     string // 逗号分隔
}

func (in *PostInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Category = strings.TrimSpace(in.Category)
	if in.Title == "" {
		return ErrTitleRequired
	}
	if in.Content == "" {
		return ErrContentRequired
	}
	if in.Category == "" {
		in.Category = defaultCategory
	}
	return nil
}

// AddPost 发布帖子
func (s *CommunityService) AddPost(ctx context.Context, userID string, in PostInput) (string, error) {
	if err := in.normalize(); err != nil {
		return "", err
	}
	postID, err := s.db.AddPost(ctx, userID, in.Title, in.Content, in.Category, in.Tags, false)
	if err != nil {
		return "", err
	}
	s.invalidateStats(ctx)
	log.Info().Str("user_id", userID).Str("post_id", postID).Msg("post created")
	return postID, nil
}

// GetPosts 帖子列表；limit<=0 时使用站点设置的每页数量
func (s *CommunityService) GetPosts(ctx context.Context, page, limit int, category, search string) *PostPage {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.db.GetSettings(ctx).PostsPerPage
	}
	category = strings.TrimSpace(category)
	search = strings.TrimSpace(search)

	total := s.db.GetPostsCount(ctx, category, search)
	return &PostPage{
		Posts:      s.db.GetPosts(ctx, page, limit, category, search),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}
}

// GetPost 获取帖子并增加浏览数
func (s *CommunityService) GetPost(ctx context.Context, postID string, countView bool) (*model.Post, error) {
	if countView {
		ok, err := s.db.IncrementPostViews(ctx, postID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrPostNotFound
		}
	}
	post := s.db.GetPost(ctx, postID)
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// UpdatePost 编辑帖子（仅作者）
func (s *CommunityService) UpdatePost(ctx context.Context, postID, userID string, in PostInput) error {
	if err := in.normalize(); err != nil {
		return err
	}
	ok, err := s.db.UpdatePost(ctx, postID, userID, model.PostUpdate{
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
		Tags:     in.Tags,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrPostForbidden
	}
	return nil
}

// DeletePost 删除帖子（仅作者），评论级联删除
func (s *CommunityService) DeletePost(ctx context.Context, postID, userID string) error {
	ok, err := s.db.DeletePost(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPostForbidden
	}
	s.invalidateStats(ctx)
	log.Info().Str("user_id", userID).Str("post_id", postID).Msg("post deleted")
	return nil
}

// LikeResult 点赞结果
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// TogglePostLike 点赞/取消点赞
func (s *CommunityService) TogglePostLike(ctx context.Context, postID, userID string) (*LikeResult, error) {
	ok, err := s.db.TogglePostLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPostNotFound
	}
	post := s.db.GetPost(ctx, postID)
	if post == nil {
		return nil, ErrPostNotFound
	}
	return &LikeResult{Liked: contains(post.Likes, userID), LikesCount: post.LikesCount()}, nil
}

// AddComment 发表评论
func (s *CommunityService) AddComment(ctx context.Context, postID, userID, content, parentID string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrCommentRequired
	}
	var parent *string
	if parentID != "" {
		parent = &parentID
	}
	commentID, err := s.db.AddComment(ctx, postID, userID, content, parent)
	if err != nil {
		return "", err
	}
	s.invalidateStats(ctx)
	return commentID, nil
}

// GetComments 帖子评论
func (s *CommunityService) GetComments(ctx context.Context, postID string) ([]*model.Comment, error) {
	if s.db.GetPost(ctx, postID) == nil {
		return nil, ErrPostNotFound
	}
	return s.db.GetComments(ctx, postID), nil
}

// AddIdea 提交想法
func (s *CommunityService) AddIdea(ctx context.Context, userID, title, description, category string) (string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	category = strings.TrimSpace(category)
	if title == "" {
		return "", ErrTitleRequired
	}
	if description == "" {
		return "", ErrContentRequired
	}
	if category == "" {
		category = defaultCategory
	}

	ideaID, err := s.db.AddIdea(ctx, userID, title, description, category)
	if err != nil {
		return "", err
	}
	s.invalidateStats(ctx)
	log.Info().Str("user_id", userID).Str("idea_id", ideaID).Msg("idea submitted")
	return ideaID, nil
}

// GetIdeas 想法列表
func (s *CommunityService) GetIdeas(ctx context.Context, limit, offset int) []*model.Idea {
	return s.db.GetIdeas(ctx, limit, offset)
}

// GetIdea 获取想法
func (s *CommunityService) GetIdea(ctx context.Context, ideaID string) (*model.Idea, error) {
	idea := s.db.GetIdea(ctx, ideaID)
	if idea == nil {
		return nil, ErrIdeaNotFound
	}
	return idea, nil
}

// VoteResult 投票结果
type VoteResult struct {
	Voted      bool `json:"voted"`
	VotesCount int  `json:"votes_count"`
}

// ToggleIdeaVote 投票/取消投票
func (s *CommunityService) ToggleIdeaVote(ctx context.Context, ideaID, userID string) (*VoteResult, error) {
	ok, err := s.db.ToggleIdeaVote(ctx, ideaID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrIdeaNotFound
	}
	idea := s.db.GetIdea(ctx, ideaID)
	if idea == nil {
		return nil, ErrIdeaNotFound
	}
	return &VoteResult{Voted: contains(idea.Votes, userID), VotesCount: len(idea.Votes)}, nil
}

// GetUsers 用户列表（不含密码）
func (s *CommunityService) GetUsers(ctx context.Context, limit, offset int) []*model.User {
	if limit <= 0 || limit > maxUsersPage {
		limit = maxUsersPage
	}
	return s.db.GetUsers(ctx, limit, offset)
}

// GetProfile 用户资料及其帖子
func (s *CommunityService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user := s.db.GetUserByID(ctx, userID)
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &Profile{
		User:  user.Sanitized(),
		Posts: s.db.GetUserPosts(ctx, userID),
	}, nil
}

// UpdateProfile 更新资料；avatar 为空时保留原头像
func (s *CommunityService) UpdateProfile(ctx context.Context, userID, name, bio, avatar string) (*model.User, error) {
	user := s.db.GetUserByID(ctx, userID)
	if user == nil {
		return nil, ErrUserNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if avatar = strings.TrimSpace(avatar); avatar == "" {
		avatar = user.Avatar
	}

	ok, err := s.db.UpdateUserProfile(ctx, userID, name, strings.TrimSpace(bio), avatar)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}
	return s.db.GetUserByID(ctx, userID).Sanitized(), nil
}

// UploadAvatar 上传头像并更新用户记录
func (s *CommunityService) UploadAvatar(ctx context.Context, userID, filename string, data io.Reader, size int64) (string, error) {
	if s.store == nil {
		return "", ErrStorageDisabled
	}
	contentType, ok := storage.ImageContentType(filename)
	if !ok {
		return "", ErrInvalidAvatar
	}
	if size > MaxAvatarSize {
		return "", ErrAvatarTooLarge
	}

	ext := strings.ToLower(filename[strings.LastIndex(filename, ".")+1:])
	key := id.ObjectKey("avatars", userID, ext)
	url, err := s.store.Upload(ctx, key, data, size, contentType)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("storage", s.store.GetStorageType()).Msg("failed to upload avatar")
		return "", apperr.Database("تعذر رفع الصورة", err)
	}

	ok, err = s.db.UpdateUserAvatar(ctx, userID, url)
	if err != nil {
		return "", err
	}
	if !ok {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("failed to remove orphaned avatar")
		}
		return "", ErrUserNotFound
	}
	return url, nil
}

// Search 搜索帖子/想法/用户
func (s *CommunityService) Search(ctx context.Context, query, typ string) (community.SearchResult, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLength {
		return community.SearchResult{}, ErrQueryTooShort
	}
	switch typ {
	case "":
		typ = community.SearchAll
	case community.SearchAll, community.SearchPosts, community.SearchIdeas, community.SearchUsers:
	default:
		return community.SearchResult{}, ErrInvalidSearch
	}
	return s.db.Search(ctx, query, typ), nil
}

// GetStats 站点统计，优先读缓存
func (s *CommunityService) GetStats(ctx context.Context) model.Stats {
	if s.cache != nil {
		var cached model.Stats
		err := s.cache.Get(ctx, cache.StatsCacheKey, &cached)
		if err == nil {
			return cached
		}
		if !cache.IsMiss(err) {
			log.Warn().Err(err).Msg("failed to read stats cache")
		}
	}

	stats := s.db.GetStats(ctx)
	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.StatsCacheKey, stats, s.statsTTL); err != nil {
			log.Warn().Err(err).Msg("failed to write stats cache")
		}
	}
	return stats
}

// RefreshStats 重算统计并刷新缓存（定时任务使用）
func (s *CommunityService) RefreshStats(ctx context.Context) error {
	if err := s.db.RefreshStats(ctx); err != nil {
		return fmt.Errorf("refresh stats: %w", err)
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *CommunityService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.StatsCacheKey); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate stats cache")
	}
}

func contains(set []string, member string) bool {
	for _, m := range set {
		if m == member {
			return true
		}
	}
	return false
}
