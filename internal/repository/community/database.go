// Package community 实现社区内容的文档数据库：
// 整个文档常驻内存，所有查询线性扫描，每次变更后完整重写持久化文档。
package community

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	model "mujtama/internal/model/community"
	"mujtama/internal/pkg/apperr"
	"mujtama/internal/pkg/docstore"
)

var (
	ErrMissingContact = apperr.Validation("يجب إدخال البريد الإلكتروني أو رقم الهاتف")
	ErrEmailTaken     = apperr.Validation("البريد الإلكتروني مسجل مسبقاً")
	ErrPhoneTaken     = apperr.Validation("رقم الهاتف مسجل مسبقاً")
	ErrPostNotFound   = apperr.Validation("المنشور غير موجود")
)

const (
	msgLoadFailed = "تعذر تحميل قاعدة البيانات"
	msgSaveFailed = "تعذر حفظ البيانات"
)

// Database 文档数据库
// mu 是进程内唯一的写入串行点；多进程同时写同一个文件仍然是"后写覆盖"。
// committed 是最近一次成功落盘的文档副本，写入失败时内存文档回滚到它。
type Database struct {
	mu        sync.RWMutex
	persister docstore.Persister
	doc       *model.Document
	committed *model.Document
	now       func() time.Time
}

// Option 构造选项
type Option func(*Database)

// WithClock 注入时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(d *Database) {
		d.now = now
	}
}

// NewDatabase 加载文档；文档不存在时以空集合和默认设置初始化并立即持久化
func NewDatabase(ctx context.Context, persister docstore.Persister, opts ...Option) (*Database, error) {
	d := &Database{
		persister: persister,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(d)
	}

	doc := &model.Document{}
	found, err := persister.Load(ctx, doc)
	if err != nil {
		log.Error().Err(err).Str("driver", persister.Name()).Msg("failed to load document")
		return nil, apperr.Database(msgLoadFailed, err)
	}

	if !found {
		d.doc = model.NewDocument()
		d.doc.RecomputeStats(d.now())
		if err := d.persist(ctx); err != nil {
			return nil, err
		}
		log.Info().Str("driver", persister.Name()).Msg("initialized empty community document")
		return d, nil
	}

	doc.Normalize()
	d.doc = doc
	d.committed = doc.Clone()
	log.Debug().
		Str("driver", persister.Name()).
		Int("users", len(doc.Users)).
		Int("posts", len(doc.Posts)).
		Msg("community document loaded")
	return d, nil
}

// persist 完整写入文档（调用方持有写锁）
// 失败时丢弃本次内存变更，不会被下一次成功写入带到磁盘上
func (d *Database) persist(ctx context.Context) error {
	if err := d.persister.Save(ctx, d.doc); err != nil {
		log.Error().Err(err).Str("driver", d.persister.Name()).Msg("failed to persist document, rolling back")
		if d.committed != nil {
			d.doc = d.committed.Clone()
		}
		return apperr.Database(msgSaveFailed, err)
	}
	d.committed = d.doc.Clone()
	return nil
}

// persistWithStats 结构性变更后重算统计并写入
func (d *Database) persistWithStats(ctx context.Context) error {
	d.doc.RecomputeStats(d.now())
	return d.persist(ctx)
}

// GetStats 获取统计
func (d *Database) GetStats(_ context.Context) model.Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.doc.Stats
}

// RefreshStats 重算统计并写入（定时任务使用）
func (d *Database) RefreshStats(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.persistWithStats(ctx)
}

// GetSettings 获取站点设置
func (d *Database) GetSettings(_ context.Context) model.Settings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.doc.Settings
}

// authorOf 查找作者并去除密码；作者已被删除时返回占位用户（调用方持有读锁）
func (d *Database) authorOf(userID string) *model.User {
	if u := d.findUser(userID); u != nil {
		return u.Sanitized()
	}
	return model.PlaceholderAuthor(userID)
}

// paginate 按 offset/limit 切片，limit<=0 表示不限
func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// toggleMember 集合成员翻转：存在则移除，不存在则加入；返回翻转后是否为成员
func toggleMember(set []string, member string) ([]string, bool) {
	for i, m := range set {
		if m == member {
			return append(set[:i:i], set[i+1:]...), false
		}
	}
	return append(set, member), true
}
