package community

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	model "mujtama/internal/model/community"
	"mujtama/internal/pkg/apperr"
	"mujtama/internal/pkg/docstore"
)

// testClock 手动推进的时钟
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestDB(t *testing.T) (*Database, *testClock, string) {
	path := filepath.Join(t.TempDir(), "community.json")
	store, err := docstore.NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	clock := newTestClock()
	db, err := NewDatabase(context.Background(), store, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	return db, clock, path
}

// failingStore 写入总是失败
type failingStore struct{}

func (failingStore) Load(context.Context, any) (bool, error) { return false, nil }
func (failingStore) Save(context.Context, any) error         { return errors.New("disk full") }
func (failingStore) Name() string                            { return "failing" }

// flakyStore 可以按需让写入失败的文件存储
type flakyStore struct {
	*docstore.FileStore
	fail bool
}

func (s *flakyStore) Save(ctx context.Context, v any) error {
	if s.fail {
		return errors.New("disk full")
	}
	return s.FileStore.Save(ctx, v)
}

func TestNewDatabase(t *testing.T) {
	Convey("首次构造时初始化文件", t, func() {
		_, _, path := newTestDB(t)

		raw, err := os.ReadFile(path)
		So(err, ShouldBeNil)

		var top map[string]json.RawMessage
		So(json.Unmarshal(raw, &top), ShouldBeNil)
		for _, key := range []string{"users", "posts", "comments", "ideas", "sessions", "password_resets", "settings", "stats"} {
			So(top, ShouldContainKey, key)
		}

		var settings model.Settings
		So(json.Unmarshal(top["settings"], &settings), ShouldBeNil)
		So(settings, ShouldResemble, model.DefaultSettings())
	})

	Convey("损坏的文件返回 DatabaseError", t, func() {
		path := filepath.Join(t.TempDir(), "community.json")
		So(os.WriteFile(path, []byte("{not json"), 0o644), ShouldBeNil)
		store, _ := docstore.NewFileStore(path)

		_, err := NewDatabase(context.Background(), store)
		So(apperr.KindOf(err), ShouldEqual, apperr.KindDatabase)
	})

	Convey("持久化失败返回 DatabaseError", t, func() {
		_, err := NewDatabase(context.Background(), failingStore{})
		So(apperr.KindOf(err), ShouldEqual, apperr.KindDatabase)
	})
}

func TestUsers(t *testing.T) {
	Convey("用户操作", t, func() {
		ctx := context.Background()
		db, _, _ := newTestDB(t)

		Convey("CreateUser 后 GetUserByID 返回相同资料与哈希", func() {
			uid, err := db.CreateUser(ctx, "Ahmed", "ahmed@example.com", "", "$argon2id$hash", "")
			So(err, ShouldBeNil)
			So(uid, ShouldNotBeEmpty)

			u := db.GetUserByID(ctx, uid)
			So(u, ShouldNotBeNil)
			So(u.Name, ShouldEqual, "Ahmed")
			So(u.Email, ShouldEqual, "ahmed@example.com")
			So(u.Phone, ShouldBeEmpty)
			So(u.Password, ShouldEqual, "$argon2id$hash")
			So(u.Avatar, ShouldEqual, model.DefaultAvatar)
			So(u.IsActive, ShouldBeTrue)
			So(u.IsVerified, ShouldBeFalse)
			So(u.PostsCount, ShouldEqual, 0)
			So(u.LastLogin, ShouldBeNil)

			So(db.UserExistsByEmail(ctx, "ahmed@example.com"), ShouldBeTrue)
			So(db.UserExistsByEmail(ctx, "other@example.com"), ShouldBeFalse)
			So(db.GetUserByEmail(ctx, "ahmed@example.com").ID, ShouldEqual, uid)
			So(db.GetStats(ctx).TotalUsers, ShouldEqual, 1)
		})

		Convey("手机号注册自动验证", func() {
			uid, err := db.CreateUser(ctx, "Sara", "", "+966501234567", "h", "")
			So(err, ShouldBeNil)
			So(db.GetUserByID(ctx, uid).IsVerified, ShouldBeTrue)
			So(db.UserExistsByPhone(ctx, "+966501234567"), ShouldBeTrue)
			So(db.GetUserByPhone(ctx, "+966501234567").ID, ShouldEqual, uid)
			So(db.UserExistsByEmail(ctx, ""), ShouldBeFalse)
		})

		Convey("邮箱和手机号不能同时为空", func() {
			_, err := db.CreateUser(ctx, "Nobody", "", "  ", "h", "")
			So(err, ShouldEqual, ErrMissingContact)
			So(db.CountUsers(ctx), ShouldEqual, 0)
		})

		Convey("邮箱/手机号重复被拒绝", func() {
			_, err := db.CreateUser(ctx, "A", "a@example.com", "+1", "h", "")
			So(err, ShouldBeNil)
			_, err = db.CreateUser(ctx, "B", "a@example.com", "", "h", "")
			So(err, ShouldEqual, ErrEmailTaken)
			_, err = db.CreateUser(ctx, "C", "", "+1", "h", "")
			So(err, ShouldEqual, ErrPhoneTaken)
		})

		Convey("更新资料/头像/登录时间", func() {
			uid, _ := db.CreateUser(ctx, "A", "a@example.com", "", "h", "")

			ok, err := db.UpdateUserProfile(ctx, uid, "أحمد", "نبذة", "a.png")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			ok, err = db.UpdateUserAvatar(ctx, uid, "b.png")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			ok, err = db.UpdateUserLastLogin(ctx, uid)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			u := db.GetUserByID(ctx, uid)
			So(u.Name, ShouldEqual, "أحمد")
			So(u.Bio, ShouldEqual, "نبذة")
			So(u.Avatar, ShouldEqual, "b.png")
			So(u.LastLogin, ShouldNotBeNil)

			ok, err = db.UpdateUserProfile(ctx, "missing", "x", "y", "z")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("返回的用户是副本", func() {
			uid, _ := db.CreateUser(ctx, "A", "a@example.com", "", "h", "")
			u := db.GetUserByID(ctx, uid)
			u.Name = "mutated"
			So(db.GetUserByID(ctx, uid).Name, ShouldEqual, "A")
		})

		Convey("GetUsers 按插入顺序分页并去除密码", func() {
			for i := 0; i < 5; i++ {
				_, err := db.CreateUser(ctx, fmt.Sprintf("user%d", i), fmt.Sprintf("u%d@example.com", i), "", "secret-hash", "")
				So(err, ShouldBeNil)
			}
			users := db.GetUsers(ctx, 2, 1)
			So(len(users), ShouldEqual, 2)
			So(users[0].Name, ShouldEqual, "user1")
			So(users[1].Name, ShouldEqual, "user2")
			for _, u := range users {
				So(u.Password, ShouldBeEmpty)
			}
			So(len(db.GetUsers(ctx, 10, 4)), ShouldEqual, 1)
			So(len(db.GetUsers(ctx, 10, 9)), ShouldEqual, 0)
			So(len(db.GetUsers(ctx, 0, 0)), ShouldEqual, 5)
		})
	})
}

func TestPosts(t *testing.T) {
	Convey("帖子操作", t, func() {
		ctx := context.Background()
		db, clock, _ := newTestDB(t)
		author, _ := db.CreateUser(ctx, "Ahmed", "", "+966501234567", "h", "")
		reader, _ := db.CreateUser(ctx, "Sara", "sara@example.com", "", "h", "")

		Convey("AddPost 生成摘要与标签", func() {
			postID, err := db.AddPost(ctx, author, "Title", "Body text", "general", "tag1,tag2", false)
			So(err, ShouldBeNil)

			posts := db.GetUserPosts(ctx, author)
			So(len(posts), ShouldEqual, 1)
			So(posts[0].ID, ShouldEqual, postID)
			So(posts[0].Tags, ShouldResemble, []string{"tag1", "tag2"})
			So(posts[0].Excerpt, ShouldEqual, "Body text")
			So(posts[0].Status, ShouldEqual, model.PostStatusPublished)
			So(db.GetUserByID(ctx, author).PostsCount, ShouldEqual, 1)
			So(db.GetStats(ctx).TotalPosts, ShouldEqual, 1)
		})

		Convey("分页：25篇帖子，每页10篇，按时间倒序", func() {
			for i := 0; i < 25; i++ {
				clock.Advance(time.Minute)
				_, err := db.AddPost(ctx, author, fmt.Sprintf("post %02d", i), "content", "general", "", false)
				So(err, ShouldBeNil)
			}

			page1 := db.GetPosts(ctx, 1, 10, "", "")
			So(len(page1), ShouldEqual, 10)
			So(page1[0].Title, ShouldEqual, "post 24")
			for i := 1; i < len(page1); i++ {
				So(page1[i-1].CreatedAt.After(page1[i].CreatedAt), ShouldBeTrue)
			}

			page3 := db.GetPosts(ctx, 3, 10, "", "")
			So(len(page3), ShouldEqual, 5)
			So(page3[4].Title, ShouldEqual, "post 00")

			So(len(db.GetPosts(ctx, 4, 10, "", "")), ShouldEqual, 0)
			So(db.GetPostsCount(ctx, "", ""), ShouldEqual, 25)

			Convey("作者信息已附加且不含密码", func() {
				So(page1[0].Author, ShouldNotBeNil)
				So(page1[0].Author.Name, ShouldEqual, "Ahmed")
				So(page1[0].Author.Password, ShouldBeEmpty)
			})
		})

		Convey("分类与搜索过滤", func() {
			_, _ = db.AddPost(ctx, author, "نصائح القراءة", "محتوى", "books", "", false)
			_, _ = db.AddPost(ctx, author, "Travel", "Visiting RIYADH", "travel", "", false)
			_, _ = db.AddPost(ctx, author, "Cooking", "recipes", "food", "", false)

			So(len(db.GetPosts(ctx, 1, 10, "books", "")), ShouldEqual, 1)
			So(len(db.GetPosts(ctx, 1, 10, "", "riyadh")), ShouldEqual, 1)
			So(len(db.GetPosts(ctx, 1, 10, "travel", "cooking")), ShouldEqual, 0)
			So(db.GetPostsCount(ctx, "", "القراءة"), ShouldEqual, 1)
		})

		Convey("点赞两次恢复原状", func() {
			postID, _ := db.AddPost(ctx, author, "T", "C", "general", "", false)
			before := db.GetPost(ctx, postID).Likes

			ok, err := db.TogglePostLike(ctx, postID, reader)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(db.GetPost(ctx, postID).Likes, ShouldResemble, []string{reader})

			ok, err = db.TogglePostLike(ctx, postID, reader)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(db.GetPost(ctx, postID).Likes, ShouldResemble, before)

			Convey("作者可以给自己点赞", func() {
				ok, _ := db.TogglePostLike(ctx, postID, author)
				So(ok, ShouldBeTrue)
				So(db.GetPost(ctx, postID).LikesCount(), ShouldEqual, 1)
			})

			Convey("帖子不存在返回 false", func() {
				ok, err := db.TogglePostLike(ctx, "missing", reader)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("UpdatePost 仅作者可以修改", func() {
			postID, _ := db.AddPost(ctx, author, "T", "C", "general", "a", false)
			clock.Advance(time.Hour)

			featured := true
			upd := model.PostUpdate{Title: "T2", Content: "<p>new body</p>", Category: "news", Tags: "x, y", Featured: &featured}
			ok, err := db.UpdatePost(ctx, postID, reader, upd)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			ok, err = db.UpdatePost(ctx, postID, author, upd)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			p := db.GetPost(ctx, postID)
			So(p.Title, ShouldEqual, "T2")
			So(p.Excerpt, ShouldEqual, "new body")
			So(p.Tags, ShouldResemble, []string{"x", "y"})
			So(p.Featured, ShouldBeTrue)
			So(p.UpdatedAt.After(p.CreatedAt), ShouldBeTrue)

			Convey("未提供 featured 时保持原值", func() {
				ok, err := db.UpdatePost(ctx, postID, author, model.PostUpdate{Title: "T3", Content: "C3", Category: "news"})
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(db.GetPost(ctx, postID).Featured, ShouldBeTrue)
			})
		})

		Convey("DeletePost 级联删除评论并恢复 posts_count", func() {
			other, _ := db.AddPost(ctx, author, "keep", "C", "general", "", false)
			_, _ = db.AddComment(ctx, other, reader, "stays", nil)

			before := db.GetUserByID(ctx, author).PostsCount
			postID, _ := db.AddPost(ctx, author, "T", "C", "general", "", false)
			_, _ = db.AddComment(ctx, postID, reader, "c1", nil)
			_, _ = db.AddComment(ctx, postID, author, "c2", nil)

			ok, err := db.DeletePost(ctx, postID, reader)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			ok, err = db.DeletePost(ctx, postID, author)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			So(db.GetPost(ctx, postID), ShouldBeNil)
			So(db.GetComments(ctx, postID), ShouldBeEmpty)
			So(len(db.GetComments(ctx, other)), ShouldEqual, 1)
			So(db.GetUserByID(ctx, author).PostsCount, ShouldEqual, before)
			So(db.GetStats(ctx).TotalComments, ShouldEqual, 1)
		})

		Convey("posts_count 不会小于0", func() {
			postID, _ := db.AddPost(ctx, "ghost-author", "T", "C", "general", "", false)
			ok, err := db.DeletePost(ctx, postID, "ghost-author")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
		})

		Convey("作者已删除的帖子使用占位作者", func() {
			_, _ = db.AddPost(ctx, "deleted-user", "orphan", "C", "general", "", false)
			posts := db.GetPosts(ctx, 1, 10, "", "orphan")
			So(len(posts), ShouldEqual, 1)
			So(posts[0].Author.ID, ShouldEqual, "deleted-user")
			So(posts[0].Author.Name, ShouldEqual, model.DeletedUserName)
		})

		Convey("浏览数", func() {
			postID, _ := db.AddPost(ctx, author, "T", "C", "general", "", false)
			ok, err := db.IncrementPostViews(ctx, postID)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(db.GetPost(ctx, postID).Views, ShouldEqual, 1)
		})
	})
}

func TestComments(t *testing.T) {
	Convey("评论", t, func() {
		ctx := context.Background()
		db, clock, _ := newTestDB(t)
		author, _ := db.CreateUser(ctx, "A", "a@example.com", "", "h", "")
		postID, _ := db.AddPost(ctx, author, "T", "C", "general", "", false)

		first, err := db.AddComment(ctx, postID, author, "first", nil)
		So(err, ShouldBeNil)
		clock.Advance(time.Second)
		parent := first
		_, err = db.AddComment(ctx, postID, author, "reply", &parent)
		So(err, ShouldBeNil)

		Convey("按时间正序并附加作者", func() {
			comments := db.GetComments(ctx, postID)
			So(len(comments), ShouldEqual, 2)
			So(comments[0].Content, ShouldEqual, "first")
			So(comments[1].Content, ShouldEqual, "reply")
			So(*comments[1].ParentID, ShouldEqual, first)
			So(comments[0].Author.Name, ShouldEqual, "A")
		})

		Convey("计数器递增", func() {
			So(db.GetPost(ctx, postID).CommentsCount, ShouldEqual, 2)
			So(db.GetUserByID(ctx, author).CommentsCount, ShouldEqual, 2)
			So(db.GetStats(ctx).TotalComments, ShouldEqual, 2)
		})

		Convey("帖子不存在", func() {
			_, err := db.AddComment(ctx, "missing", author, "x", nil)
			So(err, ShouldEqual, ErrPostNotFound)
		})
	})
}

func TestIdeas(t *testing.T) {
	Convey("想法", t, func() {
		ctx := context.Background()
		db, clock, _ := newTestDB(t)
		author, _ := db.CreateUser(ctx, "A", "a@example.com", "", "h", "")
		voter, _ := db.CreateUser(ctx, "B", "b@example.com", "", "h", "")

		older, _ := db.AddIdea(ctx, author, "old idea", "desc", "general")
		clock.Advance(time.Minute)
		newer, _ := db.AddIdea(ctx, author, "new idea", "desc", "general")

		ideas := db.GetIdeas(ctx, 0, 0)
		So(len(ideas), ShouldEqual, 2)
		So(ideas[0].ID, ShouldEqual, newer)
		So(ideas[1].ID, ShouldEqual, older)
		So(ideas[0].Status, ShouldEqual, model.IdeaStatusPending)
		So(*ideas[0].VotesCount, ShouldEqual, 0)
		So(ideas[0].Author.Name, ShouldEqual, "A")
		So(db.GetUserByID(ctx, author).IdeasCount, ShouldEqual, 2)

		ok, err := db.ToggleIdeaVote(ctx, older, voter)
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)
		So(*db.GetIdea(ctx, older).VotesCount, ShouldEqual, 1)

		ok, _ = db.ToggleIdeaVote(ctx, older, voter)
		So(ok, ShouldBeTrue)
		So(*db.GetIdea(ctx, older).VotesCount, ShouldEqual, 0)

		ok, _ = db.ToggleIdeaVote(ctx, "missing", voter)
		So(ok, ShouldBeFalse)
		So(db.GetIdea(ctx, "missing"), ShouldBeNil)

		So(len(db.GetIdeas(ctx, 1, 1)), ShouldEqual, 1)
	})
}

func TestSearch(t *testing.T) {
	Convey("搜索", t, func() {
		ctx := context.Background()
		db, _, _ := newTestDB(t)
		author, _ := db.CreateUser(ctx, "Reader", "reader@example.com", "", "h", "")
		_, _ = db.AddPost(ctx, author, "فوائد قراءة الكتب", "نص", "books", "", false)
		_, _ = db.AddPost(ctx, author, "Travel", "no match", "travel", "", false)
		_, _ = db.AddIdea(ctx, author, "نادي قراءة", "اقتراح", "books")

		Convey("限定类型 posts 时省略其他键", func() {
			result := db.Search(ctx, "قراءة", SearchPosts)
			So(len(result.Posts), ShouldEqual, 1)
			So(result.Posts[0].Title, ShouldEqual, "فوائد قراءة الكتب")
			So(result.Ideas, ShouldBeNil)
			So(result.Users, ShouldBeNil)

			data, _ := json.Marshal(result)
			So(string(data), ShouldNotContainSubstring, "ideas")
			So(string(data), ShouldNotContainSubstring, "users")
		})

		Convey("all 只包含有结果的类型", func() {
			result := db.Search(ctx, "قراءة", "")
			So(len(result.Posts), ShouldEqual, 1)
			So(len(result.Ideas), ShouldEqual, 1)
			So(result.Users, ShouldBeNil)
		})

		Convey("用户按名称/邮箱匹配且不含密码", func() {
			result := db.Search(ctx, "READER@", SearchUsers)
			So(len(result.Users), ShouldEqual, 1)
			So(result.Users[0].Password, ShouldBeEmpty)
			So(result.Posts, ShouldBeNil)
		})
	})
}

func TestSessionsAndResets(t *testing.T) {
	Convey("会话与重置 Token", t, func() {
		ctx := context.Background()
		db, clock, _ := newTestDB(t)

		Convey("每个用户只有一个会话", func() {
			exp := clock.Now().Add(time.Hour).Unix()
			So(db.SaveSession(ctx, "u1", model.Session{Token: "t1", Expires: exp}), ShouldBeNil)
			So(db.SaveSession(ctx, "u1", model.Session{Token: "t2", Expires: exp}), ShouldBeNil)
			So(db.GetSession(ctx, "u1").Token, ShouldEqual, "t2")

			uid, s := db.FindSessionByToken(ctx, "t1")
			So(uid, ShouldBeEmpty)
			So(s, ShouldBeNil)

			uid, s = db.FindSessionByToken(ctx, "t2")
			So(uid, ShouldEqual, "u1")
			So(s, ShouldNotBeNil)

			ok, err := db.ReplaceSessionToken(ctx, "u1", "t2", "t3")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			ok, _ = db.ReplaceSessionToken(ctx, "u1", "t2", "t4")
			So(ok, ShouldBeFalse)

			So(db.DeleteSession(ctx, "u1"), ShouldBeNil)
			So(db.GetSession(ctx, "u1"), ShouldBeNil)
		})

		Convey("过期会话不可查找并可被清理", func() {
			So(db.SaveSession(ctx, "u1", model.Session{Token: "old", Expires: clock.Now().Add(time.Minute).Unix()}), ShouldBeNil)
			So(db.SaveSession(ctx, "u2", model.Session{Token: "fresh", Expires: clock.Now().Add(time.Hour).Unix()}), ShouldBeNil)
			clock.Advance(2 * time.Minute)

			uid, _ := db.FindSessionByToken(ctx, "old")
			So(uid, ShouldBeEmpty)

			n, err := db.PurgeExpiredSessions(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
			So(db.GetSession(ctx, "u2"), ShouldNotBeNil)
		})

		Convey("重置 Token 过期前有效，删除后失效", func() {
			So(db.StorePasswordResetToken(ctx, "a@example.com", "rt", clock.Now().Add(time.Hour).Unix()), ShouldBeNil)

			email, ok := db.GetEmailByResetToken(ctx, "rt")
			So(ok, ShouldBeTrue)
			So(email, ShouldEqual, "a@example.com")

			_, ok = db.GetEmailByResetToken(ctx, "wrong")
			So(ok, ShouldBeFalse)

			clock.Advance(2 * time.Hour)
			_, ok = db.GetEmailByResetToken(ctx, "rt")
			So(ok, ShouldBeFalse)

			So(db.DeletePasswordResetToken(ctx, "rt"), ShouldBeNil)
			So(db.DeletePasswordResetToken(ctx, "rt"), ShouldBeNil)
		})
	})
}

func TestPersistFailureRollback(t *testing.T) {
	Convey("写入失败时丢弃内存变更", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "community.json")
		fs, err := docstore.NewFileStore(path)
		So(err, ShouldBeNil)
		store := &flakyStore{FileStore: fs}
		db, err := NewDatabase(ctx, store)
		So(err, ShouldBeNil)

		author, err := db.CreateUser(ctx, "A", "a@example.com", "", "h", "")
		So(err, ShouldBeNil)
		postID, err := db.AddPost(ctx, author, "T", "C", "general", "", false)
		So(err, ShouldBeNil)

		store.fail = true

		Convey("注册失败后用户不存在，重试不会被判重", func() {
			_, err := db.CreateUser(ctx, "B", "b@example.com", "", "h", "")
			So(apperr.KindOf(err), ShouldEqual, apperr.KindDatabase)
			So(db.UserExistsByEmail(ctx, "b@example.com"), ShouldBeFalse)
			So(db.GetStats(ctx).TotalUsers, ShouldEqual, 1)

			store.fail = false
			_, err = db.CreateUser(ctx, "B", "b@example.com", "", "h", "")
			So(err, ShouldBeNil)
		})

		Convey("失败的变更不会被下一次成功写入带到磁盘", func() {
			_, err := db.CreateUser(ctx, "Ghost", "ghost@example.com", "", "h", "")
			So(err, ShouldNotBeNil)
			_, err = db.TogglePostLike(ctx, postID, author)
			So(err, ShouldNotBeNil)
			_, err = db.DeletePost(ctx, postID, author)
			So(err, ShouldNotBeNil)

			So(db.GetPost(ctx, postID), ShouldNotBeNil)
			So(db.GetPost(ctx, postID).Likes, ShouldBeEmpty)
			So(db.GetUserByID(ctx, author).PostsCount, ShouldEqual, 1)

			store.fail = false
			_, err = db.AddIdea(ctx, author, "فكرة", "وصف", "general")
			So(err, ShouldBeNil)

			reopened, _ := docstore.NewFileStore(path)
			reloaded, err := NewDatabase(ctx, reopened)
			So(err, ShouldBeNil)
			So(reloaded.UserExistsByEmail(ctx, "ghost@example.com"), ShouldBeFalse)
			So(reloaded.GetPost(ctx, postID), ShouldNotBeNil)
			So(reloaded.GetStats(ctx).TotalIdeas, ShouldEqual, 1)
		})

		Convey("会话与重置 Token 同样回滚", func() {
			So(db.SaveSession(ctx, author, model.Session{Token: "tok", Expires: time.Now().Add(time.Hour).Unix()}), ShouldNotBeNil)
			So(db.GetSession(ctx, author), ShouldBeNil)
			So(db.StorePasswordResetToken(ctx, "a@example.com", "rt", time.Now().Add(time.Hour).Unix()), ShouldNotBeNil)
			_, ok := db.GetEmailByResetToken(ctx, "rt")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestRoundTrip(t *testing.T) {
	Convey("持久化后重新加载得到相同集合", t, func() {
		ctx := context.Background()
		db, clock, path := newTestDB(t)

		uid, _ := db.CreateUser(ctx, "أحمد", "", "+966501234567", "h", "")
		postID, _ := db.AddPost(ctx, uid, "عنوان", "<b>محتوى</b>", "general", "وسم1,وسم2", true)
		_, _ = db.AddComment(ctx, postID, uid, "تعليق", nil)
		_, _ = db.TogglePostLike(ctx, postID, uid)
		_, _ = db.AddIdea(ctx, uid, "فكرة", "وصف", "general")
		_ = db.SaveSession(ctx, uid, model.Session{Token: "tok", Expires: clock.Now().Add(time.Hour).Unix(), CreatedAt: clock.Now()})
		_ = db.StorePasswordResetToken(ctx, "x@example.com", "rt", clock.Now().Add(time.Hour).Unix())

		store, _ := docstore.NewFileStore(path)
		reloaded, err := NewDatabase(ctx, store, WithClock(clock.Now))
		So(err, ShouldBeNil)

		original, err := docstore.Marshal(db.doc)
		So(err, ShouldBeNil)
		again, err := docstore.Marshal(reloaded.doc)
		So(err, ShouldBeNil)
		So(string(again), ShouldEqual, string(original))

		raw, _ := os.ReadFile(path)
		So(string(raw), ShouldContainSubstring, "أحمد")
		So(string(raw), ShouldContainSubstring, "<b>محتوى</b>")
	})
}
