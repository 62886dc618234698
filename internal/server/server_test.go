package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"mujtama/internal/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test", Port: 8080},
		Store:  config.StoreConfig{Driver: "file", Path: filepath.Join(dir, "database.json")},
		Auth: config.AuthConfig{
			CookieName:   "sid",
			CookieSecret: "test-secret",
			Argon2:       config.Argon2Config{Time: 1, Memory: 1024, Threads: 1},
		},
		Storage: config.StorageConfig{
			Type:  "local",
			Local: &config.LocalConfig{BasePath: filepath.Join(dir, "uploads"), BaseURL: "/uploads"},
		},
	}
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

type client struct {
	srv     *Server
	cookies []*http.Cookie
	bearer  string
}

func (c *client) do(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	rec := httptest.NewRecorder()
	c.srv.Engine().ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			c.cookies = nil
			continue
		}
		c.cookies = []*http.Cookie{ck}
	}

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func (c *client) action(name string, form url.Values) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(http.MethodPost, "/api?action="+name, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) json(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func TestHealth(t *testing.T) {
	Convey("健康检查", t, func() {
		srv := newTestServer(t)
		for _, path := range []string{"/health", "/ready"} {
			rec := httptest.NewRecorder()
			srv.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("X-Request-Id"), ShouldNotBeEmpty)
		}
	})
}

func TestSwaggerCoversRoutes(t *testing.T) {
	Convey("/swagger/doc.json 覆盖所有 API 路由", t, func() {
		s := newTestServer(t)
		rec := httptest.NewRecorder()
		s.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
		So(rec.Code, ShouldEqual, http.StatusOK)

		var doc struct {
			Paths map[string]map[string]json.RawMessage `json:"paths"`
		}
		So(json.Unmarshal(rec.Body.Bytes(), &doc), ShouldBeNil)

		for _, route := range s.Engine().Routes() {
			if !strings.HasPrefix(route.Path, "/api") {
				continue
			}
			// gin.Any 会注册所有方法，文档只描述 GET/POST
			if route.Path == "/api" && route.Method != http.MethodGet && route.Method != http.MethodPost {
				continue
			}
			path := route.Path
			for _, seg := range strings.Split(path, "/") {
				if strings.HasPrefix(seg, ":") {
					path = strings.Replace(path, seg, "{"+seg[1:]+"}", 1)
				}
			}
			So(doc.Paths, ShouldContainKey, path)
			So(doc.Paths[path], ShouldContainKey, strings.ToLower(route.Method))
		}
	})
}

func TestActionEndpoint(t *testing.T) {
	Convey("动作接口", t, func() {
		srv := newTestServer(t)
		c := &client{srv: srv}

		Convey("未知动作返回 400", func() {
			rec, env := c.action("drop_tables", nil)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(env.Success, ShouldBeFalse)
			So(env.Message, ShouldNotBeEmpty)
		})

		Convey("未登录发帖返回 401", func() {
			rec, env := c.action("add_post", url.Values{"title": {"T"}, "content": {"C"}})
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
			So(env.Success, ShouldBeFalse)
		})

		Convey("校验错误返回 400", func() {
			rec, env := c.action("register", url.Values{"name": {"A"}, "phone": {"+966500000001"}, "password": {"weak"}})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(env.Success, ShouldBeFalse)
		})

		Convey("手机号注册后自动登录，可以发帖并查看资料", func() {
			rec, env := c.action("register", url.Values{
				"name":     {"أحمد"},
				"phone":    {"+966500000001"},
				"password": {"TestPass123"},
			})
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(env.Success, ShouldBeTrue)
			So(c.cookies, ShouldHaveLength, 1)
			So(c.cookies[0].HttpOnly, ShouldBeTrue)

			var reg struct {
				UserID   string `json:"user_id"`
				LoggedIn bool   `json:"logged_in"`
			}
			So(json.Unmarshal(env.Data, &reg), ShouldBeNil)
			So(reg.LoggedIn, ShouldBeTrue)

			rec, env = c.action("add_post", url.Values{"title": {"مرحبا"}, "content": {"نص"}, "tags": {"a, b"}})
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(env.Success, ShouldBeTrue)

			rec, env = c.action("get_profile", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			var profile struct {
				User struct {
					ID       string `json:"id"`
					Password string `json:"password"`
				} `json:"user"`
				Posts []json.RawMessage `json:"posts"`
			}
			So(json.Unmarshal(env.Data, &profile), ShouldBeNil)
			So(profile.User.ID, ShouldEqual, reg.UserID)
			So(profile.User.Password, ShouldBeEmpty)
			So(profile.Posts, ShouldHaveLength, 1)

			req := httptest.NewRequest(http.MethodGet, "/api?action=get_posts&page=1", nil)
			rec, env = c.do(req)
			So(rec.Code, ShouldEqual, http.StatusOK)
			var page struct {
				Total int `json:"total"`
			}
			So(json.Unmarshal(env.Data, &page), ShouldBeNil)
			So(page.Total, ShouldEqual, 1)

			Convey("退出后清除 Cookie", func() {
				rec, env = c.action("logout", nil)
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(env.Success, ShouldBeTrue)
				So(c.cookies, ShouldBeEmpty)

				rec, _ = c.action("add_idea", url.Values{"title": {"x"}, "description": {"y"}})
				So(rec.Code, ShouldEqual, http.StatusUnauthorized)
			})
		})
	})
}

func TestRESTEndpoints(t *testing.T) {
	Convey("REST 接口", t, func() {
		srv := newTestServer(t)
		c := &client{srv: srv}

		rec, env := c.json(http.MethodPost, "/api/v1/auth/register", map[string]string{
			"name": "Sara", "email": "sara@example.com", "password": "TestPass123",
		})
		So(rec.Code, ShouldEqual, http.StatusOK)
		So(env.Success, ShouldBeTrue)
		So(c.cookies, ShouldBeEmpty)

		Convey("错误密码返回 401", func() {
			rec, env := c.json(http.MethodPost, "/api/v1/auth/login", map[string]any{
				"login": "sara@example.com", "password": "WrongPass123",
			})
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
			So(env.Success, ShouldBeFalse)
		})

		Convey("使用 Bearer Token 访问", func() {
			rec, env := c.json(http.MethodPost, "/api/v1/auth/login", map[string]any{
				"login": "sara@example.com", "password": "TestPass123",
			})
			So(rec.Code, ShouldEqual, http.StatusOK)
			var login struct {
				Token string `json:"token"`
			}
			So(json.Unmarshal(env.Data, &login), ShouldBeNil)
			So(login.Token, ShouldHaveLength, 64)

			bearer := &client{srv: srv, bearer: login.Token}
			rec, env = bearer.json(http.MethodGet, "/api/v1/auth/me", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(string(env.Data), ShouldContainSubstring, "sara@example.com")

			Convey("轮换后旧 Token 失效", func() {
				rec, env = bearer.json(http.MethodPost, "/api/v1/auth/refresh", map[string]string{"token": login.Token})
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(bearer.cookies, ShouldHaveLength, 1)

				// 只用旧 Token 访问
				bearer.cookies = nil
				rec, _ = bearer.json(http.MethodGet, "/api/v1/auth/me", nil)
				So(rec.Code, ShouldEqual, http.StatusUnauthorized)
			})
		})

		Convey("帖子、点赞、评论", func() {
			_, _ = c.json(http.MethodPost, "/api/v1/auth/login", map[string]any{
				"login": "sara@example.com", "password": "TestPass123",
			})
			So(c.cookies, ShouldHaveLength, 1)

			rec, env := c.json(http.MethodPost, "/api/v1/posts", map[string]any{"title": "T", "content": "C"})
			So(rec.Code, ShouldEqual, http.StatusOK)
			var created struct {
				ID string `json:"id"`
			}
			So(json.Unmarshal(env.Data, &created), ShouldBeNil)

			rec, env = c.json(http.MethodPost, "/api/v1/posts/"+created.ID+"/like", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(string(env.Data), ShouldContainSubstring, `"liked":true`)

			rec, _ = c.json(http.MethodPost, "/api/v1/posts/"+created.ID+"/comments", map[string]any{"content": "hi"})
			So(rec.Code, ShouldEqual, http.StatusOK)

			rec, env = c.json(http.MethodGet, "/api/v1/posts/"+created.ID+"/comments", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			var comments []json.RawMessage
			So(json.Unmarshal(env.Data, &comments), ShouldBeNil)
			So(comments, ShouldHaveLength, 1)

			rec, env = c.json(http.MethodGet, "/api/v1/search?q=T&type=comments", nil)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)

			rec, env = c.json(http.MethodGet, "/api/v1/stats", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(string(env.Data), ShouldContainSubstring, `"total_posts":1`)
		})

		Convey("featured 不接受用户输入", func() {
			_, _ = c.json(http.MethodPost, "/api/v1/auth/login", map[string]any{
				"login": "sara@example.com", "password": "TestPass123",
			})

			rec, env := c.json(http.MethodPost, "/api/v1/posts", map[string]any{"title": "T", "content": "C", "featured": true})
			So(rec.Code, ShouldEqual, http.StatusOK)
			var created struct {
				ID string `json:"id"`
			}
			So(json.Unmarshal(env.Data, &created), ShouldBeNil)

			rec, _ = c.json(http.MethodPut, "/api/v1/posts/"+created.ID, map[string]any{"title": "T2", "content": "C2", "featured": true})
			So(rec.Code, ShouldEqual, http.StatusOK)

			rec, env = c.json(http.MethodGet, "/api/v1/posts/"+created.ID, nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(string(env.Data), ShouldContainSubstring, `"title":"T2"`)
			So(string(env.Data), ShouldContainSubstring, `"featured":false`)
		})

		Convey("上传头像", func() {
			_, _ = c.json(http.MethodPost, "/api/v1/auth/login", map[string]any{
				"login": "sara@example.com", "password": "TestPass123",
			})

			var body bytes.Buffer
			mw := multipart.NewWriter(&body)
			fw, _ := mw.CreateFormFile("avatar", "me.png")
			_, _ = fw.Write([]byte("\x89PNG"))
			_ = mw.Close()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/avatar", &body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			rec, env := c.do(req)
			So(rec.Code, ShouldEqual, http.StatusOK)
			var avatar struct {
				URL string `json:"url"`
			}
			So(json.Unmarshal(env.Data, &avatar), ShouldBeNil)
			So(avatar.URL, ShouldStartWith, "/uploads/avatars/")

			rec = httptest.NewRecorder()
			srv.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, avatar.URL, nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}
