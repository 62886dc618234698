package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"mujtama/internal/pkg/ctxutil"
	"mujtama/internal/pkg/jwt"
	"mujtama/internal/service"
)

// CookieOptions 会话 Cookie 参数
type CookieOptions struct {
	Name   string
	Secure bool
}

// Session 会话中间件
// 从签名 Cookie 还原请求会话，没有 Cookie 时尝试 Authorization: Bearer <会话Token>；
// 会话在本次请求中发生变化时，在响应头写出前回写（或清除）Cookie。
func Session(authService *service.AuthService, codec *jwt.Codec, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sess := &ctxutil.Session{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		if raw, err := c.Cookie(opts.Name); err == nil && raw != "" {
			claims, err := codec.DecodeSession(raw)
			switch {
			case err == nil, errors.Is(err, jwt.ErrExpiredToken):
				// 过期的 Cookie 也还原，由 AuthService 负责注销
				sess.UserID = claims.UserID
				sess.Token = claims.Token
				sess.Expires = claims.Expires
			default:
				log.Debug().Err(err).Msg("discarding invalid session cookie")
				sess.Dirty = true
			}
		} else if token := bearerToken(c); token != "" {
			authService.ResumeBearer(ctx, sess, token)
		}

		w := &sessionWriter{ResponseWriter: c.Writer, sess: sess, codec: codec, opts: opts}
		c.Writer = w
		c.Set("session", sess)
		c.Request = c.Request.WithContext(ctxutil.WithSession(ctx, sess))

		c.Next()

		if !w.Written() {
			w.commit()
		}
	}
}

// sessionWriter 在第一次写响应前回写会话 Cookie
type sessionWriter struct {
	gin.ResponseWriter
	sess      *ctxutil.Session
	codec     *jwt.Codec
	opts      CookieOptions
	committed bool
}

func (w *sessionWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true
	if !w.sess.Dirty {
		return
	}

	cookie := &http.Cookie{
		Name:     w.opts.Name,
		Path:     "/",
		HttpOnly: true,
		Secure:   w.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if w.sess.Empty() {
		cookie.MaxAge = -1
	} else {
		value, err := w.codec.EncodeSession(w.sess.UserID, w.sess.Token, w.sess.Expires)
		if err != nil {
			log.Error().Err(err).Msg("failed to sign session cookie")
			return
		}
		cookie.Value = value
		cookie.Expires = time.Unix(w.sess.Expires, 0)
		cookie.MaxAge = int(time.Until(cookie.Expires).Seconds())
	}
	http.SetCookie(w.ResponseWriter, cookie)
}

func (w *sessionWriter) WriteHeaderNow() {
	w.commit()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(data []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(data)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	w.commit()
	return w.ResponseWriter.WriteString(s)
}
