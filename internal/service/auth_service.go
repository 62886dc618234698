package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"mujtama/internal/config"
	model "mujtama/internal/model/community"
	"mujtama/internal/pkg/apperr"
	"mujtama/internal/pkg/ctxutil"
	"mujtama/internal/pkg/jwt"
	"mujtama/internal/pkg/password"
	"mujtama/internal/repository/community"
)

var (
	ErrWeakPassword       = apperr.Validation("كلمة المرور يجب أن تكون 8 أحرف على الأقل وتحتوي على حرف كبير وحرف صغير ورقم")
	ErrNameRequired       = apperr.Validation("الاسم مطلوب")
	ErrInvalidEmail       = apperr.Validation("البريد الإلكتروني غير صالح")
	ErrInvalidPhone       = apperr.Validation("رقم الهاتف غير صالح")
	ErrRegistrationClosed = apperr.Validation("التسجيل مغلق حالياً")
	ErrUserNotFound       = apperr.Validation("المستخدم غير موجود")
	ErrInvalidResetToken  = apperr.Validation("رابط إعادة تعيين كلمة المرور غير صالح أو منتهي الصلاحية")
	ErrInvalidCredentials = apperr.Authentication("بيانات الدخول غير صحيحة")
	ErrAccountInactive    = apperr.Authentication("الحساب غير مفعل")
	ErrNotLoggedIn        = apperr.Authentication("يجب تسجيل الدخول أولاً")
	ErrSessionExpired     = apperr.Authentication("انتهت صلاحية الجلسة، يرجى تسجيل الدخول مرة أخرى")
	ErrInvalidSession     = apperr.Authentication("الجلسة غير صالحة")
	ErrInvalidToken       = apperr.Authentication("الرمز غير صالح أو منتهي الصلاحية")
	ErrWrongPassword      = apperr.Authentication("كلمة المرور الحالية غير صحيحة")
)

const (
	defaultSessionTTL  = 24 * time.Hour
	defaultRememberTTL = 30 * 24 * time.Hour
	defaultVerifyTTL   = 48 * time.Hour
	defaultResetTTL    = time.Hour
)

// AuthService 认证服务
// 会话状态保存在两处：服务端 sessions 集合（每个用户一条）和请求级 ctxutil.Session（由 Cookie 还原）
type AuthService struct {
	db       *community.Database
	hasher   *password.Hasher
	codec    *jwt.Codec
	mail     *MailService
	validate *validator.Validate

	sessionTTL  time.Duration
	rememberTTL time.Duration
	verifyTTL   time.Duration
	resetTTL    time.Duration

	now func() time.Time
}

// NewAuthService 创建认证服务
func NewAuthService(db *community.Database, codec *jwt.Codec, mail *MailService, cfg *config.AuthConfig) *AuthService {
	s := &AuthService{
		db:    db,
		codec: codec,
		mail:  mail,
		hasher: password.NewHasher(password.Params{
			Time:    cfg.Argon2.Time,
			Memory:  cfg.Argon2.Memory,
			Threads: cfg.Argon2.Threads,
			KeyLen:  cfg.Argon2.KeyLen,
			SaltLen: cfg.Argon2.SaltLen,
		}),
		validate:    newValidator(),
		sessionTTL:  orDefault(cfg.SessionTTL, defaultSessionTTL),
		rememberTTL: orDefault(cfg.RememberTTL, defaultRememberTTL),
		verifyTTL:   orDefault(cfg.VerifyTTL, defaultVerifyTTL),
		resetTTL:    orDefault(cfg.ResetTTL, defaultResetTTL),
		now:         func() time.Time { return time.Now().UTC() },
	}
	return s
}

// WithClock 注入时钟（测试用）
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Register 用户注册
// 仅手机号注册（无邮箱）时自动登录
func (s *AuthService) Register(ctx context.Context, sess *ctxutil.Session, name, email, phone, pwd string) (string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)

	if !s.db.GetSettings(ctx).AllowRegistration {
		return "", ErrRegistrationClosed
	}
	if name == "" {
		return "", ErrNameRequired
	}
	if email == "" && phone == "" {
		return "", community.ErrMissingContact
	}
	if email != "" && s.validate.Var(email, "email") != nil {
		return "", ErrInvalidEmail
	}
	if phone != "" && s.validate.Var(phone, "phone") != nil {
		return "", ErrInvalidPhone
	}
	if !password.IsStrong(pwd) {
		return "", ErrWeakPassword
	}
	if s.db.UserExistsByEmail(ctx, email) {
		return "", community.ErrEmailTaken
	}
	if s.db.UserExistsByPhone(ctx, phone) {
		return "", community.ErrPhoneTaken
	}

	hash, err := s.hasher.Hash(pwd)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return "", err
	}

	userID, err := s.db.CreateUser(ctx, name, email, phone, hash, model.DefaultAvatar)
	if err != nil {
		return "", err
	}
	log.Info().Str("user_id", userID).Bool("phone_only", email == "").Msg("user registered")

	if email == "" {
		if err := s.startSession(ctx, sess, userID, false); err != nil {
			return "", err
		}
	}
	return userID, nil
}

// Login 用户登录，login 可以是邮箱或手机号
// 成功后覆盖该用户已有的服务端会话（每个用户只有一个活动会话）
func (s *AuthService) Login(ctx context.Context, sess *ctxutil.Session, login, pwd string, remember bool) (*model.User, error) {
	login = strings.TrimSpace(login)

	user := s.db.GetUserByEmail(ctx, login)
	if user == nil {
		user = s.db.GetUserByPhone(ctx, login)
	}
	if user == nil || !s.hasher.Verify(pwd, user.Password) {
		log.Info().Msg("login failed: bad credentials")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		log.Info().Str("user_id", user.ID).Msg("login rejected: inactive account")
		return nil, ErrAccountInactive
	}

	if err := s.startSession(ctx, sess, user.ID, remember); err != nil {
		return nil, err
	}

	if _, err := s.db.UpdateUserLastLogin(ctx, user.ID); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login time")
	}
	s.rehashIfNeeded(ctx, user.ID, pwd, user.Password)

	log.Info().Str("user_id", user.ID).Bool("remember", remember).Msg("user logged in")

	if fresh := s.db.GetUserByID(ctx, user.ID); fresh != nil {
		return fresh.Sanitized(), nil
	}
	return user.Sanitized(), nil
}

// startSession 生成新的会话 Token，写入服务端会话并更新请求会话
func (s *AuthService) startSession(ctx context.Context, sess *ctxutil.Session, userID string, remember bool) error {
	ttl := s.sessionTTL
	if remember {
		ttl = s.rememberTTL
	}
	now := s.now()
	token := jwt.GenerateToken()
	expires := now.Add(ttl).Unix()

	record := model.Session{
		Token:     token,
		Expires:   expires,
		CreatedAt: now,
		IPAddress: sess.IPAddress,
		UserAgent: sess.UserAgent,
	}
	if err := s.db.SaveSession(ctx, userID, record); err != nil {
		return err
	}
	sess.Set(userID, token, expires)
	return nil
}

// rehashIfNeeded 登录成功后把旧参数（或 bcrypt）哈希升级为当前参数
func (s *AuthService) rehashIfNeeded(ctx context.Context, userID, pwd, encoded string) {
	if !s.hasher.NeedsRehash(encoded) {
		return
	}
	hash, err := s.hasher.Hash(pwd)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to rehash password")
		return
	}
	if _, err := s.db.UpdateUserPassword(ctx, userID, hash); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to store rehashed password")
	}
}

// Logout 删除服务端会话并清空请求会话
func (s *AuthService) Logout(ctx context.Context, sess *ctxutil.Session) error {
	userID := sess.UserID
	sess.Clear()
	if userID == "" {
		return nil
	}
	if err := s.db.DeleteSession(ctx, userID); err != nil {
		return err
	}
	log.Info().Str("user_id", userID).Msg("user logged out")
	return nil
}

// ValidateSession 校验请求会话：过期、服务端会话缺失或 Token 不匹配时注销
func (s *AuthService) ValidateSession(ctx context.Context, sess *ctxutil.Session) error {
	if sess.Empty() {
		return ErrNotLoggedIn
	}

	now := s.now().Unix()
	stored := s.db.GetSession(ctx, sess.UserID)
	matches := stored != nil && stored.Token == sess.Token

	if sess.Expires < now || (matches && stored.IsExpired(time.Unix(now, 0))) {
		// 只删除属于这个 Token 的服务端会话，不影响同一用户在别处的新登录
		if matches {
			if err := s.db.DeleteSession(ctx, sess.UserID); err != nil {
				log.Warn().Err(err).Msg("failed to delete expired session")
			}
		}
		sess.Clear()
		return ErrSessionExpired
	}
	if !matches {
		sess.Clear()
		return ErrInvalidSession
	}
	return nil
}

// IsLoggedIn 请求会话是否有效
func (s *AuthService) IsLoggedIn(ctx context.Context, sess *ctxutil.Session) bool {
	return s.ValidateSession(ctx, sess) == nil
}

// CurrentUserID 当前登录用户ID
func (s *AuthService) CurrentUserID(ctx context.Context, sess *ctxutil.Session) (string, error) {
	if err := s.ValidateSession(ctx, sess); err != nil {
		return "", err
	}
	return sess.UserID, nil
}

// CurrentUser 当前登录用户（不含密码）
func (s *AuthService) CurrentUser(ctx context.Context, sess *ctxutil.Session) (*model.User, error) {
	userID, err := s.CurrentUserID(ctx, sess)
	if err != nil {
		return nil, err
	}
	user := s.db.GetUserByID(ctx, userID)
	if user == nil {
		if err := s.Logout(ctx, sess); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("failed to drop session of missing user")
		}
		return nil, ErrNotLoggedIn
	}
	return user.Sanitized(), nil
}

// RefreshToken 轮换会话 Token：旧 Token 必须匹配一个未过期的会话，轮换后旧 Token 立即失效
func (s *AuthService) RefreshToken(ctx context.Context, sess *ctxutil.Session, oldToken string) (string, error) {
	userID, stored := s.db.FindSessionByToken(ctx, oldToken)
	if stored == nil {
		return "", ErrInvalidToken
	}

	newToken := jwt.GenerateToken()
	ok, err := s.db.ReplaceSessionToken(ctx, userID, oldToken, newToken)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidToken
	}

	if sess.UserID == "" || sess.UserID == userID {
		sess.Set(userID, newToken, stored.Expires)
	}
	log.Debug().Str("user_id", userID).Msg("session token rotated")
	return newToken, nil
}

// ChangePassword 修改密码（需要验证当前密码）
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, newPwd string) error {
	user := s.db.GetUserByID(ctx, userID)
	if user == nil {
		return ErrUserNotFound
	}
	if !s.hasher.Verify(current, user.Password) {
		return ErrWrongPassword
	}
	if err := s.setPassword(ctx, userID, newPwd); err != nil {
		return err
	}
	log.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// ResetPassword 按邮箱直接重置密码（运维命令使用，不校验重置 Token）
func (s *AuthService) ResetPassword(ctx context.Context, email, newPwd string) error {
	user := s.db.GetUserByEmail(ctx, strings.TrimSpace(email))
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.setPassword(ctx, user.ID, newPwd); err != nil {
		return err
	}
	log.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

func (s *AuthService) setPassword(ctx context.Context, userID, pwd string) error {
	if !password.IsStrong(pwd) {
		return ErrWeakPassword
	}
	hash, err := s.hasher.Hash(pwd)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return err
	}
	ok, err := s.db.UpdateUserPassword(ctx, userID, hash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// RequestPasswordReset 生成重置 Token 并发送邮件
// 邮箱未注册时同样返回成功，不泄露账号是否存在
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if s.validate.Var(email, "required,email") != nil {
		return ErrInvalidEmail
	}
	if !s.db.UserExistsByEmail(ctx, email) {
		log.Debug().Msg("password reset requested for unknown email")
		return nil
	}

	token := jwt.GenerateToken()
	expires := s.now().Add(s.resetTTL).Unix()
	if err := s.db.StorePasswordResetToken(ctx, email, token, expires); err != nil {
		return err
	}
	return s.mail.SendPasswordReset(ctx, email, token)
}

// ResetPasswordWithToken 使用重置 Token 设置新密码，成功后 Token 作废
func (s *AuthService) ResetPasswordWithToken(ctx context.Context, token, newPwd string) error {
	email, ok := s.db.GetEmailByResetToken(ctx, token)
	if !ok {
		return ErrInvalidResetToken
	}
	if !password.IsStrong(newPwd) {
		return ErrWeakPassword
	}
	if err := s.ResetPassword(ctx, email, newPwd); err != nil {
		return err
	}
	return s.db.DeletePasswordResetToken(ctx, token)
}

// SendVerificationEmail 给邮箱用户发送验证链接；已验证用户直接返回
func (s *AuthService) SendVerificationEmail(ctx context.Context, userID string) error {
	user := s.db.GetUserByID(ctx, userID)
	if user == nil {
		return ErrUserNotFound
	}
	if user.IsVerified || user.Email == "" {
		return nil
	}

	token, err := s.codec.EncodeVerification(user.ID, user.Email, s.verifyTTL)
	if err != nil {
		log.Error().Err(err).Msg("failed to sign verification token")
		return err
	}
	return s.mail.SendVerification(ctx, user.Email, token)
}

// VerifyEmail 校验验证 Token，只标记 Token 所属的用户
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.codec.DecodeVerification(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			log.Debug().Msg("expired verification token")
		}
		return ErrInvalidToken
	}

	user := s.db.GetUserByID(ctx, claims.UserID)
	if user == nil || user.Email != claims.Email {
		return ErrInvalidToken
	}

	if _, err := s.db.SetUserVerified(ctx, user.ID); err != nil {
		return err
	}
	log.Info().Str("user_id", user.ID).Msg("email verified")
	return nil
}

// SetUserActive 启用/停用账号（运维命令使用）；停用时同时删除其会话
func (s *AuthService) SetUserActive(ctx context.Context, login string, active bool) (*model.User, error) {
	user := s.db.GetUserByEmail(ctx, login)
	if user == nil {
		user = s.db.GetUserByPhone(ctx, login)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if _, err := s.db.SetUserActive(ctx, user.ID, active); err != nil {
		return nil, err
	}
	if !active {
		if err := s.db.DeleteSession(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	user.IsActive = active
	log.Info().Str("user_id", user.ID).Bool("active", active).Msg("account status changed")
	return user.Sanitized(), nil
}

// ResumeBearer 用客户端持有的会话 Token（Authorization: Bearer）还原请求会话
func (s *AuthService) ResumeBearer(ctx context.Context, sess *ctxutil.Session, token string) bool {
	userID, stored := s.db.FindSessionByToken(ctx, token)
	if stored == nil {
		return false
	}
	sess.UserID = userID
	sess.Token = stored.Token
	sess.Expires = stored.Expires
	return true
}

// 手机号：可选 + 前缀，7 到 15 位数字，允许空格、短横线和括号分隔；本地格式（如 0501234567）也接受
var (
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(phoneSeparators.Replace(fl.Field().String()))
	})
	return v
}
