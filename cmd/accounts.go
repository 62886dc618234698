package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mujtama/internal/pkg/ctxutil"
	"mujtama/internal/pkg/jwt"
	"mujtama/internal/repository/community"
	"mujtama/internal/server"
	"mujtama/internal/service"
)

// 账号运维命令直接读写文档存储，file 驱动下请在服务停止时执行

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create an initial account",
	Long: `Create an initial account if no user with the same email/phone exists.
Values can also be provided with MUJTAMA_SEED_NAME, MUJTAMA_SEED_EMAIL,
MUJTAMA_SEED_PHONE and MUJTAMA_SEED_PASSWORD.`,
	RunE: runSeed,
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password for the account with the given email",
	RunE:  runResetPassword,
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var activateCmd = &cobra.Command{
	Use:   "activate <email|phone>",
	Short: "Allow the account to log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetActive(cmd.Context(), args[0], true)
	},
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate <email|phone>",
	Short: "Block the account from logging in and drop its session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetActive(cmd.Context(), args[0], false)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd, resetPasswordCmd, userCmd)
	userCmd.AddCommand(activateCmd, deactivateCmd)

	seedFlags := seedCmd.Flags()
	seedFlags.String("name", "مدير الموقع", "display name")
	seedFlags.String("email", "", "email address")
	seedFlags.String("phone", "", "phone number in E.164 format")
	seedFlags.String("password", "", "password (min 8 chars, upper, lower and digit)")
	_ = viper.BindPFlag("seed.name", seedFlags.Lookup("name"))
	_ = viper.BindPFlag("seed.email", seedFlags.Lookup("email"))
	_ = viper.BindPFlag("seed.phone", seedFlags.Lookup("phone"))
	_ = viper.BindPFlag("seed.password", seedFlags.Lookup("password"))

	resetFlags := resetPasswordCmd.Flags()
	resetFlags.String("email", "", "account email")
	resetFlags.String("password", "", "new password")
	_ = resetPasswordCmd.MarkFlagRequired("email")
	_ = resetPasswordCmd.MarkFlagRequired("password")
}

// openAuthService 打开文档存储并创建认证服务
func openAuthService(ctx context.Context) (*service.AuthService, func(), error) {
	cfg := GetConfig()
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, client, err := server.OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if client != nil {
			if err := client.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
	}

	// 运维命令不签发 Cookie，签名密钥只用于生成验证链接
	secret := cfg.Auth.CookieSecret
	if secret == "" {
		secret = jwt.GenerateToken()
	}
	auth := service.NewAuthService(db, jwt.NewCodec(secret), service.NewMailService(cfg.Server.BaseURL), &cfg.Auth)
	return auth, cleanup, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	auth, cleanup, err := openAuthService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	name := viper.GetString("seed.name")
	email := viper.GetString("seed.email")
	phone := viper.GetString("seed.phone")
	pwd := viper.GetString("seed.password")
	if pwd == "" {
		return errors.New("seed password is required (--password or MUJTAMA_SEED_PASSWORD)")
	}

	// 运维命令没有请求会话，手机号注册产生的会话随即删除
	sess := &ctxutil.Session{}
	userID, err := auth.Register(ctx, sess, name, email, phone, pwd)
	switch {
	case errors.Is(err, community.ErrEmailTaken), errors.Is(err, community.ErrPhoneTaken):
		log.Info().Str("email", email).Str("phone", phone).Msg("account already exists, skipping")
		return nil
	case err != nil:
		return fmt.Errorf("failed to create account: %w", err)
	}
	if err := auth.Logout(ctx, sess); err != nil {
		log.Warn().Err(err).Msg("failed to drop seed session")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "account created: %s\n", userID)
	return nil
}

func runResetPassword(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	auth, cleanup, err := openAuthService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	email, _ := cmd.Flags().GetString("email")
	pwd, _ := cmd.Flags().GetString("password")
	if err := auth.ResetPassword(ctx, email, pwd); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "password updated")
	return nil
}

func runSetActive(ctx context.Context, login string, active bool) error {
	auth, cleanup, err := openAuthService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := auth.SetUserActive(ctx, login, active)
	if err != nil {
		return err
	}
	log.Info().Str("user_id", user.ID).Bool("active", user.IsActive).Msg("account updated")
	return nil
}
