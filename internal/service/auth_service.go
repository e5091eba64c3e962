package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"academic-calendar/backend/internal/dto"
	"academic-calendar/backend/pkg/jwt"
)

// ErrInvalidCredentials 不区分用户名还是密码错误
var ErrInvalidCredentials = errors.New("Invalid credentials")

// AdminGate 管理员凭据校验能力，由调用方注入
type AdminGate func(username, password string) bool

// NewBcryptAdminGate 用户名常量时间比较，密码与 bcrypt 哈希比对
func NewBcryptAdminGate(username, passwordHash string) AdminGate {
	return func(u, p string) bool {
		userOK := subtle.ConstantTimeCompare([]byte(u), []byte(username)) == 1
		// 用户名不匹配也执行 bcrypt，避免响应时间泄露用户名
		passOK := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(p)) == nil
		return userOK && passOK
	}
}

// TokenRevoker 撤销已签发的 Token
type TokenRevoker interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 编辑模式解锁 / 锁定
type AuthService interface {
	Unlock(ctx context.Context, req *dto.UnlockRequest) (*dto.UnlockResponse, error)
	// Lock 撤销当前 Token；jti 为空或已过期时直接返回
	Lock(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	gate    AdminGate
	jwtMgr  *jwt.Manager
	revoker TokenRevoker
	logger  *zap.Logger
}

// NewAuthService 创建 AuthService 实例；revoker 为 nil 时锁定只在客户端生效
func NewAuthService(
	gate AdminGate,
	jwtMgr *jwt.Manager,
	revoker TokenRevoker,
	logger *zap.Logger,
) AuthService {
	return &authService{
		gate:    gate,
		jwtMgr:  jwtMgr,
		revoker: revoker,
		logger:  logger,
	}
}

func (s *authService) Unlock(_ context.Context, req *dto.UnlockRequest) (*dto.UnlockResponse, error) {
	if s.gate == nil || !s.gate(req.Username, req.Password) {
		s.logger.Warn("解锁失败：凭据错误")
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtMgr.GenerateAccessToken(req.Username, jwt.RoleAdmin)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("编辑模式已解锁", zap.String("username", req.Username))
	return &dto.UnlockResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Username:    req.Username,
	}, nil
}

func (s *authService) Lock(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return nil
	}
	if s.revoker == nil {
		s.logger.Warn("未配置 Token 黑名单，锁定仅在客户端生效")
		return nil
	}
	if err := s.revoker.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.Error(err))
		return err
	}
	s.logger.Info("编辑模式已锁定")
	return nil
}
