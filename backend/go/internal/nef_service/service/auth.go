package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"NEF_Emulator/backend/go/internal/models"
	"NEF_Emulator/backend/go/internal/nef_service/store"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

const defaultTokenTTL = 8 * 24 * time.Hour

var (
	errBadCredentials = newError(ErrPermissionDenied, "Incorrect email or password")
	errInactiveUser   = newError(ErrPermissionDenied, "Inactive user")
	errInvalidToken   = newError(ErrUnauthorized, "Could not validate credentials")
)

// Token 是登录接口的响应体。
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// --- Login & Tokens ---

// Login 校验邮箱和密码，成功后签发访问令牌。
func (s *Service) Login(ctx context.Context, email, password string) (*Token, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, errBadCredentials
		}
		return nil, translate(err, nil, "get user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	if !user.IsActive {
		return nil, errInactiveUser
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logFor(ctx).Warn("更新最后登录时间失败: " + err.Error())
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: token, TokenType: "bearer"}, nil
}

// issueToken 为指定用户 ID 生成一个新的 JWT。
func (s *Service) issueToken(userID uint) (string, error) {
	ttl := defaultTokenTTL
	if s.auth.TokenTTL > 0 {
		ttl = time.Duration(s.auth.TokenTTL) * time.Second
	}
	now := s.now()
	claims := jwt.StandardClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    s.auth.Issuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("签发令牌失败: %w", err)
	}
	return signed, nil
}

// Authenticate 解析令牌并返回对应的活跃用户身份。
func (s *Service) Authenticate(ctx context.Context, tokenString string) (Caller, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// 确保 token 的签名方法是我们期望的
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("非预期的签名方法")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Caller{}, errInvalidToken
	}
	if s.auth.Issuer != "" && !claims.VerifyIssuer(s.auth.Issuer, true) {
		return Caller{}, errInvalidToken
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return Caller{}, errInvalidToken
	}

	user, err := s.store.GetUserByID(ctx, uint(id))
	if err != nil {
		if isRecordNotFound(err) {
			return Caller{}, errInvalidToken
		}
		return Caller{}, translate(err, nil, "get user")
	}
	if !user.IsActive {
		return Caller{}, errInactiveUser
	}
	return Caller{ID: user.ID, Email: user.Email, IsSuperuser: user.IsSuperuser}, nil
}

// --- Users ---

// EnsureFirstSuperuser 在启动时创建配置中的超级用户（如果还不存在）。
func (s *Service) EnsureFirstSuperuser(ctx context.Context) error {
	email := s.auth.FirstSuperuser
	if email == "" {
		return nil
	}
	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !isRecordNotFound(err) {
		return translate(err, nil, "get user")
	}
	if s.auth.FirstSuperuserPassword == "" {
		return newError(ErrInvalidInput, "first superuser password is not configured")
	}
	_, err = s.createUser(ctx, UserCreate{
		Email:       email,
		Password:    s.auth.FirstSuperuserPassword,
		IsSuperuser: true,
	})
	if err != nil {
		return err
	}
	s.logFor(ctx).Info("已创建初始超级用户: " + email)
	return nil
}

// CreateUser 由超级用户创建新账户。
func (s *Service) CreateUser(ctx context.Context, caller Caller, in UserCreate) (*models.User, error) {
	if !caller.IsSuperuser {
		return nil, newError(ErrPermissionDenied, "The user doesn't have enough privileges")
	}
	user, err := s.createUser(ctx, in)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, caller, models.EntityUser, models.ActionCreated, idKey(user.ID), user.ID, user)
	return user, nil
}

func (s *Service) createUser(ctx context.Context, in UserCreate) (*models.User, error) {
	if _, err := s.store.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, newError(ErrConflict, "The user with this username already exists in the system")
	} else if !isRecordNotFound(err) {
		return nil, translate(err, nil, "get user")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}
	user := &models.User{
		Email:          in.Email,
		FullName:       in.FullName,
		HashedPassword: string(hashed),
		IsActive:       true,
		IsSuperuser:    in.IsSuperuser,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, translate(err, nil, "create user")
	}
	return user, nil
}

// ListUsers 列出所有用户，仅超级用户可用。
func (s *Service) ListUsers(ctx context.Context, caller Caller, page store.Page) ([]models.User, error) {
	if !caller.IsSuperuser {
		return nil, newError(ErrPermissionDenied, "The user doesn't have enough privileges")
	}
	users, err := s.store.ListUsers(ctx, page)
	if err != nil {
		return nil, translate(err, nil, "list users")
	}
	return users, nil
}

// Me 返回调用者自己的资料。
func (s *Service) Me(ctx context.Context, caller Caller) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, caller.ID)
	if err != nil {
		return nil, translate(err, errUserNotFound, "get user")
	}
	return user, nil
}

// UpdateMe 修改调用者自己的姓名、密码或界面设置。
func (s *Service) UpdateMe(ctx context.Context, caller Caller, in UserUpdateMe) (*models.User, error) {
	user, err := s.Me(ctx, caller)
	if err != nil {
		return nil, err
	}
	setIf(&user.FullName, in.FullName)
	if in.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("密码哈希失败: %w", err)
		}
		user.HashedPassword = string(hashed)
	}
	// 缺省或显式 null 都表示不修改设置
	if settings := bytes.TrimSpace(in.Settings); len(settings) > 0 && !bytes.Equal(settings, []byte("null")) {
		user.Settings = datatypes.JSON(settings)
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, translate(err, nil, "update user")
	}
	s.emit(ctx, caller, models.EntityUser, models.ActionUpdated, idKey(user.ID), user.ID, nil)
	return user, nil
}
