package service

import (
	"context"
	"time"

	"NEF_Emulator/backend/go/internal/config"
	"NEF_Emulator/backend/go/internal/nef_service/store"
	"NEF_Emulator/backend/go/pkg/logger"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// Service 封装了 NEF 实体的业务逻辑：存在性校验、路径组装、所有权检查。
type Service struct {
	store  *store.Store
	auth   config.AuthConfig
	secret []byte

	cache  PathCache
	events EventSink
	audit  AuditReader
	log    *logger.Logger

	defaultLimit int
	now          func() time.Time
}

// Option 用于在创建 Service 时注入可选的依赖。
type Option func(*Service)

// WithPathCache 设置组装后路径的缓存。
func WithPathCache(c PathCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithEventSink 设置实体变更事件的输出目标。
func WithEventSink(e EventSink) Option {
	return func(s *Service) { s.events = e }
}

// WithAuditReader 设置审计历史的查询来源。
func WithAuditReader(r AuditReader) Option {
	return func(s *Service) { s.audit = r }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithDefaultLimit 设置列表接口未指定 limit 时的默认值。
func WithDefaultLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultLimit = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService 创建一个新的 Service 实例。
func NewService(st *store.Store, auth config.AuthConfig, opts ...Option) *Service {
	s := &Service{
		store:        st,
		auth:         auth,
		secret:       []byte(auth.JwtSecret),
		cache:        noopCache{},
		events:       noopSink{},
		log:          logger.New("nef_service", "", ""),
		defaultLimit: defaultListLimit,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Caller 是经过认证的调用者身份，由认证中间件解析后传入。
type Caller struct {
	ID          uint
	Email       string
	IsSuperuser bool
}

// Owned 是带有所有者的实体。
type Owned interface {
	GetOwnerID() uint
}

// Authorize 判断 caller 能否访问 ownerID 所拥有的资源：超级用户或所有者本人。
func Authorize(caller Caller, ownerID uint) error {
	if caller.IsSuperuser || caller.ID == ownerID {
		return nil
	}
	return errNotEnoughPermissions
}

// AuthorizeOwned 是 Authorize 针对 Owned 实体的便捷版本。
func AuthorizeOwned(caller Caller, o Owned) error {
	return Authorize(caller, o.GetOwnerID())
}

// ownerFilter 返回列表查询的所有者过滤条件，超级用户不过滤。
func ownerFilter(caller Caller) *uint {
	if caller.IsSuperuser {
		return nil
	}
	id := caller.ID
	return &id
}

// Page 规范化 skip/limit：负数归零，limit 为 0 时使用默认值，并设置上限。
func (s *Service) Page(skip, limit int) store.Page {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return store.Page{Skip: skip, Limit: limit}
}

type traceKey struct{}

// WithTraceID 把请求的 trace id 放入 context，事件和日志会带上它。
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceIDFromContext 取出 WithTraceID 设置的 trace id。
func TraceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

func (s *Service) logFor(ctx context.Context) *logger.Logger {
	if id := TraceIDFromContext(ctx); id != "" {
		return s.log.WithTrace(id)
	}
	return s.log
}
