package service

import (
	"context"
	"errors"
	"time"

	"NEF_Emulator/backend/go/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const publishTimeout = 5 * time.Second

// EventSink 接收实体变更事件。kafka.EventPublisher 和 mongo.AuditStore 都实现了它。
type EventSink interface {
	Publish(ctx context.Context, ev *models.EntityEvent) error
}

// AuditReader 按实体查询审计历史。
type AuditReader interface {
	History(ctx context.Context, entity models.EntityKind, key string, limit int64) ([]models.EntityEvent, error)
}

type noopSink struct{}

func (noopSink) Publish(context.Context, *models.EntityEvent) error { return nil }

// MultiSink 把同一个事件并发发送给所有 sink，并合并它们的错误。
// 一个 sink 失败不会取消其它 sink。
type MultiSink []EventSink

func (m MultiSink) Publish(ctx context.Context, ev *models.EntityEvent) error {
	errs := make([]error, len(m))
	var g errgroup.Group
	for i, sink := range m {
		i, sink := i, sink
		g.Go(func() error {
			errs[i] = sink.Publish(ctx, ev)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// emit 在写操作提交后发送事件。发送失败只记录日志，不影响请求结果。
func (s *Service) emit(ctx context.Context, caller Caller, kind models.EntityKind, action models.EventAction, key string, ownerID uint, payload interface{}) {
	ev := &models.EntityEvent{
		ID:         uuid.NewString(),
		Entity:     kind,
		Action:     action,
		Key:        key,
		OwnerID:    ownerID,
		ActorID:    caller.ID,
		TraceID:    TraceIDFromContext(ctx),
		Payload:    payload,
		OccurredAt: s.now().UTC(),
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.events.Publish(pubCtx, ev); err != nil {
		s.logFor(ctx).WithPayload(map[string]interface{}{
			"entity": kind,
			"action": action,
			"key":    key,
		}).Warn("发送实体变更事件失败: " + err.Error())
	}
}

// AuditHistory 返回某个实体的变更历史，仅超级用户可用。未启用审计时返回 ErrUnavailable。
func (s *Service) AuditHistory(ctx context.Context, caller Caller, kind models.EntityKind, key string, limit int) ([]models.EntityEvent, error) {
	if !caller.IsSuperuser {
		return nil, errNotEnoughPermissions
	}
	if s.audit == nil {
		return nil, newError(ErrUnavailable, "Audit trail is not enabled")
	}
	switch kind {
	case models.EntityUE, models.EntityPath, models.EntityGNB, models.EntityCell, models.EntityUser:
	default:
		return nil, newError(ErrInvalidInput, "Unknown entity type")
	}
	events, err := s.audit.History(ctx, kind, key, int64(s.Page(0, limit).Limit))
	if err != nil {
		return nil, translate(err, nil, "audit history")
	}
	return events, nil
}
