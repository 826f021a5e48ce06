package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"NEF_Emulator/backend/go/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditStore 把实体变更事件作为审计记录保存到 MongoDB。
type AuditStore struct {
	coll *mongo.Collection
}

// NewAuditStore 创建 AuditStore，并确保 (entity, key, occurred_at) 索引存在。
func NewAuditStore(ctx context.Context, c *mongo.Client, database, collection string) (*AuditStore, error) {
	coll := c.Database(database).Collection(collection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "entity", Value: 1},
			{Key: "key", Value: 1},
			{Key: "occurred_at", Value: -1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("创建审计索引失败: %w", err)
	}
	return &AuditStore{coll: coll}, nil
}

// auditRecord 是审计集合中的文档。payload 先经过 JSON 编码再转成 bson.M，
// 这样保存的字段名与 API 返回的 JSON 一致，读出后也不会变成 primitive.D。
type auditRecord struct {
	ID         string             `bson:"_id"`
	Entity     models.EntityKind  `bson:"entity"`
	Action     models.EventAction `bson:"action"`
	Key        string             `bson:"key"`
	OwnerID    uint               `bson:"owner_id"`
	ActorID    uint               `bson:"actor_id"`
	TraceID    string             `bson:"trace_id,omitempty"`
	Payload    bson.M             `bson:"payload,omitempty"`
	OccurredAt time.Time          `bson:"occurred_at"`
}

func newAuditRecord(ev *models.EntityEvent) (*auditRecord, error) {
	rec := &auditRecord{
		ID:         ev.ID,
		Entity:     ev.Entity,
		Action:     ev.Action,
		Key:        ev.Key,
		OwnerID:    ev.OwnerID,
		ActorID:    ev.ActorID,
		TraceID:    ev.TraceID,
		OccurredAt: ev.OccurredAt,
	}
	if ev.Payload == nil {
		return rec, nil
	}
	raw, err := json.Marshal(ev.Payload)
	if err != nil {
		return nil, fmt.Errorf("编码审计 payload 失败: %w", err)
	}
	if string(raw) == "null" {
		return rec, nil
	}
	if err := json.Unmarshal(raw, &rec.Payload); err != nil {
		return nil, fmt.Errorf("审计 payload 必须是 JSON 对象: %w", err)
	}
	return rec, nil
}

func (r *auditRecord) event() models.EntityEvent {
	ev := models.EntityEvent{
		ID:         r.ID,
		Entity:     r.Entity,
		Action:     r.Action,
		Key:        r.Key,
		OwnerID:    r.OwnerID,
		ActorID:    r.ActorID,
		TraceID:    r.TraceID,
		OccurredAt: r.OccurredAt,
	}
	if r.Payload != nil {
		ev.Payload = plainValue(r.Payload)
	}
	return ev
}

// plainValue 把解码得到的 bson 文档和数组转换为普通的 map 和切片，
// 嵌套文档在不同的解码上下文里可能是 primitive.D。
func plainValue(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = plainValue(e)
		}
		return out
	case bson.D:
		out := make(map[string]interface{}, len(t))
		for _, e := range t {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = plainValue(e)
		}
		return out
	default:
		return v
	}
}

// Publish 写入一条审计记录。
func (s *AuditStore) Publish(ctx context.Context, ev *models.EntityEvent) error {
	rec, err := newAuditRecord(ev)
	if err != nil {
		return err
	}
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("写入审计记录失败: %w", err)
	}
	return nil
}

// History 按时间倒序返回某个实体最近的审计记录。
func (s *AuditStore) History(ctx context.Context, entity models.EntityKind, key string, limit int64) ([]models.EntityEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}}).SetLimit(limit)
	cursor, err := s.coll.Find(ctx, bson.M{"entity": entity, "key": key}, opts)
	if err != nil {
		return nil, fmt.Errorf("查询审计记录失败: %w", err)
	}
	defer cursor.Close(ctx)

	var records []auditRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("解析审计记录失败: %w", err)
	}
	events := make([]models.EntityEvent, 0, len(records))
	for i := range records {
		events = append(events, records[i].event())
	}
	return events, nil
}
