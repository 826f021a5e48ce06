package models

import "time"

// EntityKind 标识发生变更的实体类型。
type EntityKind string

const (
	EntityUE   EntityKind = "ue"
	EntityPath EntityKind = "path"
	EntityGNB  EntityKind = "gNB"
	EntityCell EntityKind = "Cell"
	EntityUser EntityKind = "user"
)

// EventAction 是对实体执行的操作。
type EventAction string

const (
	ActionCreated EventAction = "created"
	ActionUpdated EventAction = "updated"
	ActionDeleted EventAction = "deleted"
)

// EntityEvent 描述一次实体变更。它被发送到 Kafka 主题，并作为审计记录写入 MongoDB。
type EntityEvent struct {
	ID         string      `json:"id" bson:"_id"`
	Entity     EntityKind  `json:"entity" bson:"entity"`
	Action     EventAction `json:"action" bson:"action"`
	Key        string      `json:"key" bson:"key"` // SUPI 或数字 ID
	OwnerID    uint        `json:"owner_id" bson:"owner_id"`
	ActorID    uint        `json:"actor_id" bson:"actor_id"`
	TraceID    string      `json:"trace_id,omitempty" bson:"trace_id,omitempty"`
	Payload    interface{} `json:"payload,omitempty" bson:"payload,omitempty"`
	OccurredAt time.Time   `json:"occurred_at" bson:"occurred_at"`
}
