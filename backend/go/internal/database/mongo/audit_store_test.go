package mongo

import (
	"encoding/json"
	"testing"
	"time"

	"NEF_Emulator/backend/go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestAuditRecord_PayloadKeepsAPIFieldNames(t *testing.T) {
	ue := &models.UE{
		SUPI:          "202010000000001",
		ExtIdentifier: "ue1@nef",
		GNBID:         1,
		CellID:        2,
		PathID:        3,
		Speed:         models.SpeedLow,
		OwnerID:       7,
	}
	ev := &models.EntityEvent{
		ID:         "ev-1",
		Entity:     models.EntityUE,
		Action:     models.ActionCreated,
		Key:        ue.SUPI,
		OwnerID:    7,
		ActorID:    7,
		Payload:    ue,
		OccurredAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	rec, err := newAuditRecord(ev)
	require.NoError(t, err)
	raw, err := bson.Marshal(rec)
	require.NoError(t, err)

	var back auditRecord
	require.NoError(t, bson.Unmarshal(raw, &back))
	got := back.event()

	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, ev.Entity, got.Entity)
	assert.True(t, ev.OccurredAt.Equal(got.OccurredAt))

	out, err := json.Marshal(got.Payload)
	require.NoError(t, err)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &payload))
	assert.Equal(t, "202010000000001", payload["supi"])
	assert.Equal(t, "ue1@nef", payload["ext_identifier"])
	assert.EqualValues(t, 1, payload["gNB_id"])
	assert.EqualValues(t, 2, payload["Cell_id"])
	assert.Equal(t, "LOW", payload["speed"])
	assert.NotContains(t, payload, "gnbid")
}

func TestAuditRecord_NestedPayload(t *testing.T) {
	view := &models.PathView{
		ID:         4,
		StartPoint: models.Coordinate{Latitude: 1, Longitude: 2},
		Points:     []models.Coordinate{{Latitude: 3, Longitude: 4}},
	}
	rec, err := newAuditRecord(&models.EntityEvent{ID: "ev-2", Entity: models.EntityPath, Payload: view})
	require.NoError(t, err)
	raw, err := bson.Marshal(rec)
	require.NoError(t, err)

	var back auditRecord
	require.NoError(t, bson.Unmarshal(raw, &back))
	out, err := json.Marshal(back.event().Payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":4,"description":"","color":"","owner_id":0,
		"start_point":{"latitude":1,"longitude":2},
		"end_point":{"latitude":0,"longitude":0},
		"points":[{"latitude":3,"longitude":4}]}`, string(out))
}

func TestAuditRecord_NilPayload(t *testing.T) {
	rec, err := newAuditRecord(&models.EntityEvent{ID: "ev-3", Action: models.ActionDeleted})
	require.NoError(t, err)
	assert.Nil(t, rec.Payload)
	assert.Nil(t, rec.event().Payload)
}
