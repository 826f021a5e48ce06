package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"NEF_Emulator/backend/go/internal/config"
	"NEF_Emulator/backend/go/internal/models"
	"NEF_Emulator/backend/go/internal/nef_service/store"
	"NEF_Emulator/backend/go/pkg/circuitbreaker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingSink struct {
	mu     sync.Mutex
	events []models.EntityEvent
}

func (r *recordingSink) Publish(_ context.Context, ev *models.EntityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *ev)
	return nil
}

type fixture struct {
	svc   *Service
	st    *store.Store
	sink  *recordingSink
	alice Caller
	bob   Caller
	root  Caller
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	st := store.NewStore(db)
	require.NoError(t, st.AutoMigrate())

	sink := &recordingSink{}
	auth := config.AuthConfig{JwtSecret: "test-secret", Issuer: "nef_service", TokenTTL: 3600}
	svc := NewService(st, auth, append([]Option{WithEventSink(sink)}, opts...)...)

	return &fixture{
		svc:   svc,
		st:    st,
		sink:  sink,
		alice: Caller{ID: 1, Email: "alice@example.com"},
		bob:   Caller{ID: 2, Email: "bob@example.com"},
		root:  Caller{ID: 3, Email: "root@example.com", IsSuperuser: true},
	}
}

// topology 创建一组 gNB/Cell/Path，返回它们的主键。
func (f *fixture) topology(t *testing.T, owner Caller) (gnbID, cellID, pathID uint) {
	t.Helper()
	ctx := context.Background()
	gnb, err := f.svc.CreateGNB(ctx, owner, GNBCreate{GNBID: hexID(owner.ID, 6), Name: "gNB1"})
	require.NoError(t, err)
	cell, err := f.svc.CreateCell(ctx, owner, CellCreate{CellID: hexID(owner.ID, 9), GNBID: gnb.ID, Radius: 100})
	require.NoError(t, err)
	path, err := f.svc.CreatePath(ctx, owner, PathCreate{
		Description: "route",
		StartPoint:  models.Coordinate{Latitude: 37.996095, Longitude: 23.818562},
		EndPoint:    models.Coordinate{Latitude: 37.997470, Longitude: 23.819210},
	})
	require.NoError(t, err)
	return gnb.ID, cell.ID, path.ID
}

func hexID(n uint, width int) string {
	const digits = "0123456789ABCDEF"
	b := bytes.Repeat([]byte("A"), width)
	b[width-1] = digits[n%16]
	return string(b)
}

func ueInput(supi string, gnbID, cellID, pathID uint) UECreate {
	return UECreate{SUPI: supi, Name: "UE", GNBID: gnbID, CellID: cellID, PathID: pathID}
}

func TestCreateUE_ReferencesCheckedInOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gnbID, cellID, pathID := f.topology(t, f.alice)

	tests := []struct {
		name    string
		in      UECreate
		wantRef Reference
	}{
		{"all missing reports gNB", ueInput("202010000000001", 99, 99, 99), RefGNB},
		{"missing cell", ueInput("202010000000001", gnbID, 99, 99), RefCell},
		{"missing path", ueInput("202010000000001", gnbID, cellID, 99), RefPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateUE(ctx, f.alice, tt.in)
			var refErr *ReferenceNotFoundError
			require.ErrorAs(t, err, &refErr)
			assert.Equal(t, tt.wantRef, refErr.Ref)
			assert.ErrorIs(t, err, ErrReferenceNotFound)
			assert.ErrorIs(t, err, ErrConflict)
			assert.Contains(t, err.Error(), string(tt.wantRef)+"_id")
		})
	}

	ue, err := f.svc.CreateUE(ctx, f.alice, ueInput("202010000000001", gnbID, cellID, pathID))
	require.NoError(t, err)
	assert.Equal(t, models.SpeedLow, ue.Speed)
	assert.Equal(t, f.alice.ID, ue.OwnerID)

	got, err := f.svc.GetUE(ctx, f.alice, "202010000000001")
	require.NoError(t, err)
	assert.Equal(t, ue.ID, got.ID)
}

func TestCreateUE_DuplicateSUPI(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gnbID, cellID, pathID := f.topology(t, f.alice)

	_, err := f.svc.CreateUE(ctx, f.alice, ueInput("202010000000001", gnbID, cellID, pathID))
	require.NoError(t, err)

	// 重复检查先于引用校验，即使引用无效也报告重复
	_, err = f.svc.CreateUE(ctx, f.alice, ueInput("202010000000001", 99, 99, 99))
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrReferenceNotFound)
	assert.Equal(t, "ERROR: UE with this id already exists", err.Error())
}

func TestGetPath_ComposedReadModel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreatePath(ctx, f.alice, PathCreate{
		Description: "campus",
		Color:       "#00a3cc",
		StartPoint:  models.Coordinate{Latitude: 1.5, Longitude: 2.5},
		EndPoint:    models.Coordinate{Latitude: 3.5, Longitude: 4.5},
		Points: []models.Coordinate{
			{Latitude: 10, Longitude: 20},
			{Latitude: 11, Longitude: 21},
		},
	})
	require.NoError(t, err)

	view, err := f.svc.GetPath(ctx, f.alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Coordinate{Latitude: 1.5, Longitude: 2.5}, view.StartPoint)
	assert.Equal(t, models.Coordinate{Latitude: 3.5, Longitude: 4.5}, view.EndPoint)
	assert.Equal(t, []models.Coordinate{{Latitude: 10, Longitude: 20}, {Latitude: 11, Longitude: 21}}, view.Points)

	_, err = f.svc.GetPath(ctx, f.alice, created.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gnbID, cellID, pathID := f.topology(t, f.alice)
	_, err := f.svc.CreateUE(ctx, f.alice, ueInput("202010000000001", gnbID, cellID, pathID))
	require.NoError(t, err)

	name := "renamed"
	_, err = f.svc.GetUE(ctx, f.bob, "202010000000001")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = f.svc.UpdateUE(ctx, f.bob, "202010000000001", UEUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = f.svc.DeleteUE(ctx, f.bob, "202010000000001")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = f.svc.GetPath(ctx, f.bob, pathID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = f.svc.UpdatePath(ctx, f.bob, pathID, PathUpdate{Description: &name})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = f.svc.DeletePath(ctx, f.bob, pathID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	ue, err := f.svc.UpdateUE(ctx, f.alice, "202010000000001", UEUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", ue.Name)

	_, err = f.svc.GetUE(ctx, f.root, "202010000000001")
	assert.NoError(t, err)
}

func TestDelete_ReturnsRecordThenNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gnbID, cellID, pathID := f.topology(t, f.alice)

	_, err := f.svc.DeleteUE(ctx, f.alice, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.DeletePath(ctx, f.alice, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.CreateUE(ctx, f.alice, ueInput("202010000000001", gnbID, cellID, pathID))
	require.NoError(t, err)

	// 被 UE 引用的路径不能删除
	_, err = f.svc.DeletePath(ctx, f.alice, pathID)
	assert.ErrorIs(t, err, ErrConflict)

	deleted, err := f.svc.DeleteUE(ctx, f.alice, "202010000000001")
	require.NoError(t, err)
	assert.Equal(t, "202010000000001", deleted.SUPI)
	_, err = f.svc.GetUE(ctx, f.alice, "202010000000001")
	assert.ErrorIs(t, err, ErrNotFound)

	deletedPath, err := f.svc.DeletePath(ctx, f.alice, pathID)
	require.NoError(t, err)
	assert.Equal(t, pathID, deletedPath.ID)
	_, err = f.svc.GetPath(ctx, f.alice, pathID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_SuperuserSeesAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ag, ac, ap := f.topology(t, f.alice)
	bg, bc, bp := f.topology(t, f.bob)
	_, err := f.svc.CreateUE(ctx, f.alice, ueInput("202010000000001", ag, ac, ap))
	require.NoError(t, err)
	_, err = f.svc.CreateUE(ctx, f.bob, ueInput("202010000000002", bg, bc, bp))
	require.NoError(t, err)

	page := f.svc.Page(0, 0)

	mine, err := f.svc.ListUEs(ctx, f.alice, page)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "202010000000001", mine[0].SUPI)

	all, err := f.svc.ListUEs(ctx, f.root, page)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	paths, err := f.svc.ListPaths(ctx, f.bob, page)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.NotNil(t, paths[0].Points)

	allPaths, err := f.svc.ListPaths(ctx, f.root, page)
	require.NoError(t, err)
	assert.Len(t, allPaths, 2)
}

func TestListUEsByGNB(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gnbID, cellID, pathID := f.topology(t, f.alice)
	_, err := f.svc.CreateUE(ctx, f.alice, ueInput("202010000000001", gnbID, cellID, pathID))
	require.NoError(t, err)

	ues, err := f.svc.ListUEsByGNB(ctx, f.alice, gnbID)
	require.NoError(t, err)
	assert.Len(t, ues, 1)

	_, err = f.svc.ListUEsByGNB(ctx, f.bob, gnbID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = f.svc.ListUEsByCell(ctx, f.alice, cellID+100)
	assert.ErrorIs(t, err, ErrNotFound)

	byCell, err := f.svc.ListUEsByCell(ctx, f.root, cellID)
	require.NoError(t, err)
	assert.Len(t, byCell, 1)
}

func TestUpdateUE_RevalidatesMergedReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gnbID, cellID, pathID := f.topology(t, f.alice)
	_, err := f.svc.CreateUE(ctx, f.alice, ueInput("202010000000001", gnbID, cellID, pathID))
	require.NoError(t, err)

	missing := uint(999)
	_, err = f.svc.UpdateUE(ctx, f.alice, "202010000000001", UEUpdate{PathID: &missing})
	var refErr *ReferenceNotFoundError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, RefPath, refErr.Ref)

	ue, err := f.svc.GetUE(ctx, f.alice, "202010000000001")
	require.NoError(t, err)
	assert.Equal(t, pathID, ue.PathID)
}

func TestUpdatePath_ReplacesPoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreatePath(ctx, f.alice, PathCreate{Points: []models.Coordinate{{Latitude: 1}}})
	require.NoError(t, err)

	color := "#ff0000"
	view, err := f.svc.UpdatePath(ctx, f.alice, created.ID, PathUpdate{Color: &color})
	require.NoError(t, err)
	assert.Len(t, view.Points, 1)

	pts := []models.Coordinate{{Latitude: 5}, {Latitude: 6}}
	view, err = f.svc.UpdatePath(ctx, f.alice, created.ID, PathUpdate{
		EndPoint: &models.Coordinate{Latitude: 9, Longitude: 9},
		Points:   &pts,
	})
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", view.Color)
	assert.Equal(t, pts, view.Points)
	assert.Equal(t, 9.0, view.EndPoint.Latitude)
}

func TestDeleteGNB_RejectedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gnbID, cellID, _ := f.topology(t, f.alice)

	_, err := f.svc.DeleteGNB(ctx, f.alice, gnbID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.DeleteCell(ctx, f.alice, cellID)
	require.NoError(t, err)
	_, err = f.svc.DeleteGNB(ctx, f.alice, gnbID)
	require.NoError(t, err)
}

func TestCreateCell_RequiresGNB(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateCell(context.Background(), f.alice, CellCreate{CellID: "AAAAAAAAA", GNBID: 42})
	var refErr *ReferenceNotFoundError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, RefGNB, refErr.Ref)
}

func TestEvents_EmittedAfterCommit(t *testing.T) {
	f := newFixture(t)
	ctx := WithTraceID(context.Background(), "trace-1")
	gnbID, cellID, pathID := f.topology(t, f.alice)
	f.sink.events = nil

	_, err := f.svc.CreateUE(ctx, f.alice, ueInput("202010000000001", gnbID, cellID, pathID))
	require.NoError(t, err)
	_, err = f.svc.CreateUE(ctx, f.alice, ueInput("202010000000001", gnbID, cellID, pathID))
	require.Error(t, err)

	require.Len(t, f.sink.events, 1)
	ev := f.sink.events[0]
	assert.Equal(t, models.EntityUE, ev.Entity)
	assert.Equal(t, models.ActionCreated, ev.Action)
	assert.Equal(t, "202010000000001", ev.Key)
	assert.Equal(t, "trace-1", ev.TraceID)
	assert.NotEmpty(t, ev.ID)
}

func TestLoginAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.auth.FirstSuperuser = "admin@example.com"
	f.svc.auth.FirstSuperuserPassword = "changethis"
	require.NoError(t, f.svc.EnsureFirstSuperuser(ctx))
	require.NoError(t, f.svc.EnsureFirstSuperuser(ctx))

	_, err := f.svc.Login(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	tok, err := f.svc.Login(ctx, "admin@example.com", "changethis")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	caller, err := f.svc.Authenticate(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.True(t, caller.IsSuperuser)
	assert.Equal(t, "admin@example.com", caller.Email)

	_, err = f.svc.Authenticate(ctx, tok.AccessToken+"x")
	assert.ErrorIs(t, err, ErrUnauthorized)

	other := NewService(f.st, config.AuthConfig{JwtSecret: "other", Issuer: "nef_service"})
	_, err = other.Authenticate(ctx, tok.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUsers_SuperuserOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateUser(ctx, f.alice, UserCreate{Email: "x@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	u, err := f.svc.CreateUser(ctx, f.root, UserCreate{Email: "x@example.com", Password: "password1", FullName: "X"})
	require.NoError(t, err)
	assert.True(t, u.IsActive)

	_, err = f.svc.CreateUser(ctx, f.root, UserCreate{Email: "x@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrConflict)

	name := "Y"
	updated, err := f.svc.UpdateMe(ctx, Caller{ID: u.ID}, UserUpdateMe{FullName: &name, Settings: []byte(`{"zoom":12}`)})
	require.NoError(t, err)
	assert.Equal(t, "Y", updated.FullName)
	assert.JSONEq(t, `{"zoom":12}`, string(updated.Settings))

	for _, raw := range []string{"null", " null ", ""} {
		_, err = f.svc.UpdateMe(ctx, Caller{ID: u.ID}, UserUpdateMe{Settings: []byte(raw)})
		require.NoError(t, err)
		me, err := f.svc.Me(ctx, Caller{ID: u.ID})
		require.NoError(t, err)
		assert.JSONEq(t, `{"zoom":12}`, string(me.Settings), "settings %q must leave stored value alone", raw)
	}

	users, err := f.svc.ListUsers(ctx, f.root, f.svc.Page(0, 0))
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestExportUEs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gnbID, cellID, pathID := f.topology(t, f.alice)
	_, err := f.svc.CreateUE(ctx, f.alice, ueInput("202010000000001", gnbID, cellID, pathID))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportUEs(ctx, f.alice, &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "supi", rows[0][0])
	assert.Equal(t, "202010000000001", rows[1][0])
	assert.Equal(t, "LOW", rows[1][13])
}

func TestAuditHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AuditHistory(ctx, f.root, models.EntityUE, "1", 10)
	assert.ErrorIs(t, err, ErrUnavailable)

	f.svc.audit = stubAudit{}
	_, err = f.svc.AuditHistory(ctx, f.alice, models.EntityUE, "1", 10)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = f.svc.AuditHistory(ctx, f.root, models.EntityKind("satellite"), "1", 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	for _, kind := range []string{"ue", "path", "gNB", "Cell", "user"} {
		events, err := f.svc.AuditHistory(ctx, f.root, models.EntityKind(kind), "1", 10)
		require.NoError(t, err, kind)
		require.Len(t, events, 1, kind)
		assert.Equal(t, models.EntityKind(kind), events[0].Entity)
	}
}

func TestRadioEventsUseRouteEntityKinds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gnb, err := f.svc.CreateGNB(ctx, f.alice, GNBCreate{GNBID: "AAAAA1"})
	require.NoError(t, err)
	_, err = f.svc.CreateCell(ctx, f.alice, CellCreate{CellID: "AAAAAAAA1", GNBID: gnb.ID})
	require.NoError(t, err)

	f.sink.mu.Lock()
	defer f.sink.mu.Unlock()
	require.Len(t, f.sink.events, 2)
	assert.Equal(t, models.EntityKind("gNB"), f.sink.events[0].Entity)
	assert.Equal(t, models.EntityKind("Cell"), f.sink.events[1].Entity)
}

type stubAudit struct{}

func (stubAudit) History(_ context.Context, entity models.EntityKind, key string, _ int64) ([]models.EntityEvent, error) {
	return []models.EntityEvent{{Entity: entity, Key: key, Action: models.ActionCreated}}, nil
}

func TestMemoryPathCache_ServesAndInvalidates(t *testing.T) {
	cache, err := NewMemoryPathCache(16, 0, time.Minute)
	require.NoError(t, err)
	f := newFixture(t, WithPathCache(cache))
	ctx := context.Background()

	created, err := f.svc.CreatePath(ctx, f.alice, PathCreate{Points: []models.Coordinate{{Latitude: 1}}})
	require.NoError(t, err)
	_, err = f.svc.GetPath(ctx, f.alice, created.ID)
	require.NoError(t, err)

	cached, ok, err := cache.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	cached.Points[0].Latitude = 42

	view, err := f.svc.GetPath(ctx, f.alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, view.Points[0].Latitude)

	_, err = f.svc.UpdatePath(ctx, f.alice, created.ID, PathUpdate{Points: &[]models.Coordinate{{Latitude: 2}}})
	require.NoError(t, err)
	_, ok, _ = cache.Get(ctx, created.ID)
	assert.False(t, ok)
}

type failingCache struct{ calls int }

func (c *failingCache) Get(context.Context, uint) (*models.PathView, bool, error) {
	c.calls++
	return nil, false, errors.New("redis down")
}
func (c *failingCache) Set(context.Context, *models.PathView) error {
	c.calls++
	return errors.New("redis down")
}
func (c *failingCache) Invalidate(context.Context, uint) error {
	c.calls++
	return errors.New("redis down")
}

func TestBreakerPathCache_FallsBackToStore(t *testing.T) {
	remote := &failingCache{}
	cache := NewBreakerPathCache(remote, circuitbreaker.New(2, 1, time.Hour))
	f := newFixture(t, WithPathCache(cache))
	ctx := context.Background()

	created, err := f.svc.CreatePath(ctx, f.alice, PathCreate{})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		view, err := f.svc.GetPath(ctx, f.alice, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, view.ID)
	}
	// 两次失败后断路器打开，之后不再访问远程缓存
	assert.Equal(t, 2, remote.calls)
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(Caller{ID: 1}, 1))
	assert.NoError(t, Authorize(Caller{ID: 2, IsSuperuser: true}, 1))
	err := Authorize(Caller{ID: 2}, 1)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, "Not enough permissions", err.Error())
}

func TestPage(t *testing.T) {
	svc := NewService(nil, config.AuthConfig{}, WithDefaultLimit(20))
	assert.Equal(t, store.Page{Skip: 0, Limit: 20}, svc.Page(-5, 0))
	assert.Equal(t, store.Page{Skip: 3, Limit: maxListLimit}, svc.Page(3, 5000))
}

type errSink struct{ err error }

func (s errSink) Publish(context.Context, *models.EntityEvent) error { return s.err }

func TestMultiSinkDeliversToAllAndJoinsErrors(t *testing.T) {
	first, second := &recordingSink{}, &recordingSink{}
	boom := errors.New("kafka down")
	sinks := MultiSink{first, errSink{err: boom}, second}

	err := sinks.Publish(context.Background(), &models.EntityEvent{ID: "ev-1"})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)

	assert.NoError(t, MultiSink{first}.Publish(context.Background(), &models.EntityEvent{ID: "ev-2"}))
}
