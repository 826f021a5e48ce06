package store

import (
	"context"
	"errors"
	"testing"

	"NEF_Emulator/backend/go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
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

	s := NewStore(db)
	require.NoError(t, s.AutoMigrate())
	return s
}

func TestPath_PointsKeepInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	path := &models.Path{Description: "loop", StartLat: 1, StartLong: 2, EndLat: 3, EndLong: 4, OwnerID: 1}
	pts := []models.Coordinate{{Latitude: 9, Longitude: 9}, {Latitude: 1, Longitude: 1}, {Latitude: 5, Longitude: 5}}
	require.NoError(t, s.Transaction(ctx, func(tx *Store) error {
		return tx.CreatePath(ctx, path, pts)
	}))
	require.NotZero(t, path.ID)

	got, err := s.ListPoints(ctx, path.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 9.0, got[0].Latitude)
	assert.Equal(t, 1.0, got[1].Latitude)
	assert.Equal(t, 5.0, got[2].Latitude)
}

func TestPath_ReplaceAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	path := &models.Path{OwnerID: 1}
	require.NoError(t, s.CreatePath(ctx, path, []models.Coordinate{{Latitude: 1}, {Latitude: 2}}))

	require.NoError(t, s.ReplacePoints(ctx, path.ID, []models.Coordinate{{Latitude: 7}}))
	got, err := s.ListPoints(ctx, path.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 7.0, got[0].Latitude)

	require.NoError(t, s.DeletePath(ctx, path.ID))
	_, err = s.GetPath(ctx, path.ID, NoLock)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	got, err = s.ListPoints(ctx, path.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListPointsForPaths_GroupsByPath(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &models.Path{OwnerID: 1}
	b := &models.Path{OwnerID: 1}
	empty := &models.Path{OwnerID: 1}
	require.NoError(t, s.CreatePath(ctx, a, []models.Coordinate{{Latitude: 1}, {Latitude: 2}}))
	require.NoError(t, s.CreatePath(ctx, b, []models.Coordinate{{Latitude: 3}}))
	require.NoError(t, s.CreatePath(ctx, empty, nil))

	grouped, err := s.ListPointsForPaths(ctx, []uint{a.ID, b.ID, empty.ID})
	require.NoError(t, err)
	assert.Len(t, grouped[a.ID], 2)
	assert.Len(t, grouped[b.ID], 1)
	assert.Empty(t, grouped[empty.ID])

	none, err := s.ListPointsForPaths(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListPaths_OwnerFilterAndPaging(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreatePath(ctx, &models.Path{OwnerID: 1}, nil))
	}
	require.NoError(t, s.CreatePath(ctx, &models.Path{OwnerID: 2}, nil))

	owner := uint(1)
	mine, err := s.ListPaths(ctx, &owner, Page{})
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	all, err := s.ListPaths(ctx, nil, Page{Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, mine[1].ID, all[0].ID)
}

func TestUE_DuplicateSUPIIsTranslated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUE(ctx, &models.UE{SUPI: "202010000000001", Speed: models.SpeedLow, OwnerID: 1}))
	err := s.CreateUE(ctx, &models.UE{SUPI: "202010000000001", Speed: models.SpeedLow, OwnerID: 1})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUE_ReferenceQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUE(ctx, &models.UE{SUPI: "1", GNBID: 1, CellID: 10, PathID: 5, Speed: models.SpeedLow, OwnerID: 1}))
	require.NoError(t, s.CreateUE(ctx, &models.UE{SUPI: "2", GNBID: 1, CellID: 11, PathID: 5, Speed: models.SpeedHigh, OwnerID: 2}))

	byGNB, err := s.ListUEsByGNB(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, byGNB, 2)

	byCell, err := s.ListUEsByCell(ctx, 11)
	require.NoError(t, err)
	require.Len(t, byCell, 1)
	assert.Equal(t, "2", byCell[0].SUPI)

	n, err := s.CountUEsReferencing(ctx, "path_id", 5)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = s.CountUEsReferencing(ctx, "owner_id", 1)
	assert.Error(t, err)

	require.NoError(t, s.DeleteUEBySUPI(ctx, "1"))
	_, err = s.GetUEBySUPI(ctx, "1", NoLock)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx *Store) error {
		if err := tx.CreateGNB(ctx, &models.GNB{GNBID: "AAAAAA", OwnerID: 1}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.GetGNBByGNBID(ctx, "AAAAAA")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCountCellsByGNB(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	gnb := &models.GNB{GNBID: "AAAAAA", OwnerID: 1}
	require.NoError(t, s.CreateGNB(ctx, gnb))
	require.NoError(t, s.CreateCell(ctx, &models.Cell{CellID: "AAAAAA001", GNBID: gnb.ID, OwnerID: 1}))

	n, err := s.CountCellsByGNB(ctx, gnb.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
