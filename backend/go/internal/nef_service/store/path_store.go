package store

import (
	"context"

	"NEF_Emulator/backend/go/internal/models"
)

// CreatePath 插入路径及其中间点。points 按给定顺序写入 seq。
// 调用方应在 Transaction 中调用，以保证路径和点同时成功或失败。
func (s *Store) CreatePath(ctx context.Context, path *models.Path, points []models.Coordinate) error {
	if err := s.db(ctx).Create(path).Error; err != nil {
		return err
	}
	return s.insertPoints(ctx, path.ID, points)
}

func (s *Store) insertPoints(ctx context.Context, pathID uint, points []models.Coordinate) error {
	if len(points) == 0 {
		return nil
	}
	rows := make([]models.Point, 0, len(points))
	for i, p := range points {
		rows = append(rows, models.Point{
			PathID:    pathID,
			Seq:       i,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		})
	}
	return s.db(ctx).CreateInBatches(rows, 500).Error
}

// GetPath 通过主键查找路径，不加载点。
func (s *Store) GetPath(ctx context.Context, id uint, lock Lock) (*models.Path, error) {
	var path models.Path
	if err := withLock(s.db(ctx), lock).First(&path, id).Error; err != nil {
		return nil, err
	}
	return &path, nil
}

// ListPaths 分页列出路径。ownerID 为 nil 时返回全部。
func (s *Store) ListPaths(ctx context.Context, ownerID *uint, page Page) ([]models.Path, error) {
	var paths []models.Path
	if err := paginate(ownedBy(s.db(ctx), ownerID), page).Find(&paths).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

func (s *Store) UpdatePath(ctx context.Context, path *models.Path) error {
	return s.db(ctx).Save(path).Error
}

// ReplacePoints 删除路径现有的点并写入新的点序列。
func (s *Store) ReplacePoints(ctx context.Context, pathID uint, points []models.Coordinate) error {
	if err := s.db(ctx).Where("path_id = ?", pathID).Delete(&models.Point{}).Error; err != nil {
		return err
	}
	return s.insertPoints(ctx, pathID, points)
}

// DeletePath 先删除点再删除路径本身。
func (s *Store) DeletePath(ctx context.Context, id uint) error {
	if err := s.db(ctx).Where("path_id = ?", id).Delete(&models.Point{}).Error; err != nil {
		return err
	}
	return s.db(ctx).Delete(&models.Path{}, id).Error
}

// ListPoints 按 seq 顺序返回一条路径的所有点。
func (s *Store) ListPoints(ctx context.Context, pathID uint) ([]models.Point, error) {
	var points []models.Point
	err := s.db(ctx).Where("path_id = ?", pathID).Order("seq").Order("id").Find(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

// ListPointsForPaths 一次查询加载多条路径的点，按 path_id 分组，组内按 seq 排序。
func (s *Store) ListPointsForPaths(ctx context.Context, pathIDs []uint) (map[uint][]models.Point, error) {
	out := make(map[uint][]models.Point, len(pathIDs))
	if len(pathIDs) == 0 {
		return out, nil
	}
	var points []models.Point
	err := s.db(ctx).Where("path_id IN ?", pathIDs).Order("path_id").Order("seq").Order("id").Find(&points).Error
	if err != nil {
		return nil, err
	}
	for _, p := range points {
		out[p.PathID] = append(out[p.PathID], p)
	}
	return out, nil
}
