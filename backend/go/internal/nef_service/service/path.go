package service

import (
	"context"

	"NEF_Emulator/backend/go/internal/models"
	"NEF_Emulator/backend/go/internal/nef_service/store"
)

// AssemblePath 把路径行和它的点组合成对外的读模型。
// start_lat/start_long/end_lat/end_long 被替换为 start_point 和 end_point。
func AssemblePath(path *models.Path, points []models.Point) *models.PathView {
	view := &models.PathView{
		ID:          path.ID,
		Description: path.Description,
		Color:       path.Color,
		OwnerID:     path.OwnerID,
		StartPoint:  models.Coordinate{Latitude: path.StartLat, Longitude: path.StartLong},
		EndPoint:    models.Coordinate{Latitude: path.EndLat, Longitude: path.EndLong},
		Points:      make([]models.Coordinate, 0, len(points)),
	}
	for _, p := range points {
		view.Points = append(view.Points, models.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude})
	}
	return view
}

// loadPathView 读取路径和它的点并组装。
func loadPathView(ctx context.Context, st *store.Store, id uint, lock store.Lock) (*models.PathView, error) {
	path, err := st.GetPath(ctx, id, lock)
	if err != nil {
		return nil, translate(err, errPathNotFound, "get path")
	}
	points, err := st.ListPoints(ctx, id)
	if err != nil {
		return nil, translate(err, nil, "list points")
	}
	return AssemblePath(path, points), nil
}

// GetPath 返回组装后的路径。先查缓存，缓存不可用时直接读数据库。
func (s *Service) GetPath(ctx context.Context, caller Caller, id uint) (*models.PathView, error) {
	view, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logFor(ctx).Warn("读取路径缓存失败: " + err.Error())
	}
	if !ok {
		view, err = loadPathView(ctx, s.store, id, store.NoLock)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, view); err != nil {
			s.logFor(ctx).Warn("写入路径缓存失败: " + err.Error())
		}
	}
	if err := AuthorizeOwned(caller, view); err != nil {
		return nil, err
	}
	return view, nil
}

// ListPaths 返回调用者可见的路径，每条都带有组装后的点。
// 一页的点通过一次 path_id IN 查询加载。
func (s *Service) ListPaths(ctx context.Context, caller Caller, page store.Page) ([]*models.PathView, error) {
	paths, err := s.store.ListPaths(ctx, ownerFilter(caller), page)
	if err != nil {
		return nil, translate(err, nil, "list paths")
	}
	ids := make([]uint, 0, len(paths))
	for _, p := range paths {
		ids = append(ids, p.ID)
	}
	points, err := s.store.ListPointsForPaths(ctx, ids)
	if err != nil {
		return nil, translate(err, nil, "list points")
	}
	views := make([]*models.PathView, 0, len(paths))
	for i := range paths {
		views = append(views, AssemblePath(&paths[i], points[paths[i].ID]))
	}
	return views, nil
}

// CreatePath 在一个事务中创建路径和它的点。
func (s *Service) CreatePath(ctx context.Context, caller Caller, in PathCreate) (*models.PathView, error) {
	path := &models.Path{
		Description: in.Description,
		Color:       in.Color,
		StartLat:    in.StartPoint.Latitude,
		StartLong:   in.StartPoint.Longitude,
		EndLat:      in.EndPoint.Latitude,
		EndLong:     in.EndPoint.Longitude,
		OwnerID:     caller.ID,
	}
	var view *models.PathView
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.CreatePath(ctx, path, in.Points); err != nil {
			return translate(err, nil, "create path")
		}
		var err error
		view, err = loadPathView(ctx, tx, path.ID, store.NoLock)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, caller, models.EntityPath, models.ActionCreated, idKey(view.ID), view.OwnerID, view)
	return view, nil
}

// UpdatePath 更新路径的标量字段；in.Points 不为 nil 时同时替换所有点。
func (s *Service) UpdatePath(ctx context.Context, caller Caller, id uint, in PathUpdate) (*models.PathView, error) {
	var view *models.PathView
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		path, err := tx.GetPath(ctx, id, store.LockUpdate)
		if err != nil {
			return translate(err, errPathNotFound, "get path")
		}
		if err := AuthorizeOwned(caller, path); err != nil {
			return err
		}

		setIf(&path.Description, in.Description)
		setIf(&path.Color, in.Color)
		if in.StartPoint != nil {
			path.StartLat, path.StartLong = in.StartPoint.Latitude, in.StartPoint.Longitude
		}
		if in.EndPoint != nil {
			path.EndLat, path.EndLong = in.EndPoint.Latitude, in.EndPoint.Longitude
		}
		if err := tx.UpdatePath(ctx, path); err != nil {
			return translate(err, nil, "update path")
		}
		if in.Points != nil {
			if err := tx.ReplacePoints(ctx, id, *in.Points); err != nil {
				return translate(err, nil, "replace points")
			}
		}
		view, err = loadPathView(ctx, tx, id, store.NoLock)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidatePath(ctx, id)
	s.emit(ctx, caller, models.EntityPath, models.ActionUpdated, idKey(id), view.OwnerID, view)
	return view, nil
}

// DeletePath 删除路径及其点，返回删除前的读模型。仍被 UE 引用的路径不能删除。
func (s *Service) DeletePath(ctx context.Context, caller Caller, id uint) (*models.PathView, error) {
	var view *models.PathView
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		view, err = loadPathView(ctx, tx, id, store.LockUpdate)
		if err != nil {
			return err
		}
		if err := AuthorizeOwned(caller, view); err != nil {
			return err
		}
		if err := ensureUnreferenced(ctx, tx, "path_id", id, "path"); err != nil {
			return err
		}
		return translate(tx.DeletePath(ctx, id), nil, "delete path")
	})
	if err != nil {
		return nil, err
	}
	s.invalidatePath(ctx, id)
	s.emit(ctx, caller, models.EntityPath, models.ActionDeleted, idKey(id), view.OwnerID, nil)
	return view, nil
}

func (s *Service) invalidatePath(ctx context.Context, id uint) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logFor(ctx).Warn("清除路径缓存失败: " + err.Error())
	}
}
