package service

import (
	"context"
	"strconv"

	"NEF_Emulator/backend/go/internal/models"
	"NEF_Emulator/backend/go/internal/nef_service/store"
)

// --- gNB ---

func (s *Service) ListGNBs(ctx context.Context, caller Caller, page store.Page) ([]models.GNB, error) {
	gnbs, err := s.store.ListGNBs(ctx, ownerFilter(caller), page)
	if err != nil {
		return nil, translate(err, nil, "list gnbs")
	}
	return gnbs, nil
}

func (s *Service) GetGNB(ctx context.Context, caller Caller, id uint) (*models.GNB, error) {
	gnb, err := s.store.GetGNB(ctx, id, store.NoLock)
	if err != nil {
		return nil, translate(err, errGNBNotFound, "get gnb")
	}
	if err := AuthorizeOwned(caller, gnb); err != nil {
		return nil, err
	}
	return gnb, nil
}

// CreateGNB 创建 gNB，gNB_id 重复时返回 Conflict。
func (s *Service) CreateGNB(ctx context.Context, caller Caller, in GNBCreate) (*models.GNB, error) {
	gnb := &models.GNB{
		GNBID:       in.GNBID,
		Name:        in.Name,
		Description: in.Description,
		Location:    in.Location,
		OwnerID:     caller.ID,
	}
	if _, err := s.store.GetGNBByGNBID(ctx, in.GNBID); err == nil {
		return nil, newError(ErrConflict, "ERROR: gNB with this id already exists")
	} else if !isRecordNotFound(err) {
		return nil, translate(err, nil, "get gnb")
	}
	if err := s.store.CreateGNB(ctx, gnb); err != nil {
		return nil, translate(err, nil, "create gnb")
	}
	s.emit(ctx, caller, models.EntityGNB, models.ActionCreated, idKey(gnb.ID), gnb.OwnerID, gnb)
	return gnb, nil
}

func (s *Service) UpdateGNB(ctx context.Context, caller Caller, id uint, in GNBUpdate) (*models.GNB, error) {
	var gnb *models.GNB
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		gnb, err = tx.GetGNB(ctx, id, store.LockUpdate)
		if err != nil {
			return translate(err, errGNBNotFound, "get gnb")
		}
		if err := AuthorizeOwned(caller, gnb); err != nil {
			return err
		}
		setIf(&gnb.Name, in.Name)
		setIf(&gnb.Description, in.Description)
		setIf(&gnb.Location, in.Location)
		return translate(tx.UpdateGNB(ctx, gnb), nil, "update gnb")
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, caller, models.EntityGNB, models.ActionUpdated, idKey(id), gnb.OwnerID, gnb)
	return gnb, nil
}

// DeleteGNB 删除 gNB。仍有 Cell 或 UE 引用它时返回 Conflict。
func (s *Service) DeleteGNB(ctx context.Context, caller Caller, id uint) (*models.GNB, error) {
	var gnb *models.GNB
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		gnb, err = tx.GetGNB(ctx, id, store.LockUpdate)
		if err != nil {
			return translate(err, errGNBNotFound, "get gnb")
		}
		if err := AuthorizeOwned(caller, gnb); err != nil {
			return err
		}
		cells, err := tx.CountCellsByGNB(ctx, id)
		if err != nil {
			return translate(err, nil, "count cells")
		}
		if cells > 0 {
			return newError(ErrConflict, "ERROR: This gNB still has "+strconv.FormatInt(cells, 10)+" Cell(s)")
		}
		if err := ensureUnreferenced(ctx, tx, "gnb_id", id, "gNB"); err != nil {
			return err
		}
		return translate(tx.DeleteGNB(ctx, id), nil, "delete gnb")
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, caller, models.EntityGNB, models.ActionDeleted, idKey(id), gnb.OwnerID, nil)
	return gnb, nil
}

// --- Cell ---

func (s *Service) ListCells(ctx context.Context, caller Caller, page store.Page) ([]models.Cell, error) {
	cells, err := s.store.ListCells(ctx, ownerFilter(caller), page)
	if err != nil {
		return nil, translate(err, nil, "list cells")
	}
	return cells, nil
}

func (s *Service) GetCell(ctx context.Context, caller Caller, id uint) (*models.Cell, error) {
	cell, err := s.store.GetCell(ctx, id, store.NoLock)
	if err != nil {
		return nil, translate(err, errCellNotFound, "get cell")
	}
	if err := AuthorizeOwned(caller, cell); err != nil {
		return nil, err
	}
	return cell, nil
}

// CreateCell 创建 Cell，gNB_id 必须指向已存在的 gNB。
func (s *Service) CreateCell(ctx context.Context, caller Caller, in CellCreate) (*models.Cell, error) {
	cell := &models.Cell{
		CellID:      in.CellID,
		Name:        in.Name,
		Description: in.Description,
		GNBID:       in.GNBID,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Radius:      in.Radius,
		OwnerID:     caller.ID,
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.GetCellByCellID(ctx, in.CellID); err == nil {
			return newError(ErrConflict, "ERROR: Cell with this id already exists")
		} else if !isRecordNotFound(err) {
			return translate(err, nil, "get cell")
		}
		if _, err := tx.GetGNB(ctx, in.GNBID, store.LockShare); err != nil {
			return referenceError(err, RefGNB, in.GNBID)
		}
		return translate(tx.CreateCell(ctx, cell), nil, "create cell")
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, caller, models.EntityCell, models.ActionCreated, idKey(cell.ID), cell.OwnerID, cell)
	return cell, nil
}

func (s *Service) UpdateCell(ctx context.Context, caller Caller, id uint, in CellUpdate) (*models.Cell, error) {
	var cell *models.Cell
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		cell, err = tx.GetCell(ctx, id, store.LockUpdate)
		if err != nil {
			return translate(err, errCellNotFound, "get cell")
		}
		if err := AuthorizeOwned(caller, cell); err != nil {
			return err
		}
		setIf(&cell.Name, in.Name)
		setIf(&cell.Description, in.Description)
		setIf(&cell.Latitude, in.Latitude)
		setIf(&cell.Longitude, in.Longitude)
		setIf(&cell.Radius, in.Radius)
		return translate(tx.UpdateCell(ctx, cell), nil, "update cell")
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, caller, models.EntityCell, models.ActionUpdated, idKey(id), cell.OwnerID, cell)
	return cell, nil
}

// DeleteCell 删除 Cell。仍有 UE 引用它时返回 Conflict。
func (s *Service) DeleteCell(ctx context.Context, caller Caller, id uint) (*models.Cell, error) {
	var cell *models.Cell
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		cell, err = tx.GetCell(ctx, id, store.LockUpdate)
		if err != nil {
			return translate(err, errCellNotFound, "get cell")
		}
		if err := AuthorizeOwned(caller, cell); err != nil {
			return err
		}
		if err := ensureUnreferenced(ctx, tx, "cell_id", id, "Cell"); err != nil {
			return err
		}
		return translate(tx.DeleteCell(ctx, id), nil, "delete cell")
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, caller, models.EntityCell, models.ActionDeleted, idKey(id), cell.OwnerID, nil)
	return cell, nil
}

func ensureUnreferenced(ctx context.Context, tx *store.Store, column string, id uint, noun string) error {
	n, err := tx.CountUEsReferencing(ctx, column, id)
	if err != nil {
		return translate(err, nil, "count ues")
	}
	if n > 0 {
		return newError(ErrConflict, "ERROR: This "+noun+" is still used by "+strconv.FormatInt(n, 10)+" UE(s)")
	}
	return nil
}

func idKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
