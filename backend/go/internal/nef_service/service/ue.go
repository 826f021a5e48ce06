package service

import (
	"context"
	"errors"

	"NEF_Emulator/backend/go/internal/models"
	"NEF_Emulator/backend/go/internal/nef_service/store"

	"gorm.io/gorm"
)

// ListUEs 返回调用者可见的 UE，超级用户看到全部。
func (s *Service) ListUEs(ctx context.Context, caller Caller, page store.Page) ([]models.UE, error) {
	ues, err := s.store.ListUEs(ctx, ownerFilter(caller), page)
	if err != nil {
		return nil, translate(err, nil, "list ues")
	}
	return ues, nil
}

// GetUE 通过 SUPI 读取 UE。
func (s *Service) GetUE(ctx context.Context, caller Caller, supi string) (*models.UE, error) {
	ue, err := s.store.GetUEBySUPI(ctx, supi, store.NoLock)
	if err != nil {
		return nil, translate(err, errUENotFound, "get ue")
	}
	if err := AuthorizeOwned(caller, ue); err != nil {
		return nil, err
	}
	return ue, nil
}

// CreateUE 创建 UE。SUPI 重复检查先于引用校验，引用校验和插入在同一事务中执行。
func (s *Service) CreateUE(ctx context.Context, caller Caller, in UECreate) (*models.UE, error) {
	ue := in.toModel(caller.ID)
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		_, err := tx.GetUEBySUPI(ctx, ue.SUPI, store.NoLock)
		switch {
		case err == nil:
			return errDuplicateSUPI
		case !isRecordNotFound(err):
			return translate(err, nil, "get ue")
		}

		if err := ValidateReferences(ctx, tx, ue.GNBID, ue.CellID, ue.PathID); err != nil {
			return err
		}
		if err := tx.CreateUE(ctx, ue); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errDuplicateSUPI
			}
			return translate(err, nil, "create ue")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, caller, models.EntityUE, models.ActionCreated, ue.SUPI, ue.OwnerID, ue)
	return ue, nil
}

// UpdateUE 部分更新 UE。合并后的 gNB/Cell/Path 引用重新校验。
func (s *Service) UpdateUE(ctx context.Context, caller Caller, supi string, in UEUpdate) (*models.UE, error) {
	var ue *models.UE
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		ue, err = tx.GetUEBySUPI(ctx, supi, store.LockUpdate)
		if err != nil {
			return translate(err, errUENotFound, "get ue")
		}
		if err := AuthorizeOwned(caller, ue); err != nil {
			return err
		}

		in.apply(ue)
		if err := ValidateReferences(ctx, tx, ue.GNBID, ue.CellID, ue.PathID); err != nil {
			return err
		}
		return translate(tx.UpdateUE(ctx, ue), nil, "update ue")
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, caller, models.EntityUE, models.ActionUpdated, ue.SUPI, ue.OwnerID, ue)
	return ue, nil
}

// DeleteUE 删除 UE 并返回被删除的记录。
func (s *Service) DeleteUE(ctx context.Context, caller Caller, supi string) (*models.UE, error) {
	var ue *models.UE
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		ue, err = tx.GetUEBySUPI(ctx, supi, store.LockUpdate)
		if err != nil {
			return translate(err, errUENotFound, "get ue")
		}
		if err := AuthorizeOwned(caller, ue); err != nil {
			return err
		}
		return translate(tx.DeleteUEBySUPI(ctx, supi), nil, "delete ue")
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, caller, models.EntityUE, models.ActionDeleted, ue.SUPI, ue.OwnerID, nil)
	return ue, nil
}

// ListUEsByGNB 返回挂在 gNB 下、调用者可见的 UE。
// 没有任何 UE 时返回 NotFound；有 UE 但都不属于调用者时返回 PermissionDenied。
func (s *Service) ListUEsByGNB(ctx context.Context, caller Caller, gnbID uint) ([]models.UE, error) {
	ues, err := s.store.ListUEsByGNB(ctx, gnbID)
	if err != nil {
		return nil, translate(err, nil, "list ues by gnb")
	}
	return visibleUEs(caller, ues, "gNB for specific UE not found")
}

// ListUEsByCell 与 ListUEsByGNB 相同，按 Cell 过滤。
func (s *Service) ListUEsByCell(ctx context.Context, caller Caller, cellID uint) ([]models.UE, error) {
	ues, err := s.store.ListUEsByCell(ctx, cellID)
	if err != nil {
		return nil, translate(err, nil, "list ues by cell")
	}
	return visibleUEs(caller, ues, "Cell for specific UE not found")
}

func visibleUEs(caller Caller, ues []models.UE, notFound string) ([]models.UE, error) {
	if len(ues) == 0 {
		return nil, newError(ErrNotFound, notFound)
	}
	if caller.IsSuperuser {
		return ues, nil
	}
	out := make([]models.UE, 0, len(ues))
	for i := range ues {
		if Authorize(caller, ues[i].OwnerID) == nil {
			out = append(out, ues[i])
		}
	}
	if len(out) == 0 {
		return nil, errNotEnoughPermissions
	}
	return out, nil
}
