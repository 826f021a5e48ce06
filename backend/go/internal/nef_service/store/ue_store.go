package store

import (
	"context"
	"fmt"

	"NEF_Emulator/backend/go/internal/models"
)

func (s *Store) CreateUE(ctx context.Context, ue *models.UE) error {
	return s.db(ctx).Create(ue).Error
}

// GetUEBySUPI 通过 SUPI 查找 UE。
func (s *Store) GetUEBySUPI(ctx context.Context, supi string, lock Lock) (*models.UE, error) {
	var ue models.UE
	if err := withLock(s.db(ctx), lock).Where("supi = ?", supi).First(&ue).Error; err != nil {
		return nil, err
	}
	return &ue, nil
}

// ListUEs 分页列出 UE。ownerID 为 nil 时返回全部。
func (s *Store) ListUEs(ctx context.Context, ownerID *uint, page Page) ([]models.UE, error) {
	var ues []models.UE
	if err := paginate(ownedBy(s.db(ctx), ownerID), page).Find(&ues).Error; err != nil {
		return nil, err
	}
	return ues, nil
}

// ListUEsByGNB 返回挂在指定 gNB 下的所有 UE，不做所有者过滤。
func (s *Store) ListUEsByGNB(ctx context.Context, gnbID uint) ([]models.UE, error) {
	var ues []models.UE
	if err := s.db(ctx).Where("gnb_id = ?", gnbID).Order("id").Find(&ues).Error; err != nil {
		return nil, err
	}
	return ues, nil
}

// ListUEsByCell 返回挂在指定 Cell 下的所有 UE，不做所有者过滤。
func (s *Store) ListUEsByCell(ctx context.Context, cellID uint) ([]models.UE, error) {
	var ues []models.UE
	if err := s.db(ctx).Where("cell_id = ?", cellID).Order("id").Find(&ues).Error; err != nil {
		return nil, err
	}
	return ues, nil
}

func (s *Store) UpdateUE(ctx context.Context, ue *models.UE) error {
	return s.db(ctx).Save(ue).Error
}

func (s *Store) DeleteUEBySUPI(ctx context.Context, supi string) error {
	return s.db(ctx).Where("supi = ?", supi).Delete(&models.UE{}).Error
}

// CountUEsReferencing 统计 column 列等于 id 的 UE 数量。
// column 只能是 gnb_id、cell_id 或 path_id。
func (s *Store) CountUEsReferencing(ctx context.Context, column string, id uint) (int64, error) {
	switch column {
	case "gnb_id", "cell_id", "path_id":
	default:
		return 0, fmt.Errorf("store: unsupported reference column %q", column)
	}
	var n int64
	err := s.db(ctx).Model(&models.UE{}).Where(column+" = ?", id).Count(&n).Error
	return n, err
}
