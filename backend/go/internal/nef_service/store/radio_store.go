package store

import (
	"context"

	"NEF_Emulator/backend/go/internal/models"
)

// --- gNB ---

func (s *Store) CreateGNB(ctx context.Context, gnb *models.GNB) error {
	return s.db(ctx).Create(gnb).Error
}

// GetGNB 通过主键查找 gNB。
func (s *Store) GetGNB(ctx context.Context, id uint, lock Lock) (*models.GNB, error) {
	var gnb models.GNB
	if err := withLock(s.db(ctx), lock).First(&gnb, id).Error; err != nil {
		return nil, err
	}
	return &gnb, nil
}

// GetGNBByGNBID 通过 6 位十六进制的 gNB_id 查找 gNB。
func (s *Store) GetGNBByGNBID(ctx context.Context, gnbID string) (*models.GNB, error) {
	var gnb models.GNB
	if err := s.db(ctx).Where("gnb_id = ?", gnbID).First(&gnb).Error; err != nil {
		return nil, err
	}
	return &gnb, nil
}

func (s *Store) ListGNBs(ctx context.Context, ownerID *uint, page Page) ([]models.GNB, error) {
	var gnbs []models.GNB
	if err := paginate(ownedBy(s.db(ctx), ownerID), page).Find(&gnbs).Error; err != nil {
		return nil, err
	}
	return gnbs, nil
}

func (s *Store) UpdateGNB(ctx context.Context, gnb *models.GNB) error {
	return s.db(ctx).Save(gnb).Error
}

func (s *Store) DeleteGNB(ctx context.Context, id uint) error {
	return s.db(ctx).Delete(&models.GNB{}, id).Error
}

// --- Cell ---

func (s *Store) CreateCell(ctx context.Context, cell *models.Cell) error {
	return s.db(ctx).Create(cell).Error
}

// GetCell 通过主键查找 Cell。
func (s *Store) GetCell(ctx context.Context, id uint, lock Lock) (*models.Cell, error) {
	var cell models.Cell
	if err := withLock(s.db(ctx), lock).First(&cell, id).Error; err != nil {
		return nil, err
	}
	return &cell, nil
}

// GetCellByCellID 通过 9 位十六进制的 cell_id 查找 Cell。
func (s *Store) GetCellByCellID(ctx context.Context, cellID string) (*models.Cell, error) {
	var cell models.Cell
	if err := s.db(ctx).Where("cell_id = ?", cellID).First(&cell).Error; err != nil {
		return nil, err
	}
	return &cell, nil
}

func (s *Store) ListCells(ctx context.Context, ownerID *uint, page Page) ([]models.Cell, error) {
	var cells []models.Cell
	if err := paginate(ownedBy(s.db(ctx), ownerID), page).Find(&cells).Error; err != nil {
		return nil, err
	}
	return cells, nil
}

func (s *Store) UpdateCell(ctx context.Context, cell *models.Cell) error {
	return s.db(ctx).Save(cell).Error
}

func (s *Store) DeleteCell(ctx context.Context, id uint) error {
	return s.db(ctx).Delete(&models.Cell{}, id).Error
}

// CountCellsByGNB 返回挂在某个 gNB 下的 Cell 数量。
func (s *Store) CountCellsByGNB(ctx context.Context, gnbID uint) (int64, error) {
	var n int64
	err := s.db(ctx).Model(&models.Cell{}).Where("gnb_id = ?", gnbID).Count(&n).Error
	return n, err
}
