package store

import (
	"context"

	"NEF_Emulator/backend/go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Lock 表示读取一行时使用的行锁强度。
type Lock int

const (
	NoLock     Lock = iota
	LockShare       // SELECT ... FOR SHARE，用于校验被引用的实体
	LockUpdate      // SELECT ... FOR UPDATE，用于删除或修改前锁住目标行
)

// Page 是列表接口的分页参数。
type Page struct {
	Skip  int
	Limit int
}

// Store 封装了所有与 NEF 实体相关的数据库操作。
// 在事务中通过 Transaction 拿到绑定了 tx 的 Store，所有方法都会在同一事务内执行。
type Store struct {
	DB *gorm.DB
}

// NewStore 创建一个新的 Store 实例。
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// AutoMigrate 创建或更新所有表结构。
func (s *Store) AutoMigrate() error {
	return s.DB.AutoMigrate(
		&models.User{},
		&models.GNB{},
		&models.Cell{},
		&models.Path{},
		&models.Point{},
		&models.UE{},
	)
}

// Transaction 在一个数据库事务中执行 fn。fn 返回错误时事务回滚。
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

func (s *Store) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

func withLock(db *gorm.DB, lock Lock) *gorm.DB {
	switch lock {
	case LockShare:
		return db.Clauses(clause.Locking{Strength: "SHARE"})
	case LockUpdate:
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	default:
		return db
	}
}

// paginate 应用分页和按主键排序，保证结果顺序稳定。
func paginate(db *gorm.DB, page Page) *gorm.DB {
	db = db.Order("id")
	if page.Skip > 0 {
		db = db.Offset(page.Skip)
	}
	if page.Limit > 0 {
		db = db.Limit(page.Limit)
	}
	return db
}

// ownedBy 在 ownerID 不为空时按 owner_id 过滤。超级用户传入 nil。
func ownedBy(db *gorm.DB, ownerID *uint) *gorm.DB {
	if ownerID != nil {
		return db.Where("owner_id = ?", *ownerID)
	}
	return db
}
