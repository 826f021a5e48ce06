package models

import (
	"time"

	"gorm.io/datatypes"
)

// User 代表系统中的一个用户账户。
// 除超级用户外，用户只能看到 owner_id 等于自己 ID 的实体。
type User struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Email          string `gorm:"uniqueIndex;not null;size:255" json:"email"`
	FullName       string `gorm:"size:255" json:"full_name"`
	HashedPassword string `gorm:"size:255;not null" json:"-"` // 存储哈希后的密码，json中忽略
	IsActive       bool   `gorm:"not null" json:"is_active"`
	IsSuperuser    bool   `gorm:"not null" json:"is_superuser"`

	// Settings 保存前端的个性化设置 (例如地图中心点和缩放级别)。
	Settings    datatypes.JSON `json:"settings,omitempty"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
