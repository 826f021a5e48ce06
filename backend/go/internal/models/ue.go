package models

import "time"

// Speed 表示 UE 沿路径移动的速度档位。
type Speed string

const (
	SpeedLow  Speed = "LOW"
	SpeedHigh Speed = "HIGH"
)

// UE (User Equipment) 是一个模拟的终端设备，通过 SUPI 唯一标识。
// 它必须挂在一个已存在的 gNB、Cell 和 Path 上。
type UE struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	SUPI          string `gorm:"column:supi;uniqueIndex;not null;size:15" json:"supi"`
	Name          string `gorm:"size:255" json:"name"`
	Description   string `gorm:"size:1024" json:"description"`
	ExtIdentifier string `gorm:"column:ext_identifier;size:255" json:"ext_identifier"`

	// 引用关系，写入前在同一事务中校验存在性
	GNBID  uint `gorm:"column:gnb_id;index;not null" json:"gNB_id"`
	CellID uint `gorm:"column:cell_id;index;not null" json:"Cell_id"`
	PathID uint `gorm:"column:path_id;index;not null" json:"path_id"`

	IPAddressV4 string  `gorm:"column:ip_address_v4;size:15" json:"ip_address_v4"`
	IPAddressV6 string  `gorm:"column:ip_address_v6;size:39" json:"ip_address_v6"`
	MAC         string  `gorm:"column:mac;size:17" json:"mac"`
	MCC         int     `gorm:"column:mcc" json:"mcc"`
	MNC         int     `gorm:"column:mnc" json:"mnc"`
	DNN         string  `gorm:"column:dnn;size:255" json:"dnn"`
	Speed       Speed   `gorm:"type:varchar(8);not null" json:"speed"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`

	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (UE) TableName() string {
	return "ues"
}

// GetOwnerID 实现 service.Owned 接口。
func (u *UE) GetOwnerID() uint {
	return u.OwnerID
}
