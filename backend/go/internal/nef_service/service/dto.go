package service

import (
	"encoding/json"

	"NEF_Emulator/backend/go/internal/models"
)

// UECreate 是创建 UE 的请求体。
type UECreate struct {
	SUPI          string       `json:"supi" binding:"required,numeric,min=5,max=15"`
	Name          string       `json:"name" binding:"max=255"`
	Description   string       `json:"description" binding:"max=1024"`
	ExtIdentifier string       `json:"ext_identifier" binding:"max=255"`
	GNBID         uint         `json:"gNB_id" binding:"required"`
	CellID        uint         `json:"Cell_id" binding:"required"`
	PathID        uint         `json:"path_id" binding:"required"`
	IPAddressV4   string       `json:"ip_address_v4" binding:"omitempty,ipv4"`
	IPAddressV6   string       `json:"ip_address_v6" binding:"omitempty,ipv6"`
	MAC           string       `json:"mac" binding:"omitempty,mac"`
	MCC           int          `json:"mcc" binding:"gte=0,lte=999"`
	MNC           int          `json:"mnc" binding:"gte=0,lte=999"`
	DNN           string       `json:"dnn" binding:"max=255"`
	Speed         models.Speed `json:"speed" binding:"omitempty,oneof=LOW HIGH"`
	Latitude      float64      `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude     float64      `json:"longitude" binding:"gte=-180,lte=180"`
}

func (in *UECreate) toModel(ownerID uint) *models.UE {
	speed := in.Speed
	if speed == "" {
		speed = models.SpeedLow
	}
	return &models.UE{
		SUPI:          in.SUPI,
		Name:          in.Name,
		Description:   in.Description,
		ExtIdentifier: in.ExtIdentifier,
		GNBID:         in.GNBID,
		CellID:        in.CellID,
		PathID:        in.PathID,
		IPAddressV4:   in.IPAddressV4,
		IPAddressV6:   in.IPAddressV6,
		MAC:           in.MAC,
		MCC:           in.MCC,
		MNC:           in.MNC,
		DNN:           in.DNN,
		Speed:         speed,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		OwnerID:       ownerID,
	}
}

// UEUpdate 是部分更新：只有非 nil 的字段会被写入。
type UEUpdate struct {
	Name          *string       `json:"name" binding:"omitempty,max=255"`
	Description   *string       `json:"description" binding:"omitempty,max=1024"`
	ExtIdentifier *string       `json:"ext_identifier" binding:"omitempty,max=255"`
	GNBID         *uint         `json:"gNB_id" binding:"omitempty,gt=0"`
	CellID        *uint         `json:"Cell_id" binding:"omitempty,gt=0"`
	PathID        *uint         `json:"path_id" binding:"omitempty,gt=0"`
	IPAddressV4   *string       `json:"ip_address_v4" binding:"omitempty,ipv4"`
	IPAddressV6   *string       `json:"ip_address_v6" binding:"omitempty,ipv6"`
	MAC           *string       `json:"mac" binding:"omitempty,mac"`
	MCC           *int          `json:"mcc" binding:"omitempty,gte=0,lte=999"`
	MNC           *int          `json:"mnc" binding:"omitempty,gte=0,lte=999"`
	DNN           *string       `json:"dnn" binding:"omitempty,max=255"`
	Speed         *models.Speed `json:"speed" binding:"omitempty,oneof=LOW HIGH"`
	Latitude      *float64      `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude     *float64      `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
}

func (in *UEUpdate) apply(ue *models.UE) {
	setIf(&ue.Name, in.Name)
	setIf(&ue.Description, in.Description)
	setIf(&ue.ExtIdentifier, in.ExtIdentifier)
	setIf(&ue.GNBID, in.GNBID)
	setIf(&ue.CellID, in.CellID)
	setIf(&ue.PathID, in.PathID)
	setIf(&ue.IPAddressV4, in.IPAddressV4)
	setIf(&ue.IPAddressV6, in.IPAddressV6)
	setIf(&ue.MAC, in.MAC)
	setIf(&ue.MCC, in.MCC)
	setIf(&ue.MNC, in.MNC)
	setIf(&ue.DNN, in.DNN)
	setIf(&ue.Speed, in.Speed)
	setIf(&ue.Latitude, in.Latitude)
	setIf(&ue.Longitude, in.Longitude)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// PathCreate 是创建路径的请求体，points 与路径一起写入。
type PathCreate struct {
	Description string              `json:"description" binding:"max=1024"`
	Color       string              `json:"color" binding:"max=16"`
	StartPoint  models.Coordinate   `json:"start_point"`
	EndPoint    models.Coordinate   `json:"end_point"`
	Points      []models.Coordinate `json:"points" binding:"dive"`
}

// PathUpdate 是部分更新。Points 非 nil 时替换路径上的全部点。
type PathUpdate struct {
	Description *string              `json:"description" binding:"omitempty,max=1024"`
	Color       *string              `json:"color" binding:"omitempty,max=16"`
	StartPoint  *models.Coordinate   `json:"start_point"`
	EndPoint    *models.Coordinate   `json:"end_point"`
	Points      *[]models.Coordinate `json:"points" binding:"omitempty,dive"`
}

// GNBCreate 是创建 gNB 的请求体。
type GNBCreate struct {
	GNBID       string `json:"gNB_id" binding:"required,hexadecimal,len=6"`
	Name        string `json:"name" binding:"max=255"`
	Description string `json:"description" binding:"max=1024"`
	Location    string `json:"location" binding:"max=255"`
}

type GNBUpdate struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1024"`
	Location    *string `json:"location" binding:"omitempty,max=255"`
}

// CellCreate 是创建 Cell 的请求体，gNB_id 是 gNB 的主键。
type CellCreate struct {
	CellID      string  `json:"cell_id" binding:"required,hexadecimal,len=9"`
	Name        string  `json:"name" binding:"max=255"`
	Description string  `json:"description" binding:"max=1024"`
	GNBID       uint    `json:"gNB_id" binding:"required"`
	Latitude    float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" binding:"gte=-180,lte=180"`
	Radius      float64 `json:"radius" binding:"gte=0"`
}

type CellUpdate struct {
	Name        *string  `json:"name" binding:"omitempty,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=1024"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Radius      *float64 `json:"radius" binding:"omitempty,gte=0"`
}

// UserCreate 是超级用户创建账户的请求体。
type UserCreate struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name" binding:"max=255"`
	IsSuperuser bool   `json:"is_superuser"`
}

// UserUpdateMe 是用户修改自己资料的请求体。
type UserUpdateMe struct {
	FullName *string         `json:"full_name" binding:"omitempty,max=255"`
	Password *string         `json:"password" binding:"omitempty,min=8"`
	Settings json.RawMessage `json:"settings"`
}
