package models

import "time"

// GNB 是一个模拟的 5G 基站。
type GNB struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	GNBID       string `gorm:"column:gnb_id;uniqueIndex;not null;size:6" json:"gNB_id"` // 6 位十六进制
	Name        string `gorm:"size:255" json:"name"`
	Description string `gorm:"size:1024" json:"description"`
	Location    string `gorm:"size:255" json:"location"`

	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (GNB) TableName() string {
	return "gnbs"
}

func (g *GNB) GetOwnerID() uint {
	return g.OwnerID
}

// Cell 是挂在某个 gNB 下的无线小区。
type Cell struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	CellID      string  `gorm:"column:cell_id;uniqueIndex;not null;size:9" json:"cell_id"` // 9 位十六进制
	Name        string  `gorm:"size:255" json:"name"`
	Description string  `gorm:"size:1024" json:"description"`
	GNBID       uint    `gorm:"column:gnb_id;index;not null" json:"gNB_id"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Radius      float64 `json:"radius"`

	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Cell) TableName() string {
	return "cells"
}

func (c *Cell) GetOwnerID() uint {
	return c.OwnerID
}
