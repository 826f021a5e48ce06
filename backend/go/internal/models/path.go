package models

import "time"

// Path 是一条地理路线。起点和终点坐标直接存储在行上，
// 中间点存储在 points 表中。
type Path struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Description string  `gorm:"size:1024" json:"description"`
	Color       string  `gorm:"size:16" json:"color"`
	StartLat    float64 `gorm:"not null" json:"start_lat"`
	StartLong   float64 `gorm:"not null" json:"start_long"`
	EndLat      float64 `gorm:"not null" json:"end_lat"`
	EndLong     float64 `gorm:"not null" json:"end_long"`

	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Path) TableName() string {
	return "paths"
}

func (p *Path) GetOwnerID() uint {
	return p.OwnerID
}

// Point 是路径上的一个中间点，只属于一条 Path。
// Seq 记录创建顺序，读取时按它排序。
type Point struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	PathID    uint    `gorm:"index:idx_points_path_seq,priority:1;not null" json:"-"`
	Seq       int     `gorm:"index:idx_points_path_seq,priority:2;not null" json:"-"`
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`
}

func (Point) TableName() string {
	return "points"
}

// Coordinate 是一个经纬度对，单位为度。
type Coordinate struct {
	Latitude  float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"gte=-180,lte=180"`
}

// PathView 是对外返回的路径读模型：原始的 start_lat/start_long/end_lat/end_long
// 被替换为嵌套的 start_point 和 end_point，并附带有序的 points 列表。
type PathView struct {
	ID          uint         `json:"id"`
	Description string       `json:"description"`
	Color       string       `json:"color"`
	OwnerID     uint         `json:"owner_id"`
	StartPoint  Coordinate   `json:"start_point"`
	EndPoint    Coordinate   `json:"end_point"`
	Points      []Coordinate `json:"points"`
}

func (v *PathView) GetOwnerID() uint {
	return v.OwnerID
}
