package entity

import (
	"time"
)

// Symbol 交易对目录, 用于标记不参与扫描或重点关注的币种
type Symbol struct {
	Id        int64  `gorm:"primaryKey"`
	Base      string `gorm:"uniqueIndex:symbol_idx"`
	Quote     string `gorm:"uniqueIndex:symbol_idx"`
	About     string
	Mark      string `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	MarkIgnore   = "ignore"
	MarkFavorite = "favorite"
)
