package repo

import (
	"github.com/KNICEX/pump-radar/internal/entity"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Symbol{},
		&entity.MonitorRecord{},
		&entity.IndicatorSnapshot{},
		&entity.StateTransition{},
	)
}
