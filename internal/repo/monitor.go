package repo

import (
	"context"
	"errors"
	"time"

	"github.com/KNICEX/pump-radar/internal/entity"
	"gorm.io/gorm"
)

// ErrStaleRecord 记录状态和预期不一致, 说明本周期内已被其他阶段处理过
var ErrStaleRecord = errors.New("monitor record status changed")

// AdvanceInput 状态推进的原子写入单元: 状态更新 + 指标快照 + 迁移日志
type AdvanceInput struct {
	RecordId int64
	From     string
	To       string
	// PhaseFlag 推进成功时置为true的阶段标记列, 为空则不更新标记
	PhaseFlag  string
	Snapshot   entity.IndicatorSnapshot
	Transition entity.StateTransition
}

type MonitorRepo interface {
	// CreateWithEvent 创建记录并写入首个快照和迁移日志, 三者在同一事务内
	CreateWithEvent(ctx context.Context, record entity.MonitorRecord,
		snapshot entity.IndicatorSnapshot, transition entity.StateTransition) (int64, error)
	// Advance 按当前状态做CAS推进, 状态不匹配返回ErrStaleRecord
	Advance(ctx context.Context, input AdvanceInput) error

	FindByStatus(ctx context.Context, interval string, status string) ([]entity.MonitorRecord, error)
	// FindNotInvalidated 返回所有未作废记录, 供价格回升检查使用
	FindNotInvalidated(ctx context.Context, interval string) ([]entity.MonitorRecord, error)
	// HasOpen 是否存在未终结(pending/suspected)的记录
	HasOpen(ctx context.Context, base, quote, interval string) (bool, error)
	// HasTrigger 同一根触发K线是否已经建过记录, 防止重复发现
	HasTrigger(ctx context.Context, base, quote, interval string, triggerTime time.Time) (bool, error)

	FindSnapshots(ctx context.Context, recordId int64) ([]entity.IndicatorSnapshot, error)
	FindTransitions(ctx context.Context, recordId int64) ([]entity.StateTransition, error)
}

type monitorRepo struct {
	db *gorm.DB
}

func NewMonitorRepo(db *gorm.DB) MonitorRepo {
	return &monitorRepo{
		db: db,
	}
}

func (r *monitorRepo) CreateWithEvent(ctx context.Context, record entity.MonitorRecord,
	snapshot entity.IndicatorSnapshot, transition entity.StateTransition) (int64, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		snapshot.RecordId = record.Id
		transition.RecordId = record.Id
		if err := tx.Create(&snapshot).Error; err != nil {
			return err
		}
		return tx.Create(&transition).Error
	})
	if err != nil {
		return 0, err
	}
	return record.Id, nil
}

func (r *monitorRepo) Advance(ctx context.Context, input AdvanceInput) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": input.To}
		if input.PhaseFlag != "" {
			updates[input.PhaseFlag] = true
		}
		res := tx.Model(&entity.MonitorRecord{}).
			Where("id = ? AND status = ?", input.RecordId, input.From).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleRecord
		}

		snapshot := input.Snapshot
		snapshot.RecordId = input.RecordId
		if err := tx.Create(&snapshot).Error; err != nil {
			return err
		}
		transition := input.Transition
		transition.RecordId = input.RecordId
		return tx.Create(&transition).Error
	})
}

func (r *monitorRepo) FindByStatus(ctx context.Context, interval string, status string) ([]entity.MonitorRecord, error) {
	var records []entity.MonitorRecord
	err := r.db.WithContext(ctx).
		Where("interval = ? AND status = ?", interval, status).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *monitorRepo) FindNotInvalidated(ctx context.Context, interval string) ([]entity.MonitorRecord, error) {
	var records []entity.MonitorRecord
	err := r.db.WithContext(ctx).
		Where("interval = ? AND status <> ?", interval, entity.StatusInvalidated).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *monitorRepo) HasOpen(ctx context.Context, base, quote, interval string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.MonitorRecord{}).
		Where("base_symbol = ? AND quote_symbol = ? AND interval = ? AND status IN ?",
			base, quote, interval, []string{entity.StatusPending, entity.StatusSuspected}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *monitorRepo) HasTrigger(ctx context.Context, base, quote, interval string, triggerTime time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.MonitorRecord{}).
		Where("base_symbol = ? AND quote_symbol = ? AND interval = ? AND trigger_time = ?",
			base, quote, interval, triggerTime).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *monitorRepo) FindSnapshots(ctx context.Context, recordId int64) ([]entity.IndicatorSnapshot, error) {
	var snapshots []entity.IndicatorSnapshot
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordId).
		Order("id ASC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *monitorRepo) FindTransitions(ctx context.Context, recordId int64) ([]entity.StateTransition, error) {
	var transitions []entity.StateTransition
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordId).
		Order("id ASC").
		Find(&transitions).Error
	if err != nil {
		return nil, err
	}
	return transitions, nil
}
