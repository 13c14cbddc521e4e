package monitor

import (
	"context"
	"fmt"

	"github.com/KNICEX/pump-radar/internal/service/exchange"
)

// scanService 扫描入口: 固定顺序跑三个阶段再做价格回升检查
// 后面的阶段消费前面阶段写入的状态, 顺序不能乱
type scanService struct {
	sm      *StateMachine
	checker *InvalidationChecker
}

func NewScanService(sm *StateMachine, checker *InvalidationChecker) Service {
	return &scanService{
		sm:      sm,
		checker: checker,
	}
}

// Scan 单次完整扫描, 部分失败时仍返回已完成的计数
func (s *scanService) Scan(ctx context.Context, interval exchange.Interval) (Summary, error) {
	var summary Summary

	// 验证阶段用确认阶段之前的suspected快照, 一条记录每个周期最多推进一个阶段
	suspected, err := s.sm.FindSuspected(ctx, interval)
	if err != nil {
		return summary, fmt.Errorf("find suspected records: %w", err)
	}

	summary.Discovered, err = s.sm.ScanDiscovery(ctx, interval)
	if err != nil {
		return summary, fmt.Errorf("discovery scan: %w", err)
	}
	summary.Confirmed, err = s.sm.ScanConfirmation(ctx, interval)
	if err != nil {
		return summary, fmt.Errorf("confirmation scan: %w", err)
	}
	summary.Validated, err = s.sm.ScanValidation(ctx, interval, suspected)
	if err != nil {
		return summary, fmt.Errorf("validation scan: %w", err)
	}
	summary.Invalidated, err = s.checker.Check(ctx, interval)
	if err != nil {
		return summary, fmt.Errorf("invalidation check: %w", err)
	}
	return summary, nil
}
