package schedule

import (
	"context"
	"log/slog"
	"time"
)

// RunPeriodic 固定周期运行任务, 上一轮跑完才开始下一轮, 同一任务不会并发
// 任务报错只记录日志, 等待下个周期重试
func RunPeriodic(ctx context.Context, task Task, period time.Duration) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		start := time.Now()
		if err := task.Run(ctx); err != nil {
			slog.Error("task run failed", "task", task.Name(), "cost", time.Since(start), "error", err)
		} else {
			slog.Info("task run done", "task", task.Name(), "cost", time.Since(start))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
