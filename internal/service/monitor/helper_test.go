package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/KNICEX/pump-radar/internal/entity"
	"github.com/KNICEX/pump-radar/internal/repo"
	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// ============ Mock 定义 ============

type MockMarketService struct {
	mock.Mock
}

func (m *MockMarketService) GetKlines(ctx context.Context, req exchange.GetKlinesReq) ([]exchange.Kline, error) {
	args := m.Called(ctx, req)
	return args.Get(0).([]exchange.Kline), args.Error(1)
}

type MockSymbolService struct {
	mock.Mock
}

func (m *MockSymbolService) GetAllSymbols(ctx context.Context) ([]exchange.Symbol, error) {
	args := m.Called(ctx)
	return args.Get(0).([]exchange.Symbol), args.Error(1)
}

func (m *MockSymbolService) GetSymbolPrice(ctx context.Context, symbol exchange.Symbol) (exchange.Symbol, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(exchange.Symbol), args.Error(1)
}

// chanNotifier 把信号丢进channel方便断言
type chanNotifier struct {
	ch chan AbandonSignal
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{ch: make(chan AbandonSignal, 1)}
}

func (n *chanNotifier) Notify(ctx context.Context, signal AbandonSignal) error {
	n.ch <- signal
	return nil
}

// ============ 内存版MonitorRepo ============

type fakeMonitorRepo struct {
	mu          sync.Mutex
	nextId      int64
	records     map[int64]*entity.MonitorRecord
	snapshots   []entity.IndicatorSnapshot
	transitions []entity.StateTransition

	createErr  error
	advanceErr error
}

func newFakeMonitorRepo() *fakeMonitorRepo {
	return &fakeMonitorRepo{
		records: make(map[int64]*entity.MonitorRecord),
	}
}

func (f *fakeMonitorRepo) seed(record entity.MonitorRecord) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextId++
	record.Id = f.nextId
	f.records[record.Id] = &record
	return record.Id
}

func (f *fakeMonitorRepo) CreateWithEvent(ctx context.Context, record entity.MonitorRecord,
	snapshot entity.IndicatorSnapshot, transition entity.StateTransition) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextId++
	record.Id = f.nextId
	f.records[record.Id] = &record
	snapshot.RecordId = record.Id
	transition.RecordId = record.Id
	f.snapshots = append(f.snapshots, snapshot)
	f.transitions = append(f.transitions, transition)
	return record.Id, nil
}

func (f *fakeMonitorRepo) Advance(ctx context.Context, input repo.AdvanceInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.advanceErr != nil {
		return f.advanceErr
	}
	record, ok := f.records[input.RecordId]
	if !ok || record.Status != input.From {
		return repo.ErrStaleRecord
	}
	record.Status = input.To
	switch input.PhaseFlag {
	case "phase2_passed":
		record.Phase2Passed = true
	case "phase3_passed":
		record.Phase3Passed = true
	}
	snapshot := input.Snapshot
	snapshot.RecordId = input.RecordId
	f.snapshots = append(f.snapshots, snapshot)
	transition := input.Transition
	transition.RecordId = input.RecordId
	f.transitions = append(f.transitions, transition)
	return nil
}

func (f *fakeMonitorRepo) FindByStatus(ctx context.Context, interval string, status string) ([]entity.MonitorRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []entity.MonitorRecord
	for _, r := range f.records {
		if r.Interval == interval && r.Status == status {
			res = append(res, *r)
		}
	}
	return res, nil
}

func (f *fakeMonitorRepo) FindNotInvalidated(ctx context.Context, interval string) ([]entity.MonitorRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []entity.MonitorRecord
	for _, r := range f.records {
		if r.Interval == interval && r.Status != entity.StatusInvalidated {
			res = append(res, *r)
		}
	}
	return res, nil
}

func (f *fakeMonitorRepo) HasOpen(ctx context.Context, base, quote, interval string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.BaseSymbol == base && r.QuoteSymbol == quote && r.Interval == interval &&
			(r.Status == entity.StatusPending || r.Status == entity.StatusSuspected) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMonitorRepo) HasTrigger(ctx context.Context, base, quote, interval string, triggerTime time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.BaseSymbol == base && r.QuoteSymbol == quote && r.Interval == interval &&
			r.TriggerTime.Equal(triggerTime) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMonitorRepo) FindSnapshots(ctx context.Context, recordId int64) ([]entity.IndicatorSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []entity.IndicatorSnapshot
	for _, s := range f.snapshots {
		if s.RecordId == recordId {
			res = append(res, s)
		}
	}
	return res, nil
}

func (f *fakeMonitorRepo) FindTransitions(ctx context.Context, recordId int64) ([]entity.StateTransition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []entity.StateTransition
	for _, t := range f.transitions {
		if t.RecordId == recordId {
			res = append(res, t)
		}
	}
	return res, nil
}

// ============ K线窗口构造 ============

var testWindowStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func testKline(index int, open, high, low, closePrice, volume float64) exchange.Kline {
	interval := 4 * time.Hour
	openTime := testWindowStart.Add(time.Duration(index) * interval)
	return exchange.Kline{
		OpenTime:  openTime,
		CloseTime: openTime.Add(interval),
		Open:      decimal.NewFromFloat(open),
		High:      decimal.NewFromFloat(high),
		Low:       decimal.NewFromFloat(low),
		Close:     decimal.NewFromFloat(closePrice),
		Volume:    decimal.NewFromFloat(volume),
	}
}

// discoveryWindow 符合发现条件的窗口: 最后一根放量冲高回落
func discoveryWindow() []exchange.Kline {
	klines := make([]exchange.Kline, 0, 31)
	for i := 0; i < 30; i++ {
		klines = append(klines, testKline(i, 100, 100.5, 99.5, 100, 1000))
	}
	// 冲高110被打回101, 量是均值10倍
	klines = append(klines, testKline(30, 100, 110, 100, 101, 10000))
	return klines
}

// confirmationWindow 触发K线之后缩量下跌的窗口, 触发K线在序号30
func confirmationWindow() []exchange.Kline {
	klines := make([]exchange.Kline, 0, 34)
	for i := 0; i < 30; i++ {
		klines = append(klines, testKline(i, 100, 101.5, 99.5, 101, 10))
	}
	klines = append(klines, testKline(30, 100, 110, 100, 101, 1000))
	klines = append(klines, testKline(31, 99.2, 99.3, 98.9, 99, 100))
	klines = append(klines, testKline(32, 99.2, 99.3, 98.9, 99, 100))
	// 极小的量推动1块的价格变化, 价格效率异常
	klines = append(klines, testKline(33, 99, 99.1, 97.9, 98, 1))
	return klines
}

// validationWindow 下跌趋势+波动收敛的窗口
func validationWindow() []exchange.Kline {
	klines := make([]exchange.Kline, 0, 45)
	for i := 0; i < 45; i++ {
		closePrice := 200 - float64(i)
		openPrice := closePrice + 1
		spread := 5.0
		if i >= 33 {
			spread = 0.25
		}
		klines = append(klines, testKline(i, openPrice, openPrice+spread, closePrice-spread, closePrice, 100))
	}
	return klines
}
