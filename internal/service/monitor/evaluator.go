package monitor

import (
	"github.com/KNICEX/pump-radar/internal/service/detector"
)

// ConditionEvaluator 组合各检测器的结论, 决定阶段迁移
// 组合逻辑和检测逻辑分离: 以后调整某阶段用哪些检测器, 或者改成加权方案, 只动这里
type ConditionEvaluator struct{}

func NewConditionEvaluator() ConditionEvaluator {
	return ConditionEvaluator{}
}

// EvaluateDiscovery 发现阶段: 放量 且 振幅异动(含上影线条件)
func (e ConditionEvaluator) EvaluateDiscovery(rvol, amplitude detector.Result) bool {
	return rvol.Anomalous && amplitude.Anomalous
}

// EvaluateConfirmation 确认阶段: 缩量 且 跌破关键位 且 价格效率异常
func (e ConditionEvaluator) EvaluateConfirmation(retention, breach, efficiency detector.Result) bool {
	return retention.Anomalous && breach.Anomalous && efficiency.Anomalous
}

// EvaluateValidation 验证阶段: 均线死叉 且 OBV单边流出 且 波动率压缩
func (e ConditionEvaluator) EvaluateValidation(maCross, obv, atr detector.Result) bool {
	return maCross.Anomalous && obv.Anomalous && atr.Anomalous
}
