package decimalx

import "github.com/shopspring/decimal"

// Mean 计算平均值
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}

	var sum decimal.Decimal
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}

// StdDev 计算标准差
func StdDev(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}

	avg := Mean(values)
	var variance decimal.Decimal
	for _, v := range values {
		diff := v.Sub(avg)
		variance = variance.Add(diff.Mul(diff))
	}
	variance = variance.Div(decimal.NewFromInt(int64(len(values))))
	return variance.Pow(decimal.NewFromFloat(0.5))
}

// EMA 计算指数移动平均序列, 以第一个值作为种子
// 返回序列和输入等长
func EMA(values []decimal.Decimal, period int) []decimal.Decimal {
	if len(values) == 0 || period <= 0 {
		return nil
	}

	multiplier := decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(period + 1)))
	one := decimal.NewFromInt(1)

	res := make([]decimal.Decimal, len(values))
	res[0] = values[0]
	for i := 1; i < len(values); i++ {
		res[i] = values[i].Mul(multiplier).Add(res[i-1].Mul(one.Sub(multiplier)))
	}
	return res
}

// IsMonotonicDesc 判断序列是否严格单调递减
func IsMonotonicDesc(values []decimal.Decimal) bool {
	for i := 1; i < len(values); i++ {
		if values[i].GreaterThanOrEqual(values[i-1]) {
			return false
		}
	}
	return true
}
