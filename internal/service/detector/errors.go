package detector

import (
	"errors"
	"fmt"
)

// DataInsufficientError K线窗口长度不足
// 调用方不能用部分窗口继续计算, 只能跳过本周期等待数据补齐
type DataInsufficientError struct {
	Detector string
	Need     int
	Got      int
}

func (e *DataInsufficientError) Error() string {
	return fmt.Sprintf("%s: insufficient klines, need %d, got %d", e.Detector, e.Need, e.Got)
}

// ComputeError 计算过程异常(除零等), 等价于数据不足, 决不能当作"无异动"处理
type ComputeError struct {
	Detector string
	Step     string
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("%s: cannot compute %s", e.Detector, e.Step)
}

// IsDataError 该错误是否应该只跳过当前记录而不中断整轮扫描
func IsDataError(err error) bool {
	var insufficient *DataInsufficientError
	if errors.As(err, &insufficient) {
		return true
	}
	var compute *ComputeError
	return errors.As(err, &compute)
}
