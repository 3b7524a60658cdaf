package predictor

import (
	"math/rand"
	"sort"

	"ssq-predictor/internal/lottery"
)

// FallbackConfidence 随机兜底预测的固定置信度
const FallbackConfidence = 30.0

// PredictionResult 标准预测结果：6个升序红球、1个蓝球、置信度与算法诊断数据
type PredictionResult struct {
	RedBalls   []int                  `json:"red_balls"`
	BlueBall   int                    `json:"blue_ball"`
	Confidence float64                `json:"confidence"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// IsFallback 是否为兜底结果
func (r *PredictionResult) IsFallback() bool {
	if r.Metadata == nil {
		return false
	}
	fallback, ok := r.Metadata["fallback"].(bool)
	return ok && fallback
}

// base 各预测器共享的基础能力：名称与置信度上限
type base struct {
	name          string
	maxConfidence float64
}

// Name 算法名称
func (b *base) Name() string {
	return b.name
}

// MaxConfidence 该算法允许的置信度上限
func (b *base) MaxConfidence() float64 {
	return b.maxConfidence
}

// validate 规范化预测结果：红球去重排序、不足补齐、越界修复、置信度封顶
func (b *base) validate(result *PredictionResult) *PredictionResult {
	redBalls := uniqueSorted(result.RedBalls)

	if len(redBalls) < lottery.RedCount {
		// 随机补齐未使用的红球号码
		used := make(map[int]bool, len(redBalls))
		for _, num := range redBalls {
			used[num] = true
		}
		var available []int
		for num := 1; num <= lottery.RedRangeMax; num++ {
			if !used[num] {
				available = append(available, num)
			}
		}
		rand.Shuffle(len(available), func(i, j int) {
			available[i], available[j] = available[j], available[i]
		})
		redBalls = append(redBalls, available[:lottery.RedCount-len(redBalls)]...)
		sort.Ints(redBalls)
	} else if len(redBalls) > lottery.RedCount {
		redBalls = redBalls[:lottery.RedCount]
	}

	blueBall := result.BlueBall
	if blueBall < 1 || blueBall > lottery.BlueRangeMax {
		blueBall = rand.Intn(lottery.BlueRangeMax) + 1
	}

	confidence := result.Confidence
	if confidence > b.maxConfidence {
		confidence = b.maxConfidence
	}
	if confidence < 0 {
		confidence = 0
	}

	return &PredictionResult{
		RedBalls:   redBalls,
		BlueBall:   blueBall,
		Confidence: confidence,
		Metadata:   result.Metadata,
	}
}

// randomFallback 随机兜底预测，置信度固定为30
func (b *base) randomFallback() *PredictionResult {
	return RandomFallback()
}

// RandomFallback 生成随机兜底预测：6个不重复红球加1个蓝球
func RandomFallback() *PredictionResult {
	return &PredictionResult{
		RedBalls:   SampleRedBalls(),
		BlueBall:   rand.Intn(lottery.BlueRangeMax) + 1,
		Confidence: FallbackConfidence,
		Metadata:   map[string]interface{}{"fallback": true},
	}
}

// SampleRedBalls 从1-33中无放回均匀抽取6个号码并升序排列
func SampleRedBalls() []int {
	perm := rand.Perm(lottery.RedRangeMax)
	redBalls := make([]int, lottery.RedCount)
	for i := 0; i < lottery.RedCount; i++ {
		redBalls[i] = perm[i] + 1
	}
	sort.Ints(redBalls)
	return redBalls
}

// uniqueSorted 去重并升序排列
func uniqueSorted(numbers []int) []int {
	seen := make(map[int]bool, len(numbers))
	var result []int
	for _, num := range numbers {
		if !seen[num] {
			seen[num] = true
			result = append(result, num)
		}
	}
	sort.Ints(result)
	return result
}
