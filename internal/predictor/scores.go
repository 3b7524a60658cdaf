package predictor

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"ssq-predictor/internal/lottery"
)

// 评分基础工具：频次统计、归一化、移动平均、冷热分类、遗漏评分。
// 所有表都覆盖号码池全区间，下游融合无需处理缺键。

// frequencyTable 统计每个号码的出现次数，覆盖 1..rangeMax 全区间
func frequencyTable(numbers []int, rangeMax int) map[int]float64 {
	table := make(map[int]float64, rangeMax)
	for num := 1; num <= rangeMax; num++ {
		table[num] = 0
	}
	for _, num := range numbers {
		if num >= 1 && num <= rangeMax {
			table[num]++
		}
	}
	return table
}

// flatten 展平红球序列
func flatten(draws [][]int) []int {
	var numbers []int
	for _, draw := range draws {
		numbers = append(numbers, draw...)
	}
	return numbers
}

// normalizeScores min-max归一化到[0,1]；所有值相同时每项取 1/n
func normalizeScores(values map[int]float64) map[int]float64 {
	if len(values) == 0 {
		return map[int]float64{}
	}

	minValue := math.Inf(1)
	maxValue := math.Inf(-1)
	for _, value := range values {
		minValue = math.Min(minValue, value)
		maxValue = math.Max(maxValue, value)
	}

	normalized := make(map[int]float64, len(values))
	if maxValue == minValue {
		uniform := 1.0 / float64(len(values))
		for key := range values {
			normalized[key] = uniform
		}
		return normalized
	}

	span := maxValue - minValue
	for key, value := range values {
		normalized[key] = (value - minValue) / span
	}
	return normalized
}

// movingAverage 计算移动平均；序列短于窗口时原样返回，
// 前 window-1 个点使用累积均值
func movingAverage(data []float64, window int) []float64 {
	if len(data) < window || window <= 0 {
		return data
	}

	result := make([]float64, len(data))
	for i := range data {
		start := 0
		if i >= window-1 {
			start = i - window + 1
		}
		result[i] = stat.Mean(data[start:i+1], nil)
	}
	return result
}

// slopeOf 最小二乘直线拟合的斜率
func slopeOf(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, beta := stat.LinearRegression(xs, values, nil, false)
	if math.IsNaN(beta) {
		return 0
	}
	return beta
}

// hotColdNumbers 按频次百分位将号码划分为热/冷/中性，
// 70分位以上为热，30分位以下为冷
func hotColdNumbers(freq map[int]float64) (hot, cold, neutral []int) {
	if len(freq) == 0 {
		for num := 1; num <= lottery.RedRangeMax; num++ {
			neutral = append(neutral, num)
		}
		return nil, nil, neutral
	}

	frequencies := make([]float64, 0, len(freq))
	for _, count := range freq {
		frequencies = append(frequencies, count)
	}
	sort.Float64s(frequencies)

	hotCutoff := percentile(frequencies, 0.7)
	coldCutoff := percentile(frequencies, 0.3)

	keys := sortedKeys(freq)
	for _, num := range keys {
		switch count := freq[num]; {
		case count >= hotCutoff:
			hot = append(hot, num)
		case count <= coldCutoff:
			cold = append(cold, num)
		default:
			neutral = append(neutral, num)
		}
	}
	return hot, cold, neutral
}

// percentile 升序序列的线性插值百分位：秩 h = p×(n-1)，
// 相邻样本间线性插值
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	h := p * float64(len(sorted)-1)
	lower := int(math.Floor(h))
	upper := int(math.Ceil(h))
	if lower == upper {
		return sorted[lower]
	}
	return sorted[lower] + (h-float64(lower))*(sorted[upper]-sorted[lower])
}

// frequencyConfidence 基于选中号码的频次集中度计算置信度，范围50-75
func frequencyConfidence(selected []int, freq map[int]float64) float64 {
	var total float64
	for _, count := range freq {
		total += count
	}
	if total == 0 {
		return 50
	}

	var selectedTotal float64
	for _, num := range selected {
		selectedTotal += freq[num]
	}
	concentration := selectedTotal / total * 100

	confidence := 50 + concentration*0.25
	return math.Min(confidence, 75)
}

// currentGapScores 遗漏评分：自最近一期起向前扫描，号码越久未出现分值越高
func currentGapScores(history []lottery.Draw, rangeMax int, red bool) map[int]float64 {
	scores := make(map[int]float64, rangeMax)
	if len(history) == 0 {
		for num := 1; num <= rangeMax; num++ {
			scores[num] = 0
		}
		return scores
	}

	defaultGap := len(history)
	gaps := make(map[int]int, rangeMax)
	for num := 1; num <= rangeMax; num++ {
		gaps[num] = defaultGap
	}

	for idx, draw := range history {
		var values []int
		if red {
			values = draw.RedBalls
		} else if draw.BlueBall != 0 {
			values = []int{draw.BlueBall}
		}
		for _, num := range values {
			if num >= 1 && num <= rangeMax && gaps[num] == defaultGap {
				gaps[num] = idx
			}
		}
	}

	for num, gap := range gaps {
		scores[num] = float64(gap) / float64(defaultGap)
	}
	return scores
}

// rankNumbers 按分数降序排列全部号码，同分按号码升序（确定性平局处理）
func rankNumbers(scores map[int]float64) []int {
	numbers := sortedKeys(scores)
	sort.SliceStable(numbers, func(i, j int) bool {
		return scores[numbers[i]] > scores[numbers[j]]
	})
	return numbers
}

// topNumbers 取分数最高的前 n 个号码，结果升序排列
func topNumbers(scores map[int]float64, n int) []int {
	ranked := rankNumbers(scores)
	if n > len(ranked) {
		n = len(ranked)
	}
	top := make([]int, n)
	copy(top, ranked[:n])
	sort.Ints(top)
	return top
}

// argMaxScore 分数最高的号码，同分取号码较小者
func argMaxScore(scores map[int]float64) int {
	ranked := rankNumbers(scores)
	if len(ranked) == 0 {
		return 0
	}
	return ranked[0]
}

// sortedKeys 升序排列的键集合
func sortedKeys(values map[int]float64) []int {
	keys := make([]int, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}

// meanOf 均值，空序列返回0
func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// medianOf 中位数，偶数个取中间两数均值
func medianOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// popStdDev 总体标准差
func popStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := stat.Mean(values, nil)
	var sum float64
	for _, value := range values {
		diff := value - mean
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)))
}

// roundTo 四舍五入到指定小数位
func roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
