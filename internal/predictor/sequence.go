package predictor

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"

	"ssq-predictor/internal/lottery"
)

// 序列记忆预测器参数
const (
	sequenceMinHistory = 30   // 低于此期数返回随机兜底
	sequenceLength     = 10   // 近期窗口长度
	sequenceRedAlpha   = 0.18 // 红球指数记忆衰减系数
	sequenceBlueAlpha  = 0.25 // 蓝球指数记忆衰减系数
)

// SequencePredictor 序列记忆预测器：用二值出现矩阵上的
// 近期加权、指数记忆与共现三种画像近似建模号码序列
type SequencePredictor struct {
	base
	sequenceLength int
}

// NewSequencePredictor 创建序列记忆预测器，置信度上限68
func NewSequencePredictor() *SequencePredictor {
	return &SequencePredictor{
		base:           base{name: NameSequence, maxConfidence: 68},
		sequenceLength: sequenceLength,
	}
}

// Predict 组合评分 = 0.4×近期加权 + 0.3×指数记忆 + 0.3×共现，
// 蓝球只用近期加权与指数记忆（0.6/0.4）
func (p *SequencePredictor) Predict(history []lottery.Draw, datasetSize int) *PredictionResult {
	if len(history) < sequenceMinHistory {
		return p.randomFallback()
	}

	data := lottery.Truncate(history, datasetSize)
	reds := lottery.ExtractRedDraws(data)
	blues := lottery.ExtractBlueBalls(data)

	if len(reds) < sequenceMinHistory {
		return p.randomFallback()
	}

	predictedRed, profile := p.predictRedSequence(reds)
	predictedBlue := p.predictBlueSequence(blues)

	confidence := p.sequenceConfidence(profile, predictedRed)

	var selectedStrength float64
	if len(predictedRed) > 0 {
		var selected []float64
		for _, num := range predictedRed {
			if num >= 1 && num <= len(profile) {
				selected = append(selected, profile[num-1])
			}
		}
		selectedStrength = meanOf(selected)
	}

	result := &PredictionResult{
		RedBalls:   predictedRed,
		BlueBall:   predictedBlue,
		Confidence: confidence,
		Metadata: map[string]interface{}{
			"model":            "lstm_inspired",
			"sequence_length":  p.sequenceLength,
			"training_samples": len(reds),
			"signal_strength":  roundTo(selectedStrength, 4),
		},
	}

	return p.validate(result)
}

// predictRedSequence 红球序列评分，返回号码与归一化评分画像
func (p *SequencePredictor) predictRedSequence(reds [][]int) ([]int, []float64) {
	// 矩阵按时间正序排列，最后一行为最新一期
	matrix := buildSequenceMatrix(reverseDraws(reds), lottery.RedRangeMax)

	if len(matrix) == 0 {
		return SampleRedBalls(), make([]float64, lottery.RedRangeMax)
	}

	recent := p.recentWeightedProfile(matrix)
	ema := exponentialMemory(matrix, sequenceRedAlpha)
	cooc := p.coOccurrenceScores(reverseDraws(reds))

	combined := make([]float64, lottery.RedRangeMax)
	for i := range combined {
		combined[i] = 0.4*recent[i] + 0.3*ema[i] + 0.3*cooc[i]
	}

	if maxValue := floats.Max(combined); maxValue > 0 {
		for i := range combined {
			combined[i] /= maxValue
		}
	}

	return topProfileNumbers(combined, lottery.RedCount), combined
}

// predictBlueSequence 蓝球序列评分
func (p *SequencePredictor) predictBlueSequence(blues []int) int {
	if len(blues) < 10 {
		return rand.Intn(lottery.BlueRangeMax) + 1
	}

	chrono := make([][]int, len(blues))
	for i, ball := range blues {
		chrono[len(blues)-1-i] = []int{ball}
	}
	matrix := buildSequenceMatrix(chrono, lottery.BlueRangeMax)

	recent := p.recentWeightedProfile(matrix)
	ema := exponentialMemory(matrix, sequenceBlueAlpha)

	best, bestScore := 1, math.Inf(-1)
	for i := 0; i < lottery.BlueRangeMax; i++ {
		score := 0.6*recent[i] + 0.4*ema[i]
		if score > bestScore {
			best, bestScore = i+1, score
		}
	}
	return best
}

// sequenceConfidence 置信度 = 52 + 选中评分均值×25 + 稳定度×8
func (p *SequencePredictor) sequenceConfidence(profile []float64, predicted []int) float64 {
	if len(profile) == 0 || len(predicted) == 0 {
		return 50
	}

	var selected []float64
	for _, num := range predicted {
		if num >= 1 && num <= len(profile) {
			selected = append(selected, profile[num-1])
		}
	}
	if len(selected) == 0 {
		return 50
	}

	spread := popStdDev(profile)
	stability := math.Max(0, 1-spread)

	confidence := 52 + meanOf(selected)*25 + stability*8
	return math.Min(confidence, p.maxConfidence)
}

// buildSequenceMatrix 把历史期次转换为二值出现矩阵（行=期次，列=号码）
func buildSequenceMatrix(history [][]int, size int) [][]float64 {
	matrix := make([][]float64, len(history))
	for idx, draw := range history {
		row := make([]float64, size)
		for _, number := range draw {
			if number >= 1 && number <= size {
				row[number-1] = 1
			}
		}
		matrix[idx] = row
	}
	return matrix
}

// recentWeightedProfile 近期加权画像：窗口内按正弦斜坡0->1加权，越新权重越大
func (p *SequencePredictor) recentWeightedProfile(matrix [][]float64) []float64 {
	if len(matrix) == 0 {
		return nil
	}

	size := len(matrix[0])
	span := min(p.sequenceLength, len(matrix))
	window := matrix[len(matrix)-span:]

	weights := make([]float64, span)
	for i := range weights {
		var angle float64
		if span > 1 {
			angle = float64(i) / float64(span-1) * math.Pi / 2
		}
		weights[i] = math.Sin(angle)
	}
	weightSum := floats.Sum(weights)

	profile := make([]float64, size)
	for i, row := range window {
		for col, value := range row {
			profile[col] += value * weights[i]
		}
	}
	if weightSum > 0 {
		for col := range profile {
			profile[col] /= weightSum
		}
	}
	return profile
}

// exponentialMemory 指数滑动记忆：ema = (1-α)·ema + α·row，按最大值归一化
func exponentialMemory(matrix [][]float64, alpha float64) []float64 {
	if len(matrix) == 0 {
		return nil
	}

	ema := make([]float64, len(matrix[0]))
	for _, row := range matrix {
		for col, value := range row {
			ema[col] = (1-alpha)*ema[col] + alpha*value
		}
	}

	if maxValue := floats.Max(ema); maxValue > 0 {
		for col := range ema {
			ema[col] /= maxValue
		}
	}
	return ema
}

// coOccurrenceScores 共现画像：统计近 max(3×窗口,30) 期内号码两两同出次数
func (p *SequencePredictor) coOccurrenceScores(chrono [][]int) []float64 {
	scores := make([]float64, lottery.RedRangeMax)

	span := max(p.sequenceLength*3, 30)
	if span > len(chrono) {
		span = len(chrono)
	}
	window := chrono[len(chrono)-span:]
	if len(window) == 0 {
		return scores
	}

	for _, draw := range window {
		numbers := uniqueSorted(draw)
		for i := 0; i < len(numbers); i++ {
			for j := i + 1; j < len(numbers); j++ {
				a, b := numbers[i], numbers[j]
				if a >= 1 && a <= lottery.RedRangeMax && b >= 1 && b <= lottery.RedRangeMax {
					scores[a-1]++
					scores[b-1]++
				}
			}
		}
	}

	if maxValue := floats.Max(scores); maxValue > 0 {
		for i := range scores {
			scores[i] /= maxValue
		}
	}
	return scores
}

// topProfileNumbers 画像分数最高的前 n 个号码，同分取号码较小者，结果升序
func topProfileNumbers(profile []float64, n int) []int {
	indices := make([]int, len(profile))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return profile[indices[i]] > profile[indices[j]]
	})

	if n > len(indices) {
		n = len(indices)
	}
	numbers := make([]int, n)
	for i := 0; i < n; i++ {
		numbers[i] = indices[i] + 1
	}
	sort.Ints(numbers)
	return numbers
}
