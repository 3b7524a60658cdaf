package predictor

import (
	"ssq-predictor/internal/lottery"
)

// 趋势分析的最低数据要求与评分参数
const (
	trendMinHistory     = 30 // 低于此期数不做趋势分析
	trendMinRedHits     = 3  // 红球最少出现次数，不足则无趋势信号
	trendMinBlueHits    = 2  // 蓝球最少出现次数
	trendRedSlopeSpan   = 5  // 红球取最后5个移动平均点算斜率
	trendBlueSlopeSpan  = 3  // 蓝球取最后3个点
	trendRedMaxWindow   = 10
	trendBlueMaxWindow  = 8
)

// TrendPredictor 趋势分析预测器：以出现率移动平均的斜率作为走势评分
type TrendPredictor struct {
	base
}

// NewTrendPredictor 创建趋势分析预测器，置信度上限70
func NewTrendPredictor() *TrendPredictor {
	return &TrendPredictor{base{name: NameTrend, maxConfidence: 70}}
}

// Predict 为每个号码构建二值出现序列，计算移动平均斜率并选取走势最强的组合。
// 置信度为 50 + 前6红球平均斜率×20，负斜率可将其拉到50以下，仅做上限封顶。
func (p *TrendPredictor) Predict(history []lottery.Draw, datasetSize int) *PredictionResult {
	if len(history) < trendMinHistory {
		return p.randomFallback()
	}

	data := lottery.Truncate(history, datasetSize)
	reds := lottery.ExtractRedDraws(data)
	blues := lottery.ExtractBlueBalls(data)

	if len(reds) < trendMinHistory {
		return p.randomFallback()
	}

	redScores := p.redTrendScores(reds)
	predictedRed := topNumbers(redScores, lottery.RedCount)

	blueScores := p.blueTrendScores(blues)
	predictedBlue := argMaxScore(blueScores)

	var topScores []float64
	for _, num := range rankNumbers(redScores)[:lottery.RedCount] {
		topScores = append(topScores, redScores[num])
	}
	avgStrength := meanOf(topScores)
	confidence := 50 + avgStrength*20

	result := &PredictionResult{
		RedBalls:   predictedRed,
		BlueBall:   predictedBlue,
		Confidence: confidence,
		Metadata: map[string]interface{}{
			"trend_method":       "moving_average",
			"avg_trend_strength": roundTo(avgStrength, 3),
			"data_points":        len(reds),
		},
	}

	return p.validate(result)
}

// redTrendScores 红球走势评分：出现不足3次记0，否则取移动平均末段斜率
func (p *TrendPredictor) redTrendScores(reds [][]int) map[int]float64 {
	scores := make(map[int]float64, lottery.RedRangeMax)

	for num := 1; num <= lottery.RedRangeMax; num++ {
		appearances := make([]float64, len(reds))
		hits := 0
		for i, draw := range reds {
			if containsNumber(draw, num) {
				appearances[i] = 1
				hits++
			}
		}

		if hits < trendMinRedHits {
			scores[num] = 0
			continue
		}

		window := min(trendRedMaxWindow, len(appearances)/3)
		ma := movingAverage(appearances, window)
		if len(ma) >= trendRedSlopeSpan {
			scores[num] = slopeOf(ma[len(ma)-trendRedSlopeSpan:])
		} else {
			scores[num] = 0
		}
	}

	return scores
}

// blueTrendScores 蓝球走势评分，窗口与斜率区间比红球更短
func (p *TrendPredictor) blueTrendScores(blues []int) map[int]float64 {
	scores := make(map[int]float64, lottery.BlueRangeMax)
	for num := 1; num <= lottery.BlueRangeMax; num++ {
		scores[num] = 0
	}

	for num := 1; num <= lottery.BlueRangeMax; num++ {
		appearances := make([]float64, len(blues))
		hits := 0
		for i, ball := range blues {
			if ball == num {
				appearances[i] = 1
				hits++
			}
		}

		if hits < trendMinBlueHits {
			continue
		}

		window := min(trendBlueMaxWindow, len(appearances)/3)
		ma := movingAverage(appearances, window)
		if len(ma) >= trendBlueSlopeSpan {
			scores[num] = slopeOf(ma[len(ma)-trendBlueSlopeSpan:])
		}
	}

	return scores
}

// containsNumber 号码是否在一期红球中
func containsNumber(draw []int, num int) bool {
	for _, ball := range draw {
		if ball == num {
			return true
		}
	}
	return false
}
