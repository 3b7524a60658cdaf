package predictor

import (
	"math/rand"

	"ssq-predictor/internal/logger"
	"ssq-predictor/internal/lottery"
)

// FrequencyPredictor 频率分析预测器：按历史出现次数推荐号码
type FrequencyPredictor struct {
	base
}

// NewFrequencyPredictor 创建频率分析预测器，置信度上限75
func NewFrequencyPredictor() *FrequencyPredictor {
	return &FrequencyPredictor{base{name: NameFrequency, maxConfidence: 75}}
}

// Predict 统计窗口内红蓝球频次，选出现次数最高的6红1蓝。
// 除兜底补号路径外无随机性，相同输入产生相同结果。
func (p *FrequencyPredictor) Predict(history []lottery.Draw, datasetSize int) *PredictionResult {
	if len(history) == 0 {
		return p.randomFallback()
	}

	data := lottery.Truncate(history, datasetSize)
	reds := lottery.ExtractRedDraws(data)
	blues := lottery.ExtractBlueBalls(data)

	if len(reds) == 0 {
		return p.randomFallback()
	}

	redFreq := frequencyTable(flatten(reds), lottery.RedRangeMax)
	blueFreq := frequencyTable(blues, lottery.BlueRangeMax)

	predictedRed := topNumbers(redFreq, lottery.RedCount)

	var predictedBlue int
	if len(blues) > 0 {
		predictedBlue = argMaxScore(blueFreq)
	} else {
		predictedBlue = rand.Intn(lottery.BlueRangeMax) + 1
		logger.Debug("No blue ball history, picking random blue ball")
	}

	confidence := frequencyConfidence(predictedRed, redFreq)
	hot, cold, neutral := hotColdNumbers(redFreq)

	result := &PredictionResult{
		RedBalls:   predictedRed,
		BlueBall:   predictedBlue,
		Confidence: confidence,
		Metadata: map[string]interface{}{
			"hot_numbers":        hot,
			"cold_numbers":       cold,
			"neutral_numbers":    neutral,
			"top_red_frequency":  redFreq[argMaxScore(redFreq)],
			"top_blue_frequency": blueFreq[argMaxScore(blueFreq)],
		},
	}

	return p.validate(result)
}
