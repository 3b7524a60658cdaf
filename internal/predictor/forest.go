package predictor

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"

	"ssq-predictor/internal/logger"
	"ssq-predictor/internal/lottery"
)

// 随机森林预测器参数
const (
	forestLookback        = 5    // 特征窗口：前5期
	forestTrees           = 60   // 每个球位的子树数量
	forestMinLeaf         = 2    // 叶子最小样本数
	forestSeed            = 42   // 固定随机种子，保证可复现
	forestMinTrainingRows = 25   // 低于此训练样本数退化为频率选号
	forestDefaultSlotProb = 0.45 // 退化路径的球位概率估计
	forestRecentBlueSpan  = 20   // 蓝球近期窗口
)

// ForestPredictor 随机森林预测器：在滑动窗口特征上训练
// 多输出装袋决策树，预测下一期红球组合
type ForestPredictor struct {
	base
	lookback int
}

// NewForestPredictor 创建随机森林预测器，置信度上限72
func NewForestPredictor() *ForestPredictor {
	return &ForestPredictor{
		base:     base{name: NameForest, maxConfidence: 72},
		lookback: forestLookback,
	}
}

// Predict 构建监督训练集并训练6个球位分类器。
// 训练数据不足时退化为频率选号，历史不足时返回随机兜底。
func (p *ForestPredictor) Predict(history []lottery.Draw, datasetSize int) *PredictionResult {
	if len(history) < p.lookback+10 {
		return p.randomFallback()
	}

	data := lottery.Truncate(history, datasetSize)
	reds := lottery.ExtractRedDraws(data)
	blues := lottery.ExtractBlueBalls(data)

	if len(reds) < p.lookback+10 {
		return p.degradedPredict(reds, blues)
	}

	predictedRed, avgSlotProb := p.predictRedBalls(reds)
	predictedBlue := p.predictBlueBall(blues)

	dataFactor := math.Min(float64(len(reds))/400, 1)
	confidence := 52 + avgSlotProb*28 + dataFactor*10

	result := &PredictionResult{
		RedBalls:   predictedRed,
		BlueBall:   predictedBlue,
		Confidence: confidence,
		Metadata: map[string]interface{}{
			"model":            "random_forest",
			"lookback":         p.lookback,
			"training_samples": len(reds),
			"slot_probability": roundTo(avgSlotProb, 4),
		},
	}

	return p.validate(result)
}

// predictRedBalls 训练并预测红球，返回号码与平均球位概率
func (p *ForestPredictor) predictRedBalls(reds [][]int) ([]int, float64) {
	// 训练按时间正序进行：用更早的5期预测下一期
	chrono := reverseDraws(reds)
	features, targets := p.prepareTrainingData(chrono)

	if len(features) < forestMinTrainingRows {
		logger.Debugf("Forest training set too small (%d rows), using frequency selection", len(features))
		return p.frequencyBasedSelection(reds), forestDefaultSlotProb
	}

	latestFeatures := p.encodeWindowFeatures(chrono[len(chrono)-p.lookback:])

	combined := make(map[int]float64, lottery.RedRangeMax)
	for num := 1; num <= lottery.RedRangeMax; num++ {
		combined[num] = 0
	}

	rawPrediction := make([]int, lottery.RedCount)
	slotProbs := make([]float64, 0, lottery.RedCount)

	for slot := 0; slot < lottery.RedCount; slot++ {
		labels := make([]int, len(targets))
		for i, target := range targets {
			labels[i] = target[slot]
		}

		classifier := newBaggedClassifier(forestTrees, forestMinLeaf, forestSeed+int64(slot))
		classifier.fit(features, labels)

		probs := classifier.predictProba(latestFeatures)
		best, bestProb := argMaxClass(probs)
		rawPrediction[slot] = best
		slotProbs = append(slotProbs, bestProb)

		for class, prob := range probs {
			if class >= 1 && class <= lottery.RedRangeMax {
				combined[class] += prob
			}
		}
	}

	// 球位预测冲突时用综合概率最高的未用号码替换
	var predicted []int
	for _, number := range rawPrediction {
		if number >= 1 && number <= lottery.RedRangeMax && !containsNumber(predicted, number) {
			predicted = append(predicted, number)
		} else {
			predicted = append(predicted, selectUnusedNumber(combined, predicted))
		}
	}

	sort.Ints(predicted)
	return predicted[:lottery.RedCount], meanOf(slotProbs)
}

// predictBlueBall 蓝球预测：40%整体频率份额 + 60%近20期频率份额
func (p *ForestPredictor) predictBlueBall(blues []int) int {
	if len(blues) < 10 {
		return rand.Intn(lottery.BlueRangeMax) + 1
	}

	freq := frequencyTable(blues, lottery.BlueRangeMax)
	recent := blues[:min(forestRecentBlueSpan, len(blues))]
	recentFreq := frequencyTable(recent, lottery.BlueRangeMax)

	combined := make(map[int]float64, lottery.BlueRangeMax)
	for num := 1; num <= lottery.BlueRangeMax; num++ {
		overallShare := freq[num] / float64(len(blues))
		recentShare := recentFreq[num] / float64(len(recent))
		combined[num] = 0.4*overallShare + 0.6*recentShare
	}

	return argMaxScore(combined)
}

// prepareTrainingData 构建监督训练集：窗口特征 -> 下一期红球
func (p *ForestPredictor) prepareTrainingData(chrono [][]int) ([][]float64, [][]int) {
	var features [][]float64
	var targets [][]int

	for idx := p.lookback; idx < len(chrono); idx++ {
		target := chrono[idx]
		if len(target) < lottery.RedCount {
			continue
		}
		features = append(features, p.encodeWindowFeatures(chrono[idx-p.lookback:idx]))
		targets = append(targets, target[:lottery.RedCount])
	}

	return features, targets
}

// encodeWindowFeatures 把回看窗口编码为特征向量：
// 每期one-hot(33) + 和值/均值/标准差/中位数/极差/奇数个数/大号个数，
// 最后追加整个窗口的均值/标准差/最大/最小
func (p *ForestPredictor) encodeWindowFeatures(window [][]int) []float64 {
	var features []float64

	for _, draw := range window {
		oneHot := make([]float64, lottery.RedRangeMax)
		for _, ball := range draw {
			if ball >= 1 && ball <= lottery.RedRangeMax {
				oneHot[ball-1] = 1
			}
		}
		features = append(features, oneHot...)

		values := make([]float64, len(draw))
		odds, highs := 0.0, 0.0
		for i, ball := range draw {
			values[i] = float64(ball)
			if ball%2 == 1 {
				odds++
			}
			if ball > 16 {
				highs++
			}
		}

		features = append(features,
			floats.Sum(values),
			meanOf(values),
			popStdDev(values),
			medianOf(values),
			floats.Max(values)-floats.Min(values),
			odds,
			highs,
		)
	}

	var flattened []float64
	for _, draw := range window {
		for _, ball := range draw {
			flattened = append(flattened, float64(ball))
		}
	}
	if len(flattened) > 0 {
		features = append(features,
			meanOf(flattened),
			popStdDev(flattened),
			floats.Max(flattened),
			floats.Min(flattened),
		)
	} else {
		features = append(features, 0, 0, 0, 0)
	}

	return features
}

// frequencyBasedSelection 退化路径：按频次取前6个红球
func (p *ForestPredictor) frequencyBasedSelection(reds [][]int) []int {
	freq := frequencyTable(flatten(reds), lottery.RedRangeMax)
	return topNumbers(freq, lottery.RedCount)
}

// degradedPredict 有效红球数据不足时的频率退化预测
func (p *ForestPredictor) degradedPredict(reds [][]int, blues []int) *PredictionResult {
	if len(reds) == 0 {
		return p.randomFallback()
	}

	predictedRed := p.frequencyBasedSelection(reds)
	var predictedBlue int
	if len(blues) > 0 {
		predictedBlue = p.predictBlueBall(blues)
	} else {
		predictedBlue = rand.Intn(lottery.BlueRangeMax) + 1
	}

	result := &PredictionResult{
		RedBalls:   predictedRed,
		BlueBall:   predictedBlue,
		Confidence: 55,
		Metadata: map[string]interface{}{
			"fallback": true,
			"reason":   "insufficient_training_data",
		},
	}

	return p.validate(result)
}

// argMaxClass 概率最高的类别，同分取号码较小者
func argMaxClass(probs map[int]float64) (int, float64) {
	classes := make([]int, 0, len(probs))
	for class := range probs {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	best, bestProb := 0, math.Inf(-1)
	for _, class := range classes {
		if probs[class] > bestProb {
			best, bestProb = class, probs[class]
		}
	}
	return best, bestProb
}

// selectUnusedNumber 综合概率最高且未被使用的号码
func selectUnusedNumber(combined map[int]float64, used []int) int {
	for _, num := range rankNumbers(combined) {
		if !containsNumber(used, num) {
			return num
		}
	}
	// 理论上不可达：33个号码不可能全部用完
	return rand.Intn(lottery.RedRangeMax) + 1
}

// reverseDraws 反转期次顺序（最新在前 -> 时间正序）
func reverseDraws(draws [][]int) [][]int {
	reversed := make([][]int, len(draws))
	for i, draw := range draws {
		reversed[len(draws)-1-i] = draw
	}
	return reversed
}
