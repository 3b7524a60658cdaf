package predictor

import (
	"math"
	"math/rand"
	"sort"

	"ssq-predictor/internal/logger"
	"ssq-predictor/internal/lottery"
)

// 聚合引擎参数
const (
	ensembleMinHistory      = 20   // 可用红球期数低于此值返回随机兜底
	ensembleRecentWindow    = 60   // 红球近期窗口（动量对比基准）
	ensembleBlueWindow      = 30   // 蓝球近期窗口
	ensembleBaseWeightRed   = 0.65 // 红球统计概率表权重
	ensembleBaseWeightBlue  = 0.7  // 蓝球统计概率表权重
	ensembleConfidenceFloor = 52
)

// defaultWeights 各算法默认投票权重
var defaultWeights = map[string]float64{
	NameFrequency: 0.20,
	NameTrend:     0.25,
	NameForest:    0.30,
	NameSequence:  0.25,
}

// EnsemblePredictor 聚合引擎：独立构建统计概率表（频率/近期/遗漏/动量），
// 与各算法的加权投票融合，并做号段均衡选号
type EnsemblePredictor struct {
	base
	components     map[string]Predictor
	componentOrder []string
	weights        map[string]float64
}

// NewEnsemblePredictor 创建聚合引擎，置信度上限80。
// weights为nil时使用默认权重；权重在构造时归一化一次，此后不可变，
// 需要调整权重时构造新实例而不是修改共享状态。
func NewEnsemblePredictor(weights map[string]float64) *EnsemblePredictor {
	order := []string{NameFrequency, NameTrend, NameForest, NameSequence}

	components := map[string]Predictor{
		NameFrequency: NewFrequencyPredictor(),
		NameTrend:     NewTrendPredictor(),
		NameForest:    NewForestPredictor(),
		NameSequence:  NewSequencePredictor(),
	}

	if weights == nil {
		weights = defaultWeights
	}
	normalized := normalizeWeights(weights)

	return &EnsemblePredictor{
		base:           base{name: NameEnsemble, maxConfidence: 80},
		components:     components,
		componentOrder: order,
		weights:        normalized,
	}
}

// Weights 当前生效的归一化权重
func (p *EnsemblePredictor) Weights() map[string]float64 {
	weights := make(map[string]float64, len(p.weights))
	for name, weight := range p.weights {
		weights[name] = weight
	}
	return weights
}

// Predict 红球组合评分 = 0.65×统计概率 + 0.35×投票，蓝球为 0.7/0.3，
// 最终红球按低/中/高三个号段各取2个均衡选出
func (p *EnsemblePredictor) Predict(history []lottery.Draw, datasetSize int) *PredictionResult {
	if len(history) == 0 {
		return p.randomFallback()
	}

	data := lottery.Truncate(history, datasetSize)
	reds := lottery.ExtractRedDraws(data)
	blues := lottery.ExtractBlueBalls(data)

	if len(reds) < ensembleMinHistory {
		return p.randomFallback()
	}

	baseRedScores := p.buildRedProbability(reds, data)
	componentResults, algorithmsUsed := p.runComponents(data, datasetSize)

	if len(componentResults) == 0 {
		logger.Warn("All component predictors failed, returning random fallback")
		return p.randomFallback()
	}

	voteScores := p.buildVoteScores(componentResults)
	combinedRed := combineScores(baseRedScores, voteScores, ensembleBaseWeightRed)
	predictedRed := selectWithDistribution(combinedRed)

	predictedBlue, blueCandidates := p.scoreBlueCandidates(blues, componentResults, data)

	confidence := p.ensembleConfidence(componentResults, combinedRed, predictedRed, len(reds))

	componentMeta := make(map[string]interface{}, len(componentResults))
	for name, result := range componentResults {
		componentMeta[name] = map[string]interface{}{
			"red_balls":  result.RedBalls,
			"blue_ball":  result.BlueBall,
			"confidence": result.Confidence,
		}
	}

	result := &PredictionResult{
		RedBalls:   predictedRed,
		BlueBall:   predictedBlue,
		Confidence: confidence,
		Metadata: map[string]interface{}{
			"component_predictions": componentMeta,
			"weights":               p.Weights(),
			"algorithms_used":       algorithmsUsed,
			"top_candidates":        describeTopCandidates(combinedRed, 10),
			"blue_candidates":       blueCandidates,
			"dataset_coverage":      len(reds),
		},
	}

	return p.validate(result)
}

// runComponents 依次运行各算法，单个算法异常只记录日志并跳过，不影响整体
func (p *EnsemblePredictor) runComponents(data []lottery.Draw, datasetSize int) (map[string]*PredictionResult, []string) {
	results := make(map[string]*PredictionResult, len(p.components))
	var used []string

	for _, name := range p.componentOrder {
		component := p.components[name]
		result := p.runSafely(name, component, data, datasetSize)
		if result != nil {
			results[name] = result
			used = append(used, name)
		}
	}

	return results, used
}

// runSafely 运行单个算法并吸收panic
func (p *EnsemblePredictor) runSafely(name string, component Predictor, data []lottery.Draw, datasetSize int) (result *PredictionResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Component predictor %s panicked: %v", name, r)
			result = nil
		}
	}()
	return component.Predict(data, datasetSize)
}

// buildVoteScores 投票表：每个算法为其预测的红球加 权重×置信度/100
func (p *EnsemblePredictor) buildVoteScores(results map[string]*PredictionResult) map[int]float64 {
	scores := make(map[int]float64, lottery.RedRangeMax)
	for num := 1; num <= lottery.RedRangeMax; num++ {
		scores[num] = 0
	}

	for name, result := range results {
		weight := p.weights[name]
		confidenceFactor := result.Confidence / 100
		for _, ball := range result.RedBalls {
			if ball >= 1 && ball <= lottery.RedRangeMax {
				scores[ball] += weight * confidenceFactor
			}
		}
	}

	return normalizeScores(scores)
}

// buildBlueVoteScores 蓝球投票表
func (p *EnsemblePredictor) buildBlueVoteScores(results map[string]*PredictionResult) map[int]float64 {
	scores := make(map[int]float64, lottery.BlueRangeMax)
	for num := 1; num <= lottery.BlueRangeMax; num++ {
		scores[num] = 0
	}

	for name, result := range results {
		weight := p.weights[name]
		confidenceFactor := result.Confidence / 100
		if result.BlueBall >= 1 && result.BlueBall <= lottery.BlueRangeMax {
			scores[result.BlueBall] += weight * confidenceFactor
		}
	}

	return normalizeScores(scores)
}

// buildRedProbability 红球统计概率表：
// 0.35×总频率 + 0.25×近期频率 + 0.20×遗漏 + 0.20×动量
func (p *EnsemblePredictor) buildRedProbability(reds [][]int, data []lottery.Draw) map[int]float64 {
	freqNorm := normalizeScores(frequencyTable(flatten(reds), lottery.RedRangeMax))

	recentWindow := min(ensembleRecentWindow, len(reds))
	recentNorm := normalizeScores(frequencyTable(flatten(reds[:recentWindow]), lottery.RedRangeMax))

	previousEnd := min(recentWindow*2, len(reds))
	previous := reds[recentWindow:previousEnd]
	previousNorm := zeroScores(lottery.RedRangeMax)
	if len(previous) > 0 {
		previousNorm = normalizeScores(frequencyTable(flatten(previous), lottery.RedRangeMax))
	}

	gapScores := currentGapScores(data, lottery.RedRangeMax, true)

	combined := make(map[int]float64, lottery.RedRangeMax)
	for num := 1; num <= lottery.RedRangeMax; num++ {
		momentum := math.Max(recentNorm[num]-previousNorm[num], 0)
		combined[num] = 0.35*freqNorm[num] + 0.25*recentNorm[num] + 0.20*gapScores[num] + 0.20*momentum
	}

	return normalizeScores(combined)
}

// buildBlueProbability 蓝球统计概率表，权重 0.4/0.3/0.2/0.1，窗口30期
func (p *EnsemblePredictor) buildBlueProbability(blues []int, data []lottery.Draw) map[int]float64 {
	freqNorm := normalizeScores(frequencyTable(blues, lottery.BlueRangeMax))

	recentWindow := min(ensembleBlueWindow, len(blues))
	recentNorm := normalizeScores(frequencyTable(blues[:recentWindow], lottery.BlueRangeMax))

	previousEnd := min(recentWindow*2, len(blues))
	previous := blues[recentWindow:previousEnd]
	previousNorm := zeroScores(lottery.BlueRangeMax)
	if len(previous) > 0 {
		previousNorm = normalizeScores(frequencyTable(previous, lottery.BlueRangeMax))
	}

	gapScores := currentGapScores(data, lottery.BlueRangeMax, false)

	combined := make(map[int]float64, lottery.BlueRangeMax)
	for num := 1; num <= lottery.BlueRangeMax; num++ {
		momentum := math.Max(recentNorm[num]-previousNorm[num], 0)
		combined[num] = 0.4*freqNorm[num] + 0.3*recentNorm[num] + 0.2*gapScores[num] + 0.1*momentum
	}

	return normalizeScores(combined)
}

// scoreBlueCandidates 蓝球融合评分，返回最佳号码与前5候选
func (p *EnsemblePredictor) scoreBlueCandidates(blues []int, results map[string]*PredictionResult, data []lottery.Draw) (int, []map[string]interface{}) {
	if len(blues) == 0 {
		randomBlue := rand.Intn(lottery.BlueRangeMax) + 1
		return randomBlue, []map[string]interface{}{{"number": randomBlue, "score": 0.5}}
	}

	baseScores := p.buildBlueProbability(blues, data)
	voteScores := p.buildBlueVoteScores(results)
	combined := combineScores(baseScores, voteScores, ensembleBaseWeightBlue)

	return argMaxScore(combined), describeTopCandidates(combined, 5)
}

// ensembleConfidence 综合置信度 = Σ算法置信度×权重 + 选中评分均值×30
// + 数据量因子×8 + 一致性加成，最终限制在[52,80]
func (p *EnsemblePredictor) ensembleConfidence(results map[string]*PredictionResult, combined map[int]float64, selected []int, sampleSize int) float64 {
	var weightedConfidence float64
	for name, result := range results {
		weightedConfidence += result.Confidence * p.weights[name]
	}

	var selectedScores []float64
	for _, num := range selected {
		selectedScores = append(selectedScores, combined[num])
	}
	baseAvg := meanOf(selectedScores)

	dataFactor := math.Min(float64(sampleSize)/400, 1)
	bonus := agreementBonus(results, selected)

	confidence := weightedConfidence + baseAvg*30 + dataFactor*8 + bonus
	return math.Min(math.Max(confidence, ensembleConfidenceFloor), p.maxConfidence)
}

// agreementBonus 一致性加成：被至少2个算法同时选中的最终号码
// 每个加1.5分，上限9分
func agreementBonus(results map[string]*PredictionResult, selected []int) float64 {
	if len(results) == 0 || len(selected) == 0 {
		return 0
	}

	counts := make(map[int]int)
	for _, result := range results {
		for _, ball := range result.RedBalls {
			if containsNumber(selected, ball) {
				counts[ball]++
			}
		}
	}

	duplicates := 0
	for _, count := range counts {
		if count >= 2 {
			duplicates++
		}
	}

	return math.Min(float64(duplicates)*1.5, 9)
}

// combineScores 融合统计概率表与投票表后再归一化
func combineScores(baseScores, voteScores map[int]float64, baseWeight float64) map[int]float64 {
	combined := make(map[int]float64, len(baseScores))
	for num, baseScore := range baseScores {
		combined[num] = baseWeight*baseScore + (1-baseWeight)*voteScores[num]
	}
	return normalizeScores(combined)
}

// selectWithDistribution 号段均衡选号：低(1-11)/中(12-22)/高(23-33)
// 各取2个，某号段不足时按总分顺序补齐
func selectWithDistribution(scores map[int]float64) []int {
	ranked := rankNumbers(scores)

	counts := map[string]int{"low": 0, "mid": 0, "high": 0}
	var selected []int

	for _, number := range ranked {
		group := bandForNumber(number)
		if counts[group] < 2 {
			selected = append(selected, number)
			counts[group]++
		}
		if len(selected) == lottery.RedCount {
			break
		}
	}

	if len(selected) < lottery.RedCount {
		for _, number := range ranked {
			if !containsNumber(selected, number) {
				selected = append(selected, number)
			}
			if len(selected) == lottery.RedCount {
				break
			}
		}
	}

	sort.Ints(selected)
	return selected
}

// bandForNumber 号码所属号段
func bandForNumber(number int) string {
	switch {
	case number <= 11:
		return "low"
	case number <= 22:
		return "mid"
	default:
		return "high"
	}
}

// describeTopCandidates 评分最高的候选号码（分值保留4位小数）
func describeTopCandidates(scores map[int]float64, limit int) []map[string]interface{} {
	ranked := rankNumbers(scores)
	if limit > len(ranked) {
		limit = len(ranked)
	}

	candidates := make([]map[string]interface{}, 0, limit)
	for _, num := range ranked[:limit] {
		candidates = append(candidates, map[string]interface{}{
			"number": num,
			"score":  roundTo(scores[num], 4),
		})
	}
	return candidates
}

// normalizeWeights 权重归一化，使其和为1
func normalizeWeights(weights map[string]float64) map[string]float64 {
	var total float64
	for _, weight := range weights {
		total += weight
	}
	if total == 0 {
		total = 1
	}

	normalized := make(map[string]float64, len(weights))
	for name, weight := range weights {
		normalized[name] = weight / total
	}
	return normalized
}

// zeroScores 全零评分表
func zeroScores(rangeMax int) map[int]float64 {
	scores := make(map[int]float64, rangeMax)
	for num := 1; num <= rangeMax; num++ {
		scores[num] = 0
	}
	return scores
}
