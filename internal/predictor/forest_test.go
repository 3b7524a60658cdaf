package predictor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ssq-predictor/internal/lottery"
)

func TestForestPredictorInsufficientHistory(t *testing.T) {
	history := makeDraws(14, 10)

	result := NewForestPredictor().Predict(history, 200)

	requireValidResult(t, result)
	require.True(t, result.IsFallback())
	require.Equal(t, FallbackConfidence, result.Confidence)
}

func TestForestPredictorFullPath(t *testing.T) {
	history := makeDraws(60, 11)

	result := NewForestPredictor().Predict(history, 200)

	requireValidResult(t, result)
	require.False(t, result.IsFallback())
	require.LessOrEqual(t, result.Confidence, 72.0)
	require.Equal(t, "random_forest", result.Metadata["model"])
	require.Equal(t, 60, result.Metadata["training_samples"])
}

func TestForestPredictorDegradedOnInvalidDraws(t *testing.T) {
	// 历史期数够，但有效红球期次不足时走频率退化路径
	history := makeDraws(20, 12)
	for i := 8; i < 20; i++ {
		history[i].RedBalls = history[i].RedBalls[:5] // 残缺期次会被过滤
	}

	result := NewForestPredictor().Predict(history, 200)

	requireValidResult(t, result)
	require.True(t, result.IsFallback())
	require.Equal(t, "insufficient_training_data", result.Metadata["reason"])
	require.Equal(t, 55.0, result.Confidence)
}

func TestForestPredictorDeterministic(t *testing.T) {
	// 固定随机种子下预测必须逐比特可复现，重复多次防止
	// 训练路径里残留依赖map遍历顺序的浮点累加
	history := makeDraws(60, 13)
	p := NewForestPredictor()

	first := p.Predict(history, 200)
	for i := 0; i < 5; i++ {
		repeat := p.Predict(history, 200)
		require.Equal(t, first.RedBalls, repeat.RedBalls)
		require.Equal(t, first.BlueBall, repeat.BlueBall)
		require.Equal(t, first.Confidence, repeat.Confidence)
	}
}

func TestBaggedClassifierReproducible(t *testing.T) {
	// 相同种子与训练集下两个分类器输出完全一致的概率分布
	history := makeDraws(40, 15)
	p := NewForestPredictor()

	chrono := reverseDraws(lottery.ExtractRedDraws(history))
	features, targets := p.prepareTrainingData(chrono)
	labels := make([]int, len(targets))
	for i, target := range targets {
		labels[i] = target[0]
	}
	sample := p.encodeWindowFeatures(chrono[len(chrono)-p.lookback:])

	first := newBaggedClassifier(forestTrees, forestMinLeaf, forestSeed)
	first.fit(features, labels)
	second := newBaggedClassifier(forestTrees, forestMinLeaf, forestSeed)
	second.fit(features, labels)

	require.Equal(t, first.predictProba(sample), second.predictProba(sample))
}

func TestPrepareTrainingData(t *testing.T) {
	history := makeDraws(30, 14)
	p := NewForestPredictor()

	chrono := reverseDraws(lottery.ExtractRedDraws(history))
	features, targets := p.prepareTrainingData(chrono)

	require.Len(t, features, 25)
	require.Len(t, targets, 25)
	for _, target := range targets {
		require.Len(t, target, lottery.RedCount)
	}
	// 每行特征长度一致
	for _, row := range features {
		require.Len(t, row, len(features[0]))
	}
}

func TestBaggedClassifierLearnsSeparableData(t *testing.T) {
	// 特征0完全决定类别：x<0.5 为类1，否则为类2
	var features [][]float64
	var labels []int
	for i := 0; i < 20; i++ {
		features = append(features, []float64{0, float64(i)})
		labels = append(labels, 1)
		features = append(features, []float64{1, float64(i)})
		labels = append(labels, 2)
	}

	classifier := newBaggedClassifier(50, 2, 7)
	classifier.fit(features, labels)

	probsLow := classifier.predictProba([]float64{0, 5})
	probsHigh := classifier.predictProba([]float64{1, 5})

	require.Greater(t, probsLow[1], probsLow[2])
	require.Greater(t, probsHigh[2], probsHigh[1])
}

func TestArgMaxClassTieBreak(t *testing.T) {
	probs := map[int]float64{9: 0.4, 3: 0.4, 5: 0.2}
	best, prob := argMaxClass(probs)

	require.Equal(t, 3, best)
	require.Equal(t, 0.4, prob)
}

func TestSelectUnusedNumber(t *testing.T) {
	combined := map[int]float64{1: 0.9, 2: 0.8, 3: 0.7}
	require.Equal(t, 2, selectUnusedNumber(combined, []int{1}))
	require.Equal(t, 3, selectUnusedNumber(combined, []int{1, 2}))
}

func TestReverseDraws(t *testing.T) {
	draws := [][]int{{1}, {2}, {3}}
	require.Equal(t, [][]int{{3}, {2}, {1}}, reverseDraws(draws))
	require.Empty(t, reverseDraws(nil))
}
