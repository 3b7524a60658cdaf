package predictor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ssq-predictor/internal/lottery"
)

func TestValidateFillsShortRedBalls(t *testing.T) {
	b := &base{name: "test", maxConfidence: 75}
	result := b.validate(&PredictionResult{
		RedBalls:   []int{5, 5, 12}, // 去重后只剩2个
		BlueBall:   7,
		Confidence: 60,
	})

	requireValidResult(t, result)
	require.Contains(t, result.RedBalls, 5)
	require.Contains(t, result.RedBalls, 12)
	require.Equal(t, 7, result.BlueBall)
}

func TestValidateTruncatesLongRedBalls(t *testing.T) {
	b := &base{name: "test", maxConfidence: 75}
	result := b.validate(&PredictionResult{
		RedBalls:   []int{1, 2, 3, 4, 5, 6, 7, 8},
		BlueBall:   3,
		Confidence: 60,
	})

	requireValidResult(t, result)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, result.RedBalls)
}

func TestValidateRepairsBlueBall(t *testing.T) {
	b := &base{name: "test", maxConfidence: 75}

	for _, blue := range []int{0, -1, 17, 99} {
		result := b.validate(&PredictionResult{
			RedBalls:   []int{1, 2, 3, 4, 5, 6},
			BlueBall:   blue,
			Confidence: 60,
		})
		requireValidResult(t, result)
	}
}

func TestValidateClampsConfidence(t *testing.T) {
	b := &base{name: "test", maxConfidence: 70}

	result := b.validate(&PredictionResult{
		RedBalls:   []int{1, 2, 3, 4, 5, 6},
		BlueBall:   1,
		Confidence: 95,
	})
	require.Equal(t, 70.0, result.Confidence)

	result = b.validate(&PredictionResult{
		RedBalls:   []int{1, 2, 3, 4, 5, 6},
		BlueBall:   1,
		Confidence: -5,
	})
	require.Equal(t, 0.0, result.Confidence)
}

func TestRandomFallbackShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		result := RandomFallback()
		requireValidResult(t, result)
		require.Equal(t, FallbackConfidence, result.Confidence)
		require.True(t, result.IsFallback())
	}
}

func TestSampleRedBalls(t *testing.T) {
	for i := 0; i < 50; i++ {
		reds := SampleRedBalls()
		require.Len(t, reds, lottery.RedCount)
		seen := make(map[int]bool)
		for _, ball := range reds {
			require.GreaterOrEqual(t, ball, 1)
			require.LessOrEqual(t, ball, lottery.RedRangeMax)
			require.False(t, seen[ball])
			seen[ball] = true
		}
	}
}

func TestIsFallback(t *testing.T) {
	require.False(t, (&PredictionResult{}).IsFallback())
	require.False(t, (&PredictionResult{Metadata: map[string]interface{}{"fallback": "yes"}}).IsFallback())
	require.True(t, (&PredictionResult{Metadata: map[string]interface{}{"fallback": true}}).IsFallback())
}

// TestAllPredictorsHandleEmptyHistory 任何算法对空历史都必须
// 返回结构合法的兜底结果，而不是报错或崩溃
func TestAllPredictorsHandleEmptyHistory(t *testing.T) {
	registry := NewRegistry()
	for _, name := range registry.Names() {
		p, exists := registry.Get(name)
		require.True(t, exists)

		result := p.Predict(nil, 200)
		requireValidResult(t, result)
		require.Equal(t, FallbackConfidence, result.Confidence, "algorithm %s", name)
		require.True(t, result.IsFallback(), "algorithm %s", name)
	}
}

// TestDataHungryPredictorsThresholds 趋势、序列与随机森林在49期
// 历史下必须走真实算法，在19期下必须返回兜底
func TestDataHungryPredictorsThresholds(t *testing.T) {
	predictors := []Predictor{
		NewTrendPredictor(),
		NewForestPredictor(),
		NewSequencePredictor(),
	}

	long := makeDraws(49, 40)

	for _, p := range predictors {
		result := p.Predict(long, 200)
		requireValidResult(t, result)
		require.False(t, result.IsFallback(), "algorithm %s with 49 draws", p.Name())
	}

	// 趋势与序列记忆要求至少30期
	short := makeDraws(19, 41)
	for _, p := range []Predictor{NewTrendPredictor(), NewSequencePredictor()} {
		result := p.Predict(short, 200)
		requireValidResult(t, result)
		require.True(t, result.IsFallback(), "algorithm %s with 19 draws", p.Name())
		require.Equal(t, FallbackConfidence, result.Confidence, "algorithm %s", p.Name())
	}

	// 随机森林要求至少 回看窗口+10 期
	result := NewForestPredictor().Predict(makeDraws(14, 42), 200)
	requireValidResult(t, result)
	require.True(t, result.IsFallback())
	require.Equal(t, FallbackConfidence, result.Confidence)
}

func TestRegistryCatalog(t *testing.T) {
	registry := NewRegistry()

	require.Equal(t, []string{NameFrequency, NameTrend, NameForest, NameSequence, NameEnsemble}, registry.Names())

	algorithms := registry.Algorithms()
	require.Len(t, algorithms, 5)
	for _, info := range algorithms {
		require.NotEmpty(t, info.Key)
		require.NotEmpty(t, info.Name)
		require.NotEmpty(t, info.Description)
	}

	_, exists := registry.Get("nonexistent")
	require.False(t, exists)
}
