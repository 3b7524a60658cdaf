package predictor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ssq-predictor/internal/lottery"
)

func TestNormalizeScoresRange(t *testing.T) {
	scores := map[int]float64{1: 2, 2: 6, 3: 10}
	normalized := normalizeScores(scores)

	require.Equal(t, 0.0, normalized[1])
	require.Equal(t, 0.5, normalized[2])
	require.Equal(t, 1.0, normalized[3])
}

func TestNormalizeScoresConstant(t *testing.T) {
	// 所有值相同时每项取 1/n，而不是除零
	scores := map[int]float64{1: 5, 2: 5, 3: 5, 4: 5}
	normalized := normalizeScores(scores)

	for _, value := range normalized {
		require.InDelta(t, 0.25, value, 1e-12)
	}
}

func TestNormalizeScoresEmpty(t *testing.T) {
	require.Empty(t, normalizeScores(map[int]float64{}))
}

func TestFrequencyTableCoversFullRange(t *testing.T) {
	table := frequencyTable([]int{1, 1, 33, 50, 0}, lottery.RedRangeMax)

	require.Len(t, table, lottery.RedRangeMax)
	require.Equal(t, 2.0, table[1])
	require.Equal(t, 1.0, table[33])
	require.Equal(t, 0.0, table[2])
}

func TestTopNumbersDeterministicTieBreak(t *testing.T) {
	// 同分时取号码较小者
	scores := map[int]float64{5: 1, 3: 1, 9: 1, 7: 2, 1: 0}
	top := topNumbers(scores, 3)

	require.Equal(t, []int{3, 5, 7}, top)
}

func TestArgMaxScoreTieBreak(t *testing.T) {
	scores := map[int]float64{8: 3, 2: 3, 5: 1}
	require.Equal(t, 2, argMaxScore(scores))
}

func TestMovingAverageShortInput(t *testing.T) {
	data := []float64{1, 2}
	require.Equal(t, data, movingAverage(data, 5))
}

func TestMovingAverage(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	ma := movingAverage(data, 3)

	require.Len(t, ma, 5)
	require.InDelta(t, 1.0, ma[0], 1e-12)
	require.InDelta(t, 1.5, ma[1], 1e-12)
	require.InDelta(t, 2.0, ma[2], 1e-12)
	require.InDelta(t, 3.0, ma[3], 1e-12)
	require.InDelta(t, 4.0, ma[4], 1e-12)
}

func TestSlopeOf(t *testing.T) {
	require.InDelta(t, 2.0, slopeOf([]float64{1, 3, 5, 7}), 1e-9)
	require.InDelta(t, 0.0, slopeOf([]float64{4, 4, 4}), 1e-9)
	require.Equal(t, 0.0, slopeOf([]float64{1}))
}

func TestCurrentGapScores(t *testing.T) {
	history := []lottery.Draw{
		{RedBalls: []int{1, 2, 3, 4, 5, 6}, BlueBall: 7},
		{RedBalls: []int{1, 2, 3, 4, 5, 7}, BlueBall: 8},
	}
	scores := currentGapScores(history, lottery.RedRangeMax, true)

	// 最近一期出现的号码遗漏为0
	require.Equal(t, 0.0, scores[1])
	require.Equal(t, 0.0, scores[6])
	// 上一期出现的号码遗漏为 1/2
	require.Equal(t, 0.5, scores[7])
	// 从未出现的号码遗漏满分
	require.Equal(t, 1.0, scores[33])
}

func TestPercentile(t *testing.T) {
	sorted := []float64{0, 2, 5, 8, 10}

	// 秩 h = p×(n-1)，相邻样本线性插值
	require.InDelta(t, 7.4, percentile(sorted, 0.7), 1e-12)
	require.InDelta(t, 2.6, percentile(sorted, 0.3), 1e-12)
	require.InDelta(t, 5.0, percentile(sorted, 0.5), 1e-12)
	require.Equal(t, 0.0, percentile(sorted, 0))
	require.Equal(t, 10.0, percentile(sorted, 1))
	require.Equal(t, 3.0, percentile([]float64{3}, 0.7))
	require.Equal(t, 0.0, percentile(nil, 0.7))
}

func TestHotColdNumbersPartition(t *testing.T) {
	freq := map[int]float64{1: 10, 2: 8, 3: 5, 4: 2, 5: 0}
	hot, cold, neutral := hotColdNumbers(freq)

	// 频次排序 [0,2,5,8,10]：70分位=7.4，30分位=2.6
	require.Equal(t, []int{1, 2}, hot)
	require.Equal(t, []int{4, 5}, cold)
	require.Equal(t, []int{3}, neutral)
}

func TestMedianOf(t *testing.T) {
	require.Equal(t, 3.0, medianOf([]float64{5, 1, 3}))
	require.Equal(t, 2.5, medianOf([]float64{4, 1, 2, 3}))
	require.Equal(t, 0.0, medianOf(nil))
}

func TestPopStdDev(t *testing.T) {
	require.InDelta(t, 2.0, popStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
	require.Equal(t, 0.0, popStdDev([]float64{1}))
}

func TestRoundTo(t *testing.T) {
	require.Equal(t, 0.1235, roundTo(0.12345, 4))
	require.Equal(t, 3.0, roundTo(2.5001, 0))
}
