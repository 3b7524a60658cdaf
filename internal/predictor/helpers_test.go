package predictor

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"ssq-predictor/internal/lottery"
)

// makeDraws 生成确定性的随机开奖历史（最新在前）
func makeDraws(n int, seed int64) []lottery.Draw {
	rng := rand.New(rand.NewSource(seed))
	draws := make([]lottery.Draw, n)
	for i := 0; i < n; i++ {
		perm := rng.Perm(lottery.RedRangeMax)
		reds := make([]int, lottery.RedCount)
		for j := 0; j < lottery.RedCount; j++ {
			reds[j] = perm[j] + 1
		}
		sort.Ints(reds)

		draws[i] = lottery.Draw{
			Period:   fmt.Sprintf("2024%03d", n-i),
			RedBalls: reds,
			BlueBall: rng.Intn(lottery.BlueRangeMax) + 1,
		}
	}
	return draws
}

// makeBiasedDraws 生成偏向固定组合的历史：hot期为固定组合，其余随机
func makeBiasedDraws(total, hot int, reds []int, blue int, seed int64) []lottery.Draw {
	draws := makeDraws(total, seed)
	for i := 0; i < hot && i < total; i++ {
		fixed := make([]int, len(reds))
		copy(fixed, reds)
		draws[i].RedBalls = fixed
		draws[i].BlueBall = blue
	}
	return draws
}

// requireValidResult 校验预测结果的基本结构约束
func requireValidResult(t *testing.T, result *PredictionResult) {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.RedBalls, lottery.RedCount)

	seen := make(map[int]bool)
	for i, ball := range result.RedBalls {
		require.GreaterOrEqual(t, ball, 1)
		require.LessOrEqual(t, ball, lottery.RedRangeMax)
		require.False(t, seen[ball], "red balls must be unique")
		seen[ball] = true
		if i > 0 {
			require.Greater(t, ball, result.RedBalls[i-1], "red balls must be ascending")
		}
	}

	require.GreaterOrEqual(t, result.BlueBall, 1)
	require.LessOrEqual(t, result.BlueBall, lottery.BlueRangeMax)
	require.GreaterOrEqual(t, result.Confidence, 0.0)
	require.LessOrEqual(t, result.Confidence, 100.0)
}
