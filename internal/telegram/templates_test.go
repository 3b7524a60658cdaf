package telegram

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ssq-predictor/internal/predictor"
	"ssq-predictor/internal/service"
)

func TestPredictionMessage(t *testing.T) {
	message := predictionMessage(&service.Prediction{
		RedBalls:    []int{1, 5, 12, 18, 25, 33},
		BlueBall:    7,
		Confidence:  68.5,
		Algorithm:   "ensemble",
		DatasetSize: 200,
	})

	require.Contains(t, message, "01 05 12 18 25 33")
	require.Contains(t, message, "07")
	require.Contains(t, message, "68.5%")
	require.Contains(t, message, "ensemble")
	require.Contains(t, message, "200期")
	require.NotContains(t, message, "随机推荐")
}

func TestPredictionMessageFallbackNotice(t *testing.T) {
	message := predictionMessage(&service.Prediction{
		RedBalls:   []int{2, 4, 8, 16, 24, 32},
		BlueBall:   3,
		Confidence: 30,
		Algorithm:  "frequency",
		Metadata:   map[string]interface{}{"fallback": true},
	})

	require.Contains(t, message, "随机推荐")
}

func TestAlgorithmsMessage(t *testing.T) {
	message := algorithmsMessage(predictor.NewRegistry().Algorithms())

	require.Contains(t, message, "frequency")
	require.Contains(t, message, "ensemble")
	require.Contains(t, message, "频率分析")
	require.Contains(t, message, "综合预测")
}

func TestHelpMessage(t *testing.T) {
	message := helpMessage()

	require.Contains(t, message, "/predict")
	require.Contains(t, message, "/algorithms")
}

func TestFormatRedBalls(t *testing.T) {
	require.Equal(t, "01 09 33", formatRedBalls([]int{1, 9, 33}))
	require.Equal(t, "", formatRedBalls(nil))
}
