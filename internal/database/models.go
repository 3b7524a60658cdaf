package database

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prediction 预测记录模型
type Prediction struct {
	ID          int64     `json:"id" db:"id"`
	Algorithm   string    `json:"algorithm" db:"algorithm"`
	RedBalls    string    `json:"red_balls" db:"red_balls"`
	BlueBall    int       `json:"blue_ball" db:"blue_ball"`
	Confidence  float64   `json:"confidence" db:"confidence"`
	DatasetSize int       `json:"dataset_size" db:"dataset_size"`
	RequestID   string    `json:"request_id" db:"request_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PredictionStats 预测统计模型
type PredictionStats struct {
	TotalPredictions int       `json:"total_predictions" db:"total_predictions"`
	AvgConfidence    float64   `json:"avg_confidence" db:"avg_confidence"`
	FirstPrediction  time.Time `json:"first_prediction" db:"first_prediction"`
	LastPrediction   time.Time `json:"last_prediction" db:"last_prediction"`
}

// FormatRedBalls 红球号码序列化为 "01,05,12,..." 形式
func FormatRedBalls(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, num := range numbers {
		parts[i] = fmt.Sprintf("%02d", num)
	}
	return strings.Join(parts, ",")
}

// ParseRedBalls 解析红球号码字符串
func ParseRedBalls(value string) ([]int, error) {
	if value == "" {
		return nil, fmt.Errorf("empty red balls value")
	}

	parts := strings.Split(value, ",")
	numbers := make([]int, 0, len(parts))
	for i, part := range parts {
		num, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid number in part %d: %s", i+1, part)
		}
		numbers = append(numbers, num)
	}

	return numbers, nil
}
