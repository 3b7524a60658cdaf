package lottery

import (
	"encoding/json"
)

// 双色球号码范围
const (
	RedRangeMax  = 33 // 红球号码 1-33
	BlueRangeMax = 16 // 蓝球号码 1-16
	RedCount     = 6  // 每期红球数量
)

// Draw 一期开奖数据，列表约定按最新在前排序
type Draw struct {
	Period   string `json:"period"`
	RedBalls []int  `json:"red_balls"`
	BlueBall int    `json:"blue_ball"`
}

// drawPayload 兼容后端两种字段拼写
type drawPayload struct {
	Period        string `json:"period"`
	Issue         string `json:"issue"`
	RedBalls      []int  `json:"red_balls"`
	RedBallsCamel []int  `json:"redBalls"`
	BlueBall      int    `json:"blue_ball"`
	BlueBallCamel int    `json:"blueBall"`
}

// UnmarshalJSON 解析开奖数据，容忍 red_balls/redBalls、blue_ball/blueBall 两种键名
func (d *Draw) UnmarshalJSON(data []byte) error {
	var payload drawPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}

	d.Period = payload.Period
	if d.Period == "" {
		d.Period = payload.Issue
	}

	d.RedBalls = payload.RedBalls
	if len(d.RedBalls) == 0 {
		d.RedBalls = payload.RedBallsCamel
	}

	d.BlueBall = payload.BlueBall
	if d.BlueBall == 0 {
		d.BlueBall = payload.BlueBallCamel
	}

	return nil
}

// ExtractRedDraws 提取红球序列，只保留恰好6个号码的有效期次
func ExtractRedDraws(history []Draw) [][]int {
	var reds [][]int
	for _, draw := range history {
		if len(draw.RedBalls) == RedCount {
			reds = append(reds, draw.RedBalls)
		}
	}
	return reds
}

// ExtractBlueBalls 提取蓝球序列，过滤越界号码
func ExtractBlueBalls(history []Draw) []int {
	var blues []int
	for _, draw := range history {
		if draw.BlueBall >= 1 && draw.BlueBall <= BlueRangeMax {
			blues = append(blues, draw.BlueBall)
		}
	}
	return blues
}

// Truncate 截取最新的 size 期数据
func Truncate(history []Draw, size int) []Draw {
	if size <= 0 || size >= len(history) {
		return history
	}
	return history[:size]
}
