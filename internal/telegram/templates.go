package telegram

import (
	"fmt"
	"strings"

	"ssq-predictor/internal/predictor"
	"ssq-predictor/internal/service"
)

// helpMessage 帮助信息
func helpMessage() string {
	return `🎯 *双色球预测机器人*

可用命令：
/predict \[算法] - 生成预测号码（默认综合预测）
/algorithms - 查看可用算法
/help - 显示帮助信息

示例：
` + "`/predict`" + `
` + "`/predict frequency`"
}

// predictionMessage 预测结果消息
func predictionMessage(prediction *service.Prediction) string {
	var builder strings.Builder

	builder.WriteString("🎯 *预测结果*\n\n")
	builder.WriteString(fmt.Sprintf("红球：`%s`\n", formatRedBalls(prediction.RedBalls)))
	builder.WriteString(fmt.Sprintf("蓝球：`%02d`\n", prediction.BlueBall))
	builder.WriteString(fmt.Sprintf("置信度：%.1f%%\n", prediction.Confidence))
	builder.WriteString(fmt.Sprintf("算法：%s\n", prediction.Algorithm))
	builder.WriteString(fmt.Sprintf("分析期数：%d期\n", prediction.DatasetSize))

	if fallback, ok := prediction.Metadata["fallback"].(bool); ok && fallback {
		builder.WriteString("\n⚠️ 历史数据不足，本次为随机推荐")
	}

	builder.WriteString("\n_预测仅供参考，理性购彩_")
	return builder.String()
}

// algorithmsMessage 算法目录消息
func algorithmsMessage(algorithms []predictor.AlgorithmInfo) string {
	var builder strings.Builder

	builder.WriteString("📊 *可用算法*\n\n")
	for _, info := range algorithms {
		builder.WriteString(fmt.Sprintf("`%s` - %s\n%s\n\n", info.Key, info.Name, info.Description))
	}

	builder.WriteString("使用 `/predict <算法>` 指定算法")
	return builder.String()
}

// formatRedBalls 红球格式化为空格分隔的两位数字
func formatRedBalls(redBalls []int) string {
	parts := make([]string, len(redBalls))
	for i, number := range redBalls {
		parts[i] = fmt.Sprintf("%02d", number)
	}
	return strings.Join(parts, " ")
}
