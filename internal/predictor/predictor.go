package predictor

import (
	"ssq-predictor/internal/lottery"
)

// Predictor 预测算法接口。实现必须对任意输入（包括空历史）
// 返回合法结果，数据不足时返回随机兜底而不是报错。
type Predictor interface {
	// Predict 根据历史数据（最新在前）与分析窗口生成预测
	Predict(history []lottery.Draw, datasetSize int) *PredictionResult

	// Name 算法名称
	Name() string

	// MaxConfidence 该算法允许的置信度上限
	MaxConfidence() float64
}

// AlgorithmInfo 算法目录条目
type AlgorithmInfo struct {
	Key           string  `json:"key"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	DefaultWeight float64 `json:"default_weight"`
}

// Registry 预测器注册表
type Registry struct {
	predictors map[string]Predictor
	order      []string
}

// NewRegistry 创建注册表并注册全部预测器
func NewRegistry() *Registry {
	registry := &Registry{
		predictors: make(map[string]Predictor),
	}

	registry.register(NewFrequencyPredictor())
	registry.register(NewTrendPredictor())
	registry.register(NewForestPredictor())
	registry.register(NewSequencePredictor())
	registry.register(NewEnsemblePredictor(nil))

	return registry
}

// register 注册预测器
func (r *Registry) register(predictor Predictor) {
	r.predictors[predictor.Name()] = predictor
	r.order = append(r.order, predictor.Name())
}

// Get 按名称获取预测器
func (r *Registry) Get(name string) (Predictor, bool) {
	predictor, exists := r.predictors[name]
	return predictor, exists
}

// Names 按注册顺序返回算法名称
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Algorithms 返回算法目录（名称、说明与默认权重）
func (r *Registry) Algorithms() []AlgorithmInfo {
	return []AlgorithmInfo{
		{
			Key:           NameFrequency,
			Name:          "频率分析",
			Description:   "统计红蓝球出现频次作为推荐依据",
			DefaultWeight: defaultWeights[NameFrequency],
		},
		{
			Key:           NameTrend,
			Name:          "趋势分析",
			Description:   "基于移动平均斜率捕捉号码走势",
			DefaultWeight: defaultWeights[NameTrend],
		},
		{
			Key:           NameForest,
			Name:          "随机森林",
			Description:   "基于历史特征构建装袋决策树分类器",
			DefaultWeight: defaultWeights[NameForest],
		},
		{
			Key:           NameSequence,
			Name:          "序列记忆",
			Description:   "利用递归记忆近似建模号码序列",
			DefaultWeight: defaultWeights[NameSequence],
		},
		{
			Key:           NameEnsemble,
			Name:          "综合预测",
			Description:   "按权重融合多种算法结果，权重可依据表现动态调整",
			DefaultWeight: 1.0,
		},
	}
}

// 算法名称常量
const (
	NameFrequency = "frequency"
	NameTrend     = "trend"
	NameForest    = "random_forest"
	NameSequence  = "lstm"
	NameEnsemble  = "ensemble"
)
