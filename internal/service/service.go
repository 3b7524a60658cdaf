package service

import (
	"time"

	"ssq-predictor/internal/cache"
	"ssq-predictor/internal/database"
	"ssq-predictor/internal/logger"
	"ssq-predictor/internal/lottery"
	"ssq-predictor/internal/predictor"
)

// HistoryFetcher 开奖历史数据源
type HistoryFetcher interface {
	FetchHistory(count int) ([]lottery.Draw, error)
}

// PredictionStore 预测记录存储
type PredictionStore interface {
	SavePrediction(prediction *database.Prediction) error
	GetLatestPredictions(limit int) ([]database.Prediction, error)
	GetPredictionStats() (*database.PredictionStats, error)
}

// Prediction 对外返回的预测结果：核心结果加服务层补充的
// 数据集大小、生成时间与算法名称
type Prediction struct {
	RedBalls    []int                  `json:"red_balls"`
	BlueBall    int                    `json:"blue_ball"`
	Confidence  float64                `json:"confidence"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	DatasetSize int                    `json:"dataset_size"`
	GeneratedAt time.Time              `json:"generated_at"`
	Algorithm   string                 `json:"algorithm"`
}

// Service 预测服务协调器：抓取历史数据、路由到算法、
// 补充元信息并持久化
type Service struct {
	fetcher  HistoryFetcher
	cache    *cache.HistoryCache
	registry *predictor.Registry
	store    PredictionStore // 可为nil，未配置数据库时不持久化
}

// New 创建预测服务
func New(fetcher HistoryFetcher, historyCache *cache.HistoryCache, registry *predictor.Registry, store PredictionStore) *Service {
	return &Service{
		fetcher:  fetcher,
		cache:    historyCache,
		registry: registry,
		store:    store,
	}
}

// Registry 算法注册表
func (s *Service) Registry() *predictor.Registry {
	return s.registry
}

// Predict 执行预测。数据抓取失败按无数据处理（算法自行兜底），
// 未注册的算法名返回随机兜底，对合法请求永不报错。
func (s *Service) Predict(algorithm string, datasetSize int, requestID string) *Prediction {
	history := s.loadHistory(datasetSize)

	var result *predictor.PredictionResult
	if p, exists := s.registry.Get(algorithm); exists {
		result = p.Predict(history, datasetSize)
	} else {
		logger.Warnf("Unknown algorithm %q requested, using random fallback", algorithm)
		result = predictor.RandomFallback()
	}

	prediction := &Prediction{
		RedBalls:    result.RedBalls,
		BlueBall:    result.BlueBall,
		Confidence:  result.Confidence,
		Metadata:    result.Metadata,
		DatasetSize: datasetSize,
		GeneratedAt: time.Now().UTC(),
		Algorithm:   algorithm,
	}

	s.savePrediction(prediction, requestID)
	return prediction
}

// History 获取最新预测记录，未启用持久化时返回空列表
func (s *Service) History(limit int) ([]database.Prediction, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.GetLatestPredictions(limit)
}

// Stats 获取预测统计信息，未启用持久化时返回空统计
func (s *Service) Stats() (*database.PredictionStats, error) {
	if s.store == nil {
		return &database.PredictionStats{}, nil
	}
	return s.store.GetPredictionStats()
}

// loadHistory 优先走缓存，失败时记录日志并返回空历史
func (s *Service) loadHistory(datasetSize int) []lottery.Draw {
	if s.cache != nil {
		if draws, ok := s.cache.Get(datasetSize); ok {
			logger.Debugf("History cache hit for dataset size %d", datasetSize)
			return draws
		}
	}

	draws, err := s.fetcher.FetchHistory(datasetSize)
	if err != nil {
		// 抓取失败按无数据处理，算法层会返回兜底结果
		logger.Warnf("Failed to fetch historical draws: %v", err)
		return nil
	}

	if s.cache != nil {
		s.cache.Set(datasetSize, draws)
	}
	return draws
}

// savePrediction 持久化预测记录，失败只记录日志
func (s *Service) savePrediction(prediction *Prediction, requestID string) {
	if s.store == nil {
		return
	}

	record := &database.Prediction{
		Algorithm:   prediction.Algorithm,
		RedBalls:    database.FormatRedBalls(prediction.RedBalls),
		BlueBall:    prediction.BlueBall,
		Confidence:  prediction.Confidence,
		DatasetSize: prediction.DatasetSize,
		RequestID:   requestID,
	}

	if err := s.store.SavePrediction(record); err != nil {
		logger.Errorf("Failed to save prediction: %v", err)
	}
}
