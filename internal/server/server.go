package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ssq-predictor/internal/config"
	"ssq-predictor/internal/database"
	"ssq-predictor/internal/logger"
	"ssq-predictor/internal/service"
)

// Server 预测服务HTTP入口
type Server struct {
	engine *gin.Engine
	svc    *service.Service
	app    *config.App
}

// PredictRequest 预测请求体
type PredictRequest struct {
	Algorithm   string `json:"algorithm"`
	DatasetSize int    `json:"dataset_size"`
}

// HistoryEntry 历史预测响应条目
type HistoryEntry struct {
	Algorithm   string  `json:"algorithm"`
	RedBalls    []int   `json:"red_balls"`
	BlueBall    int     `json:"blue_ball"`
	Confidence  float64 `json:"confidence"`
	DatasetSize int     `json:"dataset_size"`
	GeneratedAt string  `json:"generated_at"`
}

// New 创建HTTP服务并注册路由
func New(svc *service.Service, appCfg *config.App) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestIDMiddleware(), metricsMiddleware())

	server := &Server{
		engine: engine,
		svc:    svc,
		app:    appCfg,
	}

	v1 := engine.Group("/api/v1")
	v1.POST("/predict", server.handlePredict)
	v1.GET("/predict/history", server.handleHistory)
	v1.GET("/predict/stats", server.handleStats)
	v1.GET("/algorithms", server.handleAlgorithms)

	engine.GET("/health", server.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return server
}

// Engine 暴露底层引擎（测试用）
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run 启动HTTP服务
func (s *Server) Run(addr string) error {
	logger.Infof("HTTP server listening on %s", addr)
	return s.engine.Run(addr)
}

// handlePredict 生成预测号码
func (s *Server) handlePredict(c *gin.Context) {
	request := PredictRequest{
		Algorithm:   "ensemble",
		DatasetSize: s.app.RecommendedDatasetSize,
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("无效的请求格式: %v", err)})
		return
	}
	if request.Algorithm == "" {
		request.Algorithm = "ensemble"
	}
	if request.DatasetSize == 0 {
		request.DatasetSize = s.app.RecommendedDatasetSize
	}

	if request.DatasetSize < s.app.MinDatasetSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("数据不足：至少需要%d期历史数据才能进行有效预测", s.app.MinDatasetSize),
		})
		return
	}
	if request.DatasetSize > s.app.MaxDatasetSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("数据集过大：最多分析%d期历史数据", s.app.MaxDatasetSize),
		})
		return
	}

	if _, exists := s.svc.Registry().Get(request.Algorithm); !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不支持的算法类型"})
		return
	}

	prediction := s.svc.Predict(request.Algorithm, request.DatasetSize, c.GetString("request_id"))

	fallback := false
	if flag, ok := prediction.Metadata["fallback"].(bool); ok {
		fallback = flag
	}
	observePrediction(request.Algorithm, fallback)

	c.JSON(http.StatusOK, prediction)
}

// handleHistory 列出最近的预测记录
func (s *Server) handleHistory(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit必须是1-100之间的整数"})
			return
		}
		limit = parsed
	}

	records, err := s.svc.History(limit)
	if err != nil {
		logger.Errorf("Failed to load prediction history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询历史预测失败"})
		return
	}

	entries := make([]HistoryEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, toHistoryEntry(record))
	}

	c.JSON(http.StatusOK, gin.H{"items": entries, "count": len(entries)})
}

// handleStats 预测统计信息
func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.svc.Stats()
	if err != nil {
		logger.Errorf("Failed to load prediction stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询预测统计失败"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// handleAlgorithms 列出可用算法
func (s *Server) handleAlgorithms(c *gin.Context) {
	algorithms := s.svc.Registry().Algorithms()
	c.JSON(http.StatusOK, gin.H{"items": algorithms, "count": len(algorithms)})
}

// handleHealth 健康检查
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "SSQ prediction service is running"})
}

// toHistoryEntry 数据库记录转换为响应条目
func toHistoryEntry(record database.Prediction) HistoryEntry {
	redBalls, err := database.ParseRedBalls(record.RedBalls)
	if err != nil {
		logger.Warnf("Failed to parse stored red balls %q: %v", record.RedBalls, err)
	}

	return HistoryEntry{
		Algorithm:   record.Algorithm,
		RedBalls:    redBalls,
		BlueBall:    record.BlueBall,
		Confidence:  record.Confidence,
		DatasetSize: record.DatasetSize,
		GeneratedAt: record.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
