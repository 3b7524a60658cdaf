package database

import (
	"database/sql"
	"fmt"

	"ssq-predictor/internal/config"
	"ssq-predictor/internal/logger"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDB MySQL数据库客户端，持久化生成的预测记录
type MySQLDB struct {
	db *sql.DB
}

// NewMySQLDB 创建新的MySQL数据库连接
func NewMySQLDB(cfg *config.Database) (*MySQLDB, error) {
	db, err := sql.Open("mysql", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// 连接池参数
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	mysqlDB := &MySQLDB{db: db}

	if err := mysqlDB.createTablesIfNotExists(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	return mysqlDB, nil
}

// Close 关闭数据库连接
func (m *MySQLDB) Close() error {
	return m.db.Close()
}

// SavePrediction 保存预测记录
func (m *MySQLDB) SavePrediction(prediction *Prediction) error {
	query := `INSERT INTO predictions (algorithm, red_balls, blue_ball, confidence, dataset_size, request_id)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := m.db.Exec(query,
		prediction.Algorithm,
		prediction.RedBalls,
		prediction.BlueBall,
		prediction.Confidence,
		prediction.DatasetSize,
		prediction.RequestID,
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %v", err)
	}

	logger.Debugf("Saved prediction: %s %s+%02d", prediction.Algorithm, prediction.RedBalls, prediction.BlueBall)
	return nil
}

// GetLatestPredictions 获取最新的预测记录
func (m *MySQLDB) GetLatestPredictions(limit int) ([]Prediction, error) {
	query := `SELECT id, algorithm, red_balls, blue_ball, confidence, dataset_size, request_id, created_at
			  FROM predictions
			  ORDER BY created_at DESC
			  LIMIT ?`

	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %v", err)
	}
	defer rows.Close()

	var predictions []Prediction
	for rows.Next() {
		var prediction Prediction
		if err := rows.Scan(
			&prediction.ID,
			&prediction.Algorithm,
			&prediction.RedBalls,
			&prediction.BlueBall,
			&prediction.Confidence,
			&prediction.DatasetSize,
			&prediction.RequestID,
			&prediction.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %v", err)
		}
		predictions = append(predictions, prediction)
	}

	return predictions, rows.Err()
}

// GetPredictionStats 获取预测统计信息
func (m *MySQLDB) GetPredictionStats() (*PredictionStats, error) {
	query := `SELECT COUNT(*), COALESCE(AVG(confidence), 0),
			  COALESCE(MIN(created_at), NOW()), COALESCE(MAX(created_at), NOW())
			  FROM predictions`

	var stats PredictionStats
	if err := m.db.QueryRow(query).Scan(
		&stats.TotalPredictions,
		&stats.AvgConfidence,
		&stats.FirstPrediction,
		&stats.LastPrediction,
	); err != nil {
		return nil, fmt.Errorf("failed to query prediction stats: %v", err)
	}

	return &stats, nil
}

// createTablesIfNotExists 自动创建表结构
func (m *MySQLDB) createTablesIfNotExists() error {
	query := `CREATE TABLE IF NOT EXISTS predictions (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		algorithm VARCHAR(32) NOT NULL,
		red_balls VARCHAR(32) NOT NULL,
		blue_ball INT NOT NULL,
		confidence DOUBLE NOT NULL,
		dataset_size INT NOT NULL,
		request_id VARCHAR(64) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_created_at (created_at),
		INDEX idx_algorithm (algorithm)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	if _, err := m.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create predictions table: %v", err)
	}

	logger.Debug("Database tables initialized")
	return nil
}
