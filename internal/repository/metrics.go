package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Outcome phases tracked per page view
var outcomePhases = []string{"loaded", "not_found", "error", "loading"}

// Metrics stores page-view metrics in Redis
type Metrics struct {
	client *redis.Client
	now    func() time.Time
}

// PathStats represents statistics for a page or API endpoint
type PathStats struct {
	Path         string           `json:"path"`
	TotalCalls   int64            `json:"total_calls"`
	SuccessCalls int64            `json:"success_calls"`
	ErrorCalls   int64            `json:"error_calls"`
	AvgLatencyMs float64          `json:"avg_latency_ms"`
	MaxLatencyMs float64          `json:"max_latency_ms"`
	MinLatencyMs float64          `json:"min_latency_ms"`
	Outcomes     map[string]int64 `json:"outcomes"`
}

// DailyStats represents daily page-view statistics
type DailyStats struct {
	Date       string  `json:"date"`
	TotalCalls int64   `json:"total_calls"`
	AvgLatency float64 `json:"avg_latency"`
}

// OverallStats represents overall system statistics
type OverallStats struct {
	TotalCalls   int64              `json:"total_calls"`
	TodayCalls   int64              `json:"today_calls"`
	AvgLatencyMs float64            `json:"avg_latency_ms"`
	OutcomeRates map[string]float64 `json:"outcome_rates"`
	TopPaths     []PathStats        `json:"top_paths"`
	DailyTrend   []DailyStats       `json:"daily_trend"`
	ErrorRate    float64            `json:"error_rate"`
	Uptime       int64              `json:"uptime_seconds"`
}

// NewMetrics creates a new Metrics instance
func NewMetrics(redisURL string) (*Metrics, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	// 只记录地址，不记录完整 URL（可能包含密码）
	log.Info().Str("addr", opt.Addr).Msg("✅ Redis connected")

	return &Metrics{client: client, now: time.Now}, nil
}

// RecordPageView records one request and the view phase it rendered.
// phase may be empty for requests that render no page.
func (m *Metrics) RecordPageView(ctx context.Context, path string, statusCode int, latencyMs float64, phase string) error {
	now := m.now()
	today := now.Format("2006-01-02")
	hour := now.Format("2006-01-02-15")

	pipe := m.client.Pipeline()

	pathKey := fmt.Sprintf("metrics:path:%s", path)
	pipe.HIncrBy(ctx, pathKey, "total", 1)
	pipe.HIncrByFloat(ctx, pathKey, "latency_sum", latencyMs)

	if statusCode >= 200 && statusCode < 400 {
		pipe.HIncrBy(ctx, pathKey, "success", 1)
	} else {
		pipe.HIncrBy(ctx, pathKey, "error", 1)
	}

	if phase != "" {
		pipe.HIncrBy(ctx, pathKey, "phase:"+phase, 1)
		pipe.HIncrBy(ctx, "metrics:global:phases", phase, 1)
	}

	// Daily stats
	dailyKey := fmt.Sprintf("metrics:daily:%s", today)
	pipe.HIncrBy(ctx, dailyKey, "total", 1)
	pipe.HIncrByFloat(ctx, dailyKey, "latency_sum", latencyMs)
	pipe.Expire(ctx, dailyKey, 30*24*time.Hour) // Keep 30 days

	// Hourly stats
	hourlyKey := fmt.Sprintf("metrics:hourly:%s", hour)
	pipe.HIncrBy(ctx, hourlyKey, "total", 1)
	pipe.Expire(ctx, hourlyKey, 48*time.Hour) // Keep 48 hours

	// Global stats
	pipe.Incr(ctx, "metrics:global:total")
	pipe.IncrByFloat(ctx, "metrics:global:latency_sum", latencyMs)

	// Track all paths
	pipe.SAdd(ctx, "metrics:paths", path)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record metrics: %w", err)
	}

	return m.updateLatencyBounds(ctx, pathKey, latencyMs)
}

// updateLatencyBounds keeps min/max latency per path
func (m *Metrics) updateLatencyBounds(ctx context.Context, pathKey string, latencyMs float64) error {
	bounds, err := m.client.HMGet(ctx, pathKey, "min_latency", "max_latency").Result()
	if err != nil {
		return fmt.Errorf("failed to read latency bounds: %w", err)
	}

	fields := map[string]interface{}{}
	if minLatency, ok := parseFloatField(bounds[0]); !ok || latencyMs < minLatency {
		fields["min_latency"] = latencyMs
	}
	if maxLatency, ok := parseFloatField(bounds[1]); !ok || latencyMs > maxLatency {
		fields["max_latency"] = latencyMs
	}
	if len(fields) == 0 {
		return nil
	}
	return m.client.HSet(ctx, pathKey, fields).Err()
}

func parseFloatField(v interface{}) (float64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// GetPathStats gets statistics for a specific path
func (m *Metrics) GetPathStats(ctx context.Context, path string) (*PathStats, error) {
	pathKey := fmt.Sprintf("metrics:path:%s", path)

	result, err := m.client.HGetAll(ctx, pathKey).Result()
	if err != nil {
		return nil, err
	}

	stats := &PathStats{Path: path, Outcomes: map[string]int64{}}
	if len(result) == 0 {
		return stats, nil
	}

	total, _ := strconv.ParseInt(result["total"], 10, 64)
	success, _ := strconv.ParseInt(result["success"], 10, 64)
	errors, _ := strconv.ParseInt(result["error"], 10, 64)
	latencySum, _ := strconv.ParseFloat(result["latency_sum"], 64)
	minLatency, _ := strconv.ParseFloat(result["min_latency"], 64)
	maxLatency, _ := strconv.ParseFloat(result["max_latency"], 64)

	for _, phase := range outcomePhases {
		if n, err := strconv.ParseInt(result["phase:"+phase], 10, 64); err == nil {
			stats.Outcomes[phase] = n
		}
	}

	stats.TotalCalls = total
	stats.SuccessCalls = success
	stats.ErrorCalls = errors
	stats.MinLatencyMs = minLatency
	stats.MaxLatencyMs = maxLatency
	if total > 0 {
		stats.AvgLatencyMs = latencySum / float64(total)
	}

	return stats, nil
}

// GetOverallStats gets overall system statistics
func (m *Metrics) GetOverallStats(ctx context.Context) (*OverallStats, error) {
	stats := &OverallStats{OutcomeRates: map[string]float64{}}

	total, err := m.client.Get(ctx, "metrics:global:total").Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read totals: %w", err)
	}
	latencySum, _ := m.client.Get(ctx, "metrics:global:latency_sum").Float64()
	stats.TotalCalls = total

	if total > 0 {
		stats.AvgLatencyMs = latencySum / float64(total)
	}

	today := m.now().Format("2006-01-02")
	todayKey := fmt.Sprintf("metrics:daily:%s", today)
	todayCalls, _ := m.client.HGet(ctx, todayKey, "total").Int64()
	stats.TodayCalls = todayCalls

	paths, _ := m.client.SMembers(ctx, "metrics:paths").Result()
	var allStats []PathStats
	var totalErrors int64

	for _, path := range paths {
		pathStats, err := m.GetPathStats(ctx, path)
		if err == nil && pathStats.TotalCalls > 0 {
			allStats = append(allStats, *pathStats)
			totalErrors += pathStats.ErrorCalls
		}
	}

	// Sort by total calls and get top 10
	sort.Slice(allStats, func(i, j int) bool {
		if allStats[i].TotalCalls == allStats[j].TotalCalls {
			return allStats[i].Path < allStats[j].Path
		}
		return allStats[i].TotalCalls > allStats[j].TotalCalls
	})

	if len(allStats) > 10 {
		stats.TopPaths = allStats[:10]
	} else {
		stats.TopPaths = allStats
	}

	phases, _ := m.client.HGetAll(ctx, "metrics:global:phases").Result()
	var rendered int64
	counts := map[string]int64{}
	for phase, raw := range phases {
		n, _ := strconv.ParseInt(raw, 10, 64)
		counts[phase] = n
		rendered += n
	}
	for phase, n := range counts {
		stats.OutcomeRates[phase] = float64(n) / float64(rendered) * 100
	}

	if total > 0 {
		stats.ErrorRate = float64(totalErrors) / float64(total) * 100
	}

	// Get daily trend (last 7 days)
	stats.DailyTrend = m.getDailyTrend(ctx, 7)

	startTime, err := m.client.Get(ctx, "metrics:server:start_time").Int64()
	if err == nil && startTime > 0 {
		stats.Uptime = m.now().Unix() - startTime
	}

	return stats, nil
}

// getDailyTrend gets daily statistics for the last N days
func (m *Metrics) getDailyTrend(ctx context.Context, days int) []DailyStats {
	var trend []DailyStats

	for i := days - 1; i >= 0; i-- {
		date := m.now().AddDate(0, 0, -i).Format("2006-01-02")
		dailyKey := fmt.Sprintf("metrics:daily:%s", date)

		result, err := m.client.HGetAll(ctx, dailyKey).Result()
		if err != nil {
			continue
		}

		total, _ := strconv.ParseInt(result["total"], 10, 64)
		latencySum, _ := strconv.ParseFloat(result["latency_sum"], 64)

		avgLatency := 0.0
		if total > 0 {
			avgLatency = latencySum / float64(total)
		}

		trend = append(trend, DailyStats{
			Date:       date,
			TotalCalls: total,
			AvgLatency: avgLatency,
		})
	}

	return trend
}

// RecordServerStart records server start time
func (m *Metrics) RecordServerStart(ctx context.Context) {
	if err := m.client.Set(ctx, "metrics:server:start_time", m.now().Unix(), 0).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to record server start")
	}
}

// ResetMetrics resets all metrics
func (m *Metrics) ResetMetrics(ctx context.Context) (int64, error) {
	keys, err := m.client.Keys(ctx, "metrics:*").Result()
	if err != nil {
		return 0, fmt.Errorf("redis keys error: %w", err)
	}

	if len(keys) == 0 {
		return 0, nil
	}

	deleted, err := m.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("redis del error: %w", err)
	}
	return deleted, nil
}

// Ping checks the Redis connection
func (m *Metrics) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (m *Metrics) Close() error {
	return m.client.Close()
}
