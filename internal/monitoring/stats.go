package monitoring

import (
	"context"
	"time"

	"cms-backend/internal/cache"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats is the point-in-time health snapshot served to the dashboard.
type HostStats struct {
	DatabaseStatus string  `json:"database_status"`
	RedisStatus    string  `json:"redis_status"`
	ResponseTimeMs int64   `json:"response_time_ms"`
	CPUPercent     float64 `json:"cpu_percent"`
	MemoryPercent  float64 `json:"memory_percent"`
	MemoryUsedMB   uint64  `json:"memory_used_mb"`
	MemoryTotalMB  uint64  `json:"memory_total_mb"`
	DiskPercent    float64 `json:"disk_percent"`
	DBConnections  int32   `json:"db_connections"`
	DBIdleConns    int32   `json:"db_idle_conns"`
}

// CollectStats samples the host and dependency health.
func CollectStats(ctx context.Context, db *pgxpool.Pool) *HostStats {
	stats := &HostStats{
		DatabaseStatus: "healthy",
		RedisStatus:    "healthy",
	}

	start := time.Now()
	if err := db.Ping(ctx); err != nil {
		stats.DatabaseStatus = "unhealthy"
	}
	stats.ResponseTimeMs = time.Since(start).Milliseconds()

	if !cache.IsHealthy() {
		stats.RedisStatus = "degraded"
	}

	poolStat := db.Stat()
	stats.DBConnections = poolStat.TotalConns()
	stats.DBIdleConns = poolStat.IdleConns()

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
		stats.MemoryUsedMB = vm.Used / 1024 / 1024
		stats.MemoryTotalMB = vm.Total / 1024 / 1024
	}
	if du, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = du.UsedPercent
	}

	return stats
}
