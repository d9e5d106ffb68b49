package database

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

type poolStat struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func(*pgxpool.Stat) float64
}

// PoolStatsCollector exports pgxpool statistics on every scrape.
type PoolStatsCollector struct {
	pool  *pgxpool.Pool
	stats []poolStat
}

func NewPoolStatsCollector(pool *pgxpool.Pool) *PoolStatsCollector {
	gauge := func(name, help string, fn func(*pgxpool.Stat) float64) poolStat {
		return poolStat{prometheus.NewDesc(name, help, nil, nil), prometheus.GaugeValue, fn}
	}
	counter := func(name, help string, fn func(*pgxpool.Stat) float64) poolStat {
		return poolStat{prometheus.NewDesc(name, help, nil, nil), prometheus.CounterValue, fn}
	}
	return &PoolStatsCollector{
		pool: pool,
		stats: []poolStat{
			gauge("storefront_db_pool_acquired_connections", "Connections currently checked out.",
				func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }),
			gauge("storefront_db_pool_idle_connections", "Idle connections in the pool.",
				func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }),
			gauge("storefront_db_pool_total_connections", "Open connections in the pool.",
				func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }),
			gauge("storefront_db_pool_max_connections", "Configured pool ceiling.",
				func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }),
			counter("storefront_db_pool_acquire_total", "Connection acquires.",
				func(s *pgxpool.Stat) float64 { return float64(s.AcquireCount()) }),
			counter("storefront_db_pool_empty_acquire_total", "Acquires that waited for a free connection.",
				func(s *pgxpool.Stat) float64 { return float64(s.EmptyAcquireCount()) }),
			counter("storefront_db_pool_acquire_seconds_total", "Time spent acquiring connections.",
				func(s *pgxpool.Stat) float64 { return s.AcquireDuration().Seconds() }),
		},
	}
}

func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, s := range c.stats {
		ch <- s.desc
	}
}

func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	if c.pool == nil {
		return
	}
	stat := c.pool.Stat()
	for _, s := range c.stats {
		ch <- prometheus.MustNewConstMetric(s.desc, s.kind, s.value(stat))
	}
}
