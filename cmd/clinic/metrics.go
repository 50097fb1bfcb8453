package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// logOperationTotals writes every repository_operations_total series to the log.
// Nothing scrapes the registry, so this is the only place the counters surface.
func logOperationTotals(zl *zap.Logger, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		zl.Warn("gather metrics failed", zap.Error(err))
		return
	}
	for _, mf := range families {
		if mf.GetName() != "repository_operations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			fields := make([]zap.Field, 0, len(m.GetLabel())+1)
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}
			fields = append(fields, zap.Float64("count", m.GetCounter().GetValue()))
			zl.Info("repository operations", fields...)
		}
	}
}
