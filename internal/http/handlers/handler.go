package handlers

import (
	"product_dashboard/internal/report"
	"product_dashboard/internal/service"
)

type Handler struct {
	Queries    *service.QueryService
	Aggregator *service.Aggregator
	Seeder     *service.Seeder
	Exporter   *report.Exporter
}

func NewHandler(seeder *service.Seeder, queries *service.QueryService) *Handler {
	aggregator := service.NewAggregator(queries)
	return &Handler{
		Queries:    queries,
		Aggregator: aggregator,
		Seeder:     seeder,
		Exporter:   report.NewExporter(aggregator),
	}
}
