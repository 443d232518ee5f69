package http

import (
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ebspulse/ebspulse/core/domain/interfaces"
	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
	"github.com/ebspulse/ebspulse/core/infrastructure/transport/http/handlers"
)

// RegisterRoutes registers the report routes and the utility routes
func RegisterRoutes(
	r chi.Router,
	catalog interfaces.Catalog,
	service interfaces.ReportService,
	baseURL string,
	version string,
) error {
	log := logging.New("routes")
	log.Infof("Registering HTTP routes")

	reports := handlers.NewReportHandler(service)

	var utilityRoutes []string
	var reportRoutes []string

	for _, name := range catalog.Names() {
		path := handlers.ReportPath(name)
		r.Get(path, reports.Report(name))
		reportRoutes = append(reportRoutes, "GET "+path)
	}

	r.Get("/api/test-connection", reports.TestConnection)
	utilityRoutes = append(utilityRoutes, "GET /api/test-connection")

	r.Get("/heartbeat", reports.Heartbeat)
	utilityRoutes = append(utilityRoutes, "GET /heartbeat")

	r.Handle("/metrics", promhttp.Handler())
	utilityRoutes = append(utilityRoutes, "GET /metrics")

	docs, err := handlers.OpenAPIHandler(catalog, baseURL, version)
	if err != nil {
		return fmt.Errorf("build OpenAPI document: %w", err)
	}
	r.Get("/docs", docs)
	utilityRoutes = append(utilityRoutes, "GET /docs")

	log.Infof("Routes registered: %d utility, %d report", len(utilityRoutes), len(reportRoutes))
	log.Debugf("Utility routes:")
	for _, route := range utilityRoutes {
		log.Debugf("  %s", route)
	}
	log.Debugf("Report routes:")
	for _, route := range reportRoutes {
		log.Debugf("  %s", route)
	}
	return nil
}
