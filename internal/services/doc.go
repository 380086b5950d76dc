// Package services contains the application service layer between the
// HTTP transport and the analysis packages. DataService owns dataset
// loading and lifecycle; AnalyticsService exposes analysis, simulation,
// benchmarking, chart rendering and report generation operations.
package services
