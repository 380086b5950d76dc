// Package app provides application initialization and lifecycle management.
// It wires configuration loading, logging, the dataset and analytics
// services, the HTTP router and graceful shutdown together.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//	1. Load configuration from defaults, file and environment
//	2. Initialize structured logging
//	3. Construct the data and analytics services and load the dataset
//	4. Build the HTTP router and server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains active requests within
// the configured shutdown timeout. Initialization errors are returned to
// the caller; the package never calls os.Exit directly.
package app
