package main

import (
	"k8s.io/klog/v2"

	"github.com/urbannest/urbannest/cmd/urbannest/helper"
	"github.com/urbannest/urbannest/dao/query"
	"github.com/urbannest/urbannest/pkg/objectstore"
)

// @title						UrbanNest API
// @version						1.0.0
// @description					API server for UrbanNest, a construction project management platform for builders and home buyers.
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
// @description					Log in via /v1/login and pass 'Bearer ${TOKEN}' to access protected endpoints
func main() {
	// Initialize configuration
	configInit := helper.NewConfigInitializer()
	backendConfig := configInit.GetBackendConfig()

	// Load debug environment if needed
	if err := configInit.LoadDebugEnvironment(); err != nil {
		klog.Fatalf("Failed to load env: %s", err)
	}

	// Connect to the database and bring the schema up to date
	db := query.GetDB()
	if err := query.Migrate(db); err != nil {
		klog.Fatalf("Failed to migrate database: %s", err)
	}

	store := objectstore.NewClient(backendConfig.ObjectStore)

	// Start the background attachment sweep
	serverRunner := helper.NewServerRunner(backendConfig)
	stopCleaner := serverRunner.StartCleaner(store)
	defer stopCleaner()

	// Run the HTTP server until shutdown
	serverRunner.StartServer(store)
}
