/*
Copyright © 2025 Tata AI
*/
package main

import (
	"os"

	"github.com/tata-ai/tata/cmd"
)

// @title Tata Template Silo API
// @version 1.0
// @description API server for the Tata AI configuration templates, service health and template snapshots
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/tata-ai/tata/issues

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8100
// @BasePath /api/v1
// @schemes http https
func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
