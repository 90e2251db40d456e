// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/skeleton/internal/adapters/cargo"
	_ "go.trai.ch/skeleton/internal/adapters/config"
	_ "go.trai.ch/skeleton/internal/adapters/fs"
	_ "go.trai.ch/skeleton/internal/adapters/lockfile"
	_ "go.trai.ch/skeleton/internal/adapters/logger"
	_ "go.trai.ch/skeleton/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/skeleton/internal/app"
	_ "go.trai.ch/skeleton/internal/engine/archive"
	_ "go.trai.ch/skeleton/internal/engine/orchestrator"
)
