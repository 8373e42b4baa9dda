// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/tsbuild/internal/adapters/config"
	_ "go.trai.ch/tsbuild/internal/adapters/esbuild"
	_ "go.trai.ch/tsbuild/internal/adapters/icons"
	_ "go.trai.ch/tsbuild/internal/adapters/logger"
	_ "go.trai.ch/tsbuild/internal/adapters/shell"
	_ "go.trai.ch/tsbuild/internal/adapters/systemd"
	_ "go.trai.ch/tsbuild/internal/adapters/toolchain"
	_ "go.trai.ch/tsbuild/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/tsbuild/internal/app"
)
