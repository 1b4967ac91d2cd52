package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile
// time, catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/plotwist/importer/internal/database/imports"
	"github.com/plotwist/importer/internal/scheduler"
	"github.com/plotwist/importer/internal/services"
	"github.com/plotwist/importer/internal/tasks"
	"github.com/plotwist/importer/internal/tmdb"
)

// Persistence
var _ services.ImportCreator = (*imports.Repository)(nil)
var _ tasks.ImportStore = (*imports.Repository)(nil)
var _ scheduler.SweepStore = (*imports.Repository)(nil)

// Background processing
var _ services.ItemPublisher = (*tasks.Publisher)(nil)
var _ tasks.Matcher = (*tmdb.Client)(nil)
