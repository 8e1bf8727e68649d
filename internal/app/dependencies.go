package app

import (
	"database/sql"

	"github.com/khata-app/khata/internal/config"
	"github.com/khata-app/khata/internal/utils"
	"github.com/khata-app/khata/pkg/ai"
	"github.com/khata-app/khata/pkg/expense"
	"github.com/khata-app/khata/pkg/google"
	"github.com/khata-app/khata/pkg/stats"
	"github.com/khata-app/khata/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserService user.Service
	UserHandler *user.Handler

	ExpenseRepo    expense.Repo
	ExpenseService *expense.ServiceImpl
	ExpenseHandler *expense.Handler

	AiClient     ai.Client
	Extractor    *ai.Extractor
	ParseHandler *ai.Handler

	StatsService *stats.ServiceImpl
	StatsHandler *stats.Handler

	GoogleAuth    *google.GoogleAuth
	SheetsService google.Service
	Exporter      *google.Exporter
	Importer      *google.Importer
	GoogleHandler *google.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewService(user.NewRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.ExpenseRepo = expense.NewRepo(db)
	deps.ExpenseService = expense.NewService(deps.ExpenseRepo, deps.Clock)
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseService)

	deps.AiClient = ai.NewAnthropicClient(cfg.Anthropic)
	deps.Extractor = ai.NewExtractor(deps.AiClient)
	deps.ParseHandler = ai.NewHandler(deps.Extractor)

	deps.StatsService = stats.NewService(deps.ExpenseService, deps.Clock)
	deps.StatsHandler = stats.NewHandler(deps.StatsService)

	deps.GoogleAuth = google.NewGoogleAuth(db, deps.UserService, cfg)
	deps.SheetsService = google.NewService(deps.GoogleAuth)
	deps.Exporter = google.NewExporter(deps.SheetsService, deps.ExpenseService, deps.GoogleAuth, deps.Clock)
	deps.Importer = google.NewImporter(deps.SheetsService, deps.ExpenseRepo, deps.Clock)
	deps.GoogleHandler = google.NewHandler(deps.Exporter, deps.Importer)

	return deps
}
