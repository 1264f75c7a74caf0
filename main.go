package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/AyushTurak/ExpenseTracker/internal/budget"
	"github.com/AyushTurak/ExpenseTracker/internal/config"
	"github.com/AyushTurak/ExpenseTracker/internal/database"
	"github.com/AyushTurak/ExpenseTracker/internal/mail"
	"github.com/AyushTurak/ExpenseTracker/internal/router"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	if err := ensureDir(filepath.Dir(cfg.Log.File)); err != nil {
		log.Fatalf("create log dir: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// budget evaluation pipeline; email stays disabled without an API key
	store := budget.NewStore(db)
	checker := &budget.Checker{
		Configs:       store,
		Expenses:      store,
		Notifications: store,
	}
	if cfg.Mail.APIKey != "" {
		checker.Mailer = mail.NewClient(cfg.Mail)
	} else {
		log.Print("mail: no api key configured, budget alert emails disabled")
	}

	// setup router
	r := router.SetupRouter(cfg, db, store, checker)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
