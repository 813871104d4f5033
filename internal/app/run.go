package app

import (
	"context"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"bidanalyser/tender"
)

const fyneAppID = "bidanalyser.desktop"

// Run initializes required resources and starts the desktop UI.
func Run() error {
	cfg, err := tender.LoadConfig("")
	if err != nil {
		return err
	}
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	client := tender.NewClient(cfg, logger)
	session := tender.NewSession()
	if cfg.APIKey != "" {
		session.SetCredential(cfg.APIKey)
	}

	a := fyneapp.NewWithID(fyneAppID)
	u := buildUI(a, cfg, client, session, logger)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Health(ctx); err != nil {
			logger.Warn("backend unreachable", zap.String("base_url", cfg.BaseURL), zap.Error(err))
			u.appendLog("Backend unreachable: " + cfg.BaseURL)
			return
		}
		u.appendLog("Connected to backend: " + cfg.BaseURL)
	}()

	u.w.ShowAndRun()
	return nil
}
