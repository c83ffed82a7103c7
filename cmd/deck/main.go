// Command deck is a terminal control surface for PromptDJ. Rows are prompts:
// scroll a row to nudge its weight, drag across it to sweep, and bind MIDI
// controllers with learn. Logs go to a file so they do not corrupt the screen.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JaimeStill/promptdj/internal/api"
	"github.com/JaimeStill/promptdj/internal/config"
	"github.com/JaimeStill/promptdj/internal/host"
	"github.com/JaimeStill/promptdj/internal/infrastructure"
)

func main() {
	logPath := flag.String("log", "promptdj-deck.log", "Log file path")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatal("open log file failed:", err)
	}
	defer logFile.Close()

	if err := run(cfg, logFile); err != nil {
		fmt.Fprintln(os.Stderr, "deck:", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logFile *os.File) error {
	infra, err := infrastructure.NewWithLogOutput(cfg, logFile)
	if err != nil {
		return err
	}

	domain := api.NewDomain(api.NewRuntime(cfg, infra))

	// subscribe before startup so access and preset errors are not missed
	events, cancel := domain.Hub.Subscribe()
	defer cancel()

	if err := infra.Start(); err != nil {
		return err
	}
	if err := domain.Start(infra.Lifecycle); err != nil {
		return err
	}
	if err := infra.Lifecycle.WaitForStartup(); err != nil {
		return err
	}
	defer func() {
		if err := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
			infra.Logger.Error("shutdown failed", "error", err)
		}
	}()

	program := tea.NewProgram(
		newModel(domain.View, cfg.Control.RenderIntervalDuration()),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		for event := range events {
			if event.Name == host.EventError {
				program.Send(errorFrom(event))
			}
		}
	}()

	_, err = program.Run()
	return err
}
