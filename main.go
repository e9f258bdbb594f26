package main

import (
	"waitlistbot/internal/bot"
	"waitlistbot/internal/config"
	"waitlistbot/internal/manager"
	"waitlistbot/internal/roster"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {

	// Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	// Roster store, open for the lifetime of the process
	store, err := roster.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not open the roster store")
	}
	defer store.Close()

	// Consistency manager
	mgr := manager.New(store, cfg.VIPRoleID, cfg.InvitedRoleID)

	// Create and run the bot
	waitlistbot := bot.NewBot(cfg.DiscordToken, cfg.CommandPrefix, cfg.ManagerRoleID, cfg.HousekeepingCycle, mgr)
	if err := waitlistbot.Run(); err != nil {
		log.Fatal().Err(err).Msg("Bot stopped with an error")
	}
}
