package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the process needs from the environment.
// Role ids are the guild roles that drive authorization and the
// role-to-flag resync
type Config struct {
	DiscordToken      string        `envconfig:"DISCORD_TOKEN" required:"true"`
	DatabasePath      string        `envconfig:"DATABASE_PATH" default:"waitlist.sqlite"`
	CommandPrefix     string        `envconfig:"COMMAND_PREFIX" default:"waitlist"`
	ManagerRoleID     string        `envconfig:"MANAGER_ROLE_ID" required:"true"`
	VIPRoleID         string        `envconfig:"VIP_ROLE_ID"`
	InvitedRoleID     string        `envconfig:"INVITED_ROLE_ID"`
	HousekeepingCycle time.Duration `envconfig:"HOUSEKEEPING_CYCLE" default:"1h"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("waitlistbot", &cfg); err != nil {
		return Config{}, fmt.Errorf("could not read configuration from environment: %w", err)
	}
	return cfg, nil
}
