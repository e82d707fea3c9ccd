package config

import "time"

// BotConfigData holds tuning for the headless bot.
type BotConfigData struct {
	TickRate       int           // simulation ticks per second
	WanderInterval time.Duration // how often a new direction is rolled
	IdleChance     float64       // probability a roll stands still
}

// Bot holds bot configuration
var Bot BotConfigData

func init() {
	Bot = BotConfigData{
		TickRate:       60,
		WanderInterval: 750 * time.Millisecond,
		IdleChance:     0.2,
	}
}
