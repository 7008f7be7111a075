package common

import (
	"github.com/bwmarrin/discordgo"
	"github.com/ethpandaops/panda-wheel/pkg/render"
	"github.com/ethpandaops/panda-wheel/pkg/wheel"
)

// Command represents a Discord slash command.
type Command interface {
	// Name returns the name of the command.
	Name() string
	// Register registers the command with the given session (globally).
	Register(*discordgo.Session) error
	// Handle handles the command.
	Handle(*discordgo.Session, *discordgo.InteractionCreate)
}

// GuildCommand is a Command that can also be registered to a single guild, which Discord
// applies immediately rather than after the global propagation delay.
type GuildCommand interface {
	Command
	// RegisterWithGuild registers the command with a specific guild.
	RegisterWithGuild(session *discordgo.Session, guildID string) error
}

// Metrics records command failures.
type Metrics interface {
	RecordCommandError(command, subcommand, errorType string)
}

// BotContext provides access to bot functionality needed by commands.
type BotContext interface {
	// GetSession returns the Discord session.
	GetSession() *discordgo.Session
	// GetEngine returns the wheel engine.
	GetEngine() *wheel.Engine
	// GetRenderer returns the wheel renderer.
	GetRenderer() *render.Renderer
	// GetMetrics returns the command metrics.
	GetMetrics() Metrics
}
