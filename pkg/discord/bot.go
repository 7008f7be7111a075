package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ethpandaops/panda-wheel/pkg/discord/cmd/common"
	cmdping "github.com/ethpandaops/panda-wheel/pkg/discord/cmd/ping"
	cmdwheel "github.com/ethpandaops/panda-wheel/pkg/discord/cmd/wheel"
	"github.com/ethpandaops/panda-wheel/pkg/render"
	"github.com/ethpandaops/panda-wheel/pkg/wheel"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -package mock -destination mock/bot.mock.go github.com/ethpandaops/panda-wheel/pkg/discord Bot

// Bot represents the Discord bot.
type Bot interface {
	// Start opens the gateway connection and registers the slash commands.
	Start() error
	// Stop closes the gateway connection.
	Stop() error
	// GetSession returns the Discord session.
	GetSession() *discordgo.Session
	// GetEngine returns the wheel engine.
	GetEngine() *wheel.Engine
	// GetRenderer returns the wheel renderer.
	GetRenderer() *render.Renderer
}

// DiscordBot is the discordgo backed Bot.
type DiscordBot struct {
	log      *logrus.Logger
	config   *Config
	session  *discordgo.Session
	engine   *wheel.Engine
	renderer *render.Renderer
	metrics  *Metrics
	commands []common.Command
}

var (
	_ Bot               = (*DiscordBot)(nil)
	_ common.BotContext = (*DiscordBot)(nil)
)

// NewBot creates a new Discord bot.
func NewBot(
	log *logrus.Logger,
	cfg *Config,
	engine *wheel.Engine,
	renderer *render.Renderer,
	metrics *Metrics,
) (*DiscordBot, error) {
	// Create a new Discord session.
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	bot := &DiscordBot{
		log:      log,
		config:   cfg,
		session:  session,
		engine:   engine,
		renderer: renderer,
		metrics:  metrics,
		commands: make([]common.Command, 0),
	}

	// Register command handlers.
	bot.commands = append(bot.commands,
		cmdwheel.NewWheelCommand(log, bot),
		cmdping.NewPingCommand(log, bot),
	)

	// Register event handlers.
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start starts the bot.
func (b *DiscordBot) Start() error {
	// Open connection with Discord.
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord connection: %w", err)
	}

	guilds := b.config.Guilds()

	// Register application commands, per guild when configured so they show up immediately.
	for _, cmd := range b.commands {
		if len(guilds) == 0 {
			if err := cmd.Register(b.session); err != nil {
				return fmt.Errorf("failed to register command: %w", err)
			}

			continue
		}

		guildCmd, ok := cmd.(common.GuildCommand)
		if !ok {
			if err := cmd.Register(b.session); err != nil {
				return fmt.Errorf("failed to register command: %w", err)
			}

			continue
		}

		for _, guildID := range guilds {
			if err := guildCmd.RegisterWithGuild(b.session, guildID); err != nil {
				return fmt.Errorf("failed to register command: %w", err)
			}
		}
	}

	b.log.WithFields(logrus.Fields{
		"commands": len(b.commands),
		"guilds":   len(guilds),
	}).Info("Registered application commands")

	return nil
}

// Stop stops the bot.
func (b *DiscordBot) Stop() error {
	return b.session.Close()
}

// GetSession returns the Discord session.
func (b *DiscordBot) GetSession() *discordgo.Session {
	return b.session
}

// GetEngine returns the wheel engine.
func (b *DiscordBot) GetEngine() *wheel.Engine {
	return b.engine
}

// GetRenderer returns the wheel renderer.
func (b *DiscordBot) GetRenderer() *render.Renderer {
	return b.renderer
}

// GetMetrics returns the command metrics.
func (b *DiscordBot) GetMetrics() common.Metrics {
	if b.metrics == nil {
		return nil
	}

	return b.metrics
}

// handleInteraction handles interactions from the Discord client.
func (b *DiscordBot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand &&
		i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return
	}

	data := i.ApplicationCommandData()
	for _, cmd := range b.commands {
		if cmd.Name() != data.Name {
			continue
		}

		var (
			start      = time.Now()
			subcommand = subcommandName(data)
		)

		if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
			cmd.Handle(s, i)
			b.metrics.RecordAutocomplete(data.Name, subcommand)

			return
		}

		cmd.Handle(s, i)

		b.metrics.RecordCommandExecution(data.Name, subcommand)
		b.metrics.ObserveCommandDuration(data.Name, subcommand, time.Since(start).Seconds())
		b.metrics.SetLastCommandTimestamp(data.Name, subcommand, float64(time.Now().Unix()))

		return
	}
}

// subcommandName returns the invoked subcommand, or "" for commands without one.
func subcommandName(data discordgo.ApplicationCommandInteractionData) string {
	if len(data.Options) > 0 && data.Options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		return data.Options[0].Name
	}

	return ""
}
