package ping

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/ethpandaops/panda-wheel/pkg/discord/cmd/common"
	"github.com/sirupsen/logrus"
)

// PingCommand handles the /ping command.
type PingCommand struct {
	log *logrus.Logger
	bot common.BotContext
}

// NewPingCommand creates a new PingCommand.
func NewPingCommand(log *logrus.Logger, bot common.BotContext) *PingCommand {
	return &PingCommand{
		log: log,
		bot: bot,
	}
}

// Name returns the name of the command.
func (c *PingCommand) Name() string {
	return "ping"
}

func (c *PingCommand) getCommandDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: "Test if the bot is working",
	}
}

// Register registers the /ping command with the given discord session (globally).
func (c *PingCommand) Register(session *discordgo.Session) error {
	if _, err := session.ApplicationCommandCreate(session.State.User.ID, "", c.getCommandDefinition()); err != nil {
		return fmt.Errorf("failed to register ping command: %w", err)
	}

	return nil
}

// RegisterWithGuild registers the /ping command with a specific guild.
func (c *PingCommand) RegisterWithGuild(session *discordgo.Session, guildID string) error {
	if _, err := session.ApplicationCommandCreate(session.State.User.ID, guildID, c.getCommandDefinition()); err != nil {
		return fmt.Errorf("failed to register ping command to guild %s: %w", guildID, err)
	}

	return nil
}

// Handle handles the /ping command.
func (c *PingCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand || i.ApplicationCommandData().Name != c.Name() {
		return
	}

	if err := common.Respond(s, i, pongEmbed(guildName(s, i.GuildID), common.Mention(i)), nil); err != nil {
		c.log.WithError(err).Error("Failed to respond to ping")

		if metrics := c.bot.GetMetrics(); metrics != nil {
			metrics.RecordCommandError(c.Name(), "", "respond")
		}
	}
}

// guildName looks the guild up in the session state, falling back to its ID.
func guildName(s *discordgo.Session, guildID string) string {
	if guildID == "" {
		return "Direct Message"
	}

	if s != nil && s.State != nil {
		if g, err := s.State.Guild(guildID); err == nil && g.Name != "" {
			return g.Name
		}
	}

	return guildID
}

func pongEmbed(server, user string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🏓 Pong!",
		Description: "Bot is online and working!",
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Server", Value: server, Inline: true},
			{Name: "User", Value: user, Inline: true},
		},
	}
}
