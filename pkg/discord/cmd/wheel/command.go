package wheel

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ethpandaops/panda-wheel/pkg/discord/cmd/common"
	"github.com/sirupsen/logrus"
)

// commandTimeout bounds the store work done for a single command.
const commandTimeout = 10 * time.Second

// WheelCommand handles the /wheel command.
type WheelCommand struct {
	log                 *logrus.Logger
	bot                 common.BotContext
	autocompleteHandler *common.AutocompleteHandler
}

// NewWheelCommand creates a new WheelCommand.
func NewWheelCommand(log *logrus.Logger, bot common.BotContext) *WheelCommand {
	return &WheelCommand{
		log:                 log,
		bot:                 bot,
		autocompleteHandler: common.NewAutocompleteHandler(bot, log),
	}
}

// Name returns the name of the command.
func (c *WheelCommand) Name() string {
	return "wheel"
}

func nameOption(description string, autocomplete bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:         "name",
		Description:  description,
		Type:         discordgo.ApplicationCommandOptionString,
		Required:     true,
		Autocomplete: autocomplete,
		MaxLength:    100,
	}
}

func percentageOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        "percentage",
		Description: description,
		Type:        discordgo.ApplicationCommandOptionNumber,
		Required:    true,
	}
}

func colorOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:         "color",
		Description:  description,
		Type:         discordgo.ApplicationCommandOptionString,
		Required:     true,
		Autocomplete: true,
	}
}

// getCommandDefinition returns the application command definition.
func (c *WheelCommand) getCommandDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: "Build and spin this server's chance wheel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "create",
				Description: "Start a new wheel (clears the existing wheel)",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
			{
				Name:        "add",
				Description: "Add a section to the wheel",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					nameOption("Name of the new section", false),
					percentageOption("Share of the wheel, greater than 0 and at most 100"),
					colorOption("Colour name or #RRGGBB"),
				},
			},
			{
				Name:        "remove",
				Description: "Remove a section from the wheel",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					nameOption("Section to remove", true),
				},
			},
			{
				Name:        "edit",
				Description: "Change the percentage and colour of a section",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					nameOption("Section to edit", true),
					percentageOption("New share of the wheel"),
					colorOption("New colour name or #RRGGBB"),
				},
			},
			{
				Name:        "list",
				Description: "Show the wheel's sections",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
			{
				Name:        "spin",
				Description: "Spin the wheel and get a random result!",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
		},
	}
}

// Register registers the /wheel command with the given discord session (globally).
func (c *WheelCommand) Register(session *discordgo.Session) error {
	if _, err := session.ApplicationCommandCreate(session.State.User.ID, "", c.getCommandDefinition()); err != nil {
		return fmt.Errorf("failed to register wheel command: %w", err)
	}

	return nil
}

// RegisterWithGuild registers the /wheel command with a specific guild.
func (c *WheelCommand) RegisterWithGuild(session *discordgo.Session, guildID string) error {
	if _, err := session.ApplicationCommandCreate(session.State.User.ID, guildID, c.getCommandDefinition()); err != nil {
		return fmt.Errorf("failed to register wheel command to guild %s: %w", guildID, err)
	}

	c.log.WithField("guild", guildID).Info("Registered wheel command to guild")

	return nil
}

// Handle handles the /wheel command.
func (c *WheelCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// Handle autocomplete interactions
	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		c.autocompleteHandler.HandleAutocomplete(s, i, c.Name())

		return
	}

	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name() || len(data.Options) == 0 {
		return
	}

	sub := data.Options[0]

	if i.GuildID == "" {
		c.respondError(s, i, sub.Name, errNotInGuild, false)

		return
	}

	c.log.WithFields(logrus.Fields{
		"command": "/wheel " + sub.Name,
		"guild":   i.GuildID,
		"user":    common.Username(i),
	}).Info("Received command")

	var err error

	switch sub.Name {
	case "create":
		err = c.handleCreate(s, i)
	case "add":
		err = c.handleAdd(s, i, sub)
	case "remove":
		err = c.handleRemove(s, i, sub)
	case "edit":
		err = c.handleEdit(s, i, sub)
	case "list":
		err = c.handleList(s, i)
	case "spin":
		err = c.handleSpin(s, i)
	default:
		err = fmt.Errorf("unknown subcommand %q", sub.Name)
	}

	if err != nil {
		c.fail(s, i, sub.Name, err)
	}
}

// reply sends a successful result. A transport failure is tagged with errRespond.
func reply(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, attachment *common.Attachment) error {
	if err := common.Respond(s, i, embed, attachment); err != nil {
		return fmt.Errorf("%w: %w", errRespond, err)
	}

	return nil
}

// fail handles an error returned by a subcommand. If the interaction could not be
// answered there is nothing left to tell the user, so it is only logged.
func (c *WheelCommand) fail(s *discordgo.Session, i *discordgo.InteractionCreate, sub string, err error) {
	if !errors.Is(err, errRespond) {
		c.respondError(s, i, sub, err, false)

		return
	}

	c.recordError(sub, errorTypeRespond)

	c.log.WithError(err).WithFields(logrus.Fields{
		"command": "/wheel " + sub,
		"guild":   i.GuildID,
	}).Error("Failed to respond to interaction")
}

func (c *WheelCommand) recordError(sub, errorType string) {
	if c.bot == nil {
		return
	}

	if metrics := c.bot.GetMetrics(); metrics != nil {
		metrics.RecordCommandError(c.Name(), sub, errorType)
	}
}

// respondError logs err and tells the user what went wrong. Wheel rule violations are
// explained; anything else gets a generic message.
func (c *WheelCommand) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, sub string, err error, deferred bool) {
	msg, errorType := userMessage(sub, err)

	c.recordError(sub, errorType)

	entry := c.log.WithError(err).WithFields(logrus.Fields{
		"command": "/wheel " + sub,
		"guild":   i.GuildID,
		"type":    errorType,
	})

	if isUserError(errorType) {
		entry.Info("Command rejected")
	} else {
		entry.Error("Command failed")
	}

	respond := common.RespondEphemeral
	if deferred {
		respond = common.FollowUpEphemeral
	}

	if respErr := respond(s, i, msg); respErr != nil {
		c.log.WithError(respErr).Error("Failed to respond to interaction")
	}
}
