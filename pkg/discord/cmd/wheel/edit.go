package wheel

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/ethpandaops/panda-wheel/pkg/discord/cmd/common"
)

// handleEdit handles the '/wheel edit' command.
func (c *WheelCommand) handleEdit(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	data *discordgo.ApplicationCommandInteractionDataOption,
) error {
	var (
		options    = common.Options(data.Options)
		name       = stringValue(options, "name")
		percentage = floatValue(options, "percentage")
		color      = stringValue(options, "color")
	)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := c.bot.GetEngine().EditSection(ctx, i.GuildID, name, percentage, color)
	if err != nil {
		return err
	}

	return reply(s, i, editedEmbed(res), nil)
}
