package wheel

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/ethpandaops/panda-wheel/pkg/discord/cmd/common"
)

// handleRemove handles the '/wheel remove' command.
func (c *WheelCommand) handleRemove(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	data *discordgo.ApplicationCommandInteractionDataOption,
) error {
	name := stringValue(common.Options(data.Options), "name")

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := c.bot.GetEngine().RemoveSection(ctx, i.GuildID, name)
	if err != nil {
		return err
	}

	return reply(s, i, removedEmbed(res), nil)
}
