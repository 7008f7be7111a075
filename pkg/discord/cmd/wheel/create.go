package wheel

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// handleCreate handles the '/wheel create' command.
func (c *WheelCommand) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := c.bot.GetEngine().CreateWheel(ctx, i.GuildID); err != nil {
		return err
	}

	return reply(s, i, createdEmbed(), nil)
}
