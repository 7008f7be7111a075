package wheel

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/ethpandaops/panda-wheel/pkg/discord/cmd/common"
	"github.com/ethpandaops/panda-wheel/pkg/wheel"
)

// handleList handles the '/wheel list' command.
func (c *WheelCommand) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	sections, total, err := c.bot.GetEngine().ListSections(ctx, i.GuildID)
	if err != nil {
		return err
	}

	if len(sections) == 0 {
		return wheel.ErrEmptyWheel
	}

	png, err := c.bot.GetRenderer().Render(sections, "")
	if err != nil {
		return fmt.Errorf("%w: %w", errRender, err)
	}

	return reply(s, i, listEmbed(sections, total), &common.Attachment{Name: previewFile, Data: png})
}
