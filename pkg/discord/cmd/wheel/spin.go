package wheel

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/ethpandaops/panda-wheel/pkg/discord/cmd/common"
)

// handleSpin handles the '/wheel spin' command. The draw happens before the interaction
// is deferred so wheel errors can still be answered privately.
func (c *WheelCommand) handleSpin(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := c.bot.GetEngine().SpinWheel(ctx, i.GuildID)
	if err != nil {
		return err
	}

	if err := common.Defer(s, i); err != nil {
		return fmt.Errorf("%w: %w", errRespond, err)
	}

	png, err := c.bot.GetRenderer().Render(res.Sections, res.Winner.Name)
	if err != nil {
		c.respondError(s, i, "spin", fmt.Errorf("%w: %w", errRender, err), true)

		return nil
	}

	if err := common.FollowUp(s, i, spinEmbed(res.Winner), &common.Attachment{Name: resultFile, Data: png}); err != nil {
		c.log.WithError(err).WithField("guild", i.GuildID).Error("Failed to send spin result")
	}

	return nil
}
