package wheel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/ethpandaops/panda-wheel/pkg/discord/cmd/common"
	"github.com/ethpandaops/panda-wheel/pkg/wheel"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	previewFile = "wheel_preview.png"
	resultFile  = "wheel_result.png"

	// maxEmbedFields is Discord's limit on fields per embed.
	maxEmbedFields = 25
	// listTrailerFields are the total and warning fields closing the list embed.
	listTrailerFields = 2
)

var titleCaser = cases.Title(language.English)

// embedColor converts a #RRGGBB section colour into an embed colour.
func embedColor(hex string) int {
	v, err := strconv.ParseInt(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return common.ColorInfo
	}

	return int(v)
}

// colorLabel describes a section colour, naming it when exactly one known colour has
// that value. Shared values (green and lime) show the hex only.
func colorLabel(hex string) string {
	var match string

	for _, name := range wheel.NamedColors() {
		if !strings.EqualFold(wheel.ResolveColor(name), hex) {
			continue
		}

		if match != "" {
			return hex
		}

		match = name
	}

	if match == "" {
		return hex
	}

	return fmt.Sprintf("%s (%s)", titleCaser.String(match), hex)
}

func createdEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎡 New Wheel Created!",
		Description: "Your wheel has been created! Use `/wheel add` to add sections to your wheel.",
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "Next Steps:",
				Value: "• Use `/wheel add <name> <percentage> <color>` to add sections\n" +
					"• Use `/wheel list` to view your current wheel\n" +
					"• Use `/wheel spin` when ready to spin the wheel!",
			},
		},
	}
}

func addedEmbed(res *wheel.AddResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "✅ Section Added!",
		Description: fmt.Sprintf("Added '%s' to the wheel", res.Section.Name),
		Color:       embedColor(res.Section.Color),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Section", Value: res.Section.Name, Inline: true},
			{Name: "Percentage", Value: wheel.FormatPercent(res.Section.Percentage), Inline: true},
			{Name: "Color", Value: colorLabel(res.Section.Color), Inline: true},
			{Name: "Total Percentage", Value: wheel.FormatPercent(res.Total)},
		},
	}

	if remaining := wheel.MaxPercentage - res.Total; remaining > wheel.Epsilon {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Remaining",
			Value: wheel.FormatPercent(remaining) + " remaining to allocate",
		})
	}

	return embed
}

func removedEmbed(res *wheel.RemoveResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🗑️ Section Removed!",
		Description: fmt.Sprintf("Removed '%s' from the wheel", res.Section.Name),
		Color:       common.ColorRemoved,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Remaining Sections", Value: strconv.Itoa(res.Count), Inline: true},
			{Name: "Total Percentage", Value: wheel.FormatPercent(res.Total), Inline: true},
		},
	}
}

func editedEmbed(res *wheel.EditResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✏️ Section Edited!",
		Description: fmt.Sprintf("Updated '%s'", res.Section.Name),
		Color:       embedColor(res.Section.Color),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "New Percentage", Value: wheel.FormatPercent(res.Section.Percentage), Inline: true},
			{Name: "New Color", Value: colorLabel(res.Section.Color), Inline: true},
			{Name: "Total Percentage", Value: wheel.FormatPercent(res.Total)},
		},
	}
}

func listEmbed(sections wheel.Sections, total float64) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🎡 Current Wheel Sections",
		Description: fmt.Sprintf("Total: %d sections", len(sections)),
		Color:       common.ColorInfo,
		Fields:      make([]*discordgo.MessageEmbedField, 0, maxEmbedFields),
		Image:       &discordgo.MessageEmbedImage{URL: "attachment://" + previewFile},
	}

	// Past the field limit one slot goes to a summary of the sections left out.
	shown := sections
	if len(sections) > maxEmbedFields-listTrailerFields {
		shown = sections[:maxEmbedFields-listTrailerFields-1]
	}

	for i, section := range shown {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%d. %s", i+1, section.Name),
			Value:  fmt.Sprintf("**%s** • %s", wheel.FormatPercent(section.Percentage), section.Color),
			Inline: true,
		})
	}

	if hidden := len(sections) - len(shown); hidden > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "➕ More Sections",
			Value: fmt.Sprintf("…and %d more, see the image below", hidden),
		})
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "📊 Total Percentage",
		Value: wheel.FormatPercent(total) + " / 100%",
	})

	if !sections.Complete() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "⚠️ Warning",
			Value: wheel.FormatPercent(sections.Remaining()) + " remaining - the wheel cannot be spun until it reaches 100%",
		})
	}

	return embed
}

func spinEmbed(winner wheel.Section) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎉 Wheel Spin Result!",
		Description: fmt.Sprintf("**🎯 Winner: %s**", winner.Name),
		Color:       common.ColorWinner,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "Winning Section Details",
				Value: fmt.Sprintf("**Probability:** %s\n**Color:** %s",
					wheel.FormatPercent(winner.Percentage), colorLabel(winner.Color)),
			},
		},
		Image:  &discordgo.MessageEmbedImage{URL: "attachment://" + resultFile},
		Footer: &discordgo.MessageEmbedFooter{Text: "🎡 Spin again anytime with /wheel spin!"},
	}
}
