package common

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/ethpandaops/panda-wheel/pkg/wheel"
	"github.com/sirupsen/logrus"
)

const (
	// maxChoices is Discord's limit on autocomplete choices.
	maxChoices = 25
	// maxChoiceName is Discord's limit, in characters, on a choice's display name.
	maxChoiceName = 100
)

// AutocompleteHandler handles section name autocomplete for Discord commands.
type AutocompleteHandler struct {
	bot BotContext
	log *logrus.Logger
}

// NewAutocompleteHandler creates a new autocomplete handler.
func NewAutocompleteHandler(bot BotContext, log *logrus.Logger) *AutocompleteHandler {
	return &AutocompleteHandler{
		bot: bot,
		log: log,
	}
}

// HandleAutocomplete suggests the guild's section names for a focused "name" option and
// the named colours for a focused "color" option.
func (h *AutocompleteHandler) HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate, commandName string) {
	data := i.ApplicationCommandData()
	if data.Name != commandName {
		return
	}

	// Find the focused option
	focusedOption := findFocusedOption(data.Options)
	if focusedOption == nil {
		return
	}

	// Get the current input value
	inputValue := ""
	if focusedOption.Value != nil {
		inputValue = strings.ToLower(fmt.Sprintf("%v", focusedOption.Value))
	}

	var choices []*discordgo.ApplicationCommandOptionChoice

	switch focusedOption.Name {
	case "name":
		sections, _, err := h.bot.GetEngine().ListSections(context.Background(), i.GuildID)
		if err != nil {
			h.log.WithError(err).WithField("guild", i.GuildID).Error("Failed to load sections for autocomplete")
		}

		choices = BuildSectionChoices(sections, inputValue)
	case "color":
		choices = BuildColorChoices(inputValue)
	default:
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
	if err != nil {
		h.log.WithError(err).Error("Failed to respond to autocomplete")
	}
}

// findFocusedOption finds the currently focused option in the interaction data.
func findFocusedOption(options []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	for _, option := range options {
		if option.Type == discordgo.ApplicationCommandOptionSubCommand {
			for _, subOption := range option.Options {
				if subOption.Focused {
					return subOption
				}
			}
		}

		if option.Focused {
			return option
		}
	}

	return nil
}

// BuildSectionChoices returns up to 25 section names containing input, in wheel order.
func BuildSectionChoices(sections wheel.Sections, input string) []*discordgo.ApplicationCommandOptionChoice {
	input = strings.ToLower(input)
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, maxChoices)

	for _, section := range sections {
		if input != "" && !strings.Contains(strings.ToLower(section.Name), input) {
			continue
		}

		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  choiceName(section.Name, fmt.Sprintf(" (%s)", wheel.FormatPercent(section.Percentage))),
			Value: section.Name,
		})

		if len(choices) >= maxChoices {
			break
		}
	}

	return choices
}

// BuildColorChoices returns the named colours starting with input. Free text, including
// #RRGGBB, is still accepted by the option.
func BuildColorChoices(input string) []*discordgo.ApplicationCommandOptionChoice {
	input = strings.ToLower(input)
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, maxChoices)

	for _, name := range wheel.NamedColors() {
		if !strings.HasPrefix(name, input) {
			continue
		}

		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s (%s)", name, wheel.ResolveColor(name)),
			Value: name,
		})

		if len(choices) >= maxChoices {
			break
		}
	}

	return choices
}

// choiceName joins name and suffix, shortening name with an ellipsis so the result fits
// in maxChoiceName runes.
func choiceName(name, suffix string) string {
	var (
		nameRunes = []rune(name)
		room      = maxChoiceName - utf8.RuneCountInString(suffix)
	)

	if len(nameRunes) > room {
		nameRunes = append(nameRunes[:room-1], '…')
	}

	return string(nameRunes) + suffix
}
