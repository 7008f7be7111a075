package wheel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/ethpandaops/panda-wheel/pkg/discord/cmd/common"
	"github.com/ethpandaops/panda-wheel/pkg/render"
	"github.com/ethpandaops/panda-wheel/pkg/wheel"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandDefinition(t *testing.T) {
	cmd := NewWheelCommand(logrus.New(), nil)
	def := cmd.getCommandDefinition()

	assert.Equal(t, "wheel", def.Name)

	subs := make(map[string]*discordgo.ApplicationCommandOption, len(def.Options))
	for _, opt := range def.Options {
		assert.Equal(t, discordgo.ApplicationCommandOptionSubCommand, opt.Type)
		subs[opt.Name] = opt
	}

	assert.Len(t, subs, 6)

	for _, name := range []string{"create", "list", "spin"} {
		require.Contains(t, subs, name)
		assert.Empty(t, subs[name].Options)
	}

	t.Run("add", func(t *testing.T) {
		opts := subs["add"].Options
		require.Len(t, opts, 3)
		assert.Equal(t, "name", opts[0].Name)
		assert.False(t, opts[0].Autocomplete)
		assert.Equal(t, discordgo.ApplicationCommandOptionNumber, opts[1].Type)
		assert.True(t, opts[2].Autocomplete)
	})

	t.Run("remove and edit autocomplete names", func(t *testing.T) {
		require.Len(t, subs["remove"].Options, 1)
		assert.True(t, subs["remove"].Options[0].Autocomplete)

		opts := subs["edit"].Options
		require.Len(t, opts, 3)
		assert.True(t, opts[0].Autocomplete)
		assert.Equal(t, "percentage", opts[1].Name)
		assert.Equal(t, "color", opts[2].Name)
	})

	for _, sub := range def.Options {
		for _, opt := range sub.Options {
			assert.True(t, opt.Required, "%s %s", sub.Name, opt.Name)
		}
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name      string
		sub       string
		err       error
		message   string
		errorType string
	}{
		{
			name:      "invalid percentage",
			sub:       "add",
			err:       &wheel.InvalidPercentageError{Percentage: 150},
			message:   "❌ Percentage must be greater than 0 and at most 100!",
			errorType: errorTypeInvalidPercentage,
		},
		{
			name:      "blank name",
			sub:       "add",
			err:       &wheel.InvalidNameError{Name: " "},
			message:   "❌ Section name cannot be empty!",
			errorType: errorTypeInvalidName,
		},
		{
			name:      "duplicate",
			sub:       "add",
			err:       &wheel.DuplicateNameError{Name: "Pizza"},
			message:   "❌ A section with name 'Pizza' already exists!",
			errorType: errorTypeDuplicateName,
		},
		{
			name:      "budget on add",
			sub:       "add",
			err:       &wheel.BudgetExceededError{Total: 80, Requested: 30},
			message:   "❌ Adding this section would exceed 100% total! Current total: 80%",
			errorType: errorTypeBudgetExceeded,
		},
		{
			name:      "budget on edit",
			sub:       "edit",
			err:       &wheel.BudgetExceededError{Total: 62.5, Requested: 50},
			message:   "❌ This change would exceed 100% total! Current total without this section: 62.5%",
			errorType: errorTypeBudgetExceeded,
		},
		{
			name:      "not found",
			sub:       "remove",
			err:       &wheel.SectionNotFoundError{Name: "Sushi"},
			message:   "❌ No section found with name 'Sushi'!",
			errorType: errorTypeNotFound,
		},
		{
			name:      "empty wheel",
			sub:       "spin",
			err:       wheel.ErrEmptyWheel,
			message:   "❌ No sections in the wheel! Use `/wheel add` to add some.",
			errorType: errorTypeEmptyWheel,
		},
		{
			name:      "incomplete wheel",
			sub:       "spin",
			err:       &wheel.IncompleteWheelError{Total: 75},
			message:   "⚠️ Wheel is only 75% complete! Add more sections to reach 100%.",
			errorType: errorTypeIncomplete,
		},
		{
			name:      "not in guild",
			sub:       "list",
			err:       errNotInGuild,
			message:   "❌ Wheel commands can only be used in a server!",
			errorType: errorTypeNotInGuild,
		},
		{
			name:      "storage",
			sub:       "add",
			err:       fmt.Errorf("%w: failed to persist wheel: %w", wheel.ErrStorage, errors.New("disk full")),
			message:   msgUnexpected,
			errorType: errorTypeStorage,
		},
		{
			name:      "render",
			sub:       "list",
			err:       fmt.Errorf("%w: %w", errRender, errors.New("font")),
			message:   msgUnexpected,
			errorType: errorTypeRender,
		},
		{
			name:      "anything else",
			sub:       "create",
			err:       errors.New("boom"),
			message:   msgUnexpected,
			errorType: errorTypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, errorType := userMessage(tt.sub, tt.err)
			assert.Equal(t, tt.message, msg)
			assert.Equal(t, tt.errorType, errorType)
		})
	}
}

func TestIsUserError(t *testing.T) {
	assert.True(t, isUserError(errorTypeBudgetExceeded))
	assert.True(t, isUserError(errorTypeNotInGuild))
	assert.False(t, isUserError(errorTypeStorage))
	assert.False(t, isUserError(errorTypeRender))
	assert.False(t, isUserError(errorTypeInternal))
}

func TestOptionValues(t *testing.T) {
	options := common.Options([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "name", Type: discordgo.ApplicationCommandOptionString, Value: "Pizza"},
		{Name: "percentage", Type: discordgo.ApplicationCommandOptionNumber, Value: 12.5},
	})

	assert.Equal(t, "Pizza", stringValue(options, "name"))
	assert.InDelta(t, 12.5, floatValue(options, "percentage"), 1e-9)
	assert.Empty(t, stringValue(options, "color"))
	assert.Zero(t, floatValue(options, "missing"))
}

type recordingMetrics struct {
	errors []string
}

func (m *recordingMetrics) RecordCommandError(command, subcommand, errorType string) {
	m.errors = append(m.errors, command+" "+subcommand+" "+errorType)
}

// stubBot is a BotContext without a session; only metrics are wired.
type stubBot struct {
	metrics *recordingMetrics
}

func (b *stubBot) GetSession() *discordgo.Session { return nil }
func (b *stubBot) GetEngine() *wheel.Engine { return nil }
func (b *stubBot) GetRenderer() *render.Renderer { return nil }
func (b *stubBot) GetMetrics() common.Metrics { return b.metrics }

func TestFail_RespondErrorIsOnlyRecorded(t *testing.T) {
	metrics := &recordingMetrics{}
	cmd := NewWheelCommand(logrus.New(), &stubBot{metrics: metrics})

	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{GuildID: "guild-1"}}
	err := fmt.Errorf("%w: %w", errRespond, errors.New("503 Service Unavailable"))

	// A nil session would panic if a second response were attempted.
	assert.NotPanics(t, func() { cmd.fail(nil, i, "add", err) })
	assert.Equal(t, []string{"wheel add respond"}, metrics.errors)
}
