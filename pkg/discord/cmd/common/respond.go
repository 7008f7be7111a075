package common

import (
	"bytes"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Embed colours shared across commands.
const (
	ColorSuccess = 0x00FF00
	ColorRemoved = 0xFF4444
	ColorInfo    = 0x0099FF
	ColorWinner  = 0xFFD700
)

// Respond sends a public message with the given embed and optional PNG attachment.
func Respond(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, attachment *Attachment) error {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}

	if attachment != nil {
		data.Files = []*discordgo.File{attachment.File()}
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}); err != nil {
		return fmt.Errorf("failed to respond to interaction: %w", err)
	}

	return nil
}

// RespondEphemeral sends a message only the invoking user can see.
func RespondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		return fmt.Errorf("failed to respond to interaction: %w", err)
	}

	return nil
}

// Defer acknowledges the interaction so a follow-up can be sent later.
func Defer(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		return fmt.Errorf("failed to defer interaction: %w", err)
	}

	return nil
}

// FollowUp sends the embed and attachment as the response to a deferred interaction.
func FollowUp(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, attachment *Attachment) error {
	params := &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}

	if attachment != nil {
		params.Files = []*discordgo.File{attachment.File()}
	}

	if _, err := s.FollowupMessageCreate(i.Interaction, true, params); err != nil {
		return fmt.Errorf("failed to send follow-up: %w", err)
	}

	return nil
}

// FollowUpEphemeral sends a private message in response to a deferred interaction.
func FollowUpEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		return fmt.Errorf("failed to send follow-up: %w", err)
	}

	return nil
}

// Attachment is a PNG image sent alongside an embed.
type Attachment struct {
	Name string
	Data []byte
}

// File converts the attachment for discordgo.
func (a *Attachment) File() *discordgo.File {
	return &discordgo.File{
		Name:        a.Name,
		ContentType: "image/png",
		Reader:      bytes.NewReader(a.Data),
	}
}

// URL returns the reference an embed uses to display the attachment.
func (a *Attachment) URL() string {
	return "attachment://" + a.Name
}

// Username returns the name of the user who triggered the interaction.
func Username(i *discordgo.InteractionCreate) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.Username
	case i.User != nil:
		return i.User.Username
	default:
		return "unknown"
	}
}

// Mention returns the mention string of the user who triggered the interaction.
func Mention(i *discordgo.InteractionCreate) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.Mention()
	case i.User != nil:
		return i.User.Mention()
	default:
		return "unknown"
	}
}

// Options indexes a subcommand's options by name.
func Options(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))

	for _, opt := range opts {
		m[opt.Name] = opt
	}

	return m
}
