package main

import (
	"fmt"
	"os"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type cleanupOptions struct {
	token      string
	guildID    string
	dryRun     bool
	keepGuild  bool
	keepGlobal bool
}

func newCleanupCmd() *cobra.Command {
	opts := cleanupOptions{}

	cmd := &cobra.Command{
		Use:   "cleanup-commands",
		Short: "List registered slash commands and delete stale or duplicate ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.token == "" {
				return fmt.Errorf("discord bot token is required (use --token or DISCORD_BOT_TOKEN)")
			}

			log := logrus.New()
			log.SetFormatter(&logrus.TextFormatter{
				FullTimestamp: true,
			})

			return runCleanup(log, opts)
		},
	}

	cmd.Flags().StringVar(&opts.token, "token", os.Getenv("DISCORD_BOT_TOKEN"), "Discord bot token")
	cmd.Flags().StringVar(&opts.guildID, "guild", os.Getenv("DISCORD_GUILD_ID"), "Guild ID to manage commands for")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", true, "If true, only list commands without deleting")
	cmd.Flags().BoolVar(&opts.keepGuild, "keep-guild", true, "Keep guild-specific commands")
	cmd.Flags().BoolVar(&opts.keepGlobal, "keep-global", false, "Keep global commands")

	return cmd
}

func runCleanup(log *logrus.Logger, opts cleanupOptions) error {
	session, err := discordgo.New("Bot " + opts.token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open discord connection: %w", err)
	}
	defer session.Close()

	// Wait for connection to be ready
	time.Sleep(1 * time.Second)

	appID := session.State.User.ID

	log.Info("Fetching global commands...")

	globalCommands, err := session.ApplicationCommands(appID, "")
	if err != nil {
		log.WithError(err).Error("Failed to fetch global commands")
	} else {
		log.Infof("Found %d global commands", len(globalCommands))

		for _, cmd := range globalCommands {
			log.WithFields(logrus.Fields{"command": cmd.Name, "id": cmd.ID}).Info("Global command")

			if !opts.dryRun && !opts.keepGlobal {
				deleteCommand(log, session, appID, "", cmd)
			}
		}
	}

	if opts.guildID == "" {
		return nil
	}

	log.WithField("guild", opts.guildID).Info("Fetching guild-specific commands...")

	guildCommands, err := session.ApplicationCommands(appID, opts.guildID)
	if err != nil {
		return fmt.Errorf("failed to fetch guild commands: %w", err)
	}

	log.Infof("Found %d guild-specific commands", len(guildCommands))

	if opts.dryRun {
		for _, cmd := range guildCommands {
			log.WithFields(logrus.Fields{"command": cmd.Name, "id": cmd.ID}).Info("Guild command")
		}

		return nil
	}

	for _, cmd := range staleGuildCommands(guildCommands, opts.keepGuild) {
		deleteCommand(log, session, appID, opts.guildID, cmd)
	}

	return nil
}

// staleGuildCommands picks the guild commands to delete: every command when the guild
// registrations are not kept, otherwise all but the last registration of each name.
func staleGuildCommands(commands []*discordgo.ApplicationCommand, keepGuild bool) []*discordgo.ApplicationCommand {
	if !keepGuild {
		return commands
	}

	last := make(map[string]int, len(commands))
	for i, cmd := range commands {
		last[cmd.Name] = i
	}

	stale := make([]*discordgo.ApplicationCommand, 0)

	for i, cmd := range commands {
		if last[cmd.Name] != i {
			stale = append(stale, cmd)
		}
	}

	return stale
}

func deleteCommand(log *logrus.Logger, session *discordgo.Session, appID, guildID string, cmd *discordgo.ApplicationCommand) {
	entry := log.WithFields(logrus.Fields{
		"command": cmd.Name,
		"id":      cmd.ID,
		"guild":   guildID,
	})

	if err := session.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
		entry.WithError(err).Error("Failed to delete command")

		return
	}

	entry.Info("Deleted command")
}
