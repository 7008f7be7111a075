package discord

import "strings"

// Config represents the configuration for the Discord bot.
type Config struct {
	DiscordToken string   `yaml:"discordToken"`
	GuildIDs     []string `yaml:"guildIds"` // Optional: if set, commands will be registered to these guilds only
}

// Guilds returns the configured guild IDs, trimmed and without blanks or duplicates.
func (c *Config) Guilds() []string {
	guilds := make([]string, 0, len(c.GuildIDs))
	seen := make(map[string]struct{}, len(c.GuildIDs))

	for _, id := range c.GuildIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		guilds = append(guilds, id)
	}

	return guilds
}
