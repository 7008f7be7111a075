package wheel

import (
	"github.com/bwmarrin/discordgo"
)

// stringValue returns the named string option, or "" when it was not supplied.
func stringValue(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := options[name]; ok && opt != nil {
		return opt.StringValue()
	}

	return ""
}

// floatValue returns the named number option, or 0 when it was not supplied.
func floatValue(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) float64 {
	if opt, ok := options[name]; ok && opt != nil {
		return opt.FloatValue()
	}

	return 0
}
