package commands

import (
	"github.com/bwmarrin/discordgo"
)

// Colors for embeds
const (
	ColorPrimary = 0x5865F2 // Discord Blurple
	ColorSuccess = 0x57F287 // Green
	ColorWarning = 0xFEE75C // Yellow
	ColorError   = 0xED4245 // Red
	ColorInfo    = 0x3498DB // Blue
)

// Discord rejects more than 25 autocomplete choices
const maxAutocompleteChoices = 25

// respondEmbed sends an embed response
func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return respondPage(s, i, embed, nil)
}

// respondPage sends an embed with optional pagination buttons
func respondPage(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

// updatePage replaces the embed and buttons of the message a button belongs to
func updatePage(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

// respondError sends an ephemeral error response with red embed
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) error {
	embed := &discordgo.MessageEmbed{
		Description: "❌ " + message,
		Color:       ColorError,
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

// respondSuccess sends a success response with green embed
func respondSuccess(s *discordgo.Session, i *discordgo.InteractionCreate, message string) error {
	embed := &discordgo.MessageEmbed{
		Description: "✅ " + message,
		Color:       ColorSuccess,
	}
	return respondEmbed(s, i, embed)
}

// respondInfo sends an info response with blue embed
func respondInfo(s *discordgo.Session, i *discordgo.InteractionCreate, message string) error {
	embed := &discordgo.MessageEmbed{
		Description: message,
		Color:       ColorInfo,
	}
	return respondEmbed(s, i, embed)
}

// respondChoices answers an autocomplete request
func respondChoices(s *discordgo.Session, i *discordgo.InteractionCreate, values []string) error {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, min(len(values), maxAutocompleteChoices))
	for _, v := range values {
		if len(choices) == maxAutocompleteChoices {
			break
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: v, Value: v})
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
}

// deferEphemeral defers with ephemeral flag
func deferEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

// followUpEmbed sends a follow-up embed message
func followUpEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	return err
}

// followUpError sends an error follow-up message
func followUpError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) error {
	embed := &discordgo.MessageEmbed{
		Description: "❌ " + message,
		Color:       ColorError,
	}
	return followUpEmbed(s, i, embed)
}

// EmbedBuilder helps build consistent embeds
type EmbedBuilder struct {
	embed *discordgo.MessageEmbed
}

// NewEmbed creates a new embed builder
func NewEmbed() *EmbedBuilder {
	return &EmbedBuilder{
		embed: &discordgo.MessageEmbed{
			Color: ColorPrimary,
		},
	}
}

// Title sets the embed title
func (b *EmbedBuilder) Title(title string) *EmbedBuilder {
	b.embed.Title = title
	return b
}

// Description sets the embed description
func (b *EmbedBuilder) Description(desc string) *EmbedBuilder {
	b.embed.Description = desc
	return b
}

// Color sets the embed color
func (b *EmbedBuilder) Color(color int) *EmbedBuilder {
	b.embed.Color = color
	return b
}

// Field adds a field to the embed
func (b *EmbedBuilder) Field(name, value string, inline bool) *EmbedBuilder {
	b.embed.Fields = append(b.embed.Fields, &discordgo.MessageEmbedField{
		Name:   name,
		Value:  value,
		Inline: inline,
	})
	return b
}

// Footer sets the footer text
func (b *EmbedBuilder) Footer(text string) *EmbedBuilder {
	b.embed.Footer = &discordgo.MessageEmbedFooter{Text: text}
	return b
}

// Timestamp sets the timestamp
func (b *EmbedBuilder) Timestamp(ts string) *EmbedBuilder {
	b.embed.Timestamp = ts
	return b
}

// Build returns the built embed
func (b *EmbedBuilder) Build() *discordgo.MessageEmbed {
	return b.embed
}
