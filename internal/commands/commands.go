package commands

import "github.com/bwmarrin/discordgo"

func minValue(v float64) *float64 { return &v }

// GetCommands returns all slash command definitions
func GetCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		// Navigation commands
		{
			Name:        "nowplaying",
			Description: "Show the current queue item",
		},
		{
			Name:        "next",
			Description: "Move to the next item in the queue",
		},
		{
			Name:        "previous",
			Description: "Move to the previous item in the queue",
		},
		{
			Name:        "jump",
			Description: "Make a queue item current",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "index",
					Description: "Queue position (1-based)",
					Required:    true,
					MinValue:    minValue(1),
				},
			},
		},
		{
			Name:        "repeat",
			Description: "Configure repeat mode",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "mode",
					Description: "Repeat mode",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Off", Value: "off"},
						{Name: "Single Track", Value: "one"},
						{Name: "Entire Queue", Value: "all"},
					},
				},
			},
		},
		{
			Name:        "random",
			Description: "Walk the queue in shuffled order without reordering it",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "enabled",
					Description: "Turn random order on or off",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "seed",
					Description: "Seed for a repeatable order",
					Required:    false,
				},
			},
		},

		// Queue commands
		{
			Name:        "queue",
			Description: "Display the current queue",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "page",
					Description: "Page to show",
					Required:    false,
					MinValue:    minValue(1),
				},
			},
		},
		{
			Name:        "add",
			Description: "Add a URL (YouTube/Spotify/SoundCloud/media) or search query to the queue",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "song",
					Description: "URL or search query",
					Required:    true,
				},
			},
		},
		{
			Name:        "insert",
			Description: "Add a song right after the current one",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "song",
					Description: "URL or search query",
					Required:    true,
				},
			},
		},
		{
			Name:        "remove",
			Description: "Move songs from the queue to the trash (supports: 2-5, 2,3,10)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "indexes",
					Description: "Song index(es): single (5), range (2-5), list (2,3,10), or mixed (1-3,5,7-9)",
					Required:    true,
				},
			},
		},
		{
			Name:        "clear",
			Description: "Move the whole queue to the trash",
		},
		{
			Name:        "emptytrash",
			Description: "Permanently drop everything in the trash",
		},

		// Playlist commands
		{
			Name:        "playlists",
			Description: "List saved playlists",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "pattern",
					Description: "Filter by glob pattern, e.g. rock*",
					Required:    false,
				},
			},
		},
		{
			Name:        "playlist",
			Description: "Manage saved playlists",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "load",
					Description: "Replace the queue with a saved playlist",
					Options: []*discordgo.ApplicationCommandOption{
						playlistNameOption("Playlist to load (.queue and .trash work too)"),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "save",
					Description: "Save the queue as a playlist you own",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Playlist name",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a saved playlist",
					Options: []*discordgo.ApplicationCommandOption{
						playlistNameOption("Playlist to delete"),
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "force",
							Description: "[Admin] Delete even if someone else owns it",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Display playlist contents",
					Options: []*discordgo.ApplicationCommandOption{
						playlistNameOption("Playlist to display"),
					},
				},
			},
		},

		// Utility commands
		{
			Name:        "stats",
			Description: "Display bot statistics and status",
		},
		{
			Name:        "help",
			Description: "Show all available commands and usage",
		},
		{
			Name:        "sync",
			Description: "[Admin] Force synchronize slash commands with Discord",
		},
	}
}

func playlistNameOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "name",
		Description:  description,
		Required:     true,
		Autocomplete: true,
	}
}
