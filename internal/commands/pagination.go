package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/vuongmanhnghia/playlist-bot/internal/domain/entities"
	"github.com/vuongmanhnghia/playlist-bot/internal/services"
	"github.com/vuongmanhnghia/playlist-bot/internal/validation"
)

const (
	itemsPerPage   = 10
	maxTitleLength = 50
)

// createPaginationButtons creates navigation buttons for pagination
func createPaginationButtons(page, totalPages int, customIDPrefix string) []discordgo.MessageComponent {
	if totalPages <= 1 {
		return nil
	}

	buttons := []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "⏮️", // First
			Style:    discordgo.SecondaryButton,
			CustomID: customIDPrefix + ":first",
			Disabled: page == 0,
		},
		discordgo.Button{
			Label:    "◀️", // Previous
			Style:    discordgo.PrimaryButton,
			CustomID: customIDPrefix + ":prev",
			Disabled: page == 0,
		},
		discordgo.Button{
			Label:    fmt.Sprintf("Page %d/%d", page+1, totalPages),
			Style:    discordgo.SecondaryButton,
			CustomID: fmt.Sprintf("%s:current:%d", customIDPrefix, page),
			Disabled: true,
		},
		discordgo.Button{
			Label:    "▶️", // Next
			Style:    discordgo.PrimaryButton,
			CustomID: customIDPrefix + ":next",
			Disabled: page >= totalPages-1,
		},
		discordgo.Button{
			Label:    "⏭️", // Last
			Style:    discordgo.SecondaryButton,
			CustomID: customIDPrefix + ":last",
			Disabled: page >= totalPages-1,
		},
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: buttons,
		},
	}
}

func pageCount(items int) int {
	return (items + itemsPerPage - 1) / itemsPerPage
}

func clampPage(page, totalPages int) int {
	return max(0, min(page, totalPages-1))
}

// pageFromTitle extracts the zero-based page from "... (Page X/Y)"
func pageFromTitle(title string) int {
	idx := strings.Index(title, "(Page ")
	if idx < 0 {
		return 0
	}
	rest := title[idx+len("(Page "):]
	slash := strings.Index(rest, "/")
	if slash <= 0 {
		return 0
	}
	page, err := strconv.Atoi(rest[:slash])
	if err != nil {
		return 0
	}
	return page - 1
}

// targetPage applies a button action to the current page
func targetPage(action string, current, totalPages int) (int, bool) {
	switch action {
	case "first":
		return 0, true
	case "prev":
		return max(0, current-1), true
	case "next":
		return min(totalPages-1, current+1), true
	case "last":
		return totalPages - 1, true
	}
	return 0, false
}

func itemLine(position int, item *entities.PlaylistItem, current bool) string {
	indicator := fmt.Sprintf("`%2d.`", position)
	if current {
		indicator += " ►"
	}
	title := validation.TruncateString(item.Resource.DisplayName(), maxTitleLength)
	return fmt.Sprintf("%s **%s** `[%s]`\n", indicator, title, item.Resource.Type)
}

// buildQueuePage builds a paginated queue display
func buildQueuePage(snap services.QueueSnapshot, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	if len(snap.Items) == 0 {
		return NewEmbed().
			Title("Queue").
			Description("The queue is empty. Use `/add` or `/playlist load` to add songs!").
			Color(ColorInfo).
			Build(), nil
	}

	total := len(snap.Items)
	totalPages := pageCount(total)
	page = clampPage(page, totalPages)

	start := page * itemsPerPage
	end := min(start+itemsPerPage, total)

	var sb strings.Builder
	for i := start; i < end; i++ {
		sb.WriteString(itemLine(i+1, snap.Items[i], i == snap.Index))
	}

	random := "off"
	if snap.Random {
		random = fmt.Sprintf("on (seed %d)", snap.Seed)
	}

	embed := NewEmbed().
		Title(fmt.Sprintf("Queue (Page %d/%d)", page+1, totalPages)).
		Description(sb.String()).
		Color(ColorPrimary).
		Footer(fmt.Sprintf("Total: %d songs • Showing %d-%d • Repeat: %s %s • Random: %s • Trash: %d",
			total, start+1, end, snap.Loop.Emoji(), snap.Loop, random, snap.TrashCount)).
		Build()

	return embed, createPaginationButtons(page, totalPages, "queue")
}

// buildPlaylistPage builds a paginated playlist display
func buildPlaylistPage(playlist *entities.Playlist, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	name := playlist.Name
	owner := "nobody"
	if playlist.HasOwner() {
		owner = fmt.Sprintf("<@%s>", playlist.Owner)
	}

	items := playlist.Items()
	if len(items) == 0 {
		return NewEmbed().
			Title(fmt.Sprintf("📋 %s", name)).
			Description("This playlist is empty").
			Color(ColorInfo).
			Field("Owner", owner, true).
			Build(), nil
	}

	total := len(items)
	totalPages := pageCount(total)
	page = clampPage(page, totalPages)

	start := page * itemsPerPage
	end := min(start+itemsPerPage, total)

	var sb strings.Builder
	for i := start; i < end; i++ {
		sb.WriteString(itemLine(i+1, items[i], false))
	}

	embed := NewEmbed().
		Title(fmt.Sprintf("📋 %s (Page %d/%d)", name, page+1, totalPages)).
		Description(sb.String()).
		Color(ColorPrimary).
		Field("Owner", owner, true).
		Footer(fmt.Sprintf("Total: %d songs • Showing %d-%d • Use /playlist load %s to play",
			total, start+1, end, name)).
		Build()

	return embed, createPaginationButtons(page, totalPages, "playlist:"+name)
}
