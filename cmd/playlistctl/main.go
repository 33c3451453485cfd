// Package main provides an offline tool for the playlist directory.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/vuongmanhnghia/playlist-bot/internal/config"
	"github.com/vuongmanhnghia/playlist-bot/internal/errors"
	"github.com/vuongmanhnghia/playlist-bot/internal/infrastructure/interchange"
	"github.com/vuongmanhnghia/playlist-bot/internal/infrastructure/persistence"
	"github.com/vuongmanhnghia/playlist-bot/internal/services"
	"github.com/vuongmanhnghia/playlist-bot/pkg/logger"
)

var (
	app     = kingpin.New("playlistctl", "Inspect and maintain the playlist directory")
	dir     = app.Flag("dir", "Playlist directory (defaults to PLAYLIST_DIR)").String()
	verbose = app.Flag("verbose", "Log warnings about skipped playlist lines").Short('v').Bool()

	// list command
	listCmd     = app.Command("list", "List stored playlists").Alias("ls")
	listPattern = listCmd.Arg("pattern", "Glob pattern, e.g. rock*").String()

	// show command
	showCmd  = app.Command("show", "Print a playlist")
	showName = showCmd.Arg("name", "Playlist name").Required().String()

	// cleanse command
	cleanseCmd  = app.Command("cleanse", "Print the safe file name for arbitrary text")
	cleanseName = cleanseCmd.Arg("name", "Text to turn into a playlist name").Required().String()

	// delete command
	deleteCmd   = app.Command("delete", "Delete a playlist").Alias("rm")
	deleteName  = deleteCmd.Arg("name", "Playlist name").Required().String()
	deleteOwner = deleteCmd.Flag("owner", "Delete as this owner").String()
	deleteForce = deleteCmd.Flag("force", "Ignore ownership").Bool()

	// import-jspf command
	importCmd   = app.Command("import-jspf", "Store a JSPF file as a playlist")
	importFile  = importCmd.Arg("file", "JSPF file ('-' for stdin)").Required().String()
	importName  = importCmd.Flag("name", "Playlist name (defaults to the cleansed JSPF title)").String()
	importOwner = importCmd.Flag("owner", "Owner of the stored playlist").String()
	importForce = importCmd.Flag("force", "Replace a playlist owned by someone else").Bool()

	// export-jspf command
	exportCmd  = app.Command("export-jspf", "Write a playlist as JSPF")
	exportName = exportCmd.Arg("name", "Playlist name").Required().String()
	exportOut  = exportCmd.Flag("out", "Output file (defaults to stdout)").Short('o').String()

	// shuffle command
	shuffleCmd    = app.Command("shuffle", "Print the order random mode plays a playlist in")
	shuffleName   = shuffleCmd.Arg("name", "Playlist name").Required().String()
	shuffleSeed   = shuffleCmd.Flag("seed", "Shuffle seed").Default("0").Int()
	shufflePasses = shuffleCmd.Flag("passes", "Number of full passes to print").Default("1").Int()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.LoadStorage()
	if err != nil {
		fail(err)
	}
	if *dir != "" {
		cfg.PlaylistDir = *dir
	}

	level := "error"
	if *verbose {
		level = "warn"
	}
	log, err := logger.New(logger.Config{Level: level, Format: cfg.LogFormat, Output: os.Stderr})
	if err != nil {
		fail(err)
	}

	manager := services.NewPlaylistManager(persistence.NewFileStore(cfg.PlaylistDir, log), log)

	switch command {
	case listCmd.FullCommand():
		list(manager, *listPattern)
	case showCmd.FullCommand():
		show(manager, *showName)
	case cleanseCmd.FullCommand():
		fmt.Println(services.CleanseName(*cleanseName))
	case deleteCmd.FullCommand():
		if err := manager.DeletePlaylist(*deleteName, *deleteOwner, *deleteForce); err != nil {
			fail(err)
		}
		fmt.Printf("Deleted %s\n", *deleteName)
	case importCmd.FullCommand():
		importJSPF(manager, *importFile, *importName, *importOwner, *importForce)
	case exportCmd.FullCommand():
		exportJSPF(manager, *exportName, *exportOut)
	case shuffleCmd.FullCommand():
		shuffle(manager, *shuffleName, *shuffleSeed, *shufflePasses)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s (%v)\n", errors.GetUserMessage(err), err)
	os.Exit(1)
}

func list(manager *services.PlaylistManager, pattern string) {
	names, err := manager.GetAvailablePlaylists(pattern)
	if err != nil {
		fail(err)
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func show(manager *services.PlaylistManager, name string) {
	playlist, err := manager.LoadPlaylist(name, false)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Name:  %s\n", name)
	if playlist.HasOwner() {
		fmt.Printf("Owner: %s\n", playlist.Owner)
	}
	fmt.Printf("Items: %d\n\n", playlist.Count())
	for k, item := range playlist.Items() {
		fmt.Printf("%3d. [%s] %s\n", k+1, item.Resource.Type, item.Resource.DisplayName())
	}
}

func importJSPF(manager *services.PlaylistManager, file, name, owner string, force bool) {
	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			fail(err)
		}
		defer f.Close()
		r = f
	}

	src, err := interchange.ReadJSPF(r)
	if err != nil {
		fail(err)
	}
	if name == "" {
		name = services.CleanseName(src.Title)
	}

	playlist, skipped := interchange.ToPlaylist(src, name)
	playlist.Owner = owner
	if err := manager.SavePlaylist(playlist, force); err != nil {
		fail(err)
	}

	fmt.Printf("Imported %d items into %s", playlist.Count(), name)
	if skipped > 0 {
		fmt.Printf(" (%d tracks without a location skipped)", skipped)
	}
	fmt.Println()
}

func exportJSPF(manager *services.PlaylistManager, name, out string) {
	playlist, err := manager.LoadPlaylist(name, false)
	if err != nil {
		fail(err)
	}
	playlist.Name = name

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			fail(err)
		}
		defer f.Close()
		w = f
	}

	if err := interchange.WriteJSPF(w, interchange.FromPlaylist(playlist)); err != nil {
		fail(err)
	}
}

func shuffle(manager *services.PlaylistManager, name string, seed, passes int) {
	playlist, err := manager.LoadPlaylist(name, false)
	if err != nil {
		fail(err)
	}
	if playlist.IsEmpty() {
		fmt.Println("Playlist is empty")
		return
	}

	manager.SetRandom(true)
	if err := manager.PlayFreelist(playlist); err != nil {
		fail(err)
	}
	manager.SetSeed(seed)

	for pass := range passes {
		fmt.Printf("Pass %d (seed %d):\n", pass+1, manager.Seed())
		for range manager.Count() {
			item := manager.Current()
			fmt.Printf("%3d. %s\n", manager.Index()+1, item.Resource.DisplayName())
			manager.Next(true)
		}
	}
}
