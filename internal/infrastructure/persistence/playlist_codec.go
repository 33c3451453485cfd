package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vuongmanhnghia/playlist-bot/internal/domain/entities"
	"github.com/vuongmanhnghia/playlist-bot/internal/domain/valueobjects"
	"github.com/vuongmanhnghia/playlist-bot/internal/errors"
	"github.com/vuongmanhnghia/playlist-bot/pkg/logger"
)

// CurrentVersion is the newest file format; files are always written with it
const CurrentVersion = 2

const maxLineSize = 1 << 20

// Decode parses a playlist file.
//
// Header problems (version too new, duplicate owner, bad version number)
// fail the whole load. Bad body lines, including lines longer than
// maxLineSize, are logged and skipped. With headOnly set only name and
// owner are filled in.
func Decode(r io.Reader, name string, headOnly bool, log *logger.Logger) (*entities.Playlist, error) {
	playlist := entities.NewPlaylist(name)
	entry := log.WithField("playlist", name)
	reader := bufio.NewReader(r)

	version := 1
	ownerSeen := false
	inHeader := true

	for {
		raw, tooLong, err := readLine(reader)
		if err == io.EOF && len(raw) == 0 && !tooLong {
			break
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read playlist %q: %w", name, err)
		}

		line := strings.TrimSuffix(string(raw), "\r")
		switch {
		case tooLong:
			entry.WithField("limit", maxLineSize).Warn("Erroneous playlist data block")

		case inHeader && strings.TrimSpace(line) == "":
			inHeader = false
			if headOnly {
				return playlist, nil
			}

		case inHeader:
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				break
			}
			key = strings.TrimSpace(key)
			if isBodyKey(key) {
				// No header; the first line is already content
				inHeader = false
				if headOnly {
					return playlist, nil
				}
				decodeBodyLine(playlist, line, entry)
				break
			}

			switch key {
			case "version":
				v, convErr := strconv.Atoi(strings.TrimSpace(value))
				if convErr != nil {
					return nil, fmt.Errorf("%w: bad version %q", errors.ErrBrokenFile, value)
				}
				if v > CurrentVersion {
					return nil, fmt.Errorf("%w: version %d", errors.ErrFileTooNew, v)
				}
				version = v
			case "owner":
				if ownerSeen {
					entry.Warn("Invalid playlist file: duplicate owner")
					return nil, errors.ErrDuplicateOwner
				}
				ownerSeen = true
				// Only honoured once a version 2 header line has been read
				if version == CurrentVersion {
					playlist.Owner = value
				}
			}

		default:
			decodeBodyLine(playlist, line, entry)
		}

		if err == io.EOF {
			break
		}
	}

	return playlist, nil
}

// readLine returns the next line without its terminator. Lines longer than
// maxLineSize are consumed and reported as tooLong with no content.
func readLine(r *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, isPrefix, readErr := r.ReadLine()
		if readErr != nil {
			return line, tooLong, readErr
		}
		if !tooLong {
			if len(line)+len(chunk) > maxLineSize {
				line, tooLong = nil, true
			} else {
				line = append(line, chunk...)
			}
		}
		if !isPrefix {
			return line, tooLong, nil
		}
	}
}

func isBodyKey(key string) bool {
	switch key {
	case "rs", "rsj", "id", "ln":
		return true
	}
	return false
}

func decodeBodyLine(playlist *entities.Playlist, line string, log *logrus.Entry) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		if strings.TrimSpace(line) != "" {
			log.WithField("line", line).Warn("Erroneous playlist data block")
		}
		return
	}

	switch key {
	case "rs":
		resource, ok := decodeLegacy(value)
		if !ok {
			log.WithField("line", line).Warn("Erroneous playlist data block")
			return
		}
		playlist.AddItem(entities.NewPlaylistItem(resource))

	case "rsj":
		var resource entities.AudioResource
		if err := json.Unmarshal([]byte(value), &resource); err != nil {
			log.WithError(err).WithField("line", line).Warn("Erroneous playlist data block")
			return
		}
		if resource.Type.IsBlank() {
			log.WithField("line", line).Warn("Erroneous playlist data block")
			return
		}
		playlist.AddItem(entities.NewPlaylistItem(resource))

	case "id", "ln":
		log.WithField("line", line).Warn("Deprecated playlist data block")

	default:
		log.WithField("line", line).Warn("Erroneous playlist data block")
	}
}

// decodeLegacy parses <owner>:<type>,<escaped id>,<escaped title>
func decodeLegacy(value string) (entities.AudioResource, bool) {
	_, content, ok := strings.Cut(value, ":")
	if !ok {
		return entities.AudioResource{}, false
	}

	fields := strings.SplitN(content, ",", 3)
	if len(fields) < 3 || strings.TrimSpace(fields[0]) == "" {
		return entities.AudioResource{}, false
	}

	id, err := url.PathUnescape(fields[1])
	if err != nil {
		return entities.AudioResource{}, false
	}
	title, err := url.PathUnescape(fields[2])
	if err != nil {
		return entities.AudioResource{}, false
	}

	return entities.AudioResource{
		Type:       valueobjects.ResourceType(fields[0]),
		ResourceID: id,
		Title:      title,
	}, true
}

// Encode writes a playlist in the current format version
func Encode(w io.Writer, playlist *entities.Playlist) error {
	if playlist == nil {
		return fmt.Errorf("%w: nil playlist", errors.ErrInvalidArgument)
	}
	if strings.ContainsAny(playlist.Owner, "\r\n") {
		return fmt.Errorf("%w: owner contains a line break", errors.ErrInvalidArgument)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "version:%d\n", CurrentVersion)
	if playlist.HasOwner() {
		fmt.Fprintf(bw, "owner:%s\n", playlist.Owner)
	}
	bw.WriteString("\n")

	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, item := range playlist.Items() {
		bw.WriteString("rsj:")
		// Encode terminates each object with a newline
		if err := enc.Encode(item.Resource); err != nil {
			return fmt.Errorf("failed to encode playlist item: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write playlist: %w", err)
	}
	return nil
}
