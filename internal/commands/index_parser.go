package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vuongmanhnghia/playlist-bot/internal/errors"
)

// parseIndexes turns "1-3, 5,7-9" into zero-based positions. Positions are
// 1-based in the input and must not exceed size.
func parseIndexes(input string, size int) ([]int, error) {
	var indexes []int
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		from, to, isRange := strings.Cut(part, "-")
		first, err := parsePosition(from, size)
		if err != nil {
			return nil, err
		}
		last := first
		if isRange {
			if last, err = parsePosition(to, size); err != nil {
				return nil, err
			}
			if last < first {
				return nil, fmt.Errorf("%w: range %q is reversed", errors.ErrInvalidInput, part)
			}
		}

		for pos := first; pos <= last; pos++ {
			indexes = append(indexes, pos-1)
		}
	}

	if len(indexes) == 0 {
		return nil, fmt.Errorf("%w: no positions given", errors.ErrInvalidInput)
	}
	return indexes, nil
}

func parsePosition(s string, size int) (int, error) {
	pos, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errors.ErrInvalidInput, s)
	}
	if size == 0 {
		return 0, errors.ErrQueueEmpty
	}
	if pos < 1 || pos > size {
		return 0, fmt.Errorf("%w: must be between 1 and %d", errors.ErrInvalidPosition, size)
	}
	return pos, nil
}
