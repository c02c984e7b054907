package archive

import (
	"fmt"

	"github.com/discochess/insight/internal/store"
)

// Verify checks that data, cached under key, parses the way ListArchives
// or FetchArchive would parse it. It returns the number of archive
// locators or games the payload holds.
func Verify(key store.Key, data []byte) (int, error) {
	switch key.Space {
	case store.SpaceArchives:
		locs, err := parseDirectory(data, key, SourceCache)
		return len(locs), err
	case store.SpaceGames:
		games, err := parseArchive(data, key, SourceCache)
		return len(games), err
	default:
		return 0, fmt.Errorf("archive: unknown key space %q", key.Space)
	}
}
