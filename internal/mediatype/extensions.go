package mediatype

import (
	_ "embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

//go:embed extensions.toml
var extensionsTOML string

type extensionTable struct {
	Types map[string][]string `toml:"types"`
}

var (
	tableOnce   sync.Once
	byType      map[string][]string
	byExtension map[string]string
)

func loadTable() {
	var table extensionTable
	if err := toml.Unmarshal([]byte(extensionsTOML), &table); err != nil {
		panic(fmt.Sprintf("mediatype: parse embedded extension table: %v", err))
	}
	byType, byExtension = buildTable(table.Types)
}

// buildTable indexes types in both directions. When two types share an
// extension the lexically smallest essence owns the reverse mapping.
func buildTable(types map[string][]string) (map[string][]string, map[string]string) {
	essences := make([]string, 0, len(types))
	for essence := range types {
		essences = append(essences, essence)
	}
	sort.Strings(essences)

	forward := make(map[string][]string, len(types))
	reverse := make(map[string]string)
	for _, raw := range essences {
		essence := strings.ToLower(strings.TrimSpace(raw))
		for _, ext := range types[raw] {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			forward[essence] = append(forward[essence], ext)
			if _, taken := reverse[ext]; !taken {
				reverse[ext] = essence
			}
		}
	}
	return forward, reverse
}

// ExtensionFor returns the preferred file extension (without dot) for a media
// type essence, if one is known.
func ExtensionFor(essence string) (string, bool) {
	tableOnce.Do(loadTable)
	exts := byType[strings.ToLower(strings.TrimSpace(essence))]
	if len(exts) == 0 {
		return "", false
	}
	return exts[0], true
}

// TypeByExtension returns the media type essence registered for ext. The
// extension may include a leading dot.
func TypeByExtension(ext string) (string, bool) {
	tableOnce.Do(loadTable)
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "" {
		return "", false
	}
	essence, ok := byExtension[ext]
	return essence, ok
}

// TypeByPath guesses the media type essence from the extension of the last
// segment of a slash-separated path.
func TypeByPath(p string) (string, bool) {
	base := path.Base(p)
	if base == "." || base == "/" {
		return "", false
	}
	return TypeByExtension(path.Ext(base))
}
