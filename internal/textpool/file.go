package textpool

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/verte-zerg/typetest/internal/model"
)

// LoadPoolFile reads custom sentence pools. Sections are introduced by a
// level header such as "[L2]"; each following non-empty line is a sentence.
// Lines starting with '#' are comments.
func LoadPoolFile(path string) (map[model.Level][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only pool file.
			_ = cerr
		}
	}()

	pools := map[model.Level][]string{}
	var current model.Level
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			level := model.Level(strings.TrimSpace(line[1 : len(line)-1]))
			if !level.Valid() {
				return nil, fmt.Errorf("line %d: unknown level %q", lineNo, level)
			}
			current = level
			continue
		}
		if current == "" {
			return nil, fmt.Errorf("line %d: sentence outside of a level section", lineNo)
		}
		pools[current] = append(pools[current], line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(pools) == 0 {
		return nil, fmt.Errorf("pool file is empty")
	}
	return pools, nil
}
