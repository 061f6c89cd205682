package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Migration directions.
const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// Migration is one SQL file from the migrations directory
type Migration struct {
	Name string
	SQL  string
}

// LoadMigrations reads every NNN_name.<direction>.sql file in dir. Up
// migrations come back in file name order, down migrations reversed.
func LoadMigrations(dir, direction string) ([]Migration, error) {
	if direction != MigrateUp && direction != MigrateDown {
		return nil, fmt.Errorf("invalid migration direction %q", direction)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*."+direction+".sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no %s migrations in %s", direction, dir)
	}

	sort.Strings(paths)
	if direction == MigrateDown {
		sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	}

	migrations := make([]Migration, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", path, err)
		}
		migrations = append(migrations, Migration{
			Name: strings.TrimSuffix(filepath.Base(path), "."+direction+".sql"),
			SQL:  string(content),
		})
	}

	return migrations, nil
}
