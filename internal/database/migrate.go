package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Migration is one versioned pair of SQL scripts: NNNNNN_name.up.sql and
// NNNNNN_name.down.sql.
type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
}

func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

//go:embed migrations/*.sql
var migrationFS embed.FS

// EmbeddedMigrations returns the migrations compiled into the binary, ordered by version.
var EmbeddedMigrations = sync.OnceValues(func() ([]Migration, error) {
	return parseMigrations(migrationFS, "migrations")
})

// parseMigrations reads every up script in dir along with its matching down
// script. A badly named file or a missing down script is an error.
func parseMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	ups, err := fs.Glob(fsys, path.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, err
	}

	out := make([]Migration, 0, len(ups))
	seen := make(map[int]string, len(ups))
	for _, up := range ups {
		base := strings.TrimSuffix(path.Base(up), ".up.sql")
		num, name, ok := strings.Cut(base, "_")
		version, err := strconv.Atoi(num)
		if !ok || name == "" || err != nil {
			return nil, fmt.Errorf("migration %s: want NNNNNN_name.up.sql", path.Base(up))
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration version %d used by %s and %s", version, prev, base)
		}
		seen[version] = base

		upSQL, err := fs.ReadFile(fsys, up)
		if err != nil {
			return nil, err
		}
		downSQL, err := fs.ReadFile(fsys, path.Join(dir, base+".down.sql"))
		if err != nil {
			return nil, fmt.Errorf("migration %s has no down script: %w", base, err)
		}

		out = append(out, Migration{
			Version:    version,
			Name:       name,
			UpScript:   string(upSQL),
			DownScript: string(downSQL),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func findMigration(all []Migration, version int) (Migration, bool) {
	for _, m := range all {
		if m.Version == version {
			return m, true
		}
	}
	return Migration{}, false
}
