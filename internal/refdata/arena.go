// Package refdata keeps static game reference tables (queues, champions) in a
// local sqlite file, keyed by a data-version string so a patch bump can
// invalidate and reload the whole set explicitly. There is no implicit
// expiry; callers decide when a version is stale.
package refdata

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// QueueInfo describes one queue id.
type QueueInfo struct {
	QueueID     int
	Map         string
	Description string
}

// ChampionInfo holds champion metadata used for report annotation.
type ChampionInfo struct {
	ID         int
	Name       string
	DamageType string
}

// Arena is the versioned reference-data store. Safe for concurrent readers;
// Reload and Invalidate serialize against reads.
type Arena struct {
	mu      sync.RWMutex
	db      *sql.DB
	version string
	logger  *zap.Logger
}

// Open creates or opens the arena database at path. An empty path places the
// file next to the user config directory.
func Open(path string, logger *zap.Logger) (*Arena, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			configDir = "."
		}
		dir := filepath.Join(configDir, "riftrecap")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create refdata directory: %w", err)
		}
		path = filepath.Join(dir, "refdata.db")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open refdata database: %w", err)
	}

	a := &Arena{db: db, logger: logger}
	if err := a.init(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// Close closes the underlying database.
func (a *Arena) Close() error {
	return a.db.Close()
}

// init creates the schema and loads the current version marker.
func (a *Arena) init() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS data_version (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			version TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS queues (
			queue_id INTEGER PRIMARY KEY,
			map TEXT NOT NULL,
			description TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS champions (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			damage_type TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := a.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create refdata schema: %w", err)
		}
	}

	a.db.QueryRow(`SELECT version FROM data_version WHERE id = 1`).Scan(&a.version)

	if a.version == "" {
		// Fresh file, seed the built-in tables under a baseline version.
		return a.Reload(baselineVersion, baselineQueues, baselineChampions)
	}
	return nil
}

// Version returns the version string the current tables were loaded under,
// empty when invalidated.
func (a *Arena) Version() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.version
}

// Invalidate drops all reference rows and clears the version marker. The next
// Reload repopulates.
func (a *Arena) Invalidate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, stmt := range []string{`DELETE FROM queues`, `DELETE FROM champions`, `DELETE FROM data_version`} {
		if _, err := a.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to invalidate refdata: %w", err)
		}
	}
	old := a.version
	a.version = ""
	a.logger.Info("reference data invalidated", zap.String("old_version", old))
	return nil
}

// Reload replaces the reference tables with a new data set under the given
// version key.
func (a *Arena) Reload(version string, queues []QueueInfo, champions []ChampionInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin reload: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM queues`, `DELETE FROM champions`} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to clear refdata: %w", err)
		}
	}
	for _, q := range queues {
		if _, err := tx.Exec(`INSERT INTO queues (queue_id, map, description) VALUES (?, ?, ?)`,
			q.QueueID, q.Map, q.Description); err != nil {
			return fmt.Errorf("failed to insert queue %d: %w", q.QueueID, err)
		}
	}
	for _, c := range champions {
		if _, err := tx.Exec(`INSERT INTO champions (id, name, damage_type) VALUES (?, ?, ?)`,
			c.ID, c.Name, c.DamageType); err != nil {
			return fmt.Errorf("failed to insert champion %d: %w", c.ID, err)
		}
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO data_version (id, version) VALUES (1, ?)`, version); err != nil {
		return fmt.Errorf("failed to write version marker: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reload: %w", err)
	}

	a.version = version
	a.logger.Info("reference data loaded",
		zap.String("version", version),
		zap.Int("queues", len(queues)),
		zap.Int("champions", len(champions)))
	return nil
}

// Queue looks up a queue id. ok is false for unknown ids or when invalidated.
func (a *Arena) Queue(queueID int) (QueueInfo, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var q QueueInfo
	err := a.db.QueryRow(`SELECT queue_id, map, description FROM queues WHERE queue_id = ?`, queueID).
		Scan(&q.QueueID, &q.Map, &q.Description)
	if err != nil {
		return QueueInfo{}, false
	}
	return q, true
}

// Champion looks up a champion by name, case-sensitive as Riot spells it.
func (a *Arena) Champion(name string) (ChampionInfo, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var c ChampionInfo
	err := a.db.QueryRow(`SELECT id, name, damage_type FROM champions WHERE name = ?`, name).
		Scan(&c.ID, &c.Name, &c.DamageType)
	if err != nil {
		return ChampionInfo{}, false
	}
	return c, true
}
