// Package export writes completed games to disk as self-contained JSON
// documents for downstream analysis tools, with a manifest and a rolling
// retention window.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"hooptrack/internal/domain"
	"hooptrack/internal/gateway"
	"hooptrack/internal/timeutil"
)

// GameExport is the full exported record of one completed game.
type GameExport struct {
	ExportedAt  time.Time                   `json:"exportedAt"`
	Game        domain.Game                 `json:"game"`
	Possessions []domain.Possession         `json:"possessions,omitempty"`
	Detailed    []domain.DetailedPossession `json:"detailedPossessions,omitempty"`
	Shots       []domain.Shot               `json:"shots,omitempty"`
	Stints      []domain.LineupStint        `json:"stints"`
	EnergyLog   []domain.EnergySample       `json:"energyLog,omitempty"`
	Stats       []domain.PlayerGameStat     `json:"stats"`
}

// Exporter persists game exports under a base path.
type Exporter struct {
	gw            gateway.Gateway
	basePath      string
	retentionDays int
	now           func() time.Time
}

// NewExporter constructs an exporter rooted at basePath with a rolling
// retention window in days.
func NewExporter(gw gateway.Gateway, basePath string, retentionDays int) *Exporter {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &Exporter{
		gw:            gw,
		basePath:      basePath,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// BasePath exposes the exporter root path (primarily for testing).
func (e *Exporter) BasePath() string {
	if e == nil {
		return ""
	}
	return e.basePath
}

func (e *Exporter) gamePath(gameID string) string {
	return filepath.Join(e.basePath, "games", gameID+".json")
}

// RefreshAll exports every completed game, prunes exports outside the
// retention window and rewrites the manifest. Returns how many games were
// exported.
func (e *Exporter) RefreshAll(ctx context.Context) (int, error) {
	games, err := e.gw.CompletedGames(ctx)
	if err != nil {
		return 0, fmt.Errorf("list completed games: %w", err)
	}

	exported := 0
	for _, game := range games {
		if err := e.ExportGame(ctx, game.ID); err != nil {
			return exported, err
		}
		exported++
	}
	if err := e.updateManifest(); err != nil {
		return exported, err
	}
	return exported, nil
}

// ExportGame writes one game's export atomically, skipping the write when
// the content is unchanged.
func (e *Exporter) ExportGame(ctx context.Context, gameID string) error {
	doc, err := e.collect(ctx, gameID)
	if err != nil {
		return err
	}

	target := e.gamePath(gameID)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if existing, err := os.ReadFile(target); err == nil && exportEqual(existing, data) {
		return nil
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

func (e *Exporter) collect(ctx context.Context, gameID string) (GameExport, error) {
	game, err := e.gw.Game(ctx, gameID)
	if err != nil {
		return GameExport{}, fmt.Errorf("export game %s: %w", gameID, err)
	}
	doc := GameExport{ExportedAt: e.now().UTC(), Game: game}

	if doc.Possessions, err = e.gw.Possessions(ctx, gameID); err != nil {
		return GameExport{}, err
	}
	if doc.Detailed, err = e.gw.DetailedPossessions(ctx, gameID); err != nil {
		return GameExport{}, err
	}
	if doc.Shots, err = e.gw.Shots(ctx, gameID); err != nil {
		return GameExport{}, err
	}
	if doc.Stints, err = e.gw.Stints(ctx, gameID); err != nil {
		return GameExport{}, err
	}
	if doc.EnergyLog, err = e.gw.EnergyLog(ctx, gameID); err != nil {
		return GameExport{}, err
	}
	if doc.Stats, err = e.gw.PlayerStats(ctx, gameID); err != nil {
		return GameExport{}, err
	}
	return doc, nil
}

func (e *Exporter) updateManifest() error {
	manifestPath := filepath.Join(e.basePath, "manifest.json")
	m, _ := readManifest(manifestPath, e.retentionDays)

	ids, err := e.listExports()
	if err != nil {
		return err
	}
	kept, err := e.prune(ids)
	if err != nil {
		return err
	}

	m.Games.IDs = kept
	m.Games.LastRefreshed = e.now().UTC()
	m.Retention.GameDays = e.retentionDays
	return writeManifest(e.basePath, m)
}

func (e *Exporter) listExports() ([]string, error) {
	dir := filepath.Join(e.basePath, "games")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		ids = append(ids, name[:len(name)-len(".json")])
	}
	sort.Strings(ids)
	return ids, nil
}

// prune removes exports whose game date falls outside the retention window.
// Exports whose date cannot be read are kept.
func (e *Exporter) prune(ids []string) ([]string, error) {
	now := e.now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -e.retentionDays)

	var keep []string
	for _, id := range ids {
		date, ok := e.exportDate(id)
		if ok && date.Before(cutoff) {
			_ = os.Remove(e.gamePath(id))
			continue
		}
		keep = append(keep, id)
	}
	sort.Strings(keep)
	return keep, nil
}

func (e *Exporter) exportDate(gameID string) (time.Time, bool) {
	data, err := os.ReadFile(e.gamePath(gameID))
	if err != nil {
		return time.Time{}, false
	}
	var doc struct {
		Game struct {
			Date string `json:"date"`
		} `json:"game"`
	}
	if err := json.Unmarshal(data, &doc); err != nil || doc.Game.Date == "" {
		return time.Time{}, false
	}
	parsed, err := timeutil.ParseDate(doc.Game.Date)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// exportEqual compares two export documents ignoring the exportedAt stamp,
// so an unchanged game is not rewritten every refresh.
func exportEqual(a, b []byte) bool {
	return bytes.Equal(stripExportedAt(a), stripExportedAt(b))
}

func stripExportedAt(data []byte) []byte {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return data
	}
	delete(doc, "exportedAt")
	out, err := json.Marshal(doc)
	if err != nil {
		return data
	}
	return out
}
