package storage

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/registry"
)

// LoadRegistry reads static specs from dataDir/{items,mobs,rocks,dungeons}/*.json.
// The filename (without .json extension) overrides any id in the JSON.
// Unreadable or invalid files are logged and skipped; a missing directory is empty.
func LoadRegistry(dataDir string, logger *slog.Logger) (*registry.Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dataDir == "" {
		dataDir = "./data"
	}
	reg := registry.New()

	loaders := []struct {
		dir  string
		load func(id string, data []byte) error
	}{
		{"items", func(id string, data []byte) error {
			var spec item.Spec
			if err := json.Unmarshal(data, &spec); err != nil {
				return err
			}
			spec.ID = item.ID(id)
			return reg.AddItem(&spec)
		}},
		{"mobs", func(id string, data []byte) error {
			var spec registry.MobSpec
			if err := json.Unmarshal(data, &spec); err != nil {
				return err
			}
			spec.ID = id
			return reg.AddMob(&spec)
		}},
		{"rocks", func(id string, data []byte) error {
			var spec registry.RockSpec
			if err := json.Unmarshal(data, &spec); err != nil {
				return err
			}
			spec.ID = id
			return reg.AddRock(&spec)
		}},
		{"dungeons", func(id string, data []byte) error {
			var spec registry.DungeonSpec
			if err := json.Unmarshal(data, &spec); err != nil {
				return err
			}
			spec.ID = id
			return reg.AddDungeon(&spec)
		}},
	}

	for _, l := range loaders {
		if err := loadDir(filepath.Join(dataDir, l.dir), logger, l.load); err != nil {
			return nil, err
		}
	}

	items, mobs, rocks, dungeons := reg.Counts()
	logger.Info("Registry loaded",
		"data_dir", dataDir,
		"items", items,
		"mobs", mobs,
		"rocks", rocks,
		"dungeons", dungeons)
	return reg, nil
}

func loadDir(dir string, logger *slog.Logger, load func(id string, data []byte) error) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Failed to read spec file", "path", path, "error", err)
			return nil
		}
		id := strings.TrimSuffix(filepath.Base(path), ".json")
		if err := load(id, data); err != nil {
			logger.Warn("Skipping invalid spec file", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return nil
}
