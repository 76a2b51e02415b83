// Package prefs persists the kiosk's display preferences and favorite menu
// items in ~/.config/darsamo/prefs.toml.
package prefs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds display preferences.
type Prefs struct {
	Theme        string   `toml:"theme"`
	ShowPickedUp bool     `toml:"show_picked_up"`
	Favorites    []string `toml:"favorites,omitempty"` // menu item names, in the order they were added
}

const (
	defaultPrefsPath = "~/.config/darsamo/prefs.toml"
	defaultTheme     = "Dracula"
)

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, ShowPickedUp: true}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// IsFavorite reports whether the named menu item is a favorite.
func (p Prefs) IsFavorite(name string) bool {
	for _, f := range p.Favorites {
		if f == name {
			return true
		}
	}
	return false
}

// ToggleFavorite adds name to the favorites or removes it, reporting
// whether it is a favorite afterwards. The slice is never shared with the
// receiver's previous value.
func (p *Prefs) ToggleFavorite(name string) bool {
	out := make([]string, 0, len(p.Favorites)+1)
	found := false
	for _, f := range p.Favorites {
		if f == name {
			found = true
			continue
		}
		out = append(out, f)
	}
	if !found {
		out = append(out, name)
	}
	if len(out) == 0 {
		out = nil
	}
	p.Favorites = out
	return !found
}

// Load reads preferences from path, or the default location when path is
// empty. It never fails: anything unreadable yields Defaults, and a field
// missing from the file keeps its default.
func Load(path string) Prefs {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults()
	}

	file, err := os.Open(resolved)
	if err != nil {
		return Defaults()
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Defaults()
	}

	prefs := Defaults()
	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Defaults()
	}

	prefs.Theme = strings.TrimSpace(prefs.Theme)
	if prefs.Theme == "" {
		prefs.Theme = defaultTheme
	}
	if len(prefs.Favorites) == 0 {
		prefs.Favorites = nil
	}
	return prefs
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
