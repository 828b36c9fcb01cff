package prefs

import (
	"fmt"
	"strings"

	"clementus360/study-assistant/config"
	"clementus360/study-assistant/types"

	"gopkg.in/yaml.v3"
)

type ThemeName string

const (
	ThemeLight ThemeName = "light"
	ThemeDark  ThemeName = "dark"
)

// Theme returns the stored theme. Anything other than "dark" reads as light.
func Theme(kv KV) (ThemeName, error) {
	v, ok, err := kv.Get(config.KeyTheme)
	if err != nil {
		return ThemeLight, err
	}
	if ok && ThemeName(v) == ThemeDark {
		return ThemeDark, nil
	}
	return ThemeLight, nil
}

func ParseTheme(s string) (ThemeName, error) {
	switch ThemeName(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", types.NewValidationError("Unknown theme %q (use light or dark).", s)
}

func SetTheme(kv KV, theme ThemeName) error {
	return kv.Set(config.KeyTheme, string(theme))
}

// ToggleTheme flips between light and dark and returns the new value.
func ToggleTheme(kv KV) (ThemeName, error) {
	current, err := Theme(kv)
	if err != nil {
		return current, err
	}
	next := ThemeDark
	if current == ThemeDark {
		next = ThemeLight
	}
	return next, SetTheme(kv, next)
}

// Workspaces returns the saved workspace names in insertion order.
func Workspaces(kv KV) ([]string, error) {
	v, ok, err := kv.Get(config.KeyWorkspaces)
	if err != nil || !ok || v == "" {
		return nil, err
	}
	var names []string
	if err := yaml.Unmarshal([]byte(v), &names); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workspaces: %w", err)
	}
	return names, nil
}

func saveWorkspaces(kv KV, names []string) error {
	if len(names) == 0 {
		return kv.Delete(config.KeyWorkspaces)
	}
	data, err := yaml.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to marshal workspaces: %w", err)
	}
	return kv.Set(config.KeyWorkspaces, string(data))
}

func AddWorkspace(kv KV, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.NewValidationError("Workspace name is required.")
	}
	names, err := Workspaces(kv)
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		if n == name {
			return names, nil
		}
	}
	names = append(names, name)
	return names, saveWorkspaces(kv, names)
}

func RemoveWorkspace(kv KV, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	names, err := Workspaces(kv)
	if err != nil {
		return nil, err
	}
	kept := names[:0]
	for _, n := range names {
		if n != name {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(names) {
		return names, nil
	}
	return kept, saveWorkspaces(kv, kept)
}
