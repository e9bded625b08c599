package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
)

func strPtr(s string) *string { return &s }

// DefaultLanguageProfiles is the built-in language table
func DefaultLanguageProfiles() map[string]domain.LanguageProfile {
	return map[string]domain.LanguageProfile{
		"c": {
			Name:           "C",
			Image:          "gcc",
			CompileCommand: strPtr("gcc {{source}} -o {{binary}}"),
			RunCommand:     "./{{binary}}",
			FileExtension:  "c",
		},
		"cpp": {
			Name:           "C++",
			Image:          "gcc",
			CompileCommand: strPtr("g++ {{source}} -o {{binary}}"),
			RunCommand:     "./{{binary}}",
			FileExtension:  "cpp",
		},
		"python": {
			Name:          "Python 3",
			Image:         "python:3",
			RunCommand:    "python {{source}}",
			FileExtension: "py",
		},
		"javascript": {
			Name:          "JavaScript",
			Image:         "node",
			RunCommand:    "node {{source}}",
			FileExtension: "js",
		},
	}
}

type languagesFile struct {
	Languages map[string]domain.LanguageProfile `yaml:"languages" toml:"languages"`
}

// LoadLanguageProfiles returns the default table overlaid with the profiles
// of path. A file entry replaces the default with the same id, where the id
// is the profile's own id field when set and the entry key otherwise. An
// empty path yields the defaults.
func LoadLanguageProfiles(path string) (map[string]domain.LanguageProfile, error) {
	profiles := DefaultLanguageProfiles()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read languages file: %w", err)
	}

	var file languagesFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&file)
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&file)
	default:
		return nil, fmt.Errorf("unsupported languages file format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse languages file %s: %w", path, err)
	}

	seen := make(map[string]string, len(file.Languages))
	for entry, profile := range file.Languages {
		id := profileKey(entry, profile)
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("languages file %s: entries %q and %q both define language %q", path, prev, entry, id)
		}
		seen[id] = entry
		profiles[id] = profile
	}
	return profiles, nil
}

func profileKey(entry string, profile domain.LanguageProfile) string {
	if id := strings.ToLower(strings.TrimSpace(profile.ID)); id != "" {
		return id
	}
	return strings.ToLower(strings.TrimSpace(entry))
}
