package config

import (
	"strings"

	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// GetDefaultsContent returns the embedded defaults as written
func GetDefaultsContent() string {
	return string(defaultConfig)
}

// GenerateConfigContent returns the defaults with every value commented out,
// as a starting point for a user file
func GenerateConfigContent() string {
	return commentOutConfigValues(GetDefaultsContent())
}

// commentOutConfigValues comments out every assignment, keeping comments,
// blank lines and section headers
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers (e.g., [rules], [output]) as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}

// Dump renders cfg as TOML
func Dump(cfg *Config) (string, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return string(out), nil
}
