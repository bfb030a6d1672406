package registry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/formatlab/sacfit/internal/accumulation"
	apperrors "github.com/formatlab/sacfit/internal/errors"
)

// Sets is the uniform in-memory form handed to the accumulation core:
// source identifier to set of extension labels.
type Sets = map[string]accumulation.Set

// Load reads a registry file and returns the source-to-set mapping.
// The format is chosen by file suffix: .yml/.yaml for the extensions.yml
// schema, .jsonl for the line-delimited registry format, and anything else
// is parsed as a JSON object mapping source to extension list.
func Load(path string) (Sets, error) {
	switch {
	case strings.HasSuffix(path, ".yml"), strings.HasSuffix(path, ".yaml"):
		return LoadYAML(path)
	case strings.HasSuffix(path, ".jsonl"):
		return LoadJSONLines(path)
	default:
		return LoadJSON(path)
	}
}

// yamlSchema mirrors the extensions.yml layout: a map of extension to the
// registries that record it.
type yamlSchema struct {
	Extensions map[string]struct {
		Identifiers []struct {
			RegID string `yaml:"regId"`
		} `yaml:"identifiers"`
	} `yaml:"extensions"`
}

// LoadYAML parses the extensions.yml schema and re-indexes it by registry
// identifier, lowercasing every extension.
func LoadYAML(path string) (Sets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "reading %s", path)
	}
	var schema yamlSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, apperrors.WrapError(err, "parsing YAML registry %s", path)
	}
	if len(schema.Extensions) == 0 {
		return nil, apperrors.NewInvalidInputError("", "no extensions found in %s", path)
	}

	sets := make(Sets)
	for ext, meta := range schema.Extensions {
		label := strings.ToLower(ext)
		for _, id := range meta.Identifiers {
			set, ok := sets[id.RegID]
			if !ok {
				set = make(accumulation.Set)
				sets[id.RegID] = set
			}
			set.Add(label)
		}
	}
	return sets, nil
}

// registryLine is one record of the registries.jsonl format.
type registryLine struct {
	ID         string   `json:"id"`
	Extensions []string `json:"extensions"`
}

// LoadJSONLines parses the registries.jsonl format: one registry per line.
func LoadJSONLines(path string) (Sets, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "reading %s", path)
	}
	defer f.Close()

	sets := make(Sets)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var reg registryLine
		if err := json.Unmarshal([]byte(line), &reg); err != nil {
			return nil, apperrors.WrapError(err, "parsing %s line %d", path, lineNo)
		}
		if reg.ID == "" {
			return nil, apperrors.NewInvalidInputError("", "%s line %d: registry has no id", path, lineNo)
		}
		sets[reg.ID] = accumulation.NewSet(reg.Extensions...)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.WrapError(err, "reading %s", path)
	}
	if len(sets) == 0 {
		return nil, apperrors.NewInvalidInputError("", "no registries found in %s", path)
	}
	return sets, nil
}

// LoadJSON parses a JSON object mapping source identifier to a list of
// extensions.
func LoadJSON(path string) (Sets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "reading %s", path)
	}
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.WrapError(err, "parsing JSON registry %s", path)
	}
	if len(raw) == 0 {
		return nil, apperrors.NewInvalidInputError("", "no sources found in %s", path)
	}

	sets := make(Sets, len(raw))
	for source, exts := range raw {
		sets[source] = accumulation.NewSet(exts...)
	}
	return sets, nil
}

// Summarize renders a short human-readable description of a loaded mapping,
// used in log lines and the verbose CLI header.
func Summarize(sets Sets) string {
	labels := make(accumulation.Set)
	for _, s := range sets {
		labels.Merge(s)
	}
	return fmt.Sprintf("%d sources, %d distinct labels", len(sets), len(labels))
}
