package search

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"gopkg.in/yaml.v3"
)

var (
	frontMatterRe = regexp.MustCompile(`(?ms)\A---\s*\n(.*?)\n---\s*(?:\n|\z)`)
	inlineTagRe   = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_/-]*[\p{L}_/-][\p{L}\p{N}_/-]*)`)
	codeFenceRe   = regexp.MustCompile("(?s)```.*?```")
)

// createdKeys are the front-matter properties consulted for a creation date,
// in priority order.
var createdKeys = []string{"created", "created_at", "date"}

func splitFrontMatter(data []byte) ([]byte, []byte) {
	loc := frontMatterRe.FindSubmatchIndex(data)
	if len(loc) < 4 {
		return nil, data
	}
	return data[loc[2]:loc[3]], data[loc[1]:]
}

// SplitFrontMatter separates the YAML header from the note body.
func SplitFrontMatter(data []byte) (frontMatter, body []byte) {
	return splitFrontMatter(data)
}

func parseFrontMatter(fm []byte) (map[string][]string, []string, error) {
	result := make(map[string][]string)
	var tags []string
	if len(fm) == 0 {
		return result, tags, nil
	}

	var data yaml.Node
	if err := yaml.Unmarshal(fm, &data); err != nil {
		return nil, nil, err
	}

	if data.Kind != yaml.DocumentNode || len(data.Content) == 0 {
		return result, tags, nil
	}

	mapping := data.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return result, tags, nil
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		values := flattenYAMLValue(mapping.Content[i+1])
		result[key] = values
		if strings.EqualFold(key, "tags") || strings.EqualFold(key, "tag") {
			tags = append(tags, values...)
		}
	}

	return result, tags, nil
}

func flattenYAMLValue(node *yaml.Node) []string {
	switch node.Kind {
	case yaml.SequenceNode:
		vals := make([]string, 0, len(node.Content))
		for _, child := range node.Content {
			if child.Kind == yaml.ScalarNode {
				vals = append(vals, child.Value)
			}
		}
		return vals
	case yaml.ScalarNode:
		if node.Value == "" {
			return nil
		}
		return []string{node.Value}
	default:
		return nil
	}
}

func extractInlineTags(body []byte) []string {
	text := codeFenceRe.ReplaceAll(body, nil)
	var tags []string
	for _, match := range inlineTagRe.FindAllSubmatch(text, -1) {
		tags = append(tags, string(match[1]))
	}
	return tags
}

// mergeTags lowercases, strips the leading hash and removes duplicates.
func mergeTags(groups ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, group := range groups {
		for _, raw := range group {
			tag := normalizeTag(raw)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

func createdAt(props map[string][]string, fallback time.Time) time.Time {
	for _, key := range createdKeys {
		values, ok := props[key]
		if !ok || len(values) == 0 {
			continue
		}
		parsed, err := dateparse.ParseAny(strings.TrimSpace(values[0]))
		if err != nil {
			continue
		}
		return parsed.UTC()
	}
	return fallback
}
