package config

import (
	"fmt"
	"strconv"
	"strings"

	"aircheck/internal/rules"
)

// Section is one archiving rule: the match criteria deciding which
// broadcasts belong to it, the templates shaping their output paths,
// and the tag values written into finished files.
type Section struct {
	Name            string
	TimeWindow      string
	Days            []int
	TargetDir       string
	TargetName      string
	KeepOriginal    bool
	FFmpegArguments string
	Title           string
	Tags            map[string]string
	Rule            rules.Rule
}

// tagPrefix is reserved: a section key "TagArtist" yields the lowercase
// tag name "artist".
const tagPrefix = "Tag"

func buildSections(raw []map[string]any) ([]Section, error) {
	sections := make([]Section, 0, len(raw))
	for i, entry := range raw {
		section, err := buildSection(i, entry)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, nil
}

func buildSection(index int, raw map[string]any) (Section, error) {
	section := DefaultSection()

	name, err := sectionName(index, raw)
	if err != nil {
		return Section{}, err
	}
	section.Name = name

	for key, value := range raw {
		switch key {
		case "Name":
			// handled above
		case "TimeWindow":
			if section.TimeWindow, err = asString(name, key, value); err != nil {
				return Section{}, err
			}
		case "Days":
			if section.Days, err = asDays(name, value); err != nil {
				return Section{}, err
			}
		case "TargetDir":
			if section.TargetDir, err = asString(name, key, value); err != nil {
				return Section{}, err
			}
		case "TargetName":
			if section.TargetName, err = asString(name, key, value); err != nil {
				return Section{}, err
			}
		case "KeepOriginal":
			if section.KeepOriginal, err = asBool(name, key, value); err != nil {
				return Section{}, err
			}
		case "FFmpegArguments":
			if section.FFmpegArguments, err = asString(name, key, value); err != nil {
				return Section{}, err
			}
		case "Title":
			if section.Title, err = asString(name, key, value); err != nil {
				return Section{}, err
			}
		default:
			if tag, ok := strings.CutPrefix(key, tagPrefix); ok && tag != "" {
				text, err := asString(name, key, value)
				if err != nil {
					return Section{}, err
				}
				section.Tags[strings.ToLower(tag)] = text
				continue
			}
			return Section{}, fmt.Errorf("section %q: unsupported key %q", name, key)
		}
	}

	if err := section.compileRule(); err != nil {
		return Section{}, err
	}
	return section, nil
}

func (s *Section) compileRule() error {
	window, err := rules.ParseWindow(s.TimeWindow)
	if err != nil {
		return fmt.Errorf("section %q: %w", s.Name, err)
	}
	days, err := rules.ParseDays(s.Days)
	if err != nil {
		return fmt.Errorf("section %q: %w", s.Name, err)
	}
	rule, err := rules.New(s.Name, s.Title, window, days)
	if err != nil {
		return fmt.Errorf("section %q: %w", s.Name, err)
	}
	s.Rule = rule
	return nil
}

func sectionName(index int, raw map[string]any) (string, error) {
	value, ok := raw["Name"]
	if !ok {
		return "", fmt.Errorf("section %d: Name is required", index+1)
	}
	name, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("section %d: Name must be a string", index+1)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("section %d: Name must not be empty", index+1)
	}
	return name, nil
}

func asString(section, key string, value any) (string, error) {
	text, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("section %q: key %s must be a string", section, key)
	}
	return text, nil
}

func asBool(section, key string, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		parsed, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(v)))
		if err != nil {
			return false, fmt.Errorf("section %q: key %s must be a boolean", section, key)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("section %q: key %s must be a boolean", section, key)
	}
}

// asDays accepts a TOML integer array, a single integer, or the legacy
// comma-separated string form.
func asDays(section string, value any) ([]int, error) {
	switch v := value.(type) {
	case []any:
		days := make([]int, 0, len(v))
		for _, item := range v {
			n, ok := item.(int64)
			if !ok {
				return nil, fmt.Errorf("section %q: Days entries must be integers", section)
			}
			days = append(days, int(n))
		}
		return days, nil
	case int64:
		return []int{int(v)}, nil
	case string:
		parts := strings.Split(v, ",")
		days := make([]int, 0, len(parts))
		for _, part := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("section %q: Days entry %q is not an integer", section, part)
			}
			days = append(days, n)
		}
		return days, nil
	default:
		return nil, fmt.Errorf("section %q: Days must be an integer array", section)
	}
}
