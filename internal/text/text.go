// Package text provides loading and lookup for externalized quest text:
// quest titles, per-stage objectives, NPC lines and game messages.
package text

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// TextData represents the structure of a text YAML file.
type TextData struct {
	Quests   map[string]QuestText `yaml:"quests"`
	Messages map[string]string    `yaml:"messages"`
}

// QuestText is the quest log text for one quest kind.
type QuestText struct {
	Title      string            `yaml:"title"`
	Objectives map[string]string `yaml:"objectives"`
}

// Text provides text lookup functionality. A nil *Text answers from the
// built-in defaults.
type Text struct {
	data *TextData
	mu   sync.RWMutex
}

var (
	defaults     *Text
	defaultsOnce sync.Once
)

// Default returns the built-in text.
func Default() *Text {
	defaultsOnce.Do(func() {
		var data TextData
		if err := yaml.Unmarshal(defaultsYAML, &data); err != nil {
			panic(fmt.Sprintf("text: built-in defaults do not parse: %v", err))
		}
		defaults = &Text{data: &data}
	})
	return defaults
}

// Load loads text from a YAML file on top of the built-in defaults. Keys the
// file leaves out keep their default text.
func Load(path string) (*Text, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}

	var override TextData
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, fmt.Errorf("failed to parse text file: %w", err)
	}

	merged := Default().clone()
	for kind, q := range override.Quests {
		base := merged.Quests[kind]
		if q.Title != "" {
			base.Title = q.Title
		}
		if base.Objectives == nil {
			base.Objectives = make(map[string]string)
		}
		for stage, objective := range q.Objectives {
			base.Objectives[stage] = objective
		}
		merged.Quests[kind] = base
	}
	for key, msg := range override.Messages {
		merged.Messages[key] = msg
	}

	return &Text{data: merged}, nil
}

func (t *Text) clone() *TextData {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := &TextData{
		Quests:   make(map[string]QuestText, len(t.data.Quests)),
		Messages: make(map[string]string, len(t.data.Messages)),
	}
	for kind, q := range t.data.Quests {
		objectives := make(map[string]string, len(q.Objectives))
		for stage, objective := range q.Objectives {
			objectives[stage] = objective
		}
		out.Quests[kind] = QuestText{Title: q.Title, Objectives: objectives}
	}
	for key, msg := range t.data.Messages {
		out.Messages[key] = msg
	}
	return out
}

func (t *Text) orDefault() *Text {
	if t == nil {
		return Default()
	}
	return t
}

// Get returns the message for key. Unknown keys come back as the key itself
// so a missing line is visible in game rather than blank.
func (t *Text) Get(key string) string {
	t = t.orDefault()
	t.mu.RLock()
	defer t.mu.RUnlock()

	msg, ok := t.data.Messages[key]
	if !ok {
		return key
	}
	return strings.TrimSpace(msg)
}

// Format returns the message for key with args substituted.
func (t *Text) Format(key string, args ...any) string {
	return fmt.Sprintf(t.Get(key), args...)
}

// Title returns the quest log title for a quest kind.
func (t *Text) Title(kind string) string {
	t = t.orDefault()
	t.mu.RLock()
	defer t.mu.RUnlock()

	q, ok := t.data.Quests[kind]
	if !ok || q.Title == "" {
		return kind
	}
	return q.Title
}

// Objective returns the quest log objective for a quest kind at a stage,
// or "" if none is defined.
func (t *Text) Objective(kind, stage string) string {
	t = t.orDefault()
	t.mu.RLock()
	defer t.mu.RUnlock()

	return strings.TrimSpace(t.data.Quests[kind].Objectives[stage])
}

// MessageKeys returns every message key, sorted.
func (t *Text) MessageKeys() []string {
	t = t.orDefault()
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]string, 0, len(t.data.Messages))
	for k := range t.data.Messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
