package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sweetpotato0/agentchat/groupchat"
)

// TemplateParticipant describes one participant in a chat template.
type TemplateParticipant struct {
	Name                string `yaml:"name"`
	Instructions        string `yaml:"instructions"`
	Role                string `yaml:"role"`
	Priority            int    `yaml:"priority"`
	MaxConsecutiveTurns int    `yaml:"max_consecutive_turns"`
}

// Template describes a reusable group chat setup loaded from YAML.
type Template struct {
	Name                     string                `yaml:"name"`
	Description              string                `yaml:"description"`
	MaxTurns                 int                   `yaml:"max_turns"`
	TerminationKeyword       string                `yaml:"termination_keyword"`
	EnableTerminationKeyword *bool                 `yaml:"enable_termination_keyword"`
	AutoSelectSpeaker        *bool                 `yaml:"auto_select_speaker"`
	Participants             []TemplateParticipant `yaml:"participants"`
}

type templateFile struct {
	GroupChats struct {
		Templates map[string]Template `yaml:"templates"`
	} `yaml:"group_chats"`
}

// TemplateLoader reads group chat templates from a YAML configuration file.
type TemplateLoader struct {
	path      string
	templates map[string]Template
}

// NewTemplateLoader loads and parses the given YAML configuration file.
func NewTemplateLoader(path string) (*TemplateLoader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &TemplateLoader{
		path:      path,
		templates: file.GroupChats.Templates,
	}, nil
}

// Templates returns the names of all available templates.
func (l *TemplateLoader) Templates() []string {
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	return names
}

// Template returns a template by name.
func (l *TemplateLoader) Template(name string) (Template, bool) {
	t, ok := l.templates[name]
	return t, ok
}

// ChatConfig builds a groupchat.ChatConfig from a named template.
func (l *TemplateLoader) ChatConfig(name string) (*groupchat.ChatConfig, error) {
	t, ok := l.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found in %s", name, l.path)
	}

	cfg := groupchat.DefaultChatConfig(name)
	if t.Name != "" {
		cfg.Name = t.Name
	}
	cfg.Description = t.Description
	if t.MaxTurns != 0 {
		cfg.MaxTurns = t.MaxTurns
	}
	if t.TerminationKeyword != "" {
		cfg.TerminationKeyword = t.TerminationKeyword
	}
	if t.EnableTerminationKeyword != nil {
		cfg.EnableTerminationKeyword = *t.EnableTerminationKeyword
	}
	if t.AutoSelectSpeaker != nil {
		cfg.AutoSelectSpeaker = *t.AutoSelectSpeaker
	}
	if err := ValidateChatConfig(&cfg); err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}
	return &cfg, nil
}

// Participants builds participant specifications from a named template.
// Unknown roles fall back to participant.
func (l *TemplateLoader) Participants(name string) ([]groupchat.ParticipantInfo, []TemplateParticipant, error) {
	t, ok := l.templates[name]
	if !ok {
		return nil, nil, fmt.Errorf("template %q not found in %s", name, l.path)
	}

	infos := make([]groupchat.ParticipantInfo, 0, len(t.Participants))
	for _, p := range t.Participants {
		role := groupchat.Role(p.Role)
		if !groupchat.ValidRole(role) {
			role = groupchat.RoleParticipant
		}
		priority := p.Priority
		if priority == 0 {
			priority = 1
		}
		maxTurns := p.MaxConsecutiveTurns
		if maxTurns == 0 {
			maxTurns = 3
		}
		info := groupchat.ParticipantInfo{
			AgentName:           p.Name,
			Role:                role,
			Priority:            priority,
			MaxConsecutiveTurns: maxTurns,
		}
		if err := ValidateParticipant(&info); err != nil {
			return nil, nil, fmt.Errorf("template %q participant %q: %w", name, p.Name, err)
		}
		infos = append(infos, info)
	}
	return infos, t.Participants, nil
}
