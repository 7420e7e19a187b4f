package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrServiceNotFound = errors.New("service profile not found")
var ErrNoServices = errors.New("no service profiles configured")

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) IsValid() bool {
	return r == RoleSystem || r == RoleUser || r == RoleAssistant
}

func NormalizeRole(r Role) Role {
	r = Role(strings.ToLower(strings.TrimSpace(string(r))))
	if r.IsValid() {
		return r
	}
	return RoleUser
}

type MessagePosition string

const (
	PositionPre  MessagePosition = "pre"
	PositionPost MessagePosition = "post"
)

func (p MessagePosition) IsValid() bool {
	return p == PositionPre || p == PositionPost
}

func NormalizeMessagePosition(p MessagePosition) MessagePosition {
	p = MessagePosition(strings.ToLower(strings.TrimSpace(string(p))))
	if p.IsValid() {
		return p
	}
	return PositionPre
}

// ProfileMessage is a fixed message a service profile adds around every
// prompt.
type ProfileMessage struct {
	Position MessagePosition `json:"position"`
	Role     Role            `json:"role"`
	Texts    []string        `json:"texts"`
}

type Tunes struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"topP"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	FrequencyPenalty float64 `json:"frequencyPenalty"`
	PresencePenalty  float64 `json:"presencePenalty"`
}

func DefaultTunes() Tunes {
	return Tunes{
		Temperature:     0.7,
		TopP:            0.95,
		MaxOutputTokens: 128000,
	}
}

type ServiceProfile struct {
	Name           string           `json:"name"`
	Endpoint       string           `json:"endpoint"`
	APIKey         string           `json:"apiKey"`
	APIVersion     string           `json:"apiVersion"`
	Model          string           `json:"model"`
	Proxy          string           `json:"proxy"`
	TimeoutSeconds int              `json:"timeoutSeconds"`
	Tunes          Tunes            `json:"tunes"`
	Messages       []ProfileMessage `json:"messages"`
}

type Config struct {
	Default  string                    `json:"default"`
	Services map[string]ServiceProfile `json:"services"`
}

// Service returns the named profile, or the default one when name is empty.
func (c Config) Service(name string) (ServiceProfile, error) {
	if len(c.Services) == 0 {
		return ServiceProfile{}, ErrNoServices
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.Default
	}
	if name == "" {
		names := c.ServiceNames()
		if len(names) > 1 {
			return ServiceProfile{}, fmt.Errorf("service name required, have %s: %w", strings.Join(names, ", "), ErrServiceNotFound)
		}
		name = names[0]
	}
	for key, profile := range c.Services {
		if strings.EqualFold(key, name) {
			return profile, nil
		}
	}
	return ServiceProfile{}, fmt.Errorf("%s: %w", name, ErrServiceNotFound)
}

func (c Config) ServiceNames() []string {
	names := make([]string, 0, len(c.Services))
	for name := range c.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
