package persona

import (
	"fmt"
	"os"

	"github.com/ethanbaker/fanchat/pkg/utils"
	"gopkg.in/yaml.v3"
)

// DefaultAvatar is used when a persona's avatar file is not configured
const DefaultAvatar = "default_assistant.png"

// Persona is a named chat configuration bound to its own backend API key
type Persona struct {
	Name   string `json:"name" yaml:"name"`
	Avatar string `json:"avatar" yaml:"avatar"`

	// KeyEnv names the configuration variable holding the persona's API key
	KeyEnv string `json:"-" yaml:"key_env"`

	apiKey string
}

// APIKey returns the backend key bound to this persona
func (p *Persona) APIKey() string {
	return p.apiKey
}

// personaFile is the structure of the persona configuration file
type personaFile struct {
	Personas []Persona `yaml:"personas"`
}

// Registry holds the personas available for chat. It is read-only after Load
type Registry struct {
	personas []*Persona
	byName   map[string]*Persona
}

// Load reads the persona configuration file and resolves each persona's API
// key from cfg. Personas without a configured key are skipped, matching the
// behavior of only offering personas the operator has provisioned
func Load(path string, cfg *utils.Config) (*Registry, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona config file: %w", err)
	}

	var file personaFile
	if err := yaml.Unmarshal(f, &file); err != nil {
		return nil, fmt.Errorf("failed to parse persona config: %w", err)
	}

	registry := &Registry{
		byName: make(map[string]*Persona),
	}

	for i := range file.Personas {
		p := file.Personas[i]
		if p.Name == "" {
			return nil, fmt.Errorf("persona %d has no name", i+1)
		}
		if p.KeyEnv == "" {
			return nil, fmt.Errorf("persona %q has no key_env", p.Name)
		}

		p.apiKey = cfg.Get(p.KeyEnv)
		if p.apiKey == "" {
			continue
		}
		if p.Avatar == "" {
			p.Avatar = DefaultAvatar
		}

		registry.personas = append(registry.personas, &p)
		registry.byName[p.Name] = &p
	}

	if len(registry.personas) == 0 {
		return nil, fmt.Errorf("no personas have API keys configured")
	}

	return registry, nil
}

// Get returns the persona with the given name
func (r *Registry) Get(name string) (*Persona, error) {
	p, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown persona: %s", name)
	}
	return p, nil
}

// Names returns available persona names in declaration order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.personas))
	for _, p := range r.personas {
		names = append(names, p.Name)
	}
	return names
}

// All returns every available persona in declaration order
func (r *Registry) All() []*Persona {
	return r.personas
}
