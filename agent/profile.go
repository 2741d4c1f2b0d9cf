package agent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Profile describes a persona as a plain value. Two agents constructed from
// the same profile behave identically apart from their names.
type Profile struct {
	Name         string   `yaml:"name" json:"name"`
	Role         string   `yaml:"role" json:"role"`
	Description  string   `yaml:"description" json:"description"`
	Model        string   `yaml:"model" json:"model"`
	SystemPrompt string   `yaml:"system_prompt" json:"system_prompt"`
	Capabilities []string `yaml:"capabilities" json:"capabilities"`
}

// Validate reports whether the profile carries the minimum required fields.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile requires a name")
	}
	if p.SystemPrompt == "" {
		return fmt.Errorf("profile %q requires a system prompt", p.Name)
	}
	return nil
}

// LoadProfile reads a profile from a YAML (.yaml/.yml) or JSON (.json) file.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &p); err != nil {
			return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
		}
	default:
		return Profile{}, fmt.Errorf("unsupported profile format %q", ext)
	}

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// ResearcherProfile returns the stock research persona.
func ResearcherProfile(name string) Profile {
	return Profile{
		Name:        name,
		Role:        "researcher",
		Description: "Specialized agent for research and information gathering",
		SystemPrompt: `You are an expert research agent specializing in information gathering and analysis.
Conduct thorough research, cross-reference sources, distinguish facts from speculation,
and present findings in a clear structure with citations.`,
		Capabilities: []string{"research", "search", "analyze", "summarize", "fact-check"},
	}
}

// CoderProfile returns the stock coding persona.
func CoderProfile(name string) Profile {
	return Profile{
		Name:        name,
		Role:        "coder",
		Description: "Specialized agent for writing and refactoring code",
		SystemPrompt: `You are an expert software engineering agent. Write clean, idiomatic,
well-tested code. Explain non-obvious decisions, handle errors explicitly and
prefer small composable functions.`,
		Capabilities: []string{"code", "implement", "debug", "refactor", "program"},
	}
}

// TesterProfile returns the stock testing persona.
func TesterProfile(name string) Profile {
	return Profile{
		Name:        name,
		Role:        "tester",
		Description: "Specialized agent for testing and quality assurance",
		SystemPrompt: `You are an expert QA agent. Design test plans that cover happy paths,
edge cases and failure modes. Report defects with minimal reproduction steps.`,
		Capabilities: []string{"test", "qa", "validate", "verify"},
	}
}

// WriterProfile returns the stock writing persona.
func WriterProfile(name string) Profile {
	return Profile{
		Name:        name,
		Role:        "writer",
		Description: "Specialized agent for writing and documentation",
		SystemPrompt: `You are an expert technical writer. Produce clear, well-organized prose
matched to the target audience. Prefer short sentences and concrete examples.`,
		Capabilities: []string{"write", "document", "draft", "edit"},
	}
}

// ReviewerProfile returns the stock review persona.
func ReviewerProfile(name string) Profile {
	return Profile{
		Name:        name,
		Role:        "reviewer",
		Description: "Specialized agent for code and content review",
		SystemPrompt: `You are an expert review agent. Assess correctness, clarity and
maintainability. Point out concrete problems with suggested fixes, ordered by severity.`,
		Capabilities: []string{"review", "critique", "audit", "assess"},
	}
}
