// Package research loads the static lookup corpora the generators sample
// from: company profiles, person names, job titles, project templates, and
// the benchmarks table. Defaults are embedded; a directory override replaces
// them file by file, and an absent override file is a startup error.
package research

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var defaultsFS embed.FS

type Company struct {
	Name     string `yaml:"name"`
	TeamSize int    `yaml:"team_size"`
	Industry string `yaml:"industry"`
}

type ProjectTemplate struct {
	Type     string   `yaml:"type"`
	Weight   float64  `yaml:"weight"`
	MinDays  int      `yaml:"min_days"`
	MaxDays  int      `yaml:"max_days"`
	Names    []string `yaml:"names"`
	Sections []string `yaml:"sections"`
}

// Data is the full read-only lookup set.
type Data struct {
	Companies  []Company
	FirstNames []string
	LastNames  []string
	JobTitles  map[string][]string
	Templates  []ProjectTemplate
	Benchmarks *Benchmarks
}

// Load builds the lookup set. With dir empty the embedded defaults are used;
// otherwise every file is read from dir and a missing file is fatal.
func Load(dir string) (*Data, error) {
	read := func(name string) ([]byte, error) {
		if dir == "" {
			return defaultsFS.ReadFile("data/" + name)
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("research file %s: %w", name, err)
		}
		return data, nil
	}

	d := &Data{}

	raw, err := read("companies.yaml")
	if err != nil {
		return nil, err
	}
	var companies struct {
		Companies []Company `yaml:"companies"`
	}
	if err := yaml.Unmarshal(raw, &companies); err != nil {
		return nil, fmt.Errorf("companies.yaml: %w", err)
	}
	d.Companies = companies.Companies

	raw, err = read("names.yaml")
	if err != nil {
		return nil, err
	}
	var names struct {
		FirstNames []string `yaml:"first_names"`
		LastNames  []string `yaml:"last_names"`
	}
	if err := yaml.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("names.yaml: %w", err)
	}
	d.FirstNames, d.LastNames = names.FirstNames, names.LastNames

	raw, err = read("job_titles.yaml")
	if err != nil {
		return nil, err
	}
	var titles struct {
		JobTitles map[string][]string `yaml:"job_titles"`
	}
	if err := yaml.Unmarshal(raw, &titles); err != nil {
		return nil, fmt.Errorf("job_titles.yaml: %w", err)
	}
	d.JobTitles = titles.JobTitles

	raw, err = read("project_templates.yaml")
	if err != nil {
		return nil, err
	}
	var templates struct {
		Templates []ProjectTemplate `yaml:"templates"`
	}
	if err := yaml.Unmarshal(raw, &templates); err != nil {
		return nil, fmt.Errorf("project_templates.yaml: %w", err)
	}
	d.Templates = templates.Templates

	raw, err = read("benchmarks.yaml")
	if err != nil {
		return nil, err
	}
	if d.Benchmarks, err = ParseBenchmarks(raw); err != nil {
		return nil, err
	}

	return d, d.Validate()
}

// Validate ensures every corpus is non-empty before generation starts.
func (d *Data) Validate() error {
	if len(d.Companies) == 0 {
		return fmt.Errorf("research: companies list is empty")
	}
	if len(d.FirstNames) == 0 || len(d.LastNames) == 0 {
		return fmt.Errorf("research: name lists are empty")
	}
	if len(d.JobTitles) == 0 {
		return fmt.Errorf("research: job titles are empty")
	}
	for dept, list := range d.JobTitles {
		if len(list) == 0 {
			return fmt.Errorf("research: job titles for %s are empty", dept)
		}
	}
	if len(d.Templates) == 0 {
		return fmt.Errorf("research: project templates are empty")
	}
	for _, t := range d.Templates {
		if t.Type == "" || t.MinDays <= 0 || t.MaxDays < t.MinDays {
			return fmt.Errorf("research: project template %q has invalid duration range", t.Type)
		}
		if len(t.Sections) == 0 {
			return fmt.Errorf("research: project template %q has no sections", t.Type)
		}
	}
	if d.Benchmarks == nil {
		return fmt.Errorf("research: benchmarks missing")
	}
	return nil
}

// Template returns the template for a project type, or nil.
func (d *Data) Template(projectType string) *ProjectTemplate {
	for i := range d.Templates {
		if d.Templates[i].Type == projectType {
			return &d.Templates[i]
		}
	}
	return nil
}
