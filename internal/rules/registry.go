// Package rules builds and queries the set of detection rules: the
// 23 built-in rules plus whatever is loaded from .gitsafe-rules/*.yml,
// filtered by the enable/disable lists in config.
package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Ronak-jain-afk/GitSafe/internal/config"
	"github.com/Ronak-jain-afk/GitSafe/internal/model"
)

// Registry is the central store of detection rules, keyed by id.
type Registry struct {
	rules map[string]*model.Rule
	order []string // registration order, for deterministic iteration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]*model.Rule)}
}

// Register adds or replaces a rule.
func (r *Registry) Register(rule *model.Rule) {
	if _, exists := r.rules[rule.ID]; !exists {
		r.order = append(r.order, rule.ID)
	}
	r.rules[rule.ID] = rule
}

// RegisterMany registers each rule in order.
func (r *Registry) RegisterMany(rs []*model.Rule) {
	for _, rule := range rs {
		r.Register(rule)
	}
}

// All returns every registered rule in registration order.
func (r *Registry) All() []*model.Rule {
	out := make([]*model.Rule, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rules[id])
	}
	return out
}

// Get returns the rule with the given id, or nil.
func (r *Registry) Get(id string) *model.Rule {
	return r.rules[id]
}

// Enabled returns every enabled rule, in registration order.
func (r *Registry) Enabled() []*model.Rule {
	var out []*model.Rule
	for _, rule := range r.All() {
		if rule.Enabled {
			out = append(out, rule)
		}
	}
	return out
}

// ContentRules returns enabled rules that scan line content (regex or
// entropy), excluding pure file-pattern rules.
func (r *Registry) ContentRules() []*model.Rule {
	var out []*model.Rule
	for _, rule := range r.Enabled() {
		if !rule.IsFileRule() {
			out = append(out, rule)
		}
	}
	return out
}

// FileRules returns enabled rules that match by filename.
func (r *Registry) FileRules() []*model.Rule {
	var out []*model.Rule
	for _, rule := range r.Enabled() {
		if rule.IsFileRule() {
			out = append(out, rule)
		}
	}
	return out
}

// ApplyConfig enables/disables rules per cfg.Rules and cfg.Ignore.Rules.
// A disable always wins over an enable, matching the original tool's
// precedence.
func (r *Registry) ApplyConfig(cfg *config.Config) {
	enableSet := toSet(cfg.Rules.Enable)
	disableSet := toSet(cfg.Rules.Disable)
	ignoreSet := toSet(cfg.Ignore.Rules)

	for _, rule := range r.rules {
		if len(enableSet) > 0 {
			_, rule.Enabled = enableSet[rule.ID]
		}
		if _, disabled := disableSet[rule.ID]; disabled {
			rule.Enabled = false
		}
		if _, ignored := ignoreSet[rule.ID]; ignored {
			rule.Enabled = false
		}
	}
}

// MatchFilePatterns returns the file rules whose FilePatterns match
// filepath, tested against both the basename and the full path.
func (r *Registry) MatchFilePatterns(path string) []*model.Rule {
	base := filepath.Base(path)
	var hits []*model.Rule
	for _, rule := range r.FileRules() {
		for _, pat := range rule.FilePatterns {
			if matched, _ := filepath.Match(pat, base); matched {
				hits = append(hits, rule)
				break
			}
			if matched, _ := filepath.Match(pat, path); matched {
				hits = append(hits, rule)
				break
			}
		}
	}
	return hits
}

// LoadCustomRules loads every *.yml/*.yaml file in dir as a list of
// rule definitions, returning the number of rules registered. A
// missing directory is not an error — custom rules are optional.
func (r *Registry) LoadCustomRules(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("rules: reading %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yml" || ext == ".yaml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	count := 0
	for _, name := range names {
		n, err := r.loadYAMLFile(filepath.Join(dir, name))
		if err != nil {
			return count, err
		}
		count += n
	}
	return count, nil
}

// customRuleDef mirrors the YAML shape a .gitsafe-rules/*.yml file
// must use.
type customRuleDef struct {
	ID                string   `yaml:"id"`
	Name              string   `yaml:"name"`
	Description       string   `yaml:"description"`
	Category          string   `yaml:"category"`
	Severity          string   `yaml:"severity"`
	Pattern           string   `yaml:"pattern"`
	FilePatterns      []string `yaml:"file_patterns"`
	MinEntropy        *float64 `yaml:"min_entropy"`
	MinLength         *int     `yaml:"min_length"`
	AllowlistPatterns []string `yaml:"allowlist_patterns"`
}

func (r *Registry) loadYAMLFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("rules: reading %s: %w", path, err)
	}

	var defs []customRuleDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		// A file may define a single rule rather than a list.
		var single customRuleDef
		if err2 := yaml.Unmarshal(data, &single); err2 != nil {
			return 0, fmt.Errorf("rules: parsing %s: %w", path, err)
		}
		defs = []customRuleDef{single}
	}

	count := 0
	for _, def := range defs {
		rule, err := buildCustomRule(def)
		if err != nil {
			return count, fmt.Errorf("rules: %s: %w", path, err)
		}
		r.Register(rule)
		count++
	}
	return count, nil
}

func buildCustomRule(def customRuleDef) (*model.Rule, error) {
	if def.ID == "" {
		return nil, fmt.Errorf("rule missing id")
	}
	name := def.Name
	if name == "" {
		name = def.ID
	}
	category := model.Category(def.Category)
	if category == "" {
		category = model.CategorySecret
	}
	severityLabel := def.Severity
	if severityLabel == "" {
		severityLabel = "medium"
	}
	severity, err := model.ParseSeverity(severityLabel)
	if err != nil {
		return nil, err
	}

	rule := &model.Rule{
		ID:          def.ID,
		Name:        name,
		Description: def.Description,
		Category:    category,
		Severity:    severity,
		Enabled:     true,
		MinEntropy:  def.MinEntropy,
		MinLength:   def.MinLength,
	}

	if def.Pattern != "" {
		pattern, err := regexp.Compile(def.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern for %s: %w", def.ID, err)
		}
		rule.Pattern = pattern
	}
	if len(def.FilePatterns) > 0 {
		rule.FilePatterns = def.FilePatterns
	}
	for _, p := range def.AllowlistPatterns {
		compiled, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compiling allowlist pattern for %s: %w", def.ID, err)
		}
		rule.Allowlist = append(rule.Allowlist, compiled)
	}
	return rule, nil
}

// Build returns a fully populated, config-filtered registry: built-in
// rules, then custom rules from repoRoot/.gitsafe-rules, with
// cfg.Rules/cfg.Ignore applied and every pattern pre-compiled — never
// compiled lazily inside the scan loop.
func Build(cfg *config.Config, repoRoot string) (*Registry, error) {
	reg := NewRegistry()
	reg.RegisterMany(Builtin())

	customDir := filepath.Join(repoRoot, ".gitsafe-rules")
	if _, err := reg.LoadCustomRules(customDir); err != nil {
		return nil, err
	}

	reg.ApplyConfig(cfg)
	return reg, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
