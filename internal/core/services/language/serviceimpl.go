package language

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
)

var _ ILanguageRegistry = (*Registry)(nil)

// Registry is an immutable table of language profiles built once at startup
type Registry struct {
	profiles map[string]domain.LanguageProfile
}

// NewRegistry copies profiles into a registry keyed by normalized id.
// It rejects profiles without an image, run command or file extension.
func NewRegistry(profiles map[string]domain.LanguageProfile) (*Registry, error) {
	table := make(map[string]domain.LanguageProfile, len(profiles))
	for key, p := range profiles {
		if p.ID == "" {
			p.ID = key
		}
		id := normalize(p.ID)
		if id == "" {
			return nil, fmt.Errorf("language profile %q has no id", key)
		}
		if p.Image == "" || strings.TrimSpace(p.RunCommand) == "" || p.FileExtension == "" {
			return nil, fmt.Errorf("language profile %q is incomplete", id)
		}
		if _, dup := table[id]; dup {
			return nil, fmt.Errorf("duplicate language profile %q", id)
		}
		p.ID = id
		if p.Name == "" {
			p.Name = id
		}
		if p.CompileCommand != nil {
			cmd := *p.CompileCommand
			p.CompileCommand = &cmd
		}
		table[id] = p
	}
	return &Registry{profiles: table}, nil
}

func (r *Registry) Resolve(languageID string) (domain.LanguageProfile, error) {
	p, ok := r.profiles[normalize(languageID)]
	if !ok {
		return domain.LanguageProfile{}, fmt.Errorf("%w: %q", errs.ErrUnsupportedLanguage, languageID)
	}
	return p, nil
}

func (r *Registry) List() []domain.LanguageProfile {
	list := make([]domain.LanguageProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (r *Registry) Images() []string {
	images := mapset.NewThreadUnsafeSet[string]()
	for _, p := range r.profiles {
		images.Add(p.Image)
	}
	list := images.ToSlice()
	sort.Strings(list)
	return list
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
