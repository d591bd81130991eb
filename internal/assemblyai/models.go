package assemblyai

import (
	"sort"
	"strings"

	"github.com/auralynx/auralynx/internal/apperr"
)

const DefaultModel = "universal"

type Model struct {
	Name string
	// Beta models may finish without word-level data.
	Beta bool
}

var registry = map[string]Model{
	"universal": {Name: "universal"},
	"slam-1":    {Name: "slam-1", Beta: true},
}

func ModelNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func LookupModel(name string) (Model, bool) {
	model, ok := registry[name]
	return model, ok
}

// ResolveModel returns the named speech model or an InvalidModel error.
func ResolveModel(name string) (Model, error) {
	if model, ok := LookupModel(name); ok {
		return model, nil
	}
	return Model{}, apperr.New(apperr.KindInvalidModel, "Invalid model '%s' | Allowed: %s", name, strings.Join(ModelNames(), ", "))
}

// DefaultOptions are the transcription request fields sent with every job.
func DefaultOptions(model Model) map[string]any {
	return map[string]any{
		"speech_model": model.Name,
		"format_text":  true,
		"punctuate":    true,
	}
}
