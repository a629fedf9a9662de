package model

// ActionKind identifies what an inline action does with a cassette.
type ActionKind string

const (
	// ActionShow opens the cassette read-only.
	ActionShow ActionKind = "show"
	// ActionDelete removes the cassette file.
	ActionDelete ActionKind = "delete"
)

// Title returns the label shown next to a decorator.
func (k ActionKind) Title() string {
	switch k {
	case ActionShow:
		return "📼 Show cassette"
	case ActionDelete:
		return "📼 Delete cassette"
	default:
		return string(k)
	}
}

// Action is an inline action attached to a decorator line. It carries the
// parameters the show and delete handlers need.
type Action struct {
	Kind             ActionKind        `yaml:"kind"`
	Title            string            `yaml:"title"`
	Reference        CassetteReference `yaml:"reference"`
	CassetteRoot     string            `yaml:"cassette_root"`
	ProjectMarkerDir Path              `yaml:"project_dir"`
	Source           Path              `yaml:"source"`
}

// FileLens is the outcome of one scan request for one file.
type FileLens struct {
	Source     Source              `yaml:"-"`
	References []CassetteReference `yaml:"-"`
	Actions    []Action            `yaml:"actions"`
}
