package domain

// Placeholders understood by command templates.
const (
	PlaceholderSource = "{{source}}"
	PlaceholderBinary = "{{binary}}"
)

// LanguageProfile describes how to compile and run programs of one language
type LanguageProfile struct {
	ID             string  `json:"id" yaml:"id" toml:"id"`
	Name           string  `json:"name" yaml:"name" toml:"name"`
	Image          string  `json:"image" yaml:"image" toml:"image"`
	CompileCommand *string `json:"compile_command,omitempty" yaml:"compile_command,omitempty" toml:"compile_command,omitempty"`
	RunCommand     string  `json:"run_command" yaml:"run_command" toml:"run_command"`
	FileExtension  string  `json:"file_extension" yaml:"file_extension" toml:"file_extension"`
}

func (p LanguageProfile) NeedsCompile() bool {
	return p.CompileCommand != nil && *p.CompileCommand != ""
}
