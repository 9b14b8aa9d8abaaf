package encode

import "github.com/fatih/color"

// Colors maps document elements to sprintf-style colorizers.
type Colors struct {
	Field  func(string, ...any) string
	String func(string, ...any) string
	Number func(string, ...any) string
	Bool   func(string, ...any) string
	Null   func(string, ...any) string
	Tag    func(string, ...any) string
}

func NewColors() *Colors {
	return &Colors{
		Field:  color.RGB(196, 96, 16).SprintfFunc(),
		String: color.RGB(64, 160, 96).SprintfFunc(),
		Number: color.RGB(128, 216, 236).SprintfFunc(),
		Bool:   color.RGB(128, 216, 236).SprintfFunc(),
		Null:   color.RGB(128, 128, 128).SprintfFunc(),
		Tag:    color.RGB(74, 92, 138).SprintfFunc(),
	}
}
