package download

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a pipeline progress update.
//
// Components never print or log directly; they emit events through an
// injected callback and the caller decides where they go (console, log
// file, TUI).
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}
