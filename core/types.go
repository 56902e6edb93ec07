package core

import (
	"errors"

	"github.com/oxhq/cs2hx/providers"
	"github.com/oxhq/cs2hx/translator"
)

// FileScope defines which files a run reads.
type FileScope struct {
	Path           string   `json:"path"`                // file or directory to scan
	Include        []string `json:"include,omitempty"`   // doublestar patterns, e.g. **/*.cs
	Exclude        []string `json:"exclude,omitempty"`   // patterns to skip, e.g. **/obj/**
	MaxDepth       int      `json:"max_depth,omitempty"` // 0 = unlimited
	MaxFiles       int      `json:"max_files,omitempty"` // 0 = unlimited
	FollowSymlinks bool     `json:"follow_symlinks"`
	Gitignore      bool     `json:"gitignore"`          // skip files matched by the root .gitignore
	Language       string   `json:"language,omitempty"` // detected from the extension if empty
}

// ErrorCode is the machine-readable class of a unit failure, used in JSON
// output and run history.
type ErrorCode string

const (
	ECNone      ErrorCode = ""
	ECRead      ErrorCode = "ERR_READ_FILE"
	ECParse     ErrorCode = "ERR_PARSE"
	ECTranslate ErrorCode = "ERR_TRANSLATE"
	ECWrite     ErrorCode = "ERR_WRITE"
	ECConfig    ErrorCode = "ERR_CONFIG"
	ECUnknown   ErrorCode = "ERR_UNKNOWN"
)

// CodeOf classifies err.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ECNone
	}
	var pe *providers.ParseError
	var te *translator.Error
	var we *WriteError
	var re *ReadError
	switch {
	case errors.As(err, &pe):
		return ECParse
	case errors.As(err, &te):
		return ECTranslate
	case errors.As(err, &we):
		return ECWrite
	case errors.As(err, &re):
		return ECRead
	}
	return ECUnknown
}

// ReadError wraps a failure to read a source file.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return "read " + e.Path + ": " + e.Err.Error() }
func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps a failure to write a generated file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return "write " + e.Path + ": " + e.Err.Error() }
func (e *WriteError) Unwrap() error { return e.Err }

// OutputFile is one Haxe file generated from a unit.
type OutputFile struct {
	Path    string `json:"path"` // absolute or relative to the working directory
	Written bool   `json:"written"`
	Diff    string `json:"diff,omitempty"`
	Size    int    `json:"size"`
	Content string `json:"-"`
}

// UnitResult is the outcome of translating one source file. A failed unit
// has no outputs.
type UnitResult struct {
	Path       string       `json:"path"`
	Language   string       `json:"language"`
	Outputs    []OutputFile `json:"outputs,omitempty"`
	Code       ErrorCode    `json:"code,omitempty"`
	Error      string       `json:"error,omitempty"`
	DurationMS int64        `json:"duration_ms"`
}

// Failed reports whether the unit produced an error.
func (u UnitResult) Failed() bool { return u.Code != ECNone }

// RunResult aggregates one translate run. Units are sorted by path.
type RunResult struct {
	Units        []UnitResult `json:"units"`
	Translated   int          `json:"translated"`
	Failed       int          `json:"failed"`
	FilesWritten int          `json:"files_written"`
	DryRun       bool         `json:"dry_run"`
	DurationMS   int64        `json:"duration_ms"`
}

// OK reports whether every unit translated.
func (r *RunResult) OK() bool { return r.Failed == 0 }
