// Package render provides output formatting for bioscout-setup commands.
package render

import (
	"encoding/json"
	"io"
)

// SchemaVersion is the version of every JSON envelope written by this package.
const SchemaVersion = "1.0"

// Key states reported by doctor.
const (
	KeySet         = "set"
	KeyPlaceholder = "placeholder"
	KeyMissing     = "missing"
)

// Download tool states reported by doctor.
const (
	ToolAvailable = "available"
	ToolMissing   = "missing"
	ToolBroken    = "broken" // installed but its version check fails
)

// DoctorReport is the public contract for doctor --json output.
type DoctorReport struct {
	// Root is the absolute project root that was inspected.
	Root string `json:"root"`

	EnvFile    EnvFileJSON    `json:"env_file"`
	Dirs       []DirJSON      `json:"dirs"`
	Downloader DownloaderJSON `json:"downloader"`
	Samples    SamplesJSON    `json:"samples"`
	Readme     FileJSON       `json:"readme"`

	// Status is "ok" when every key is set and every directory exists,
	// otherwise "incomplete".
	Status string `json:"status"`
}

// EnvFileJSON describes the .env file and the state of each required key.
type EnvFileJSON struct {
	Path    string `json:"path"`
	Present bool   `json:"present"`
	// Invalid is set when the file exists but cannot be parsed; every key is
	// then reported missing.
	Invalid    bool      `json:"invalid"`
	ParseError string    `json:"parse_error,omitempty"`
	Keys       []KeyJSON `json:"keys"`
}

// KeyJSON is one required key and whether it holds a real value.
type KeyJSON struct {
	Name   string `json:"name"`
	Status string `json:"status"` // set, placeholder, missing
}

// DirJSON is one provisioned directory.
type DirJSON struct {
	Path    string `json:"path"`
	Present bool   `json:"present"`
}

// DownloaderJSON describes the external download tool.
type DownloaderJSON struct {
	Tool      string `json:"tool"`
	Available bool   `json:"available"`
	Status    string `json:"status"` // available, missing, broken
	Version   string `json:"version,omitempty"`
}

// SamplesJSON summarizes the samples directory.
type SamplesJSON struct {
	Dir   string `json:"dir"`
	Files int    `json:"files"`
	Empty int    `json:"empty"` // zero-byte files left by failed downloads
}

// FileJSON describes a generated file.
type FileJSON struct {
	Path    string `json:"path"`
	Present bool   `json:"present"`
}

// DoctorJSONEnvelope is the stable JSON output format for doctor --json.
type DoctorJSONEnvelope struct {
	SchemaVersion string        `json:"schema_version"`
	Data          *DoctorReport `json:"data"`
}

// WriteDoctorJSON writes the doctor report as indented JSON with a trailing newline.
func WriteDoctorJSON(w io.Writer, report *DoctorReport) error {
	if report != nil {
		if report.Dirs == nil {
			report.Dirs = []DirJSON{}
		}
		if report.EnvFile.Keys == nil {
			report.EnvFile.Keys = []KeyJSON{}
		}
	}
	env := DoctorJSONEnvelope{
		SchemaVersion: SchemaVersion,
		Data:          report,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
