package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/lbdash/internal/status"
	"github.com/rileyhilliard/lbdash/internal/ui"
)

// Formatter renders a snapshot to a writer.
type Formatter interface {
	// Name returns the formatter identifier, as accepted by -o.
	Name() string

	// Write renders snap to w.
	Write(w io.Writer, snap status.Snapshot) error
}

// document is the serialized shape shared by the structured formats. It
// mirrors the status endpoint body.
type document struct {
	Servers status.Snapshot `json:"servers" yaml:"servers" toml:"servers"`
}

// Names lists the supported formats in display order.
var Names = []string{"table", "json", "yaml", "toml"}

// ForName returns the formatter for name. An empty name means table.
func ForName(name string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "table":
		return TableFormatter{}, nil
	case "json":
		return JSONFormatter{}, nil
	case "yaml", "yml":
		return YAMLFormatter{}, nil
	case "toml":
		return TOMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %s)", name, strings.Join(Names, ", "))
	}
}

// TableFormatter renders the human-readable server table.
type TableFormatter struct{}

func (TableFormatter) Name() string { return "table" }

func (TableFormatter) Write(w io.Writer, snap status.Snapshot) error {
	_, err := fmt.Fprintln(w, ui.RenderServerTable(snap))
	return err
}

// JSONFormatter renders the status body as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Write(w io.Writer, snap status.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(document{Servers: snap.Clone()})
}

// YAMLFormatter renders the status body as YAML.
type YAMLFormatter struct{}

func (YAMLFormatter) Name() string { return "yaml" }

func (YAMLFormatter) Write(w io.Writer, snap status.Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Servers: snap.Clone()}); err != nil {
		return err
	}
	return enc.Close()
}

// TOMLFormatter renders each server as a [[servers]] table.
type TOMLFormatter struct{}

func (TOMLFormatter) Name() string { return "toml" }

func (TOMLFormatter) Write(w io.Writer, snap status.Snapshot) error {
	return toml.NewEncoder(w).Encode(document{Servers: snap.Clone()})
}
