package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"paneldeck/internal/dashboard"
	"paneldeck/internal/tabs"
)

// ManifestVersion is the current workspace manifest format version.
const ManifestVersion = "1"

//go:embed default.yaml
var defaultManifest []byte

//go:embed schema.json
var manifestSchema []byte

// Manifest describes one workspace: its tabs, the shared row templates, the
// notification feed, the initial settings and the account profile.
type Manifest struct {
	Version       string         `json:"version" yaml:"version"`
	Name          string         `json:"name,omitempty" yaml:"name,omitempty"`
	Tabs          []TabEntry     `json:"tabs" yaml:"tabs"`
	Templates     TemplateEntry  `json:"templates" yaml:"templates"`
	Notifications []Notification `json:"notifications,omitempty" yaml:"notifications,omitempty"`
	Settings      SettingsEntry  `json:"settings" yaml:"settings"`
	Account       Account        `json:"account" yaml:"account"`
	Source        string         `json:"-" yaml:"-"`
}

// TabEntry is one tab descriptor.
type TabEntry struct {
	ID         int               `json:"id" yaml:"id"`
	Title      string            `json:"title" yaml:"title"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// TemplateEntry holds the main and section row templates.
type TemplateEntry struct {
	Main         [][]CellEntry `json:"main,omitempty" yaml:"main,omitempty"`
	Section      [][]CellEntry `json:"section,omitempty" yaml:"section,omitempty"`
	SectionTitle string        `json:"sectionTitle,omitempty" yaml:"sectionTitle,omitempty"`
}

// CellEntry is one template cell. Marker cells take their value from the
// tab's attributes.
type CellEntry struct {
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
	Marker string `json:"marker,omitempty" yaml:"marker,omitempty"`
}

// Notification is one item in the notification panel.
type Notification struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body,omitempty" yaml:"body,omitempty"`
}

// SettingsEntry seeds the settings dialog.
type SettingsEntry struct {
	Notifications map[string]bool `json:"notifications,omitempty" yaml:"notifications,omitempty"`
	Frequency     string          `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	Time          string          `json:"time,omitempty" yaml:"time,omitempty"`
}

// Account is the signed-in profile shown in the account menu.
type Account struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// LoadManifest reads the manifest at path, or the embedded default when
// path is empty.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return DefaultManifest()
	}
	return ReadManifest(path)
}

// DefaultManifest returns the embedded workspace.
func DefaultManifest() (*Manifest, error) {
	m, err := DecodeManifest(bytes.NewReader(defaultManifest))
	if err != nil {
		return nil, err
	}
	m.Source = "default"
	return m, nil
}

// ReadManifest loads a manifest file from disk.
func ReadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("config: open manifest %s: %w", path, err)
	}
	defer f.Close()
	m, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("config: decode manifest %s: %w", path, err)
	}
	m.Source = path
	return m, nil
}

// DecodeManifest reads, defaults and validates a manifest. Unknown fields
// are rejected.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var m Manifest
	if err := decoder.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: manifest is empty")
		}
		return nil, fmt.Errorf("config: parse manifest: %w", err)
	}
	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Version == "" {
		m.Version = ManifestVersion
	}
	if m.Settings.Frequency == "" {
		m.Settings.Frequency = string(dashboard.Daily)
	}
	if m.Settings.Time == "" {
		m.Settings.Time = string(dashboard.Morning)
	}
	for _, n := range m.Notifications {
		if m.Settings.Notifications == nil {
			m.Settings.Notifications = make(map[string]bool, len(m.Notifications))
		}
		if _, ok := m.Settings.Notifications[n.ID]; !ok {
			m.Settings.Notifications[n.ID] = true
		}
	}
}

// Validate checks the manifest against the embedded JSON schema, then the
// rules the schema cannot express.
func (m *Manifest) Validate() error {
	if err := validateSchema(m); err != nil {
		return err
	}
	seen := make(map[int]struct{}, len(m.Tabs))
	for i, t := range m.Tabs {
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("config: manifest duplicates tab id %d (index %d)", t.ID, i)
		}
		seen[t.ID] = struct{}{}
	}
	notes := make(map[string]struct{}, len(m.Notifications))
	for _, n := range m.Notifications {
		if _, dup := notes[n.ID]; dup {
			return fmt.Errorf("config: manifest duplicates notification %s", n.ID)
		}
		notes[n.ID] = struct{}{}
	}
	return nil
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func validateSchema(m *Manifest) error {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("manifest.json", bytes.NewReader(manifestSchema)); err != nil {
			schemaErr = fmt.Errorf("config: load manifest schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("manifest.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("config: compile manifest schema: %w", schemaErr)
		}
	})
	if schemaErr != nil {
		return schemaErr
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("config: marshal manifest: %w", err)
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("config: normalize manifest: %w", err)
	}
	if err := compiledSchema.Validate(payload); err != nil {
		return fmt.Errorf("config: manifest failed validation: %w", err)
	}
	return nil
}

// Descriptors converts the tab entries.
func (m *Manifest) Descriptors() []tabs.Descriptor {
	out := make([]tabs.Descriptor, len(m.Tabs))
	for i, t := range m.Tabs {
		out[i] = tabs.Descriptor{ID: t.ID, Title: t.Title, Attributes: t.Attributes}.Clone()
	}
	return out
}

// TabTemplates converts the row templates.
func (m *Manifest) TabTemplates() (tabs.Templates, error) {
	mainRows, err := rowTemplate(m.Templates.Main)
	if err != nil {
		return tabs.Templates{}, err
	}
	section, err := rowTemplate(m.Templates.Section)
	if err != nil {
		return tabs.Templates{}, err
	}
	return tabs.Templates{Main: mainRows, Section: section, SectionTitle: m.Templates.SectionTitle}, nil
}

func rowTemplate(rows [][]CellEntry) (tabs.RowTemplate, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	out := make(tabs.RowTemplate, len(rows))
	for i, row := range rows {
		out[i] = make([]tabs.CellSpec, len(row))
		for j, c := range row {
			marker, err := tabs.ParseMarker(c.Marker)
			if err != nil {
				return nil, fmt.Errorf("config: template row %d cell %d: %w", i, j, err)
			}
			out[i][j] = tabs.CellSpec{Label: c.Label, Value: c.Value, Marker: marker}
		}
	}
	return out, nil
}

// Store builds the tab store for the manifest.
func (m *Manifest) Store() (*tabs.Store, error) {
	tpl, err := m.TabTemplates()
	if err != nil {
		return nil, err
	}
	return tabs.NewStore(m.Descriptors(), tpl), nil
}

// InitialSettings returns the settings seeded by the manifest.
func (m *Manifest) InitialSettings() (dashboard.Settings, error) {
	freq, err := dashboard.ParseFrequency(m.Settings.Frequency)
	if err != nil {
		return dashboard.Settings{}, fmt.Errorf("config: %w", err)
	}
	tod, err := dashboard.ParseTimeOfDay(m.Settings.Time)
	if err != nil {
		return dashboard.Settings{}, fmt.Errorf("config: %w", err)
	}
	s := dashboard.Settings{
		Notifications: m.Settings.Notifications,
		Preferences:   dashboard.Preferences{Frequency: freq, Time: tod},
	}
	return s.Clone(), nil
}
