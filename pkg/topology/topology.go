package topology

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/travigo/crowding/pkg/ctdf"
	"gopkg.in/yaml.v3"
)

//go:embed lines.yaml
var bundledLines []byte

var (
	ErrLineNotFound    = errors.New("line not found in topology catalogue")
	ErrStationNotFound = errors.New("station not found on line")
)

type Station struct {
	ID   string `yaml:"id" json:"id" validate:"required,startswith=940G"`
	Name string `yaml:"name" json:"name" validate:"required"`
}

// ShortName drops the " Underground Station" suffix TfL puts on every common name
func (s Station) ShortName() string {
	return strings.TrimSuffix(s.Name, " Underground Station")
}

type Directions struct {
	Inbound  string `yaml:"inbound" json:"inbound"`
	Outbound string `yaml:"outbound" json:"outbound"`
}

// Line is the fixed carriage layout of a line plus the stations we can query on it.
// Lines are shared between requests and must never be modified after Load.
type Line struct {
	ID            string             `yaml:"id" json:"id" validate:"required"`
	Name          string             `yaml:"name" json:"name" validate:"required"`
	Colour        string             `yaml:"colour" json:"colour" validate:"omitempty,hexcolor"`
	TransportType ctdf.TransportType `yaml:"transportType" json:"transportType" validate:"required,oneof=Metro Rail Tram"`

	CarriageCount  int      `yaml:"carriageCount" json:"carriageCount" validate:"gt=0"`
	CarriageLabels []string `yaml:"carriageLabels" json:"carriageLabels" validate:"required,dive,required"`

	Directions Directions `yaml:"directions" json:"directions"`
	Stations   []Station  `yaml:"stations" json:"stations" validate:"required,min=1,dive"`
}

type catalogFile struct {
	Lines []Line `yaml:"lines" validate:"required,min=1,dive"`
}

type Catalog struct {
	lines []*Line
	byID  map[string]*Line
}

// Default returns the catalogue bundled into the binary
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(bundledLines))
}

func Load(reader io.Reader) (*Catalog, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	var file catalogFile
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding line catalogue: %w", err)
	}

	validate := validator.New()
	validate.RegisterStructValidation(validateLine, Line{})
	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid line catalogue: %w", err)
	}

	catalog := &Catalog{
		byID: map[string]*Line{},
	}

	for i := range file.Lines {
		line := &file.Lines[i]

		if _, exists := catalog.byID[line.ID]; exists {
			return nil, fmt.Errorf("invalid line catalogue: duplicate line %q", line.ID)
		}

		catalog.lines = append(catalog.lines, line)
		catalog.byID[line.ID] = line
	}

	return catalog, nil
}

func validateLine(sl validator.StructLevel) {
	line := sl.Current().Interface().(Line)

	if len(line.CarriageLabels) != line.CarriageCount {
		sl.ReportError(line.CarriageLabels, "carriageLabels", "CarriageLabels", "carriagelabels", fmt.Sprint(line.CarriageCount))
	}

	seen := map[string]bool{}
	for _, station := range line.Stations {
		if seen[station.ID] {
			sl.ReportError(line.Stations, "stations", "Stations", "unique", station.ID)
		}
		seen[station.ID] = true
	}
}

// Lookup is the only way a line id reaches the upstream API, unknown ids are rejected
func (c *Catalog) Lookup(lineID string) (*Line, error) {
	line, ok := c.byID[lineID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLineNotFound, lineID)
	}

	return line, nil
}

func (c *Catalog) Lines() []*Line {
	lines := make([]*Line, len(c.lines))
	copy(lines, c.lines)

	return lines
}
