package parser

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Columns names the header cells of the six BOM columns.
type Columns struct {
	Level       string `yaml:"level"`
	Item        string `yaml:"item"`
	Description string `yaml:"description"`
	Quantity    string `yaml:"quantity"`
	RefDes      string `yaml:"ref_des"`
	Seq         string `yaml:"seq"`
}

// Profile describes where a BOM table sits inside a sheet.
type Profile struct {
	Name string `yaml:"name"`

	// Anchor is the first-column cell of the row right above the header.
	// Empty means the header is the first row.
	Anchor string `yaml:"anchor"`
	// SkipRows are dropped between the header and the first data row.
	SkipRows int `yaml:"skip_rows"`
	// Trailer is the first-column cell that ends the table; data stops
	// TrailerGap rows before it. Without a trailer row data runs to the end.
	Trailer    string `yaml:"trailer"`
	TrailerGap int    `yaml:"trailer_gap"`

	Columns Columns `yaml:"columns"`
}

// Built-in profiles.
var (
	Simple = Profile{
		Name:       "simple",
		SkipRows:   1,
		Trailer:    "Manufacturers",
		TrailerGap: 2,
		Columns: Columns{
			Level:       "Level",
			Item:        "Number",
			Description: "Description",
			Quantity:    "BOM.Qty",
			RefDes:      "BOM.Ref Des",
			Seq:         "BOM.Item Seq",
		},
	}
	Standard = Profile{
		Name:       "standard",
		Anchor:     "BOM",
		Trailer:    "Manufacturers",
		TrailerGap: 2,
		Columns: Columns{
			Level:       "Level",
			Item:        "Item Number",
			Description: "Item Description",
			Quantity:    "Qty",
			RefDes:      "Ref Des",
			Seq:         "Item Seq",
		},
	}
	Plain = Profile{
		Name: "plain",
		Columns: Columns{
			Level:       "Level",
			Item:        "Item",
			Description: "Description",
			Quantity:    "Qty",
			RefDes:      "Ref Des",
			Seq:         "Seq",
		},
	}
)

// Profiles is a registry of format profiles by name.
type Profiles map[string]Profile

// DefaultProfiles returns the built-in profiles.
func DefaultProfiles() Profiles {
	return Profiles{
		Simple.Name:   Simple,
		Standard.Name: Standard,
		Plain.Name:    Plain,
	}
}

// Lookup returns the profile registered under name.
func (ps Profiles) Lookup(name string) (Profile, error) {
	p, ok := ps[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q", name)
	}
	return p, nil
}

// Names returns the registered profile names, sorted.
func (ps Profiles) Names() []string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadProfiles reads extra profiles from YAML and registers them on top of
// the built-ins. The document is a list of profiles.
func LoadProfiles(r io.Reader) (Profiles, error) {
	var extra []Profile
	if err := yaml.NewDecoder(r).Decode(&extra); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	ps := DefaultProfiles()
	for i, p := range extra {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
		ps[p.Name] = p
	}
	return ps, nil
}

// LoadProfilesFile is LoadProfiles on a file path. An empty path yields the
// built-ins.
func LoadProfilesFile(path string) (Profiles, error) {
	if path == "" {
		return DefaultProfiles(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profiles: %w", err)
	}
	defer f.Close()
	return LoadProfiles(f)
}

func (p Profile) validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.SkipRows < 0 || p.TrailerGap < 0 {
		return fmt.Errorf("%s: skip_rows and trailer_gap must not be negative", p.Name)
	}
	c := p.Columns
	for _, col := range []string{c.Level, c.Item, c.Description, c.Quantity, c.RefDes, c.Seq} {
		if col == "" {
			return fmt.Errorf("%s: all six columns must be named", p.Name)
		}
	}
	return nil
}
