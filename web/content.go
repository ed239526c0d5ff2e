package web

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Content is the constant copy rendered by every section.
type Content struct {
	Site       SiteMeta          `yaml:"site"`
	Hero       Hero              `yaml:"hero"`
	Pain       Pain              `yaml:"pain"`
	Calculator CalculatorContent `yaml:"calculator"`
	Comparison Comparison        `yaml:"comparison"`
	Guarantee  Guarantee         `yaml:"guarantee"`
	Decision   Decision          `yaml:"decision"`
	Waitlist   WaitlistContent   `yaml:"waitlist"`
	Footer     Footer            `yaml:"footer"`
}

type SiteMeta struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
	Locale      string `yaml:"locale"`
}

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type Hero struct {
	Eyebrow      string `yaml:"eyebrow"`
	Headline     string `yaml:"headline"`
	Subheadline  string `yaml:"subheadline"`
	PrimaryCTA   Link   `yaml:"primary_cta"`
	SecondaryCTA Link   `yaml:"secondary_cta"`
}

type Point struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type Pain struct {
	Heading string  `yaml:"heading"`
	Points  []Point `yaml:"points"`
}

type CalculatorContent struct {
	Heading  string          `yaml:"heading"`
	Note     string          `yaml:"note"`
	Defaults CalculatorInput `yaml:"defaults"`
}

type ComparisonRow struct {
	Feature string   `yaml:"feature"`
	Values  []string `yaml:"values"`
}

type Comparison struct {
	Heading string          `yaml:"heading"`
	Columns []string        `yaml:"columns"`
	Rows    []ComparisonRow `yaml:"rows"`
}

type Guarantee struct {
	Heading      string `yaml:"heading"`
	Body         string `yaml:"body"`
	SLALinkLabel string `yaml:"sla_link_label"`
}

type Decision struct {
	Heading string  `yaml:"heading"`
	Options []Point `yaml:"options"`
}

type WaitlistContent struct {
	Heading     string `yaml:"heading"`
	Body        string `yaml:"body"`
	ButtonLabel string `yaml:"button_label"`
	Success     string `yaml:"success"`
	Error       string `yaml:"error"`
}

type Footer struct {
	Copyright string `yaml:"copyright"`
	Links     []Link `yaml:"links"`
}

// DefaultContent returns the embedded site copy.
func DefaultContent() (*Content, error) {
	return ParseContent(defaultContent)
}

// LoadContent reads site copy from path, or the embedded copy when path is empty.
func LoadContent(path string) (*Content, error) {
	if path == "" {
		return DefaultContent()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content load: %w", err)
	}
	return ParseContent(data)
}

// ParseContent decodes YAML site copy and checks the comparison table shape.
func ParseContent(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("content unmarshal: %w", err)
	}
	for _, row := range c.Comparison.Rows {
		if len(row.Values) != len(c.Comparison.Columns) {
			return nil, fmt.Errorf("comparison row %q has %d values, want %d",
				row.Feature, len(row.Values), len(c.Comparison.Columns))
		}
	}
	return &c, nil
}
