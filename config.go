package pagemd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the configuration file schema. Zero values leave the
// corresponding default in place.
type FileConfig struct {
	AssetDir    string `yaml:"assetDir" json:"assetDir"`
	Title       *bool  `yaml:"title" json:"title"`
	PageMarkers *bool  `yaml:"pageMarkers" json:"pageMarkers"`
	Workers     int    `yaml:"workers" json:"workers"`

	OCR struct {
		Enable    *bool    `yaml:"enable" json:"enable"`
		Languages []string `yaml:"languages" json:"languages"`
	} `yaml:"ocr" json:"ocr"`

	PDF struct {
		LineTolerance float64 `yaml:"lineTolerance" json:"lineTolerance"`
		WordGap       float64 `yaml:"wordGap" json:"wordGap"`
		BlockGap      float64 `yaml:"blockGap" json:"blockGap"`
		Images        *bool   `yaml:"images" json:"images"`
	} `yaml:"pdf" json:"pdf"`

	Layout struct {
		HeadingGap float64 `yaml:"headingGap" json:"headingGap"`

		Noise struct {
			SamplePages  int     `yaml:"samplePages" json:"samplePages"`
			EdgeRatio    float64 `yaml:"edgeRatio" json:"edgeRatio"`
			MinFrequency float64 `yaml:"minFrequency" json:"minFrequency"`
			MinPages     int     `yaml:"minPages" json:"minPages"`
		} `yaml:"noise" json:"noise"`

		Heading struct {
			Tolerance        float64 `yaml:"tolerance" json:"tolerance"`
			MaxLength        int     `yaml:"maxLength" json:"maxLength"`
			SubheadingMargin float64 `yaml:"subheadingMargin" json:"subheadingMargin"`
			Terminators      string  `yaml:"terminators" json:"terminators"`
			NumberedPattern  string  `yaml:"numberedPattern" json:"numberedPattern"`
		} `yaml:"heading" json:"heading"`

		Code struct {
			MonospaceFonts []string `yaml:"monospaceFonts" json:"monospaceFonts"`
		} `yaml:"code" json:"code"`

		Order struct {
			TableOverlapRatio float64 `yaml:"tableOverlapRatio" json:"tableOverlapRatio"`
		} `yaml:"order" json:"order"`

		Paragraph struct {
			Terminators    string   `yaml:"terminators" json:"terminators"`
			FooterPatterns []string `yaml:"footerPatterns" json:"footerPatterns"`
		} `yaml:"paragraph" json:"paragraph"`

		HeadingMerge struct {
			MaxTitleLength    int `yaml:"maxTitleLength" json:"maxTitleLength"`
			MaxFragmentLength int `yaml:"maxFragmentLength" json:"maxFragmentLength"`
		} `yaml:"headingMerge" json:"headingMerge"`
	} `yaml:"layout" json:"layout"`
}

// LoadConfigFile reads YAML or JSON into FileConfig. Unknown extensions are
// tried as YAML, then JSON.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// Apply overlays the values set in the file onto cfg. Patterns are compiled
// here, so a bad expression is reported before any conversion starts.
func (fc FileConfig) Apply(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	if fc.AssetDir != "" {
		cfg.AssetDir = fc.AssetDir
	}
	if fc.Title != nil {
		cfg.Title = *fc.Title
	}
	if fc.PageMarkers != nil {
		cfg.PageMarkers = *fc.PageMarkers
	}
	if fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}

	if fc.OCR.Enable != nil {
		cfg.OCR = *fc.OCR.Enable
	}
	if len(fc.OCR.Languages) > 0 {
		cfg.OCRConfig.Languages = fc.OCR.Languages
	}

	setFloat(&cfg.PDF.LineTolerance, fc.PDF.LineTolerance)
	setFloat(&cfg.PDF.WordGap, fc.PDF.WordGap)
	setFloat(&cfg.PDF.BlockGap, fc.PDF.BlockGap)
	if fc.PDF.Images != nil {
		cfg.PDF.Images = *fc.PDF.Images
	}

	l := &cfg.Layout
	setFloat(&l.FontProfile.HeadingGap, fc.Layout.HeadingGap)

	setInt(&l.Noise.SamplePages, fc.Layout.Noise.SamplePages)
	setFloat(&l.Noise.EdgeRatio, fc.Layout.Noise.EdgeRatio)
	setFloat(&l.Noise.MinFrequency, fc.Layout.Noise.MinFrequency)
	setInt(&l.Noise.MinPages, fc.Layout.Noise.MinPages)

	setFloat(&l.Heading.Tolerance, fc.Layout.Heading.Tolerance)
	setInt(&l.Heading.MaxLength, fc.Layout.Heading.MaxLength)
	setFloat(&l.Heading.SubheadingMargin, fc.Layout.Heading.SubheadingMargin)
	if fc.Layout.Heading.Terminators != "" {
		l.Heading.Terminators = fc.Layout.Heading.Terminators
	}
	if p := fc.Layout.Heading.NumberedPattern; p != "" {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("layout.heading.numberedPattern: %w", err)
		}
		l.Heading.NumberedPattern = re
	}

	if len(fc.Layout.Code.MonospaceFonts) > 0 {
		l.Code.MonospaceFonts = fc.Layout.Code.MonospaceFonts
	}

	setFloat(&l.Order.TableOverlapRatio, fc.Layout.Order.TableOverlapRatio)

	if fc.Layout.Paragraph.Terminators != "" {
		l.Paragraph.Terminators = fc.Layout.Paragraph.Terminators
	}
	if len(fc.Layout.Paragraph.FooterPatterns) > 0 {
		patterns := make([]*regexp.Regexp, 0, len(fc.Layout.Paragraph.FooterPatterns))
		for i, p := range fc.Layout.Paragraph.FooterPatterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return fmt.Errorf("layout.paragraph.footerPatterns[%d]: %w", i, err)
			}
			patterns = append(patterns, re)
		}
		l.Paragraph.FooterPatterns = patterns
	}

	setInt(&l.HeadingMerge.MaxTitleLength, fc.Layout.HeadingMerge.MaxTitleLength)
	setInt(&l.HeadingMerge.MaxFragmentLength, fc.Layout.HeadingMerge.MaxFragmentLength)

	return nil
}

func setFloat(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}
