package config

import (
	"fmt"
	"image/color"
	"os"

	"github.com/uyouii/percentile-chart/common"
	"github.com/uyouii/percentile-chart/interp"
	"github.com/uyouii/percentile-chart/model"
	"github.com/uyouii/percentile-chart/overlay"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	Points []model.ControlPoint `yaml:"points"`
	// empty means no percentile marked
	Percentile *float64 `yaml:"percentile"`

	Label       string `yaml:"label"`
	Tooltip     *bool  `yaml:"tooltip"`
	TooltipBody string `yaml:"tooltip_body"` // fmt verb for the hovered value, e.g. "%v users"

	Style struct {
		Accent     string  `yaml:"accent"`
		PointFill  string  `yaml:"point_fill"`
		Guide      string  `yaml:"guide"`
		HoverGuide string  `yaml:"hover_guide"`
		Marker     string  `yaml:"marker"`
		Text       string  `yaml:"text"`
		FontSize   float64 `yaml:"font_size"`
	} `yaml:"style"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

const (
	DefaultWidth  = 512
	DefaultHeight = 256
	DefaultAddr   = ":8080"
)

func Default() Config {
	var c Config
	c.Width = DefaultWidth
	c.Height = DefaultHeight
	c.Points = model.DefaultControlPoints()
	c.Label = overlay.DefaultPercentileLabel
	c.Style.Accent = overlay.DefaultAccent
	c.Style.PointFill = overlay.DefaultPointFill
	c.Style.Guide = overlay.DefaultGuide
	c.Style.HoverGuide = overlay.DefaultHoverGuide
	c.Style.Marker = overlay.DefaultMarker
	c.Style.Text = overlay.DefaultText
	c.Style.FontSize = overlay.DefaultTheme().FontSize
	c.Server.Addr = DefaultAddr
	return c
}

// Load reads a YAML file over Default. An empty path returns Default.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", common.ErrorInvalidValue, c.Width, c.Height)
	}
	if err := interp.Validate(c.Points); err != nil {
		return err
	}
	if err := c.InitialPercentile().Validate(); err != nil {
		return err
	}
	_, err := c.Options()
	return err
}

func (c Config) InitialPercentile() model.Percentile {
	if c.Percentile == nil {
		return model.NoPercentile
	}
	return model.NewPercentile(*c.Percentile)
}

// Options builds the overlay options, overriding the default theme with the configured colours.
func (c Config) Options() (overlay.Options, error) {
	opts := overlay.DefaultOptions()
	if c.Label != "" {
		opts.Label = c.Label
	}
	if c.Tooltip != nil {
		opts.Tooltip = *c.Tooltip
	}
	if c.TooltipBody != "" {
		body := c.TooltipBody
		opts.TooltipBody = func(p model.ControlPoint) string {
			return fmt.Sprintf(body, p.Y)
		}
	}

	colours := []struct {
		hex string
		dst *color.NRGBA
	}{
		{c.Style.Accent, &opts.Theme.Accent},
		{c.Style.PointFill, &opts.Theme.PointFill},
		{c.Style.Guide, &opts.Theme.Guide},
		{c.Style.HoverGuide, &opts.Theme.HoverGuide},
		{c.Style.Marker, &opts.Theme.Marker},
		{c.Style.Text, &opts.Theme.Text},
	}
	for _, cc := range colours {
		if cc.hex == "" {
			continue
		}
		v, err := overlay.Color(cc.hex)
		if err != nil {
			return overlay.Options{}, err
		}
		*cc.dst = v
	}
	if c.Style.PointFill != "" {
		opts.Theme.TooltipBox = opts.Theme.PointFill
	}
	if c.Style.Guide != "" {
		opts.Theme.TooltipRim = opts.Theme.Guide
	}
	if c.Style.FontSize < 0 {
		return overlay.Options{}, fmt.Errorf("%w: font size %v", common.ErrorInvalidValue, c.Style.FontSize)
	}
	if c.Style.FontSize > 0 {
		opts.Theme.FontSize = c.Style.FontSize
	}
	return opts, nil
}

// Renderer builds the overlay renderer for the configured curve.
func (c Config) Renderer() (*overlay.Renderer, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return overlay.NewRenderer(c.Points, opts)
}
