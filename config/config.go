package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Mode values.
const (
	ModeWindow = "window"
	ModeStream = "stream"
)

// Source values.
const (
	SourceCamera = "camera"
	SourceScreen = "screen"
)

// Config holds runtime configuration for capture, detection and key injection.
// Fields may be loaded from a JSON file, overridden by FACEPAD_* environment
// variables and finally by command-line flags.
type Config struct {
	Debug   bool   `json:"debug"`
	LogFile string `json:"log_file"`
	Mode    string `json:"mode" validate:"oneof=window stream"`
	Listen  string `json:"listen" validate:"required"`

	// Frame source
	Source      string `json:"source" validate:"oneof=camera screen"`
	CameraIndex int    `json:"camera_index" validate:"gte=0"`
	FrameWidth  int    `json:"frame_width" validate:"gt=0"`
	FrameHeight int    `json:"frame_height" validate:"gt=0"`
	Scale       int    `json:"scale" validate:"gte=1"`
	Mirror      bool   `json:"mirror"`

	// Screen selection used when Source is "screen"; zero size means full screen.
	SelectionX int `json:"selection_x"`
	SelectionY int `json:"selection_y"`
	SelectionW int `json:"selection_w" validate:"gte=0"`
	SelectionH int `json:"selection_h" validate:"gte=0"`

	// Detection parameters
	CascadePath  string  `json:"cascade_path" validate:"required"`
	ScaleFactor  float64 `json:"scale_factor" validate:"gt=1"`
	MinNeighbors int     `json:"min_neighbors" validate:"gte=0"`
	MinFaceSize  int     `json:"min_face_size" validate:"gt=0"`
	SkipFrames   int     `json:"skip_frames" validate:"gte=1"`
	Tracker      string  `json:"tracker" validate:"oneof=kcf csrt mil"`

	// Deadzone boundaries in full camera resolution; divided by Scale.
	BoundaryUp    int `json:"boundary_up"`
	BoundaryDown  int `json:"boundary_down" validate:"gtfield=BoundaryUp"`
	BoundaryLeft  int `json:"boundary_left"`
	BoundaryRight int `json:"boundary_right" validate:"gtfield=BoundaryLeft"`

	// Key injection
	InjectKeys          bool `json:"inject_keys"`
	PressIntervalMillis int  `json:"press_interval_ms" validate:"gt=0"`

	// Presentation
	JPEGQuality int    `json:"jpeg_quality" validate:"gte=1,lte=100"`
	ShowStats   bool   `json:"show_stats"`
	GameURL     string `json:"game_url" validate:"omitempty,url"`
	DarkTheme   bool   `json:"dark_theme"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:               false,
		Mode:                ModeWindow,
		Listen:              ":5000",
		Source:              SourceCamera,
		CameraIndex:         0,
		FrameWidth:          640,
		FrameHeight:         480,
		Scale:               2,
		Mirror:              true,
		CascadePath:         "haarcascade_frontalface_default.xml",
		ScaleFactor:         1.05,
		MinNeighbors:        5,
		MinFaceSize:         30,
		SkipFrames:          50,
		Tracker:             "kcf",
		BoundaryUp:          160,
		BoundaryDown:        320,
		BoundaryLeft:        200,
		BoundaryRight:       440,
		InjectKeys:          true,
		PressIntervalMillis: 10,
		JPEGQuality:         90,
		ShowStats:           true,
	}
}

var validate = validator.New()

// Validate clamps/normalizes values to safe ranges, then checks the
// constraints that cannot be clamped (enums, boundary ordering).
func (c *Config) Validate() error {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	if c.Mode == "" {
		c.Mode = ModeWindow
	}
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	if c.Source == "" {
		c.Source = SourceCamera
	}
	c.Tracker = strings.ToLower(strings.TrimSpace(c.Tracker))
	if c.Tracker == "" {
		c.Tracker = "kcf"
	}
	if c.FrameWidth <= 0 {
		c.FrameWidth = 640
	}
	if c.FrameHeight <= 0 {
		c.FrameHeight = 480
	}
	if c.Scale < 1 {
		c.Scale = 1
	}
	if c.ScaleFactor <= 1 {
		c.ScaleFactor = 1.05
	}
	if c.MinNeighbors < 0 {
		c.MinNeighbors = 5
	}
	if c.MinFaceSize <= 0 {
		c.MinFaceSize = 30
	}
	if c.SkipFrames <= 0 {
		c.SkipFrames = 50
	}
	if c.PressIntervalMillis <= 0 {
		c.PressIntervalMillis = 10
	}
	if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
		c.JPEGQuality = 90
	}
	if c.SelectionW < 0 || c.SelectionH < 0 {
		c.SelectionW, c.SelectionH = 0, 0
	}
	return validate.Struct(c)
}

// WorkingWidth is the width frames are resized to before processing.
func (c *Config) WorkingWidth() int { return c.FrameWidth / c.Scale }

// WorkingHeight is the expected processed frame height.
func (c *Config) WorkingHeight() int { return c.FrameHeight / c.Scale }

// PressInterval is the minimum gap between injected key presses.
func (c *Config) PressInterval() time.Duration {
	return time.Duration(c.PressIntervalMillis) * time.Millisecond
}

// Selection returns the configured screen rectangle, or nil for full screen.
func (c *Config) Selection() *image.Rectangle {
	if c.SelectionW <= 0 || c.SelectionH <= 0 {
		return nil
	}
	r := image.Rect(c.SelectionX, c.SelectionY, c.SelectionX+c.SelectionW, c.SelectionY+c.SelectionH)
	return &r
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// ApplyEnv loads envFile (ignored when missing) and overrides fields from
// FACEPAD_* variables. Malformed numeric or boolean values are reported.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	flag("FACEPAD_DEBUG", &c.Debug)
	str("FACEPAD_LOG_FILE", &c.LogFile)
	str("FACEPAD_MODE", &c.Mode)
	str("FACEPAD_LISTEN", &c.Listen)
	str("FACEPAD_SOURCE", &c.Source)
	num("FACEPAD_CAMERA", &c.CameraIndex)
	str("FACEPAD_CASCADE", &c.CascadePath)
	str("FACEPAD_TRACKER", &c.Tracker)
	num("FACEPAD_SKIP_FRAMES", &c.SkipFrames)
	flag("FACEPAD_INJECT_KEYS", &c.InjectKeys)
	num("FACEPAD_PRESS_INTERVAL_MS", &c.PressIntervalMillis)
	str("FACEPAD_GAME_URL", &c.GameURL)
	flag("FACEPAD_DARK_THEME", &c.DarkTheme)
	return errors.Join(errs...)
}
