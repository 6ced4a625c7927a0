package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"stepscope/internal/render"
	"stepscope/internal/session"
	"stepscope/internal/trace"
)

const configName = "stepscope"

type Config struct {
	LogLevel string
	LogFile  string

	Fit      bool
	Zoom     float64
	ZoomStep float64
	MinZoom  float64

	// CellScale is the number of view pixels per terminal half-block pixel.
	CellScale   float64
	Supersample int
	Labels      bool
	ExtraInfo   bool
	Cam         bool

	ShapeTable string

	ExportWidth  int
	ExportHeight int
	ExportDir    string

	StoreEnabled bool
	StorePath    string

	FastStep     int
	Window       int
	FilePatterns []string
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "~/.stepscope/stepscope.log")

	viper.SetDefault("view.fit", true)
	viper.SetDefault("view.zoom", 1.5)
	viper.SetDefault("view.zoomStep", 0.8)
	viper.SetDefault("view.minZoom", 0.01)
	viper.SetDefault("view.cellScale", 4.0)

	viper.SetDefault("render.supersample", 2)
	viper.SetDefault("render.labels", true)
	viper.SetDefault("render.extraInfo", false)
	viper.SetDefault("render.cam", true)

	viper.SetDefault("shapes.table", "current")

	viper.SetDefault("export.width", 1280)
	viper.SetDefault("export.height", 720)
	viper.SetDefault("export.dir", "")

	viper.SetDefault("store.enabled", true)
	viper.SetDefault("store.path", "~/.stepscope/bookmarks.db")

	viper.SetDefault("scrub.fastStep", 10)
	viper.SetDefault("timeline.window", session.DefaultWindow)

	viper.SetDefault("files.patterns", []string{"*.js", "*.json", "*.hjson"})
}

// loadConfig reads defaults, an optional config file, STEPSCOPE_* environment
// variables and flags, in increasing priority. An empty file searches
// $HOME/.stepscope and the working directory; a missing file there is not an
// error.
func loadConfig(file string, flags *pflag.FlagSet) (*Config, error) {
	setDefaults()

	viper.SetEnvPrefix("STEPSCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if flags != nil {
		for key, name := range map[string]string{
			"log.level":    "log-level",
			"shapes.table": "shapes",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := viper.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	if file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName(configName)
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".stepscope"))
		}
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return &Config{
		LogLevel:     viper.GetString("log.level"),
		LogFile:      expandHome(viper.GetString("log.file")),
		Fit:          viper.GetBool("view.fit"),
		Zoom:         viper.GetFloat64("view.zoom"),
		ZoomStep:     viper.GetFloat64("view.zoomStep"),
		MinZoom:      viper.GetFloat64("view.minZoom"),
		CellScale:    viper.GetFloat64("view.cellScale"),
		Supersample:  viper.GetInt("render.supersample"),
		Labels:       viper.GetBool("render.labels"),
		ExtraInfo:    viper.GetBool("render.extraInfo"),
		Cam:          viper.GetBool("render.cam"),
		ShapeTable:   viper.GetString("shapes.table"),
		ExportWidth:  viper.GetInt("export.width"),
		ExportHeight: viper.GetInt("export.height"),
		ExportDir:    expandHome(viper.GetString("export.dir")),
		StoreEnabled: viper.GetBool("store.enabled"),
		StorePath:    expandHome(viper.GetString("store.path")),
		FastStep:     viper.GetInt("scrub.fastStep"),
		Window:       viper.GetInt("timeline.window"),
		FilePatterns: viper.GetStringSlice("files.patterns"),
	}, nil
}

// Session builds the session settings, resolving the shape table by name.
func (c *Config) Session() (session.Config, error) {
	tags, err := trace.TagTableByName(c.ShapeTable)
	if err != nil {
		return session.Config{}, err
	}
	return session.Config{
		Tags:     tags,
		Fit:      c.Fit,
		Zoom:     c.Zoom,
		ZoomStep: c.ZoomStep,
		MinZoom:  c.MinZoom,
		FastStep: c.FastStep,
		Window:   c.Window,
		Options: render.Options{
			ExtraInfo: c.ExtraInfo,
			Cam:       c.Cam,
			Labels:    c.Labels,
		},
	}, nil
}

// GetSavePath places filename in the export directory, creating it if
// needed. Absolute names and an empty export directory are used as given.
func (c *Config) GetSavePath(filename string) string {
	if c.ExportDir == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.ExportDir, 0755)
	return filepath.Join(c.ExportDir, filename)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
