package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"liftsim/src/types"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "LIFTSIM_"

// Load decodes a YAML file on top of Default(). An empty path yields defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&c); err != nil {
		return c, fmt.Errorf("decode config %s: %w", path, err)
	}
	slog.Debug("Config loaded", "path", path)
	return c, c.Validate()
}

// ApplyEnv overlays LIFTSIM_* variables read from a .env file. Variables set in
// the process environment take precedence over the file. A missing file is not
// an error.
func ApplyEnv(c *Config, path string) error {
	values := map[string]string{}
	if path != "" {
		fileValues, err := godotenv.Read(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read env file %s: %w", path, err)
		}
		for k, v := range fileValues {
			values[k] = v
		}
	}
	for _, key := range envKeys {
		if v, ok := os.LookupEnv(EnvPrefix + key.name); ok {
			values[EnvPrefix+key.name] = v
		}
	}

	for _, key := range envKeys {
		v, ok := values[EnvPrefix+key.name]
		if !ok {
			continue
		}
		if err := key.set(c, v); err != nil {
			return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, key.name, v, err)
		}
		slog.Debug("Config override from env", "key", EnvPrefix+key.name, "value", v)
	}
	return c.Validate()
}

type envKey struct {
	name string
	set  func(c *Config, v string) error
}

var envKeys = []envKey{
	{"NUM_CARS", intSetter(func(c *Config) *int { return &c.NumCars })},
	{"NUM_ACTIVE_CARS", intSetter(func(c *Config) *int { return &c.NumActiveCars })},
	{"ELEV_SPEED", intSetter(func(c *Config) *int { return &c.ElevSpeed })},
	{"PASSENGER_LOAD", intSetter(func(c *Config) *int { return &c.PassengerLoad })},
	{"MAX_RIDERS_PER_CAR", intSetter(func(c *Config) *int { return &c.MaxRidersPerCar })},
	{"NUM_FLOORS", intSetter(func(c *Config) *int { return &c.NumFloors })},
	{"DOOR_OPEN_HOLD", durationSetter(func(c *Config) *time.Duration { return &c.DoorOpenHold })},
	{"DOOR_MOVEMENT", durationSetter(func(c *Config) *time.Duration { return &c.DoorMovement })},
	{"CONTROL_MODE", func(c *Config, v string) error {
		mode, err := types.ParseControlMode(v)
		if err != nil {
			return err
		}
		c.ControlMode = mode
		return nil
	}},
	{"STORY_HEIGHT", func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		c.StoryHeight = f
		return nil
	}},
	{"SEED", func(c *Config, v string) error {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return err
		}
		c.Seed = n
		return nil
	}},
}

func intSetter(field func(c *Config) *int) func(c *Config, v string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func durationSetter(field func(c *Config) *time.Duration) func(c *Config, v string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}
