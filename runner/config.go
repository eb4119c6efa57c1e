package runner

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs can use forms like "10ms".
// Bare integers are taken as nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("runner: invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(n)
		return nil
	}
	return fmt.Errorf("runner: invalid duration %q", value.Value)
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Kind selects which buffer variant a simulation runs against.
type Kind string

const (
	// KindBounded runs the fixed-capacity ring.
	KindBounded Kind = "bounded"
	// KindUnbounded runs the growing chain.
	KindUnbounded Kind = "unbounded"
)

// Config describes one simulation: the buffer under test, the participant
// counts, and the per-call pacing.
type Config struct {
	// Buffer is the variant to run, bounded or unbounded.
	Buffer Kind `yaml:"buffer"`
	// Capacity is the ring size; only meaningful for the bounded variant.
	Capacity int `yaml:"capacity"`

	Producers int `yaml:"producers"`
	Consumers int `yaml:"consumers"`
	// ItemsPerProducer and ItemsPerConsumer set each participant's call
	// count. Producers×ItemsPerProducer must equal
	// Consumers×ItemsPerConsumer or the run could never finish.
	ItemsPerProducer int `yaml:"items_per_producer"`
	ItemsPerConsumer int `yaml:"items_per_consumer"`

	// ProduceDelay and ConsumeDelay simulate the work around each call.
	ProduceDelay Duration `yaml:"produce_delay"`
	ConsumeDelay Duration `yaml:"consume_delay"`

	// LogPath, when set, streams the event log to this file during the run.
	LogPath string `yaml:"log_path"`
}

// Default returns the canonical demo workload: five producers and three
// consumers over a ten-slot buffer, paced so consumers mostly wait.
func Default() Config {
	return Config{
		Buffer:           KindBounded,
		Capacity:         10,
		Producers:        5,
		Consumers:        3,
		ItemsPerProducer: 30,
		ItemsPerConsumer: 50,
		ProduceDelay:     Duration(10 * time.Millisecond),
		ConsumeDelay:     Duration(18 * time.Millisecond),
	}
}

// Load reads a YAML config from path, overlaid on Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("runner: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("runner: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first configuration problem, if any.
func (c Config) Validate() error {
	switch c.Buffer {
	case KindBounded, KindUnbounded:
	default:
		return fmt.Errorf("runner: unknown buffer kind %q", c.Buffer)
	}
	if c.Buffer == KindBounded && c.Capacity < 1 {
		return errors.New("runner: bounded buffer needs capacity >= 1")
	}
	if c.Producers < 1 || c.Consumers < 1 {
		return errors.New("runner: need at least one producer and one consumer")
	}
	if c.ItemsPerProducer < 0 || c.ItemsPerConsumer < 0 {
		return errors.New("runner: item counts cannot be negative")
	}
	if c.Producers*c.ItemsPerProducer != c.Consumers*c.ItemsPerConsumer {
		return fmt.Errorf("runner: producers would make %d items but consumers would take %d",
			c.Producers*c.ItemsPerProducer, c.Consumers*c.ItemsPerConsumer)
	}
	if c.ProduceDelay < 0 || c.ConsumeDelay < 0 {
		return errors.New("runner: delays cannot be negative")
	}
	return nil
}
