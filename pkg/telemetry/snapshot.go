package telemetry

import (
	"gopkg.in/yaml.v3"

	"github.com/signalforge/telemetry/pkg/signal"
)

// ConfigSnapshot is the optional, non-contractual export of registered
// signal configurations (§6: "Optional snapshot/restore of signal
// configurations is allowed but not part of the core contract").
type ConfigSnapshot struct {
	Signals map[string]signal.Config `yaml:"signals"`
}

// ExportConfig builds a ConfigSnapshot from the currently registered
// signals' configurations.
func (c *Core) ExportConfig() ConfigSnapshot {
	snap := ConfigSnapshot{Signals: make(map[string]signal.Config)}
	for _, summary := range c.registry.List() {
		sig, err := c.registry.Get(summary.ID)
		if err != nil {
			continue
		}
		snap.Signals[summary.ID] = sig.Config()
	}
	return snap
}

// MarshalConfigYAML serializes a ConfigSnapshot for persistence.
func MarshalConfigYAML(snap ConfigSnapshot) ([]byte, error) {
	return yaml.Marshal(snap)
}

// UnmarshalConfigYAML parses a previously exported snapshot.
func UnmarshalConfigYAML(data []byte) (ConfigSnapshot, error) {
	var snap ConfigSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return ConfigSnapshot{}, err
	}
	return snap, nil
}

// RestoreConfig re-registers every signal in snap against an empty (or
// partially populated) registry, skipping ids that already exist rather
// than overwriting in-flight state.
func (c *Core) RestoreConfig(snap ConfigSnapshot) []error {
	var errs []error
	for id, cfg := range snap.Signals {
		if err := c.registry.Register(id, cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
