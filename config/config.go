// Package config resolves a Preset — an ordered job list plus per-job
// option overrides — from the built-in defaults, a user overlay, an
// SVGO-compatible plugin list, or a JSON/TOML config file.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/optisvg/optisvg/job"
)

// ConfigError reports a problem resolving a Preset: an unknown job name,
// or a malformed option value for one.
type ConfigError struct {
	Job    string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := e.Reason
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Job == "" {
		return msg
	}
	return fmt.Sprintf("job %q: %s", e.Job, msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Preset is a resolved, ordered job-options bundle: which jobs run, in
// what order, and any option overrides for jobs that have them. Options
// are stored pre-encoded as JSON so a Preset can be built uniformly from
// a JSON config, a TOML config, or an SVGO plugin list without needing a
// union type for every job's option struct.
type Preset struct {
	Order   []string
	Options map[string]json.RawMessage
}

// Default returns the built-in preset: every job in job.DefaultOrder,
// with every job's registry-constructed defaults.
func Default() Preset {
	order := make([]string, len(job.DefaultOrder))
	copy(order, job.DefaultOrder)
	return Preset{Order: order}
}

// None returns the empty preset: no jobs run, an identity optimisation.
func None() Preset { return Preset{} }

// Overlay describes a user's changes on top of a base Preset: job names
// to drop entirely, and job names to add or reconfigure (a nil/empty
// Enable value means "use this job's defaults").
type Overlay struct {
	Disable []string
	Enable  map[string]json.RawMessage
}

// Extend applies overlay to base, producing a new Preset. Disable always
// wins over Enable for the same job name (a user explicitly turning a
// job off is never re-enabled by the same overlay naming it again).
func Extend(base Preset, overlay Overlay) (Preset, error) {
	disabled := make(map[string]bool, len(overlay.Disable))
	for _, name := range overlay.Disable {
		if _, ok := job.Registry[name]; !ok {
			return Preset{}, &ConfigError{Job: name, Reason: "unknown job"}
		}
		disabled[name] = true
	}

	out := Preset{Options: make(map[string]json.RawMessage, len(base.Options)+len(overlay.Enable))}
	for _, name := range base.Order {
		if disabled[name] {
			continue
		}
		out.Order = append(out.Order, name)
	}
	for name, raw := range base.Options {
		if disabled[name] {
			continue
		}
		out.Options[name] = raw
	}

	for name, raw := range overlay.Enable {
		if disabled[name] {
			continue
		}
		if _, ok := job.Registry[name]; !ok {
			return Preset{}, &ConfigError{Job: name, Reason: "unknown job"}
		}
		found := false
		for _, n := range out.Order {
			if n == name {
				found = true
				break
			}
		}
		if !found {
			out.Order = append(out.Order, name)
		}
		if len(raw) > 0 {
			out.Options[name] = raw
		} else {
			delete(out.Options, name)
		}
	}
	return out, nil
}

// Jobs constructs one fresh job.Job per entry in p.Order, in order,
// applying any recorded option overrides on top of that job's registry
// defaults via encoding/json. Each call returns brand-new job instances,
// since several jobs carry per-run scan state (job.MinifyIDs and
// friends) that must not survive across an independent Preset.Jobs()
// call.
func (p Preset) Jobs() ([]job.Job, error) {
	jobs := make([]job.Job, 0, len(p.Order))
	for _, name := range p.Order {
		ctor, ok := job.Registry[name]
		if !ok {
			return nil, &ConfigError{Job: name, Reason: "unknown job"}
		}
		j := ctor()
		if raw, ok := p.Options[name]; ok && len(raw) > 0 {
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(j); err != nil {
				return nil, &ConfigError{Job: name, Reason: "decode options", Err: err}
			}
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// wireDoc is the on-disk shape of a config file, identical across JSON
// and TOML: "extends" names a base preset ("default", the zero value, or
// "none"), "disable" lists job names to drop, "enable" maps a job name
// to its option overrides.
type wireDoc struct {
	Extends string                     `json:"extends" toml:"extends"`
	Disable []string                   `json:"disable" toml:"disable"`
	Enable  map[string]json.RawMessage `json:"enable" toml:"-"`
}

// Load decodes a Preset from a whole config file. format is "json" or
// "toml"; the CLI selects it from the config file's extension.
func Load(data []byte, format string) (Preset, error) {
	var doc wireDoc

	switch format {
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return Preset{}, &ConfigError{Reason: "decode json config", Err: err}
		}
	case "toml":
		var raw struct {
			Extends string                            `toml:"extends"`
			Disable []string                           `toml:"disable"`
			Enable  map[string]map[string]interface{} `toml:"enable"`
		}
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return Preset{}, &ConfigError{Reason: "decode toml config", Err: err}
		}
		doc.Extends = raw.Extends
		doc.Disable = raw.Disable
		if len(raw.Enable) > 0 {
			doc.Enable = make(map[string]json.RawMessage, len(raw.Enable))
			for name, opts := range raw.Enable {
				b, err := json.Marshal(opts)
				if err != nil {
					return Preset{}, &ConfigError{Job: name, Reason: "re-encode toml options", Err: err}
				}
				doc.Enable[name] = b
			}
		}
	default:
		return Preset{}, &ConfigError{Reason: fmt.Sprintf("unsupported config format %q", format)}
	}

	base := Default()
	if doc.Extends == "none" {
		base = None()
	}
	return Extend(base, Overlay{Disable: doc.Disable, Enable: doc.Enable})
}
