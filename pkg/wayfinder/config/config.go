// Package config reads navigation graphs from TOML or YAML files.
//
// A file lists destinations, animations and argument sets and names the home
// destination and the default animations:
//
//	home = "games"
//	home_enter_animation = "fade-in"
//
//	[defaults]
//	enter = "slide-in"
//	pop_exit = "slide-out"
//
//	[[destinations]]
//	id = "games"
//	factory = "game-list"
//	title = "games.title"
//
//	[[animations]]
//	name = "fade-in"
//	kind = "fade"
//	duration = "250ms"
//	from = 0.0
//	to = 1.0
//
//	[[argument_sets]]
//	id = "game"
//	slots = [{ name = "title", type = "string", required = true }]
//
// The YAML form uses the same keys.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/anim"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/args"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/locale"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/router"
)

// Format is a configuration file syntax.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", naverr.Configuration("load_config", path, "unsupported config file extension")
}

// File mirrors the on-disk layout.
type File struct {
	Home               string         `toml:"home" yaml:"home"`
	HomeEnterAnimation string         `toml:"home_enter_animation" yaml:"home_enter_animation"`
	HomeData           map[string]any `toml:"home_data" yaml:"home_data"`
	Defaults           Defaults       `toml:"defaults" yaml:"defaults"`
	Destinations       []Destination  `toml:"destinations" yaml:"destinations"`
	Animations         []Animation    `toml:"animations" yaml:"animations"`
	ArgumentSets       []ArgumentSet  `toml:"argument_sets" yaml:"argument_sets"`
}

type Defaults struct {
	Enter    string `toml:"enter" yaml:"enter"`
	Exit     string `toml:"exit" yaml:"exit"`
	PopEnter string `toml:"pop_enter" yaml:"pop_enter"`
	PopExit  string `toml:"pop_exit" yaml:"pop_exit"`
}

type Destination struct {
	ID                string `toml:"id" yaml:"id"`
	Template          string `toml:"template" yaml:"template"`
	Factory           string `toml:"factory" yaml:"factory"`
	Title             string `toml:"title" yaml:"title"`
	Executor          string `toml:"executor" yaml:"executor"`
	Arguments         string `toml:"arguments" yaml:"arguments"`
	SingleTop         bool   `toml:"single_top" yaml:"single_top"`
	RemoveFromHistory bool   `toml:"remove_from_history" yaml:"remove_from_history"`
}

type Animation struct {
	Name      string   `toml:"name" yaml:"name"`
	Kind      string   `toml:"kind" yaml:"kind"`
	Duration  string   `toml:"duration" yaml:"duration"`
	From      *float64 `toml:"from" yaml:"from"`
	To        *float64 `toml:"to" yaml:"to"`
	Edge      string   `toml:"edge" yaml:"edge"`
	Easing    string   `toml:"easing" yaml:"easing"`
	AutoReset bool     `toml:"auto_reset" yaml:"auto_reset"`
	Mode      string   `toml:"mode" yaml:"mode"`
	Children  []string `toml:"children" yaml:"children"`
	Next      string   `toml:"next" yaml:"next"`
}

type ArgumentSet struct {
	ID    string `toml:"id" yaml:"id"`
	Slots []Slot `toml:"slots" yaml:"slots"`
}

type Slot struct {
	Name     string `toml:"name" yaml:"name"`
	Type     string `toml:"type" yaml:"type"`
	Required bool   `toml:"required" yaml:"required"`
}

// LoadFile reads path, decoding it from charset first, and converts it.
func LoadFile(path, charset string) (router.Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return router.Config{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return router.Config{}, naverr.New(naverr.KindConfiguration, "load_config", path, err)
	}
	data, err := locale.Decode(raw, charset)
	if err != nil {
		return router.Config{}, err
	}
	f, err := Decode(data, format)
	if err != nil {
		return router.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return f.Config()
}

// Decode parses data. Unknown keys are configuration errors so typos do not
// silently drop settings.
func Decode(data []byte, format Format) (*File, error) {
	const op = "decode_config"
	var f File
	switch format {
	case TOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, naverr.New(naverr.KindConfiguration, op, string(format), err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, naverr.Configuration(op, string(format), "unknown key %q", undecoded[0].String())
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, naverr.New(naverr.KindConfiguration, op, string(format), err)
		}
	default:
		return nil, naverr.Configuration(op, string(format), "unsupported format")
	}
	return &f, nil
}

// Config converts f into a router configuration.
func (f *File) Config() (router.Config, error) {
	cfg := router.Config{
		Home:               f.Home,
		HomeEnterAnimation: f.HomeEnterAnimation,
		Defaults: router.Animations{
			Enter:    f.Defaults.Enter,
			Exit:     f.Defaults.Exit,
			PopEnter: f.Defaults.PopEnter,
			PopExit:  f.Defaults.PopExit,
		},
	}
	if len(f.HomeData) > 0 {
		values := make(map[string]any, len(f.HomeData))
		for k, v := range f.HomeData {
			values[k] = normalize(v)
		}
		cfg.HomeData = args.Of(values)
	}

	for _, d := range f.Destinations {
		cfg.Destinations = append(cfg.Destinations, router.Destination{
			ID:                d.ID,
			Source:            router.Source{Template: d.Template, Factory: d.Factory},
			Title:             d.Title,
			ExecutorName:      d.Executor,
			ArgumentSetID:     d.Arguments,
			SingleTop:         d.SingleTop,
			RemoveFromHistory: d.RemoveFromHistory,
		})
	}

	for _, a := range f.Animations {
		d, err := a.descriptor()
		if err != nil {
			return router.Config{}, naverr.New(naverr.KindConfiguration, "decode_animation", a.Name, err)
		}
		cfg.Animations = append(cfg.Animations, d)
	}

	for _, s := range f.ArgumentSets {
		set := args.New(s.ID)
		for _, slot := range s.Slots {
			if err := set.Define(args.NameValue{Name: slot.Name, Type: args.Type(slot.Type), Required: slot.Required}); err != nil {
				return router.Config{}, err
			}
		}
		cfg.ArgumentSets = append(cfg.ArgumentSets, set)
	}
	return cfg, nil
}

func (a Animation) descriptor() (anim.Descriptor, error) {
	kind, err := anim.ParseKind(a.Kind)
	if err != nil {
		return anim.Descriptor{}, err
	}
	mode, err := anim.ParseMode(a.Mode)
	if err != nil {
		return anim.Descriptor{}, err
	}
	edge, err := anim.ParseEdge(a.Edge)
	if err != nil {
		return anim.Descriptor{}, err
	}
	var duration time.Duration
	if a.Duration != "" {
		if duration, err = time.ParseDuration(a.Duration); err != nil {
			return anim.Descriptor{}, err
		}
	}

	from, to := defaultRange(kind)
	if a.From != nil {
		from = *a.From
	}
	if a.To != nil {
		to = *a.To
	}

	return anim.Descriptor{
		Name:      a.Name,
		Kind:      kind,
		Duration:  duration,
		From:      from,
		To:        to,
		Edge:      edge,
		Easing:    anim.Easing(a.Easing),
		AutoReset: a.AutoReset,
		Mode:      mode,
		Children:  a.Children,
		Next:      a.Next,
	}, nil
}

// defaultRange is the enter direction of each kind: fade and scale in from
// nothing, slide in from outside the edge.
func defaultRange(kind anim.Kind) (from, to float64) {
	switch kind {
	case anim.KindFade, anim.KindScale:
		return 0, 1
	case anim.KindSlide:
		return 1, 0
	}
	return 0, 0
}

// normalize narrows TOML's int64 integers to int so they satisfy int slots.
func normalize(v any) any {
	switch x := v.(type) {
	case int64:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return int(x)
		}
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}
