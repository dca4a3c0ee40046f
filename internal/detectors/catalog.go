package detectors

import (
	"fmt"
	"sort"
	"strings"
)

const (
	DefaultBase64Limit = 4.5
	DefaultHexLimit    = 3.0
)

// Options tunes the default plugin set.
type Options struct {
	Base64Limit float64
	HexLimit    float64
	// Disabled lists plugin display names to leave out.
	Disabled []string
}

type constructor func(limit float64) Plugin

// catalog holds every plugin keyward knows how to build, keyed by display name.
var catalog = map[string]constructor{
	"AWSKeyDetector":          func(float64) Plugin { return awsKeys() },
	"BasicAuthDetector":       func(float64) Plugin { return basicAuth() },
	"DiscordBotTokenDetector": func(float64) Plugin { return discordBotToken() },
	"GitHubTokenDetector":     func(float64) Plugin { return gitHubToken() },
	"GitLabTokenDetector":     func(float64) Plugin { return gitLabToken() },
	"JwtTokenDetector":        func(float64) Plugin { return jwtToken{} },
	"KeywordDetector":         func(float64) Plugin { return keyword{} },
	"NpmDetector":             func(float64) Plugin { return npmToken() },
	"OpenAIDetector":          func(float64) Plugin { return openAIKey() },
	"PrivateKeyDetector":      func(float64) Plugin { return privateKey() },
	"SendGridDetector":        func(float64) Plugin { return sendGrid() },
	"SlackDetector":           func(float64) Plugin { return slackToken() },
	"StripeDetector":          func(float64) Plugin { return stripeKey() },
	"TwilioKeyDetector":       func(float64) Plugin { return twilioKeys() },
	"Base64HighEntropyString": func(l float64) Plugin { return newBase64Entropy(l) },
	"HexHighEntropyString":    func(l float64) Plugin { return newHexEntropy(l) },
}

// Available returns every plugin name keyward can build, sorted.
func Available() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func limitFor(name string, opts Options) float64 {
	switch name {
	case "Base64HighEntropyString":
		if opts.Base64Limit > 0 {
			return opts.Base64Limit
		}
		return DefaultBase64Limit
	case "HexHighEntropyString":
		if opts.HexLimit > 0 {
			return opts.HexLimit
		}
		return DefaultHexLimit
	}
	return 0
}

// New builds a registry with every catalog plugin except those disabled.
func New(opts Options) (*Registry, error) {
	disabled := map[string]bool{}
	for _, d := range opts.Disabled {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, ok := catalog[d]; !ok {
			return nil, fmt.Errorf("unknown plugin %q", d)
		}
		disabled[d] = true
	}
	var plugins []Plugin
	for _, name := range Available() {
		if disabled[name] {
			continue
		}
		plugins = append(plugins, catalog[name](limitFor(name, opts)))
	}
	return NewRegistry(plugins...)
}

// Default returns the full plugin set with default limits.
func Default() *Registry {
	r, err := New(Options{})
	if err != nil {
		panic(err)
	}
	return r
}

// FromConfigs rebuilds the registry recorded in a baseline. Recorded limits
// win over opts; unknown plugin names are an error.
func FromConfigs(cfgs []Config, opts Options) (*Registry, error) {
	plugins := make([]Plugin, 0, len(cfgs))
	for _, c := range cfgs {
		ctor, ok := catalog[c.Name]
		if !ok {
			return nil, fmt.Errorf("unknown plugin %q", c.Name)
		}
		limit := limitFor(c.Name, opts)
		if c.Limit != nil {
			limit = *c.Limit
		}
		plugins = append(plugins, ctor(limit))
	}
	return NewRegistry(plugins...)
}
