package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"road_simplify/pkg/graph"
	"road_simplify/pkg/overpass"
)

// Configuration keys. Each can be set in the config file, through an
// OSMGRAPH_ environment variable (dots become underscores) or a flag.
const (
	keySeparator     = "separator"
	keyDelta         = "delta"
	keySeed          = "seed"
	keyDistributions = "distributions"
	keyEndpoint      = "overpass.endpoint"
	keyFilter        = "overpass.filter"
	keyAddr          = "server.addr"
	keyCORSOrigin    = "server.cors_origin"
)

const (
	envPrefix         = "OSMGRAPH"
	defaultConfigName = ".osmgraph.yaml"
	defaultDelta      = 10.0
	defaultAddr       = ":8080"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault(keySeparator, string(graph.DefaultSeparator))
	v.SetDefault(keyDelta, defaultDelta)
	v.SetDefault(keySeed, 0)
	v.SetDefault(keyDistributions, "")
	v.SetDefault(keyEndpoint, overpass.DefaultEndpoint)
	v.SetDefault(keyFilter, overpass.DefaultFilter)
	v.SetDefault(keyAddr, defaultAddr)
	v.SetDefault(keyCORSOrigin, "")
}

// loadConfig reads cfgFile, or $HOME/.osmgraph.yaml when cfgFile is empty
// and that file exists, and enables environment overrides.
func loadConfig(v *viper.Viper, cfgFile string) error {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		candidate := filepath.Join(home, defaultConfigName)
		if _, err := os.Stat(candidate); err != nil {
			return nil
		}
		cfgFile = candidate
		v.SetConfigType("yaml")
	}

	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	return nil
}

// bindFlags binds config keys to flags of fs. Binding happens when a command
// runs, so several commands can expose the same key.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		f := fs.Lookup(name)
		if f == nil {
			return fmt.Errorf("bind %s: no flag --%s", key, name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

// separatorFrom returns the single-character record separator configured in v.
func separatorFrom(v *viper.Viper) (rune, error) {
	s := v.GetString(keySeparator)
	r, size := utf8.DecodeRuneInString(s)
	if s == "" || r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("separator %q: want a single character", s)
	}
	return r, nil
}
