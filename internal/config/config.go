package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Language  string          `mapstructure:"language"`
	LogLevel  string          `mapstructure:"log_level"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Phonemize PhonemizeConfig `mapstructure:"phonemize"`
	Server    ServerConfig    `mapstructure:"server"`
}

type EngineConfig struct {
	Backend       string `mapstructure:"backend"`
	EspeakCommand string `mapstructure:"espeak_command"`
	Jobs          int    `mapstructure:"jobs"`
}

type PhonemizeConfig struct {
	KeepWordBoundaries                bool `mapstructure:"keep_word_boundaries"`
	AllowPossiblyFaultyWordBoundaries bool `mapstructure:"allow_possibly_faulty_word_boundaries"`
	PreservePunctuation               bool `mapstructure:"preserve_punctuation"`
	WithStress                        bool `mapstructure:"with_stress"`
}

type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	MaxLines   int    `mapstructure:"max_lines"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Language: "en-us",
		LogLevel: "info",
		Engine: EngineConfig{
			Backend:       BackendEspeak,
			EspeakCommand: "",
			Jobs:          4,
		},
		Phonemize: PhonemizeConfig{
			KeepWordBoundaries:                true,
			AllowPossiblyFaultyWordBoundaries: false,
			PreservePunctuation:               false,
			WithStress:                        false,
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
			MaxLines:   10000,
		},
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("language", defaults.Language, "Language code to phonemize (mandarin and ja use dedicated backends)")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("engine-backend", defaults.Engine.Backend, "General engine backend (espeak|goruut)")
	fs.String("engine-espeak-command", defaults.Engine.EspeakCommand, "Command used to invoke espeak-ng")
	fs.String("espeak-path", defaults.Engine.EspeakCommand, "Command used to invoke espeak-ng (alias for --engine-espeak-command)")
	fs.Int("engine-jobs", defaults.Engine.Jobs, "Engine parallelism degree for batch phonemization")
	fs.Bool("phonemize-keep-word-boundaries", defaults.Phonemize.KeepWordBoundaries, "Mark word boundaries with WORD_BOUNDARY tokens")
	fs.Bool("phonemize-allow-possibly-faulty-word-boundaries", defaults.Phonemize.AllowPossiblyFaultyWordBoundaries, "Keep lines with mismatched word boundaries instead of dropping them")
	fs.Bool("phonemize-preserve-punctuation", defaults.Phonemize.PreservePunctuation, "Preserve punctuation in the phonemized output")
	fs.Bool("phonemize-with-stress", defaults.Phonemize.WithStress, "Include stress markers in the phonemized output")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-max-lines", defaults.Server.MaxLines, "Maximum lines accepted per HTTP batch")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("G2P")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	if err := v.BindEnv("engine.espeak_command", "G2P_ESPEAK_PATH", "ESPEAK_PATH"); err != nil {
		return Config{}, fmt.Errorf("bind espeak env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("g2p")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("language", c.Language)
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("engine.backend", c.Engine.Backend)
	v.SetDefault("engine.espeak_command", c.Engine.EspeakCommand)
	v.SetDefault("engine.jobs", c.Engine.Jobs)
	v.SetDefault("phonemize.keep_word_boundaries", c.Phonemize.KeepWordBoundaries)
	v.SetDefault("phonemize.allow_possibly_faulty_word_boundaries", c.Phonemize.AllowPossiblyFaultyWordBoundaries)
	v.SetDefault("phonemize.preserve_punctuation", c.Phonemize.PreservePunctuation)
	v.SetDefault("phonemize.with_stress", c.Phonemize.WithStress)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.max_lines", c.Server.MaxLines)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("log_level", "log-level")
	v.RegisterAlias("engine.backend", "engine-backend")
	v.RegisterAlias("engine.espeak_command", "engine-espeak-command")
	v.RegisterAlias("engine.espeak_command", "espeak-path")
	v.RegisterAlias("engine.jobs", "engine-jobs")
	v.RegisterAlias("phonemize.keep_word_boundaries", "phonemize-keep-word-boundaries")
	v.RegisterAlias("phonemize.allow_possibly_faulty_word_boundaries", "phonemize-allow-possibly-faulty-word-boundaries")
	v.RegisterAlias("phonemize.preserve_punctuation", "phonemize-preserve-punctuation")
	v.RegisterAlias("phonemize.with_stress", "phonemize-with-stress")
	v.RegisterAlias("server.listen_addr", "server-listen-addr")
	v.RegisterAlias("server.max_lines", "server-max-lines")
}
