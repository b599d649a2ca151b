// Package config loads service configuration the twelve-factor way
// (https://12factor.net/config): defaults, a .env file, environment variables and command
// line flags are merged into one validated structure through viper.
package config

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/reflection"
)

const (
	// EnvVarSeparator separates the segments of an environment variable name.
	EnvVarSeparator = "_"
	// DotEnvFile is the optional dotenv file read from the working directory.
	DotEnvFile = ".env"

	keySeparator = "."
	// flagNamespace isolates flag bindings from structure keys within a viper session. It
	// must be lower case and must not collide with any real configuration key.
	flagNamespace = "reservedflagbindingnamespace001"
)

// Load populates target from the environment: entries come from the process environment,
// optionally seeded from a .env file, and fall back to the matching field of defaults.
// envVarPrefix namespaces the lookup, e.g. with prefix "TXKIT" the entry tagged
// `mapstructure:"port"` is set by TXKIT_PORT. Tags must only use `[_1-9a-zA-Z]` characters.
// The populated target is validated before being returned.
func Load(envVarPrefix string, target IServiceConfiguration, defaults IServiceConfiguration) error {
	return LoadFromViper(viper.New(), envVarPrefix, target, defaults)
}

// LoadFromViper behaves like Load but reuses an existing viper session, which keeps any
// flag bindings registered on it beforehand (see BindFlagToEnv). Viper's usual precedence
// applies (explicit Set, then flags, then environment, then defaults) with one twist:
// non empty values from defaults win over defaults registered on the session itself,
// whether via SetDefault or flag default values.
func LoadFromViper(session *viper.Viper, envVarPrefix string, target IServiceConfiguration, defaults IServiceConfiguration) error {
	var defaultEntries map[string]any
	if err := mapstructure.Decode(defaults, &defaultEntries); err != nil {
		return commonerrors.WrapError(commonerrors.ErrMarshalling, err, "cannot decode the default configuration")
	}
	if err := session.MergeConfigMap(defaultEntries); err != nil {
		return commonerrors.WrapError(commonerrors.ErrUnexpected, err, "cannot merge the default configuration")
	}

	// A .env file is a convenience for local runs. A missing file is not an error.
	_ = godotenv.Load(DotEnvFile)

	configureEnvLookup(session, envVarPrefix)
	aliasFlagBindings(session, envVarPrefix)

	if err := session.Unmarshal(target); err != nil {
		return commonerrors.WrapError(commonerrors.ErrMarshalling, err, "cannot decode the configuration structure")
	}
	return WrapValidationError(envVarPrefix, target.Validate())
}

// BindFlagToEnv ties a command line flag to the environment variable envVar so that either
// one sets the matching configuration entry, the flag taking precedence. envVar may be
// supplied with or without the envVarPrefix.
func BindFlagToEnv(session *viper.Viper, envVarPrefix string, envVar string, flag *pflag.Flag) error {
	configureEnvLookup(session, envVarPrefix)
	bindingKey, fullEnvVar := flagBindingKeys(envVarPrefix, envVar)
	if err := session.BindPFlag(bindingKey, flag); err != nil {
		return commonerrors.WrapErrorf(commonerrors.ErrInvalid, err, "cannot bind flag to [%v]", fullEnvVar)
	}
	if err := session.BindEnv(bindingKey, fullEnvVar); err != nil {
		return commonerrors.WrapErrorf(commonerrors.ErrInvalid, err, "cannot bind environment variable [%v]", fullEnvVar)
	}
	return nil
}

func configureEnvLookup(session *viper.Viper, envVarPrefix string) {
	session.SetEnvPrefix(envVarPrefix)
	session.AllowEmptyEnv(false)
	session.AutomaticEnv()
	session.SetEnvKeyReplacer(strings.NewReplacer(keySeparator, EnvVarSeparator))
}

// flagBindingKeys normalises an environment variable name, or a structure key, into the
// viper key its flag binding lives under, together with the full environment variable name.
// Both spellings of an entry reduce to the same binding key.
func flagBindingKeys(envVarPrefix, name string) (bindingKey string, fullEnvVar string) {
	short := strings.ToLower(name)
	if prefix := strings.ToLower(envVarPrefix); strings.HasPrefix(short, prefix) {
		short = strings.TrimPrefix(strings.TrimPrefix(short, prefix), EnvVarSeparator)
	}
	bindingKey = flagNamespace + keySeparator + strings.ReplaceAll(short, EnvVarSeparator, keySeparator)
	fullEnvVar = strings.ToUpper(envVarPrefix + EnvVarSeparator + strings.ReplaceAll(short, keySeparator, EnvVarSeparator))
	return
}

// aliasFlagBindings links flag bindings back to the structure keys they set. Viper aliases
// and BindEnv do not cope well with nested structures, so the link is maintained by hand:
// a set flag, or its bound environment variable, overrides the structure value, and a non
// empty flag default fills the structure value only when it is empty.
func aliasFlagBindings(session *viper.Viper, envVarPrefix string) {
	for _, key := range session.AllKeys() {
		if strings.HasPrefix(key, flagNamespace) {
			continue
		}
		bindingKey, _ := flagBindingKeys(envVarPrefix, key)
		if session.IsSet(bindingKey) {
			session.Set(key, session.Get(bindingKey))
		} else if value := session.Get(bindingKey); !reflection.IsEmpty(value) {
			session.SetDefault(key, value)
			if reflection.IsEmpty(session.Get(key)) {
				session.Set(key, value)
			}
		}
		session.RegisterAlias(bindingKey, key)
	}
}
