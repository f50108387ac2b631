package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// bindEnv sets every known key whose name, upper-cased with dots turned
// into underscores, is a non-empty environment variable: MISTRAL_API_KEY
// fills mistral.api_key. An empty variable leaves the file value alone. Known keys are those declared by cfg's mapstructure
// tags plus whatever the config file and defaults define.
func bindEnv(v *viper.Viper, cfg any) {
	keys := v.AllKeys()
	if t := reflect.TypeOf(cfg); t != nil {
		keys = append(keys, structKeys(t, "")...)
	}
	for _, key := range keys {
		name := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if value := os.Getenv(name); value != "" {
			v.Set(key, value)
		}
	}
}

var durationType = reflect.TypeOf(time.Duration(0))

// structKeys lists the dotted leaf keys mapstructure decodes into t.
// Squashed embedded structs contribute their keys without a prefix.
func structKeys(t reflect.Type, prefix string) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == durationType {
		return nil
	}

	var keys []string
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}
		if strings.Contains(opts, "squash") {
			keys = append(keys, structKeys(f.Type, prefix)...)
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		key := prefix + name
		if nested := structKeys(f.Type, key+"."); len(nested) > 0 {
			keys = append(keys, nested...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
