package dataset

import (
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// bindEnvsRecursive walks iface's fields and binds each mapstructure-tagged
// field to a dotted env path rooted at path, so WithViper can resolve
// RemoteConfig fields from the process environment as well as config files.
// Adapted from the teacher's pkg/configutils.BindEnvsRecursive.
func bindEnvsRecursive(v *viper.Viper, iface interface{}, path string) error {
	val := reflect.ValueOf(iface).Elem()
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		fullPath := tag
		if path != "" {
			fullPath = path + "." + tag
		}

		field := val.Field(i)
		if field.Kind() == reflect.Ptr {
			if field.IsNil() && field.Type().Elem().Kind() == reflect.Struct {
				field.Set(reflect.New(field.Type().Elem()))
			}
			field = field.Elem()
		}

		if field.Kind() == reflect.Struct {
			if err := bindEnvsRecursive(v, field.Addr().Interface(), fullPath); err != nil {
				return err
			}
		}

		if err := v.BindEnv(fullPath); err != nil {
			return fmt.Errorf("binding env for %s: %w", fullPath, err)
		}
	}

	return nil
}
