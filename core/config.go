package core

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/gookit/config/v2"
	"sigs.k8s.io/yaml"
)

// LoadConfig decodes a yaml config file into opt. Keys follow the `config` struct tags.
func LoadConfig(filename string, v interface{}) error {
	err := config.LoadFiles(filename)
	if err != nil {
		return err
	}
	err = config.Decode(v)
	if err != nil {
		return err
	}
	return nil
}

// InitDefaultConfig renders cfg as a commented yaml document, option descriptions become comments.
func InitDefaultConfig(cfg interface{}, indentLevel int) string {
	var sb strings.Builder

	val := reflect.ValueOf(cfg)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		fieldValue := val.Field(i)

		configTag := field.Tag.Get("config")
		if configTag == "" || configTag == "-" {
			continue
		}
		indent := strings.Repeat(" ", indentLevel*2)

		if fieldValue.Kind() == reflect.Struct {
			sb.WriteString(fmt.Sprintf("%s%s:\n", indent, configTag))
			sb.WriteString(InitDefaultConfig(fieldValue.Interface(), indentLevel+1))
			continue
		}

		if description := field.Tag.Get("description"); description != "" {
			sb.WriteString(fmt.Sprintf("%s# %s\n", indent, description))
		}

		value := fieldValue.Interface()
		if fieldValue.IsZero() {
			if def := field.Tag.Get("default"); def != "" {
				sb.WriteString(fmt.Sprintf("%s%s: %s\n", indent, configTag, def))
				continue
			}
		}
		sb.WriteString(fmt.Sprintf("%s%s: %s\n", indent, configTag, yamlValue(value)))
	}

	return sb.String()
}

func yamlValue(v interface{}) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map {
		// 列表与字典使用flow风格, 保持单行
		bs, err := json.Marshal(v)
		if err != nil || string(bs) == "null" {
			if rv.Kind() == reflect.Slice {
				return "[]"
			}
			return "{}"
		}
		return string(bs)
	}
	bs, err := yaml.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(bs))
}
