package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// OutputFormat 輸出格式
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// ParseOutputFormat 解析輸出格式
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputText, OutputJSON, OutputYAML:
		return f, nil
	case "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (text, json, yaml)", s)
	}
}

// OutputOptions 輸出設定
type OutputOptions struct {
	Format OutputFormat
	Writer io.Writer
}

// NewOutputOptions 預設輸出到 stdout
func NewOutputOptions() *OutputOptions {
	return &OutputOptions{
		Format: OutputText,
		Writer: os.Stdout,
	}
}

// Print json / yaml 模式輸出 data，text 模式交給 text 排版
func (o *OutputOptions) Print(data any, text func(w io.Writer) error) error {
	switch o.Format {
	case OutputJSON:
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(o.Writer, string(b))
		return err
	case OutputYAML:
		// 先轉成泛型結構，讓 yaml 沿用 json 欄位名稱
		generic, err := toGeneric(data)
		if err != nil {
			return err
		}
		b, err := yaml.Marshal(generic)
		if err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		_, err = o.Writer.Write(b)
		return err
	default:
		return text(o.Writer)
	}
}

func toGeneric(data any) (any, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return v, nil
}
