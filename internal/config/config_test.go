package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/termfix/internal/escape"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.FixCursor {
		t.Error("FixCursor default = false, want true")
	}
	if !cfg.FixFocus {
		t.Error("FixFocus default = false, want true")
	}
	if cfg.NormalShape != escape.ShapeBlock {
		t.Errorf("NormalShape default = %v, want block", cfg.NormalShape)
	}
	if cfg.InsertShape != escape.ShapeBar {
		t.Errorf("InsertShape default = %v, want bar", cfg.InsertShape)
	}
	if cfg.AssumeITerm || cfg.AssumeMintty || cfg.AssumeTerminalApp {
		t.Error("assume overrides default to true, want false")
	}
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		in      string
		want    escape.Shape
		wantErr bool
	}{
		{"block", escape.ShapeBlock, false},
		{"bar", escape.ShapeBar, false},
		{"underline", escape.ShapeUnderline, false},
		{"0", escape.ShapeBlock, false},
		{"1", escape.ShapeBar, false},
		{"2", escape.ShapeUnderline, false},
		{" Bar ", escape.ShapeBar, false},
		{"wedge", 0, true},
		{"3", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseShape(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseShape(%q) error = nil, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseShape(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseShape(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "termfix.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
fix_cursor = false
normal_shape = "underline"

[assume]
iterm = true
`)

	cfg, err := LoadFile(path, Default())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.FixCursor {
		t.Error("FixCursor = true, want false from file")
	}
	if !cfg.FixFocus {
		t.Error("FixFocus = false; file does not mention it, default must survive")
	}
	if cfg.NormalShape != escape.ShapeUnderline {
		t.Errorf("NormalShape = %v, want underline", cfg.NormalShape)
	}
	if cfg.InsertShape != escape.ShapeBar {
		t.Errorf("InsertShape = %v, want default bar", cfg.InsertShape)
	}
	if !cfg.AssumeITerm {
		t.Error("AssumeITerm = false, want true from file")
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"), Default())
	if err != nil {
		t.Fatalf("LoadFile(missing) error = %v, want nil", err)
	}
	if cfg != Default() {
		t.Errorf("LoadFile(missing) = %+v, want defaults", cfg)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed toml", "fix_cursor = ["},
		{"bad shape", `normal_shape = "wedge"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := LoadFile(path, Default()); err == nil {
				t.Error("LoadFile error = nil, want error")
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	vars := map[string]string{
		"TERMFIX_FIX_FOCUS":    "false",
		"TERMFIX_INSERT_SHAPE": "underline",
		"TERMFIX_ASSUME_ITERM": "1",
	}
	lookup := func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}

	cfg, err := LoadEnv(lookup, Default())
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}

	if cfg.FixFocus {
		t.Error("FixFocus = true, want false from env")
	}
	if !cfg.FixCursor {
		t.Error("FixCursor = false; env does not mention it, default must survive")
	}
	if cfg.InsertShape != escape.ShapeUnderline {
		t.Errorf("InsertShape = %v, want underline", cfg.InsertShape)
	}
	if !cfg.AssumeITerm {
		t.Error("AssumeITerm = false, want true from env")
	}
}

func TestLoadEnvBadValue(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == "TERMFIX_FIX_CURSOR" {
			return "maybe", true
		}
		return "", false
	}

	if _, err := LoadEnv(lookup, Default()); err == nil {
		t.Error("LoadEnv error = nil for unparsable boolean, want error")
	}
}
