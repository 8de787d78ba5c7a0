package config

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/xyproto/env/v2"
)

func TestDefaults(t *testing.T) {
	cfg := NewConfig()

	be.True(t, cfg.IsFeatureEnabled(FeatAsm))
	be.True(t, cfg.IsFeatureEnabled(FeatIncDec))
	be.True(t, cfg.IsWarningEnabled(WarnUnrecognizedEscape))
	be.True(t, !cfg.IsWarningEnabled(WarnExtra))

	be.Equal(t, cfg.WordSize, 8)
	be.Equal(t, cfg.StackAlignment, 16)
}

func TestApplyFlag(t *testing.T) {
	tests := []struct {
		flag  string
		check func(cfg *Config) bool
	}{
		{"-Wextra", func(cfg *Config) bool { return cfg.IsWarningEnabled(WarnExtra) }},
		{"-Wno-u-esc", func(cfg *Config) bool { return !cfg.IsWarningEnabled(WarnUnrecognizedEscape) }},
		{"-Fno-asm", func(cfg *Config) bool { return !cfg.IsFeatureEnabled(FeatAsm) }},
		{"-Fno-inc-dec", func(cfg *Config) bool { return !cfg.IsFeatureEnabled(FeatIncDec) }},
		{"-Finc-dec", func(cfg *Config) bool { return cfg.IsFeatureEnabled(FeatIncDec) }},
	}
	for _, tt := range tests {
		cfg := NewConfig()
		be.Err(t, cfg.ApplyFlag(tt.flag), nil)
		be.True(t, tt.check(cfg))
	}
}

func TestApplyFlagAll(t *testing.T) {
	cfg := NewConfig()
	be.Err(t, cfg.ApplyFlag("-Wall"), nil)
	for i := Warning(0); i < WarnCount; i++ {
		be.True(t, cfg.IsWarningEnabled(i))
	}
}

func TestApplyFlagUnknown(t *testing.T) {
	cfg := NewConfig()
	be.Err(t, cfg.ApplyFlag("-Wbogus"))
	be.Err(t, cfg.ApplyFlag("-Fbogus"))
	be.Err(t, cfg.ApplyFlag("-Xthing"))
}

func TestToolchainOverride(t *testing.T) {
	t.Setenv("EZC_NASM", "/opt/bin/nasm")
	t.Setenv("EZC_LD", "mold")
	// env caches the environment on first read; drop it so the values set
	// above are visible.
	env.Unload()
	t.Cleanup(env.Unload)
	cfg := NewConfig()
	be.Equal(t, cfg.Assembler, "/opt/bin/nasm")
	be.Equal(t, cfg.Linker, "mold")
}
