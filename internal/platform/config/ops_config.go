// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OpsConfig holds operational knobs that don't fit the flat
// environment-variable model: feature toggles and sampling targets that
// are tuned more often than the process is redeployed.
type OpsConfig struct {
	// BackupEnabled toggles the out-of-scope backup-export collaborator.
	BackupEnabled bool `yaml:"backup_enabled"`

	// ShadowLogRetentionPerProject is a per-project row count in the shape
	// access.Service.TrimViolationLog takes as keep. cmd/api does not load
	// OpsConfig or run a trim, so this value currently bounds nothing.
	ShadowLogRetentionPerProject int `yaml:"shadow_log_retention_per_project"`

	// CostTargets names soft budget targets surfaced to operators; not
	// enforced by the core engine, only reported.
	CostTargets struct {
		EmbeddingCallsPerDay int `yaml:"embedding_calls_per_day"`
	} `yaml:"cost_targets"`
}

// DefaultOpsConfig returns conservative defaults used when no YAML file is
// present, so the service can start without an ops file in development.
func DefaultOpsConfig() *OpsConfig {
	cfg := &OpsConfig{
		BackupEnabled:                false,
		ShadowLogRetentionPerProject: 10_000,
	}
	cfg.CostTargets.EmbeddingCallsPerDay = 50_000
	return cfg
}

// LoadOpsConfig reads and parses the YAML file at path. A missing file is
// not an error — it falls back to [DefaultOpsConfig] since these are
// operational tuning knobs, not correctness-critical settings.
func LoadOpsConfig(path string) (*OpsConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultOpsConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading ops config %q: %w", path, err)
	}

	cfg := DefaultOpsConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing ops config %q: %w", path, err)
	}

	return cfg, nil
}
