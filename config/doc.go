// Package config loads ratio study options from a YAML file and
// RATIOSTUDY_* environment variables.
//
// Precedence, lowest first: built-in defaults, the YAML file, the
// environment. A minimal file:
//
//	trim:
//	  enabled: true
//	  iqr_multiplier: 1.5
//	intervals:
//	  seed: 42
//	chasing:
//	  methods: [distribution, cdf]
//	  rule: all
//
// The same settings from the environment:
//
//	RATIOSTUDY_TRIM_ENABLED=true
//	RATIOSTUDY_TRIM_IQR_MULTIPLIER=1.5
//	RATIOSTUDY_INTERVALS_SEED=42
//	RATIOSTUDY_CHASING_METHODS=distribution,cdf
//	RATIOSTUDY_CHASING_RULE=all
//
// Then:
//
//	cfg, err := config.Load("ratiostudy.yaml")
//	opts := cfg.Options(os.Stderr)
package config
