// Package config loads the relay configuration.
//
// The four required values come from SLACK_WEBHOOK_URL, SLACK_WEBHOOK_MSG,
// LLM_URL and LLM_KEY. An optional TOML file named by BRIDGE_CONFIG supplies
// defaults that the environment overrides. Any required value may be written
// as "ssm:<name>" and resolved through Parameter Store before use.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
