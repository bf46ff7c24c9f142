// Package config loads podrun settings from a TOML file and the environment.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/podrun/config.toml
//  3. If the file doesn't exist, use defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # TOML Format
//
//	base_url = "https://api.runpod.ai/v2"
//	endpoint_id = "yo0g3z9woupofk"
//	api_key_env = "RUNPOD_API_KEY"
//	poll_seconds = 2
//	retry_seconds = 5
//	max_polls = 0          # 0 polls forever
//	timeout_seconds = 0    # 0 waits forever
//	request_timeout_seconds = 30
//	output_dir = ""        # empty writes into the working directory
//	theme = "Nightfox"
//
// # Credential
//
// The API key is never stored in the file. Load reads it from the variable
// named by api_key_env; Validate fails when it is empty so the caller can exit
// before touching the network.
package config
