// Package config resolves pimenu's runtime settings.
//
// # Sources
//
// Settings are layered with koanf, later sources overriding earlier ones:
//
//  1. Built-in defaults
//  2. The optional YAML file ~/.config/pimenu/config.yaml (or an explicit path)
//  3. Environment variables with the PIMENU_ prefix
//
// Environment keys are the lowercased suffix, so PIMENU_COMMAND_TIMEOUT sets
// command_timeout and PIMENU_INSTALL_DIR sets install_dir.
//
// # Defaults
//
//   - install_dir: directory of the pimenu executable
//   - menu_file: <install_dir>/pimenu.yaml
//   - icon_dir: <install_dir>/ico
//   - script_path: <install_dir>/pimenu.sh
//   - save_dir: ~ (saved command output)
//   - log_file: ~/.local/state/pimenu/pimenu.log
//   - log_level: info (debug, info, warn, error)
//   - shell: /bin/sh
//   - command_timeout: 300 (seconds)
//   - script_timeout: 30 (seconds)
//
// Timeouts accept a bare number of seconds or a Go duration such as "90s".
// Paths support a leading ~ and are returned absolute.
//
// # Example
//
//	install_dir: /opt/pimenu
//	command_timeout: 120
//	save_dir: ~/pimenu-output
//
// A missing config file is not an error. A file that exists but cannot be parsed
// is, as is an invalid timeout.
package config
