package config

// Template은 launchpad setup이 생성하는 기본 config.toml 내용이다.
const Template = `# launchpad configuration file

# verbose = false
# data_home = "~/.local/share/launchpad"
# skip_global_scan = false
# max_retries = 3
# timeout = "60s"
# sniff_timeout = "10s"

# show_shell_messages = true
# shell_activation_message = "✅ Environment activated for {path}"
# shell_deactivation_message = "dev environment deactivated"

[installer]
# command = "pkgx"
# args = ["install", "--prefix", "{prefix}", "{packages}"]

[services]
# data_dir = "~/.local/share/launchpad/services"
# log_dir = "~/.local/share/launchpad/logs"
# auto_restart = true
# startup_timeout = "30s"
# shutdown_timeout = "10s"
`
