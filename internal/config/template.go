package config

// Template is the starter .gitsafe.toml content written by `gitsafe
// init`, mirroring Default()'s values with every optional section
// commented out as an example.
const Template = `# GitSafe Configuration
version = "1.0"

[scan]
fail_on = "high"          # low | medium | high | critical
scan_unstaged = false
max_file_size_kb = 512
# early_exit = false      # stop rule loop on first critical per line

[output]
format = "terminal"       # terminal | json | sarif
show_summary = true
show_severity = true

[rules]
# enable = ["AWS_ACCESS_KEY", "PRIVATE_KEY"]   # empty = all enabled
# disable = ["HIGH_ENTROPY_STRING"]

[entropy]
enabled = true
min_entropy = 4.0
min_length = 16

[ignore]
# files = ["tests/*", "docs/*"]
# rules = ["HARDCODED_PASSWORD"]
# paths = ["config/example.env"]

[allowlist]
# patterns = ["example", "localhost", "dummy_key", "test"]

[ci]
# annotation_format = "github"   # github | gitlab | bitbucket | none
# full_redaction = true
# max_findings = 50              # circuit-breaker
`
