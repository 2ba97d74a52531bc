package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort    = "Classify and repair GFF3 features with rule tables"
	MsgVersionShort = "Print version information"
	MsgCheckShort   = "Load rule sources and report problems"
	MsgTableShort   = "Print the built rule table"
	MsgTagShort     = "Show which rules a tag matches"
	MsgApplyShort   = "Run a GFF3 file through the rule table"
	MsgConfigShort  = "Inspect or create the configuration file"
	MsgConfigInit   = "Print a commented configuration file"
	MsgConfigShow   = "Print the effective configuration"

	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig      = "Configuration file (default $XDG_CONFIG_HOME/gffrules/config.toml)"
	MsgFlagColor       = "Color output: auto, always or never"
	MsgFlagFormat      = "Diagnostics format: text, json or xml"
	MsgFlagStrict      = "Fail on warnings too"
	MsgFlagRules       = "Rule source (repeatable); defaults to rules.files"
	MsgFlagOutput      = "Output file, '-' for stdout; .gz and .xz are compressed"
	MsgFlagDiff        = "Print a line diff of the input against the output instead of the output"
	MsgFlagMetricsFile = "Write Prometheus metrics to this file"
	MsgFlagWorkers     = "Dispatch goroutines, 0 for one per CPU"
	MsgFlagAttr        = "Attribute key=value set on the record before dispatch (repeatable)"
	MsgFlagWrite       = "Write the file to the default location instead of stdout"

	MsgErrNoRules        = "no rule sources: pass RULES or set rules.files"
	MsgErrFatal          = "rule table has fatal errors"
	MsgErrStrict         = "rule table has %d warning(s)"
	MsgNoMatch           = "no rule matched %q (fallback %s, no config: %t)\n"
	MsgCheckSummary      = "%d exact pattern(s), %d regex pattern(s), %d alias(es), %d diagnostic(s)\n"
	MsgApplySummary      = "%d records: %d matched, %d unmatched, %d valid, %d invalid, %d ignored, %d rewritten\n"
	MsgConfigWritten     = "Wrote %s\n"
	MsgConfigExists      = "config file %s already exists"
	MsgVersionFormat     = "gffrules version %s\n  commit: %s\n  built:  %s\n"
	MsgTableExactHeader  = "EXACT PATTERNS"
	MsgTableRegexHeader  = "REGEX PATTERNS"
	MsgTableEmpty        = "  (none)"
	MsgTagResultHeader   = "RESULT"
	MsgTagMatchesHeader  = "MATCHES"
	MsgTopicsUnavailable = "failed to load help topics"
)

// Embedded long descriptions
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/check-long.txt
	msgCheckLongRaw string
	MsgCheckLong    = strings.TrimSpace(msgCheckLongRaw)

	//go:embed msgs/apply-long.txt
	msgApplyLongRaw string
	MsgApplyLong    = strings.TrimSpace(msgApplyLongRaw)

	//go:embed msgs/apply-example.txt
	msgApplyExampleRaw string
	MsgApplyExample    = strings.TrimSpace(msgApplyExampleRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
