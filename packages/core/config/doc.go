// Package config handles hitcheck configuration files.
//
// Configuration is loaded from the first of .hitcheck.json,
// hitcheck.config.json, .hitcheck.yaml or .hitcheck.yml found in the
// current directory, or from an explicit --config path. Values missing
// from the file keep their defaults; command-line flags override both.
//
// Example .hitcheck.yaml:
//
//	regexTimeout: 500
//	output: junit
//	outputFile: report.xml
//	store: .hitcheck/history.db
//	log:
//	  level: debug
//	  output: file
//	  filePath: hitcheck.log
package config
