// Package config loads application configuration from environment
// variables and optional .env files.
//
// Supported variables:
//
//	TAGFILE_DB_PATH     directory for index databases (default ~/.tagfile/indices)
//	TAGFILE_DELIMITER   single-character line delimiter (default newline)
//	TAGFILE_WORKERS     indexing worker count, 0 = NumCPU (default 0)
//	TAGFILE_EXTENSIONS  comma-separated file extensions to index (default .tags)
//
// A .env file in the working directory or one of its parents is loaded
// before reading the environment; real environment variables win over
// .env entries.
package config
