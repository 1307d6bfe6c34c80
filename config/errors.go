package config

import "errors"

// ErrUnsupportedDriver is returned for driver names other than the Driver* constants.
var ErrUnsupportedDriver = errors.New("unsupported driver")

// ErrReadingConfigFileFailed is returned when the run config file cannot be read.
var ErrReadingConfigFileFailed = errors.New("reading the config file failed")

// ErrParsingConfigFileFailed is returned when the run config file is not valid YAML.
var ErrParsingConfigFileFailed = errors.New("parsing the config file failed")

// ErrInvalidRunConfig is returned by RunConfig.Validate.
var ErrInvalidRunConfig = errors.New("invalid run config")

// ErrOpeningDatabaseFailed is returned when a database connection cannot be opened or pinged.
var ErrOpeningDatabaseFailed = errors.New("opening the database failed")
