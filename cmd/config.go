package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
	"vcrm.dev/pkg/vcrm/internal/adapter"
	"vcrm.dev/pkg/vcrm/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "vcrm"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	excludeFlagName      = "exclude"
	projectRootFlagName  = "project-root"
	markerFlagName       = "marker"
	lensParallelFlagName = "parallel"
	formatFlagName       = "format"
	cassetteRootFlagName = "cassette-root"
	projectDirFlagName   = "project-dir"
	atFlagName           = "at"
	debounceFlagName     = "debounce"
	logFlagName          = "log"
	verboseFlagName      = "verbose"

	cassetteRootConfigKey = adapter.CassetteRootKey
	excludeConfigKey      = "paths.exclude"
	projectRootsConfigKey = "project.roots"
	markerConfigKey       = "project.marker"
	lensParallelConfigKey = "lens.parallel"
	formatConfigKey       = "lens.format"
	debounceConfigKey     = "watch.debounce"

	defaultCassetteRoot = ""
	defaultLensParallel = 4
	defaultFormat       = "table"
	defaultDebounce     = domain.DefaultDebounce

	envPrefix = "VCRM"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".vcrm.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

// configReadErr is returned before any command runs.
var configReadErr error

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(configFilePath())
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(cassetteRootConfigKey, defaultCassetteRoot)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(projectRootsConfigKey, []string{configFolderPath})
	viper.SetDefault(markerConfigKey, domain.DefaultProjectMarker)
	viper.SetDefault(lensParallelConfigKey, defaultLensParallel)
	viper.SetDefault(formatConfigKey, defaultFormat)
	viper.SetDefault(debounceConfigKey, defaultDebounce.String())

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	configReadErr = readConfig()
}

// readConfig loads vcrm.yaml. A missing file is not an error.
func readConfig() error {
	err := viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("failed to read config file: %w", err)
}

func configFilePath() string {
	return filepath.Join(configFolderPath, configFileName)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// parseDebounce reads a duration such as "250ms"; bare numbers are milliseconds.
func parseDebounce(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultDebounce
	}

	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}

	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return time.Duration(n) * time.Millisecond
	}

	return defaultDebounce
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
