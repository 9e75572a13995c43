package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/2beens/gymprogress/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
	// zero keeps every rotated file
	MaxBackups int
	MaxAgeDays int
}

// Setup configures the global logrus logger and returns a func that flushes
// sentry and closes the log file.
func Setup(params LoggerSetupParams) func() {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))

	sentryEnabled := params.SentryEnabled && params.SentryDSN != ""
	if params.SentryEnabled && !sentryEnabled {
		logrus.Warnln("sentry enabled, but SENTRY_DSN not set")
	}
	if sentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			TracesSampleRate: 1.0,
			ServerName:       params.SentryServerName,
		})
		if err != nil {
			logrus.Errorf("sentry.Init: %s", err)
			sentryEnabled = false
		} else {
			logrus.AddHook(NewSentryHook([]logrus.Level{
				logrus.PanicLevel,
				logrus.FatalLevel,
				logrus.ErrorLevel,
			}))
			logrus.Infoln("sentry set up successfully")
		}
	}

	output, closeOutput := setupOutput(params.LogFileName, params.LogToStdout, params.MaxBackups, params.MaxAgeDays)
	logrus.SetOutput(output)

	return func() {
		if sentryEnabled {
			ok := sentry.Flush(5 * time.Second)
			logrus.Debugf("sentry flush ok: %t", ok)
		}
		if closeOutput != nil {
			if err := closeOutput(); err != nil {
				logrus.SetOutput(os.Stderr)
				logrus.Errorf("close log file: %s", err)
			}
		}
	}
}

func setupOutput(fileName string, toStdout bool, maxBackups, maxAgeDays int) (io.Writer, func() error) {
	if fileName == "" {
		logrus.Println("writing logs only to STDOUT")
		return os.Stdout, nil
	}

	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    50,    // megabytes
		LocalTime:  false, // false -> use UTC
		Compress:   true,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}

	if toStdout {
		logrus.Println("writing logs to file and STDOUT")
		return pkg.NewCombinedWriter(os.Stdout, lumberJackLogger), lumberJackLogger.Close
	}
	return lumberJackLogger, lumberJackLogger.Close
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn", "warning":
		return logrus.WarnLevel
	default:
		return logrus.TraceLevel
	}
}
