package helpers

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/LewisCM14/allotment-sub001/pkg/redact"
)

// NewLogger creates a configured Logrus logger.
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger initialized")
	return logger
}

// LogError logs an error with redacted message and fields. Every error-path
// log call in the service goes through here so secret values never land in
// log output.
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	if logger == nil {
		return
	}
	if fields == nil {
		fields = logrus.Fields{}
	}
	if err != nil {
		fields["error"] = redact.Message(err.Error())
	}
	logger.WithFields(redact.Fields(fields)).Error(msg)
}

// LogWarn mirrors LogError at warning level.
func LogWarn(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	if logger == nil {
		return
	}
	if fields == nil {
		fields = logrus.Fields{}
	}
	if err != nil {
		fields["error"] = redact.Message(err.Error())
	}
	logger.WithFields(redact.Fields(fields)).Warn(msg)
}

// LogInfo logs at info level with redacted fields.
func LogInfo(logger *logrus.Logger, msg string, fields logrus.Fields) {
	if logger == nil {
		return
	}
	if fields == nil {
		fields = logrus.Fields{}
	}
	logger.WithFields(redact.Fields(fields)).Info(msg)
}
