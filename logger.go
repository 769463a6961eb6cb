package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	errorLogger  *log.Logger
	errorLogPath string
	errorLogOnce sync.Once

	debugLogger  *log.Logger
	debugLogPath string
	debugLogOnce sync.Once

	// logDir is relative to the data directory unless absolute.
	logDir = "logs"
)

func logDirPath() string {
	if filepath.IsAbs(logDir) {
		return logDir
	}
	return filepath.Join(dataDirPath, logDir)
}

func setupLogging(debug bool) {
	dir := logDirPath()
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("could not create log directory: %v", err)
	}
	ts := time.Now().Format("20060102-150405")

	errorLogPath = filepath.Join(dir, fmt.Sprintf("error-%s.log", ts))
	errorLogOnce = sync.Once{}
	errorLogger = log.New(os.Stderr, "", log.LstdFlags)
	log.SetOutput(errorLogger.Writer())

	setDebugLogging(debug)
}

// openErrorLog lazily creates the error log file so runs without errors
// leave nothing behind.
func openErrorLog() {
	errorLogOnce.Do(func() {
		if f, err := os.Create(errorLogPath); err == nil {
			errorLogger.SetOutput(io.MultiWriter(os.Stderr, f))
			log.SetOutput(errorLogger.Writer())
		}
	})
}

func logError(format string, v ...interface{}) {
	if errorLogger == nil {
		log.Printf(format, v...)
		return
	}
	openErrorLog()
	errorLogger.Printf(format, v...)
}

func logWarn(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	if errorLogger == nil {
		log.Printf("warning: %s", msg)
		return
	}
	openErrorLog()
	errorLogger.Printf("warning: %s", msg)
}

func logInfo(format string, v ...interface{}) {
	if silent {
		return
	}
	log.Printf(format, v...)
}

func logDebug(format string, v ...interface{}) {
	if debugLogger == nil {
		return
	}
	debugLogOnce.Do(func() {
		if f, err := os.Create(debugLogPath); err == nil {
			debugLogger.SetOutput(io.MultiWriter(os.Stderr, f))
		}
	})
	debugLogger.Printf(format, v...)
}

func setDebugLogging(enabled bool) {
	if enabled {
		dir := logDirPath()
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("could not create log directory: %v", err)
		}
		ts := time.Now().Format("20060102-150405")
		debugLogPath = filepath.Join(dir, fmt.Sprintf("debug-%s.log", ts))
		debugLogOnce = sync.Once{}
		debugLogger = log.New(os.Stderr, "debug: ", log.LstdFlags)
	} else {
		debugLogger = nil
	}
}
