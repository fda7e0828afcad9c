package ui

import (
	"fmt"
	"io"
	"os"
)

type Verbosity int

const (
	VerbosityQuiet Verbosity = iota
	VerbosityNormal
	VerbosityVerbose
)

var (
	currentVerbosity           = VerbosityNormal
	stdout           io.Writer = os.Stdout
	stderr           io.Writer = os.Stderr
)

func SetVerbosity(v Verbosity) {
	currentVerbosity = v
}

// SetOutput redirects normal and diagnostic output. Nil restores the
// process streams.
func SetOutput(out, errOut io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout, stderr = out, errOut
}

func IsQuiet() bool {
	return currentVerbosity == VerbosityQuiet
}

func IsVerbose() bool {
	return currentVerbosity == VerbosityVerbose
}

func Print(format string, args ...any) {
	if currentVerbosity >= VerbosityNormal {
		fmt.Fprintf(stdout, format, args...)
	}
}

func Println(args ...any) {
	if currentVerbosity >= VerbosityNormal {
		fmt.Fprintln(stdout, args...)
	}
}

// Warn prints a highlighted warning line unless quiet.
func Warn(format string, args ...any) {
	if currentVerbosity >= VerbosityNormal {
		fmt.Fprintln(stdout, WarnStyle.Render("⚠️  "+fmt.Sprintf(format, args...)))
	}
}

func Debug(format string, args ...any) {
	if currentVerbosity >= VerbosityVerbose {
		fmt.Fprintf(stderr, "[debug] "+format+"\n", args...)
	}
}

func Error(format string, args ...any) {
	fmt.Fprintf(stderr, format, args...)
}
