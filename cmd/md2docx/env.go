package main

import (
	"io"
	"os"
	"time"

	md2docx "github.com/alnah/go-md2docx"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// Options are appended to the converter options built from flags and
	// config, so tests can swap the diagram renderer.
	Options []md2docx.Option
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
