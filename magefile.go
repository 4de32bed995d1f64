//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Build compiles the pyext CLI into bin/.
func Build() error {
	mg.Deps(Lint)
	return sh.RunV("go", "build", "-o", "bin/pyext", "./cmd/pyext")
}

// Test runs the full test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint vets the module.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Tidy syncs go.mod and go.sum.
func Tidy() error {
	return sh.RunV("go", "mod", "tidy")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm("bin")
}
