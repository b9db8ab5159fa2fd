package goload

import (
	"fmt"
	"sync"

	"golang.org/x/tools/go/packages"
)

var std struct {
	once sync.Once
	pkgs []string
	err  error
}

// StdPackages returns the import paths of the standard library of the local
// Go installation. The result is loaded once per process.
func StdPackages() ([]string, error) {
	std.once.Do(func() {
		pkgs, err := packages.Load(nil, "std")
		if err != nil {
			std.err = fmt.Errorf("load std packages: %w", err)
			return
		}
		for _, pkg := range pkgs {
			std.pkgs = append(std.pkgs, pkg.PkgPath)
		}
	})
	return std.pkgs, std.err
}
