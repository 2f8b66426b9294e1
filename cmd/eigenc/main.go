// Command eigenc drives one compile of a pre-parsed EigenScript AST
// through internal/driver (spec §6.3). The lexer/parser/resolver that
// produce the AST are out of scope (spec §1); this binary consumes
// their JSON output directly.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	root := newRootCmd(log)
	if err := root.Execute(); err != nil {
		os.Exit(3)
	}
}
