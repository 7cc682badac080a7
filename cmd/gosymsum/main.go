// cmd/gosymsum/main.go — command line front end for gosymsum
//
// Examples:
//
//	gosymsum simplify "(x + 1)^3"
//	gosymsum rowsum i 1 n "i^2" --format latex
//	gosymsum subst "x^2 + y" x=3 y=z
//	gosymsum diff-check "i^3 + 2*i"
//	gosymsum demo
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
