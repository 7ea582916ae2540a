// wrapflow runs the rules of a workflow file through the tool wrappers, as a
// scipipe workflow
package main

import (
	"os"

	sp "github.com/scipipe/scipipe"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if sp.Error == nil {
			sp.InitLogError()
		}
		sp.Error.Println(err)
		os.Exit(1)
	}
}
