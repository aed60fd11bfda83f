package main

import (
	"os"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/app/matchctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
