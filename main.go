package main

import (
	"github.com/lehigh-university-libraries/metafix/cmd"

	// Register repair engines
	_ "github.com/lehigh-university-libraries/metafix/format/dublincore"
	_ "github.com/lehigh-university-libraries/metafix/format/jsonld"
)

func main() {
	cmd.Execute()
}
