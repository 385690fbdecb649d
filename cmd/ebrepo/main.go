package main

import (
	"github.com/alecthomas/kong"

	"github.com/piojo/easybuild-framework/cmd/ebrepo/commands"
	"github.com/piojo/easybuild-framework/internal/version"
)

func main() {
	cli := commands.CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("ebrepo"),
		kong.Description("Record and query per-package build results in a file, git or svn backed repository"),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&commands.Global{})
	ctx.FatalIfErrorf(err)
}
