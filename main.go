package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/clemarescx/bg3d/lsf"
	"github.com/clemarescx/bg3d/lspk"
)

var flagVerbose = &cli.BoolFlag{
	Name:    "verbose",
	Aliases: []string{"v"},
	Usage:   "enable debug logging",
}

func main() {
	app := &cli.App{
		Name:      "bg3d",
		Usage:     "inspect a save-game package and summarize its globals resource tree",
		ArgsUsage: "<path-to.lsv>",
		Flags:     []cli.Flag{flagVerbose},
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Error("failed")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool(flagVerbose.Name) {
		logrus.SetLevel(logrus.DebugLevel)
	}

	path := c.Args().First()
	if path == "" {
		return cli.Exit("missing required argument: <path-to.lsv>", 1)
	}

	pr, err := lspk.Open(path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}

	logrus.WithField("path", path).Info("reading package")
	pkg, err := pr.Read()
	if err != nil {
		return fmt.Errorf("reading package: %w", err)
	}
	logrus.WithField("entries", len(pkg.Entries())).Info("package parsed")

	for _, pfi := range pkg.Entries() {
		logrus.WithFields(logrus.Fields{
			"name":        pfi.Name,
			"method":      pfi.CompressionMethod(),
			"size":        pfi.EffectiveSize(),
			"archivePart": pfi.ArchivePart,
		}).Debug("entry")
	}

	globals, err := lsf.LoadGlobals(pr, pkg)
	if err != nil {
		return fmt.Errorf("loading globals.lsf: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"engineVersion": fmt.Sprintf("%d.%d.%d.%d", globals.EngineVersion.Major, globals.EngineVersion.Minor, globals.EngineVersion.Revision, globals.EngineVersion.Build),
		"regions":       len(globals.Regions),
		"nodes":         len(globals.Nodes),
	}).Info("globals.lsf decoded")

	for name, idx := range globals.Regions {
		node := globals.Nodes[idx]
		fmt.Printf("region %q: %d attribute(s), %d direct child kind(s)\n", name, len(node.Attributes), len(node.Children))
	}

	return nil
}
