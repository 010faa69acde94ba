package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fundix_e2e/application/scenario"
	"fundix_e2e/application/suites"
	"fundix_e2e/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const appName = "fundix-e2e"

// Execute runs the command line application and exits non-zero on error
func Execute() {
	if err := NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// NewApp - creates the command line application
func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "end-to-end checks of the fundix.pro landing page"
	app.Version = "1.0.0"
	app.Commands = []*cli.Command{
		{
			Name:    "run",
			Aliases: []string{"r"},
			Usage:   "run the suites against the configured site",
			Action:  Run,
			Flags:   RunFlags(),
		},
		{
			Name:    "list",
			Aliases: []string{"ls"},
			Usage:   "list suites, scenarios and their tags",
			Action:  List,
		},
	}
	return app
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

// List prints every suite with its scenarios
func List(c *cli.Context) error {
	out := c.App.Writer
	for _, suite := range suites.All() {
		fmt.Fprintf(out, "%s (%d)\n", suite.Name, len(suite.Scenarios))
		for _, sc := range suite.Scenarios {
			line := "  " + sc.Name
			if len(sc.Tags) > 0 {
				line += " [" + strings.Join(sc.Tags, ", ") + "]"
			}
			fmt.Fprintln(out, line)
		}
	}
	fmt.Fprintf(out, "\ntags: %s\n", strings.Join(scenario.Tags(suites.All()), ", "))
	fmt.Fprintf(out, "engines: %s\n", strings.Join(config.Engines, ", "))
	return nil
}
