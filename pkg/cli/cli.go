package cli

import (
	"os"

	"github.com/armatureproject/armature/pkg/core"
	"github.com/armatureproject/armature/pkg/input"
	"github.com/armatureproject/armature/pkg/logging"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var buildConfig struct {
	manifestPath string
	outputPath   string
	verbose      bool
}

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "armature",
		Short:         "Compile declarative resource manifests into deployment templates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBuildCmd())
	return root
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile a manifest into an ARM deployment template",
		RunE:  runBuild,
	}
	flags := cmd.Flags()
	flags.StringVarP(&buildConfig.manifestPath, "file", "f", "armature.yaml", "Manifest to compile")
	flags.StringVarP(&buildConfig.outputPath, "out", "o", "", "Output path (default stdout)")
	flags.BoolVarP(&buildConfig.verbose, "verbose", "v", false, "Verbose logging")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(buildConfig.verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	f, err := os.Open(buildConfig.manifestPath)
	if err != nil {
		return errors.Wrap(err, "opening manifest")
	}
	defer f.Close()

	manifest, err := input.ReadManifest(f)
	if err != nil {
		return err
	}
	builders, err := manifest.Builders()
	if err != nil {
		return err
	}

	deployment := core.NewDeployment()
	if err := deployment.AddBuilt(builders...); err != nil {
		return err
	}
	template, err := deployment.Render()
	if err != nil {
		return err
	}

	out := os.Stdout
	dest := "stdout"
	if buildConfig.outputPath != "" {
		out, err = os.Create(buildConfig.outputPath)
		if err != nil {
			return errors.Wrap(err, "creating output file")
		}
		defer out.Close()
		dest = buildConfig.outputPath
	}
	if err := template.WriteTo(out); err != nil {
		return errors.Wrap(err, "writing template")
	}

	green := color.New(color.FgGreen)
	green.Fprintf(os.Stderr, "wrote template with %d resources to %s\n", len(template.Resources), dest)
	return nil
}
