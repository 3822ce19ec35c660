package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/th3fanbus/scriptviewer/internal/config"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	walkRoot         string
	configFile       string
	dumpIntermediate bool
	renderImages     bool
	verbose          bool
)

var rootCmd = &cobra.Command{
	Use:   "scriptviewer [source]",
	Short: "Blueprint bytecode disassembler and graph viewer",
	Long: `scriptviewer disassembles the script bytecode of Blueprint functions
extracted from an asset dump and draws the control-flow graph of each
function as a Graphviz document.

Every function in the dump yields its full graph and one further graph
per entrypoint other than statement 0. Statements become record nodes
showing the decoded instruction, and edges follow
linear fall-through, explicit jumps, and the execution-flow stack
reconstructed at analysis time.

Examples:
  # Disassemble one dump file
  scriptviewer Equip_StunSpear.json

  # Process every .json file below a directory
  scriptviewer -d Map_Menu/

  # Keep the decoded statement nodes next to the graphs
  scriptviewer --dump-intermediate Equip_StunSpear.json`,
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runRoot,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.Flags().StringVarP(&walkRoot, "dir", "d", "", "walk a directory tree and process every .json file")
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML file overriding theme and output settings")
	rootCmd.Flags().BoolVar(&dumpIntermediate, "dump-intermediate", false, "also write decoded statement nodes as JSON")
	rootCmd.Flags().BoolVar(&renderImages, "render", false, "render an SVG next to each .gv file (requires Graphviz)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	switch {
	case walkRoot != "":
		return processDir(cfg, walkRoot)
	case len(args) == 1:
		return processFile(cfg, args[0])
	default:
		return cmd.Help()
	}
}
