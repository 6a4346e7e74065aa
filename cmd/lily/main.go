package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/thelilylang/lily-sub007/internal/diagnostics"
	"github.com/thelilylang/lily-sub007/internal/index"
	"github.com/thelilylang/lily-sub007/internal/mir"
	"github.com/thelilylang/lily-sub007/internal/pipeline"
	"github.com/thelilylang/lily-sub007/internal/project"
)

var (
	verbose      bool
	disableCodes []string
	indexPath    string
)

func main() {
	root := &cobra.Command{
		Use:   "lily",
		Short: "Lily compiler front-end",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringSliceVar(&disableCodes, "disable", nil, "warning codes to disable")

	checkCmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Run semantic analysis over a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(args[0], false)
		},
	}
	checkCmd.Flags().StringVar(&indexPath, "index", ".lily-index.db", "workspace index to update")

	mirCmd := &cobra.Command{
		Use:   "mir <file>",
		Short: "Run the pipeline and render the MIR module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(args[0], true)
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [dir]",
		Short: "Load and echo the resolved project configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			config, err := project.LoadDir(dir)
			if err != nil {
				return err
			}
			fmt.Printf("standard: %s\ncompiler: %s (%s)\n", config.Standard, config.Compiler.Kind, config.Compiler.Path)
			for _, dir := range config.IncludeDirs {
				fmt.Printf("include: %s\n", dir)
			}
			for _, lib := range config.Libraries {
				fmt.Printf("library: %s %v\n", lib.Name, lib.Paths)
			}
			for _, bin := range config.Bins {
				fmt.Printf("bin: %s %s\n", bin.Name, bin.Path)
			}
			return nil
		},
	}

	codesCmd := &cobra.Command{
		Use:   "codes",
		Short: "List the stable diagnostic code vocabulary",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("error codes: 0001..0153 (see internal/diagnostics)")
		},
	}

	root.AddCommand(checkCmd, mirCmd, configCmd, codesCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func toCodes(raw []string) []diagnostics.Code {
	out := make([]diagnostics.Code, len(raw))
	for i, c := range raw {
		out[i] = diagnostics.Code(c)
	}
	return out
}

// runPipeline parses (through the registered surface parser), checks and
// optionally renders MIR for one file. The process exits non-zero when
// any error was rendered.
func runPipeline(file string, renderMir bool) error {
	parse := pipeline.Parser()
	if parse == nil {
		return fmt.Errorf("no surface parser is linked into this build; the scanner and parsers are external collaborators")
	}
	src, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	root, parseDiags := parse(file, src)
	ctx := pipeline.NewPipelineContext(file, root, toCodes(disableCodes))
	for _, d := range parseDiags {
		if ctx.Counter.Count(d) {
			ctx.Errors = append(ctx.Errors, d)
		}
	}
	ctx = pipeline.Default().Run(ctx)
	for _, d := range ctx.Errors {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	if indexPath != "" {
		if ix, err := index.Open(indexPath); err == nil {
			if err := ix.UpdateFile(file, ctx.Checked, ctx.Errors); err != nil {
				logrus.WithError(err).Warn("index update failed")
			}
			ix.Close()
		}
	}
	if renderMir && ctx.Mir != nil {
		fmt.Print(mir.NewRenderer().RenderModule(ctx.Mir))
	}
	if ctx.HasErrors() {
		os.Exit(1)
	}
	return nil
}
