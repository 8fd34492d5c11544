package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/CodMac/go-treesitter-class-analyzer/config"
	"github.com/CodMac/go-treesitter-class-analyzer/engine"
	"github.com/CodMac/go-treesitter-class-analyzer/model"
	"github.com/CodMac/go-treesitter-class-analyzer/output"
)

var (
	analyzeRoot  string
	analyzeDepth int
	analyzeMode  string
	analyzeOut   string
	useIndex     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze cross-file class relationships starting from a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		provider := engine.NewOSFileProvider(analyzeRoot, cfg)

		opts := []engine.Option{engine.WithConfig(cfg)}
		if useIndex {
			pipeline := engine.NewPipeline()
			idx, err := engine.BuildImportIndex(provider, pipeline)
			pipeline.Close()
			if err != nil {
				return fmt.Errorf("failed to build import index: %w", err)
			}
			logrus.Infof("import index ready: %d names", idx.Size())
			opts = append(opts, engine.WithIndex(idx))
		}
		eng := engine.New(provider, opts...)

		startFile := args[0]
		switch engine.Mode(analyzeMode) {
		case engine.ModeForward:
			results, err := eng.AnalyzeForward(startFile, analyzeDepth)
			if err != nil {
				return err
			}
			return writeResults(results)
		case engine.ModeReverse:
			results, err := eng.AnalyzeReverse(startFile, analyzeDepth)
			if err != nil {
				return err
			}
			return writeResults(results)
		case engine.ModeBidirectional:
			result, err := eng.AnalyzeBidirectional(startFile, analyzeDepth)
			if err != nil {
				return err
			}
			if analyzeOut != "" {
				n, err := output.ExportBidirectional(analyzeOut, result)
				if err != nil {
					return err
				}
				fmt.Printf("Wrote %d records to %s\n", n, analyzeOut)
				return nil
			}
			w := output.NewJSONLWriter(os.Stdout)
			if err := w.Write(result.Stats); err != nil {
				return err
			}
			return w.WriteRelations(result.Relationships)
		default:
			return fmt.Errorf("unknown mode %q (forward|reverse|bidirectional)", analyzeMode)
		}
	},
}

func writeResults(results map[string]*model.FileAnalysisResult) error {
	if analyzeOut != "" {
		n, err := output.ExportResults(analyzeOut, results)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d files to %s\n", n, analyzeOut)
		return nil
	}
	return output.NewJSONLWriter(os.Stdout).WriteResults(results)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRoot, "root", ".", "project root directory")
	analyzeCmd.Flags().IntVar(&analyzeDepth, "depth", 3, "maximum traversal depth")
	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", "forward", "traversal mode: forward, reverse or bidirectional")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "write JSONL output to file instead of stdout")
	analyzeCmd.Flags().BoolVar(&useIndex, "index", false, "prebuild an import index for O(1) name lookup")
	rootCmd.AddCommand(analyzeCmd)
}
