package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/gddforge/gdd"
	"github.com/hupe1980/gddforge/template"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a document JSON file or a template YAML file",
	Long: `Validate a previously generated document (JSON) or a quick template
(YAML) against the document schema. The file kind is inferred from the
extension.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		green := color.New(color.FgGreen).SprintFunc()

		var (
			doc *gdd.Document
			err error
		)
		switch {
		case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
			var tpl *template.Template
			tpl, err = template.Load(path)
			if err == nil {
				doc, err = tpl.Document()
			}
		default:
			var data []byte
			data, err = os.ReadFile(path)
			if err == nil {
				doc, err = gdd.ParseDocument(string(data))
			}
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		fmt.Printf("%s %s (%d systems, %d milestones)\n",
			green("valid:"), doc.Meta.Title, len(doc.Systems), len(doc.Progression.Milestones))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
