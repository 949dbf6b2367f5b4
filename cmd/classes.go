package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metafix/format"
	"github.com/lehigh-university-libraries/metafix/namespace"
	"github.com/lehigh-university-libraries/metafix/rules"
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List diagnostic classes, classifier rules, engines and templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		classifier, err := loadClassifier()
		if err != nil {
			return err
		}

		fmt.Println("Diagnostic classes:")
		for _, c := range rules.Classes() {
			fmt.Printf("  %s\n", c)
		}

		fmt.Printf("\nClassifier rules (%s):\n", classifier.Name())
		for _, r := range classifier.Rules() {
			desc := ""
			if r.Description != "" {
				desc = " - " + r.Description
			}
			fmt.Printf("  [%d] %s -> %s%s\n", r.Priority, r.Name, r.Class, desc)
		}

		fmt.Println("\nEngines:")
		for _, name := range format.DefaultRegistry.List() {
			e, _ := format.Get(name)
			fmt.Printf("  %s - %s\n", name, e.Description())
		}

		registry, err := namespace.NewRegistry()
		if err != nil {
			return err
		}
		fmt.Println("\nNamespace templates:")
		for _, name := range registry.List() {
			t, _ := registry.Get(name)
			desc := ""
			if t.Description != "" {
				desc = " - " + t.Description
			}
			fmt.Printf("  %s%s\n", name, desc)
		}
		return nil
	},
}
