package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/nepcollege/internal/model"
	"github.com/amishk599/nepcollege/internal/store"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List provinces, universities and faculties",
	Long:  "Prints the option lists offered by the form, including overrides from the config, and the saved selections.",
	RunE:  runOptions,
}

var resetSaved bool

func init() {
	optionsCmd.Flags().BoolVar(&resetSaved, "reset", false, "forget the saved form selections")
	rootCmd.AddCommand(optionsCmd)
}

func runOptions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cat := buildCatalog(cfg)

	printList := func(title string, items []string) {
		fmt.Printf("%s (%d)\n", title, len(items))
		fmt.Println(strings.Repeat("─", 40))
		for _, it := range items {
			fmt.Printf("  %s\n", it)
		}
		fmt.Println()
	}
	printList("Provinces", cat.Provinces)
	printList("Universities", cat.Universities)
	printList("Faculties", cat.Faculties)

	if noPersist {
		return nil
	}
	if _, err := os.Stat(cfg.StorePath); err != nil {
		return nil
	}
	s, err := store.NewSQLiteStore(cfg.StorePath)
	if err != nil {
		return err
	}
	defer s.Close()
	if resetSaved {
		if err := s.Clear(); err != nil {
			return err
		}
		fmt.Println("Saved selections cleared.")
		return nil
	}
	saved, err := s.All()
	if err != nil {
		return err
	}
	if len(saved) == 0 {
		return nil
	}
	fmt.Println("Saved selections")
	fmt.Println(strings.Repeat("─", 40))
	for _, k := range []string{model.KeyProvince, model.KeyUniversity, model.KeyFaculty, model.KeyTheme} {
		if v := saved[k]; v != "" {
			fmt.Printf("  %-12s %s\n", k, v)
		}
	}
	return nil
}
