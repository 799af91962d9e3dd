package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known scenarios",
	Long:  `Shows the bundled scenarios and those found in --dir.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitf("%v", err)
	}
	r, err := catalog()
	if err != nil {
		exitf("%v", err)
	}

	list := r.List()
	if len(list) == 0 {
		fmt.Println("No scenarios available.")
		return
	}

	fmt.Println("Available scenarios:")
	fmt.Println()

	maxNameLen := len("Name")
	for _, info := range list {
		maxNameLen = max(maxNameLen, len(info.Name))
	}

	fmt.Printf("  %-*s  %-7s  %-5s  %s\n", maxNameLen, "Name", "Objects", "Rules", "Origin")
	fmt.Printf("  %-*s  %-7s  %-5s  %s\n", maxNameLen, "----", "-------", "-----", "------")

	for _, info := range list {
		s, err := r.Load(info.Name, cfg)
		if err != nil {
			fmt.Printf("  %-*s  %-7s  %-5s  %s (invalid)\n", maxNameLen, info.Name, "-", "-", info.Origin)
			continue
		}
		fmt.Printf("  %-*s  %-7d  %-5d  %s\n", maxNameLen, info.Name, len(s.Objects), len(s.Rules), info.Origin)
	}

	fmt.Println()
	fmt.Println("Run 'rulestage watch <name>' to preview a scenario.")
}
