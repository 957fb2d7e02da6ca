package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/serpent-arena/internal/storage"
)

var flagDeleteSlot string

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List saved games",
	Long: `List the saved snapshots. F5 in a game saves to the "quick" slot;
SSH players get one slot each.

Examples:
  serpent saves
  serpent saves --delete quick`,
	Args: cobra.NoArgs,
	RunE: runSaves,
}

func init() {
	savesCmd.Flags().StringVar(&flagDeleteSlot, "delete", "", "Delete the named slot")
}

func runSaves(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagDeleteSlot != "" {
		if err := store.DeleteSnapshot(flagDeleteSlot); err != nil {
			return err
		}
		fmt.Printf("Deleted slot %q\n", flagDeleteSlot)
		return nil
	}

	snaps, err := store.ListSnapshots()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("No saved games.")
		return nil
	}

	fmt.Printf("  %-16s  %-8s  %-8s  %s\n", "Slot", "Game", "Score", "Saved")
	fmt.Printf("  %-16s  %-8s  %-8s  %s\n", "----", "----", "-----", "-----")
	for _, s := range snaps {
		fmt.Printf("  %-16s  %-8s  %-8d  %s\n", s.Slot, s.GameID, s.Score, s.SavedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
