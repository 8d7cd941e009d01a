package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ether/seqfield-go/lib/sequencefield"
	"github.com/ether/seqfield-go/lib/settings"
	"github.com/ether/seqfield-go/lib/utils"
	"github.com/spf13/cobra"
)

var configJSON string

var rootCmd = &cobra.Command{
	Use:          "seqfield",
	Short:        "Inspect and maintain sequence-field changeset logs",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configJSON, "config", "",
		"inline JSON configuration, overrides settings.json")
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(logCmd)

	inspectCmd.Flags().IntVar(&inspectVersion, "version", 0,
		"wire format version of the input (default: configured codecVersion)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadSettings() (*settings.Settings, error) {
	return settings.ReadConfig(configJSON)
}

// rawChildCodec passes node-level changes through as plain JSON values.
type rawChildCodec struct{}

func (rawChildCodec) EncodeChild(change sequencefield.NodeChangeset) ([]byte, error) {
	return json.Marshal(change)
}

func (rawChildCodec) DecodeChild(data []byte) (sequencefield.NodeChangeset, error) {
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the wire format versions this build can decode",
	Run: func(cmd *cobra.Command, args []string) {
		var family = sequencefield.NewFamily(rawChildCodec{})
		for _, version := range family.SupportedFormats() {
			fmt.Printf("%d\n", version)
		}
	},
}

var inspectVersion int

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Decode an encoded changeset and print a mark summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		var version = inspectVersion
		if version == 0 {
			version = cfg.CodecVersion
		}

		payload, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		codec, err := sequencefield.NewFamily(rawChildCodec{}).Resolve(version)
		if err != nil {
			return err
		}

		change, err := codec.Decode(payload)
		if err != nil {
			return err
		}

		printChangeset(change)
		return nil
	},
}

func printChangeset(change sequencefield.Changeset) {
	for i, mark := range change {
		var population = "populated"
		if mark.CellID != nil {
			population = "empty"
		}
		fmt.Printf("%3d  %-16T count=%-4d %s", i, mark.Effect, mark.Count, population)
		if mark.CellID != nil {
			fmt.Printf(" cell=%s", mark.CellID.ChangeAtomID)
		}
		if mark.Changes != nil {
			fmt.Print(" +changes")
		}
		fmt.Println()
	}
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List the revisions in the configured changeset store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		setupLogger := utils.SetupLogger(cfg.LogLevel)
		defer setupLogger.Sync()

		changesetStore, err := utils.GetStore(*cfg, setupLogger)
		if err != nil {
			return err
		}
		defer changesetStore.Close()

		rows, err := changesetStore.ListRevisions()
		if err != nil {
			return err
		}

		for _, row := range *rows {
			var rollback = ""
			if row.RollbackOf != nil {
				rollback = fmt.Sprintf(" rollbackOf=%s", row.RollbackOf)
			}
			fmt.Printf("%4d  %s  v%d  %d bytes%s\n",
				row.Seq, row.Revision, row.Version, len(row.Payload), rollback)
		}
		return nil
	},
}
