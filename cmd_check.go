package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"minimarket/config"
	"minimarket/configuration"
	"minimarket/db"
	"minimarket/logger"
	"minimarket/queries"

	"github.com/spf13/cobra"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the dispatch modules, their operations and descriptor ids",
	RunE:  runModules,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var strict bool

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the descriptor document and report its warnings",
	RunE:  runConfigCheck,
}

func init() {
	configCheckCmd.Flags().BoolVar(&strict, "strict", false, "fail when the document has warnings")
	configCmd.AddCommand(configCheckCmd)
}

func runModules(cmd *cobra.Command, args []string) error {
	conf, err := config.Get(configPath)
	if err != nil {
		return err
	}
	desc, err := loadDescriptors(cmd, conf)
	if err != nil {
		return err
	}
	reg := queries.Procedures()
	if conf.Statements != "procedures" {
		reg = queries.Portable(db.FlavorOf(conf.Database))
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODULE\tOPERATIONS\tTAB\tTABLE\tFORM")
	for _, m := range queries.Modules {
		ops := make([]string, 0, 4)
		for _, op := range reg.Operations(m) {
			ops = append(ops, string(op))
		}
		tab, table, form := "-", "-", "-"
		if mod, ok := desc.Module(m); ok {
			tab, table = desc.TabID(m), desc.TableID(m)
			if mod.HasForm() {
				form = "sí"
			} else {
				form = "no"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m, strings.Join(ops, ","), tab, table, form)
	}
	return w.Flush()
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	conf, err := config.Get(configPath)
	if err != nil {
		return err
	}
	desc, err := loadDescriptors(cmd, conf)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	problems := append(desc.Warnings(), desc.Check(queries.Modules)...)
	fmt.Fprintf(out, "origen: %s, módulos: %d\n", desc.Source(), len(desc.Modules()))
	for _, p := range problems {
		fmt.Fprintf(out, "  - %s\n", p)
	}
	if len(problems) == 0 {
		fmt.Fprintln(out, "OK")
		return nil
	}
	if strict {
		return fmt.Errorf("%d problemas en la configuración", len(problems))
	}
	return nil
}

// loadDescriptors opens the database only when the document lives there.
func loadDescriptors(cmd *cobra.Command, conf config.Configuration) (*configuration.Descriptors, error) {
	var store db.Store
	if conf.Descriptors.Source == configuration.SourceDatabase {
		conn, err := db.Connect(conf, logger.Nop())
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		store = db.NewStore(conn, logger.Nop())
	}
	return configuration.NewLoader(conf, store, nil, logger.Nop()).Load(cmd.Context())
}
