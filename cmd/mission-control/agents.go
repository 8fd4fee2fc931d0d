package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	domainagent "github.com/alanyang/mission-control/internal/domain/agent"
	agentsvc "github.com/alanyang/mission-control/internal/service/agent"
	"github.com/alanyang/mission-control/internal/wire"
)

func agentsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "agents", Short: "Manage the agent roster"}
	cmd.AddCommand(agentsSeedCmd())
	cmd.AddCommand(agentsListCmd())
	return cmd
}

// seedFile is the YAML layout read by `agents seed`:
//
//	agents:
//	  - id: jarvis
//	    name: Jarvis
//	    role: Squad Lead
//	    status: active
type seedFile struct {
	Agents []domainagent.Agent `yaml:"agents"`
}

func parseSeedFile(r io.Reader) ([]domainagent.Agent, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding seed file: %w", err)
	}
	if len(f.Agents) == 0 {
		return nil, fmt.Errorf("seed file lists no agents")
	}
	for i, a := range f.Agents {
		if a.ID == "" {
			return nil, fmt.Errorf("agent #%d has no id", i+1)
		}
	}
	return f.Agents, nil
}

func agentsSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create or replace agents from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fh, err := os.Open(file)
			if err != nil {
				return err
			}
			defer fh.Close()

			agents, err := parseSeedFile(fh)
			if err != nil {
				return err
			}
			return withAgents(cmd.Context(), func(ctx context.Context, svc *agentsvc.Service) error {
				seeded, err := svc.Seed(ctx, agents)
				if err != nil {
					return err
				}
				renderAgents(cmd.OutOrStdout(), seeded)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "agents.yaml", "seed file")
	return cmd
}

func agentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAgents(cmd.Context(), func(ctx context.Context, svc *agentsvc.Service) error {
				agents, err := svc.List(ctx)
				if err != nil {
					return err
				}
				renderAgents(cmd.OutOrStdout(), agents)
				return nil
			})
		},
	}
}

func withAgents(ctx context.Context, fn func(context.Context, *agentsvc.Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := wire.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, agentsvc.NewService(store.Agents, store.Tasks))
}

func renderAgents(w io.Writer, agents []domainagent.Agent) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Name", "Role", "Status", "Current Task"})
	for _, a := range agents {
		current := ""
		if a.CurrentTaskID != nil {
			current = *a.CurrentTaskID
		}
		tw.AppendRow(table.Row{a.ID, a.Name, a.Role, a.Status, current})
	}
	tw.Render()
}
