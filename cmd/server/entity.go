package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/auth"
	"github.com/railsuser2014/WebVella-ERP/internal/config"
	"github.com/spf13/cobra"
)

func newEntityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Inspect entity metadata",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			resp := a.manager.ReadEntities(cmd.Context())
			if !resp.Success {
				return errors.New(resp.Message)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLABEL\tFIELDS\tLISTS\tVIEWS")
			for _, e := range resp.Object {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
					e.ID, e.Name, e.Label, len(e.Fields), len(e.RecordLists), len(e.RecordViews))
			}
			return w.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Print an entity as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			resp := a.manager.ReadEntityByName(cmd.Context(), args[0])
			if !resp.Success {
				return errors.New(resp.Message)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp.Object)
		},
	})
	return cmd
}

func newTokenCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an administrator access token for the meta API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := uuid.New()
			if userID != "" {
				parsed, err := uuid.Parse(userID)
				if err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
				id = parsed
			}

			if err := config.NewConfigService(nil).LoadConfig().CheckSharedSecret(); err != nil {
				return err
			}
			a, err := bootstrap()
			if err != nil {
				return err
			}
			tok, err := a.tokens().GenerateToken(id, []uuid.UUID{auth.AdministratorRoleID})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nexpires %s\n", tok.AccessToken, tok.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id to put in the token (random when empty)")
	return cmd
}
