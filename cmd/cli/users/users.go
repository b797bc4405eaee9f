package users

import (
	"fmt"
	"net/http"

	"github.com/crucial707/printdesk/cmd/cli/client"
	"github.com/crucial707/printdesk/cmd/cli/output"
	"github.com/crucial707/printdesk/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage helpdesk users",
		Long:  "List, create and delete helpdesk users. Changes require an administrator token.",
	}
	usersCmd.AddCommand(listUsersCmd(), createUserCmd(), deleteUserCmd())
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// List Users
// ==========================
func listUsersCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			var users []models.User
			if err := client.Do(http.MethodGet, "/users", true, nil, &users); err != nil {
				return err
			}
			if asJSON {
				return output.RenderJSON(users)
			}

			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				rows = append(rows, []interface{}{u.ID, u.Username, u.Role, u.CreatedAt.Format("2006-01-02")})
			}
			output.RenderTable([]string{"ID", "Usuario", "Rol", "Alta"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	return cmd
}

// ==========================
// Create User
// ==========================
func createUserCmd() *cobra.Command {
	var username, password, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user (administrators only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{"usuario": username, "password": password}
			if role != "" {
				payload["rol"] = role
			}
			var created models.User
			if err := client.Do(http.MethodPost, "/users", true, payload, &created); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s created with ID %d.\n", created.Username, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Login name")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	cmd.Flags().StringVar(&role, "role", "", "tecnico (default) or administrador")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}

// ==========================
// Delete User
// ==========================
func deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a user (administrators only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do(http.MethodDelete, "/users/"+args[0], true, nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s deleted.\n", args[0])
			return nil
		},
	}
}
