package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axionhelmets/storefront-server/internal/model"
	"github.com/axionhelmets/storefront-server/internal/service"
	"github.com/axionhelmets/storefront-server/internal/token"
	"github.com/axionhelmets/storefront-server/internal/verifier"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage directory users",
}

var (
	roleEmail string
	roleName  string
)

var setRoleCmd = &cobra.Command{
	Use:   "set-role",
	Short: "Change the role of an existing user",
	Example: `  storefront users set-role --email ann@x.io --role admin
  storefront users set-role --email ann@x.io --role user`,
	RunE: func(cmd *cobra.Command, args []string) error {
		role := model.Role(roleName)
		if !role.Valid() {
			return fmt.Errorf("invalid role %q: must be %q or %q", roleName, model.RoleUser, model.RoleAdmin)
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := a.cfg
		auth := service.NewAuth(
			verifier.NewClient(cfg.Verifier.Endpoint, cfg.Verifier.APIKey, cfg.Verifier.Timeout, a.logger),
			service.NewReconciler(a.stores.Users, a.logger),
			token.NewJWT(cfg.JWT.Secret, cfg.JWT.SessionTTL),
			a.stores.Users,
			a.logger,
		)

		user, err := auth.SetRole(cmd.Context(), roleEmail, role)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now %s\n", user.Email, user.ID, user.Role)
		return nil
	},
}

func init() {
	setRoleCmd.Flags().StringVar(&roleEmail, "email", "", "email of the user to update")
	setRoleCmd.Flags().StringVar(&roleName, "role", "", "new role: user or admin")
	_ = setRoleCmd.MarkFlagRequired("email")
	_ = setRoleCmd.MarkFlagRequired("role")

	usersCmd.AddCommand(setRoleCmd)
}
