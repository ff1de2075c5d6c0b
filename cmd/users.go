package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mkifle/portfolio-backend/auth"
	"github.com/mkifle/portfolio-backend/database"
	"github.com/mkifle/portfolio-backend/errs"
	"github.com/mkifle/portfolio-backend/models"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
)

func init() {
	CreateAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "display name")
	CreateAdminCmd.Flags().StringVar(&adminEmail, "email", "", "email address (required)")
	CreateAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password; prompted for when omitted")
	_ = CreateAdminCmd.MarkFlagRequired("email")
}

var CreateAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account, or promote and reset an existing one",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, db, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		password := adminPassword
		if password == "" {
			prompt := promptui.Prompt{
				Label:       "Admin password",
				Mask:        '*',
				HideEntered: true,
				Validate: func(s string) error {
					if len(s) < models.MinPasswordLength {
						return fmt.Errorf("password must be at least %d characters", models.MinPasswordLength)
					}
					return nil
				},
			}
			if password, err = prompt.Run(); err != nil {
				return fmt.Errorf("password prompt: %w", err)
			}
		}

		tokens, err := auth.NewService(settings.JWTSecret, settings.JWTExpiry, settings.BcryptCost)
		if err != nil {
			return err
		}

		user, created, err := createAdmin(cmd.Context(), db.UserRepo(), tokens, adminName, adminEmail, password)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("Created admin %s (%s)\n", user.Email, user.ID)
		} else {
			fmt.Printf("Promoted %s (%s) to admin and reset the password\n", user.Email, user.ID)
		}
		return nil
	},
}

// createAdmin inserts an admin account. An existing account with the same
// email is promoted and gets the new password. The bool reports whether a
// new row was created.
func createAdmin(ctx context.Context, users *database.UserRepo, tokens *auth.Service, name, email, password string) (*models.User, bool, error) {
	if len(password) < models.MinPasswordLength {
		return nil, false, fmt.Errorf("password must be at least %d characters", models.MinPasswordLength)
	}
	hash, err := tokens.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		existing.Role = models.RoleAdmin
		if err := users.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		if err := users.SetPassword(ctx, existing.ID, hash); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case !errs.IsNotFound(err):
		return nil, false, err
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash, Role: models.RoleAdmin}
	user.Normalize()
	if err := models.Validate(user); err != nil {
		return nil, false, err
	}
	if err := users.Add(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

var SetRoleCmd = &cobra.Command{
	Use:   "set-role <email> <user|admin>",
	Short: "Change the role of an existing account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		user, err := setRole(cmd.Context(), db.UserRepo(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s is now %s\n", user.Email, user.Role)
		return nil
	},
}

var errUnknownRole = errors.New("role must be user or admin")

func setRole(ctx context.Context, users *database.UserRepo, email, role string) (*models.User, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, errUnknownRole
	}
	user, err := users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

var ShowUserCmd = &cobra.Command{
	Use:   "show-user <email>",
	Short: "Print one account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		user, err := db.UserRepo().FindByEmail(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		writeUsers(os.Stdout, []models.User{*user})
		return nil
	},
}

var listUsersRole string

func init() {
	ListUsersCmd.Flags().StringVar(&listUsersRole, "role", "", "only list users with this role")
}

var ListUsersCmd = &cobra.Command{
	Use:   "list-users",
	Short: "Print every account",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		var all []models.User
		for page := 1; ; page++ {
			res, err := db.UserRepo().List(cmd.Context(), database.UserFilter{Role: listUsersRole}, database.NewPageRequest(page, 100))
			if err != nil {
				return err
			}
			all = append(all, res.Items...)
			if page >= res.TotalPages() {
				break
			}
		}
		writeUsers(os.Stdout, all)
		return nil
	},
}

// writeUsers renders accounts as a table. Password hashes are never printed.
func writeUsers(w io.Writer, users []models.User) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Email", "Role", "Created"})
	for _, u := range users {
		table.Append([]string{u.ID.String(), u.Name, u.Email, u.Role, u.CreatedAt.Format("2006-01-02 15:04")})
	}
	table.Render()
}
