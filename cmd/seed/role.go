package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/inkfolio/internal/authz"
	"github.com/inkfolio/internal/logger"

	"github.com/spf13/cobra"
)

var (
	grantMethod string
	grantPath   string
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Inspect and extend admin roles",
}

var roleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roles with their inherited roles and policies",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRoles(cmd.OutOrStdout(), container.AuthzService)
	},
}

var roleGrantCmd = &cobra.Command{
	Use:   "grant <role>",
	Short: "Grant a role access to an admin API path",
	Example: `  seed role grant reviewer --method GET --path /admin/posts/:id
  seed role grant publisher --method PATCH --path /admin/posts/:id/published`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return grantRole(cmd.OutOrStdout(), container.AuthzService, args[0], grantMethod, grantPath)
	},
}

func init() {
	roleGrantCmd.Flags().StringVar(&grantMethod, "method", "GET", "HTTP method, * for all methods")
	roleGrantCmd.Flags().StringVar(&grantPath, "path", "", "admin API path, e.g. /admin/posts/:id")
	_ = roleGrantCmd.MarkFlagRequired("path")
	roleCmd.AddCommand(roleListCmd, roleGrantCmd)
}

func printRoles(out io.Writer, svc *authz.Service) error {
	roles, err := svc.Roles()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROLE\tINHERITS\tPOLICY")
	for _, role := range roles {
		inherits := strings.Join(role.Inherits, ",")
		if inherits == "" {
			inherits = "-"
		}
		if len(role.Policies) == 0 {
			fmt.Fprintf(w, "%s\t%s\t-\n", role.Role, inherits)
			continue
		}
		for _, policy := range role.Policies {
			fmt.Fprintf(w, "%s\t%s\t%s %s\n", role.Role, inherits, policy.Action, policy.Object)
		}
	}
	return w.Flush()
}

func grantRole(out io.Writer, svc *authz.Service, role, method, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is required")
	}
	added, err := svc.Grant(role, method, path)
	if err != nil {
		return err
	}
	normalized, _ := authz.NormalizeRole(role)
	policy := authz.NormalizeAction(method) + " " + authz.NormalizeObject(path)
	if !added {
		fmt.Fprintf(out, "%s already has %s\n", normalized, policy)
		return nil
	}
	logger.Infow("seed_role_granted", "role", normalized, "policy", policy)
	fmt.Fprintf(out, "granted %s to %s\n", policy, normalized)
	return nil
}

// roleExists 判断角色是否已定义，内置角色与 grant 创建的角色均可分配给管理员
func roleExists(svc *authz.Service, role string) (bool, error) {
	normalized, err := authz.NormalizeRole(role)
	if err != nil {
		return false, err
	}
	roles, err := svc.Roles()
	if err != nil {
		return false, err
	}
	for _, item := range roles {
		if item.Role == normalized {
			return true, nil
		}
	}
	return false, nil
}
