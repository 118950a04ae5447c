package lockctl

import (
	"context"
	"flag"
	"fmt"
)

func (a *App) runEmployee(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("employee: missing subcommand")
	}

	switch args[0] {
	case "add":
		return a.employeeAdd(ctx, args[1:])
	case "list":
		return a.employeeList(ctx)
	case "activate":
		return a.employeeSetActive(ctx, args[1:], true)
	case "deactivate":
		return a.employeeSetActive(ctx, args[1:], false)
	case "passwd":
		return a.employeePasswd(ctx, args[1:])
	default:
		return fmt.Errorf("employee: unknown subcommand %q", args[0])
	}
}

func (a *App) employeeAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("employee add", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	fullName := fs.String("n", "", "full name")
	department := fs.String("dept", "", "department")
	role := fs.String("role", "User", "role")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("employee add: -u is required")
	}

	pass, err := promptPassword("-Enter password")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("-Confirm password")
	if err != nil {
		return err
	}
	if pass != confirm {
		return fmt.Errorf("passwords do not match")
	}

	e, err := a.store.CreateEmployee(ctx, *username, pass, *fullName, *department, *role)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created employee %q (id %d)\n", e.Username, e.ID)
	return nil
}

func (a *App) employeeList(ctx context.Context) error {
	list, err := a.store.ListEmployees(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%-6s %-20s %-25s %-15s %-8s %s\n", "ID", "USERNAME", "FULL NAME", "DEPARTMENT", "ROLE", "ACTIVE")
	for _, e := range list {
		fmt.Fprintf(a.out, "%-6d %-20s %-25s %-15s %-8s %t\n", e.ID, e.Username, e.FullName, e.Department, e.Role, e.IsActive)
	}
	return nil
}

func (a *App) employeeSetActive(ctx context.Context, args []string, active bool) error {
	fs := flag.NewFlagSet("employee activate", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("-u is required")
	}

	if err := a.store.SetEmployeeActive(ctx, *username, active); err != nil {
		return err
	}
	state := "deactivated"
	if active {
		state = "activated"
	}
	fmt.Fprintf(a.out, "Employee %q %s\n", *username, state)
	return nil
}

func (a *App) employeePasswd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("employee passwd", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("-u is required")
	}

	pass, err := promptPassword("-Enter new password")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("-Confirm new password")
	if err != nil {
		return err
	}
	if pass != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := a.store.SetEmployeePassword(ctx, *username, pass); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Password updated for %q\n", *username)
	return nil
}
