package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

// adminAccounts is the slice of the auth service the CLI drives.
type adminAccounts interface {
	CreateAdmin(ctx context.Context, username, password string) (*models.Admin, error)
	ResetAdminPassword(ctx context.Context, username, password string) error
	DeleteAdmin(ctx context.Context, username string) error
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

type commandLine struct {
	admins  adminAccounts
	indexes indexer
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  createadmin -username USERNAME          - create an admin account (password is prompted)")
	fmt.Fprintln(cli.out, "  resetpassword -username USERNAME        - reset an admin's password (password is prompted)")
	fmt.Fprintln(cli.out, "  deleteadmin -username USERNAME          - delete an admin account")
	fmt.Fprintln(cli.out, "  ensureindexes                           - create the MongoDB indexes")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "createadmin":
		uname, pwd, err := cli.credentials("createadmin", args[2:])
		if err != nil {
			return err
		}
		a, err := cli.admins.CreateAdmin(context.Background(), uname, pwd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Admin %q created (id %s).\n", a.Username, a.ID.Hex())
		return nil
	case "resetpassword":
		uname, pwd, err := cli.credentials("resetpassword", args[2:])
		if err != nil {
			return err
		}
		if err := cli.admins.ResetAdminPassword(context.Background(), uname, pwd); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Password for %q updated.\n", uname)
		return nil
	case "deleteadmin":
		cmd := flag.NewFlagSet("deleteadmin", flag.ContinueOnError)
		cmd.SetOutput(cli.out)
		uname := cmd.String("username", "", "The admin's username.")
		if err := cmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *uname == "" {
			cmd.Usage()
			return errHelp
		}
		if err := cli.admins.DeleteAdmin(context.Background(), *uname); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Admin %q deleted.\n", *uname)
		return nil
	case "ensureindexes":
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := cli.indexes.EnsureIndexes(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Indexes ensured.")
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

// credentials parses -username and prompts for the password.
func (cli *commandLine) credentials(name string, args []string) (string, string, error) {
	cmd := flag.NewFlagSet(name, flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	uname := cmd.String("username", "", "The admin's username. The password will be prompted next.")
	if err := cmd.Parse(args); err != nil {
		return "", "", errHelp
	}
	if *uname == "" {
		cmd.Usage()
		return "", "", errHelp
	}

	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", "", err
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return "", "", errHelp
	}
	return *uname, string(pwd), nil
}
