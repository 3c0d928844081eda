package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the archive server and save the session",
	RunE:  loginRun,
}

func loginRun(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if cfg.Token != "" {
		fmt.Println("A token is configured; cookie login is not required.")
		return nil
	}
	if client.LoggedIn() {
		fmt.Println("Already logged in.")
		return nil
	}

	fmt.Fprint(os.Stderr, "Username: ")
	reader := bufio.NewReader(os.Stdin)
	username, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading username: %w", err)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username must not be empty")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	if err := client.Login(cmd.Context(), username, string(password)); err != nil {
		return err
	}

	fmt.Printf("Logged in to %s.\n", client.BaseURL())
	return nil
}
