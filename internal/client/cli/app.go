// Package cli implements userauthctl: it logs in over gRPC and runs one
// directory command.
//
//	userauthctl [-a addr] [-u username] [-t seconds] login
//	userauthctl [-a addr] [-u username] [-t seconds] list
//	userauthctl [-a addr] [-u username] [-t seconds] get <id>
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/userauth/internal/client/client"
	"github.com/dmitrijs2005/userauth/internal/client/config"
	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/prompt"
	"github.com/dmitrijs2005/userauth/internal/server/models"
)

var ErrUsage = errors.New("usage: userauthctl [-a addr] [-u username] [-t seconds] login | list | get <id>")

type App struct {
	config *config.Config
	client client.Client
	in     *bufio.Reader
	out    io.Writer
}

func NewApp(cfg *config.Config) (*App, error) {
	c, err := client.NewGRPCClient(cfg.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	return &App{config: cfg, client: c, in: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) Close() error {
	return a.client.Close()
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch args[0] {
	case "login":
		p, err := a.login(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Logged in as %s (%s)\n", p.Username, p.Role)
		return nil

	case "list":
		if _, err := a.login(ctx); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
		defer cancel()
		list, err := a.client.ListUsers(ctx)
		if err != nil {
			return err
		}
		return a.printProfiles(list...)

	case "get":
		if len(args) != 2 {
			return ErrUsage
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[1])
		}
		if _, err := a.login(ctx); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
		defer cancel()
		p, err := a.client.GetUser(ctx, id)
		if err != nil {
			return err
		}
		return a.printProfiles(p)

	default:
		return fmt.Errorf("unknown command %q: %w", args[0], ErrUsage)
	}
}

func (a *App) login(ctx context.Context) (models.Profile, error) {
	username := a.config.Username
	if username == "" {
		var err error
		username, err = prompt.GetSimpleText(a.in, "Username", a.out)
		if err != nil {
			return models.Profile{}, err
		}
	}

	password, err := prompt.GetPassword("Password", a.out)
	defer common.WipeByteArray(password)
	if err != nil {
		return models.Profile{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	return a.client.Login(ctx, username, password)
}

func (a *App) printProfiles(list ...models.Profile) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tFIRST NAME\tLAST NAME\tROLE")
	for _, p := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Username, p.FirstName, p.LastName, p.Role)
	}
	return w.Flush()
}
