// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/pooledstaking/pstake/client"
	"github.com/pooledstaking/pstake/pstake"
)

var (
	apiURLFlag = cli.StringFlag{
		Name:  "api-url",
		Value: "http://localhost:8679",
		Usage: "URL of the psnode API",
	}
	membersFlag = cli.StringFlag{
		Name:  "members",
		Usage: "file listing one member address per line",
	}
	stakerFlag = cli.StringFlag{
		Name:  "staker",
		Usage: "staker address",
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "print one line per member",
	}
	noProgressFlag = cli.BoolFlag{
		Name:  "no-progress",
		Usage: "hide the progress bar",
	}
)

func main() {
	app := cli.App{
		Name:  "psaudit",
		Usage: "Audit tooling for the pooled staking ledger",
		Flags: []cli.Flag{apiURLFlag},
		Commands: []cli.Command{
			{
				Name:   "deposits",
				Usage:  "sum deposits and rewards over a member list",
				Flags:  []cli.Flag{membersFlag, verboseFlag, noProgressFlag},
				Action: depositsAction,
			},
			{
				Name:   "stakes",
				Usage:  "print the contracts and stakes of a member",
				Flags:  []cli.Flag{stakerFlag},
				Action: stakesAction,
			},
			{
				Name:   "reconcile",
				Usage:  "compare custody against the token flows in the event log",
				Action: reconcileAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient(ctx *cli.Context) *client.Client {
	return client.New(ctx.GlobalString(apiURLFlag.Name))
}

func depositsAction(ctx *cli.Context) error {
	path := ctx.String(membersFlag.Name)
	if path == "" {
		return errors.New("missing --members")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	members, err := readMembers(f)
	if err != nil {
		return errors.WithMessage(err, path)
	}

	report, err := auditDeposits(context.Background(), newClient(ctx), members, !ctx.Bool(noProgressFlag.Name))
	if err != nil {
		return err
	}
	report.Print(os.Stdout, ctx.Bool(verboseFlag.Name))
	return nil
}

func stakesAction(ctx *cli.Context) error {
	addr, err := pstake.ParseAddress(ctx.String(stakerFlag.Name))
	if err != nil {
		return errors.WithMessage(err, "--staker")
	}
	s, err := newClient(ctx).GetStaker(addr)
	if err != nil {
		return err
	}
	printStakes(os.Stdout, s)
	return nil
}

func reconcileAction(ctx *cli.Context) error {
	r, err := reconcile(newClient(ctx))
	if err != nil {
		return err
	}
	r.Print(os.Stdout)
	if !r.Balanced() {
		return errors.New("custody does not match the event log")
	}
	return nil
}
