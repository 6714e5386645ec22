// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/pooledstaking/pstake/api"
	"github.com/pooledstaking/pstake/builtin/staker"
	"github.com/pooledstaking/pstake/client"
	"github.com/pooledstaking/pstake/pstake"
)

const (
	chunkSize   = 50
	maxInflight = 4
)

// readMembers reads one address per line. Blank lines and lines starting with # are skipped.
func readMembers(r io.Reader) ([]pstake.Address, error) {
	var out []pstake.Address
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		addr, err := pstake.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessagef(err, "line %d", line)
		}
		out = append(out, addr)
	}
	return out, scanner.Err()
}

// DepositReport sums deposits and unclaimed rewards over a member list.
type DepositReport struct {
	Members  int
	Deposits *uint256.Int
	Rewards  *uint256.Int
	Stakers  []*api.Staker
}

// auditDeposits fetches every member in chunks, a bounded number of chunks at a time.
func auditDeposits(ctx context.Context, c *client.Client, members []pstake.Address, progress bool) (*DepositReport, error) {
	stakers := make([]*api.Staker, len(members))

	bar := pb.New(len(members)).SetMaxWidth(90)
	if progress {
		bar.Start()
	} else {
		bar.NotPrint = true
	}
	defer func() { bar.NotPrint = true }()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxInflight)
	for start := 0; start < len(members); start += chunkSize {
		end := min(start+chunkSize, len(members))
		eg.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				s, err := c.GetStaker(members[i])
				if err != nil {
					return errors.WithMessagef(err, "staker %v", members[i])
				}
				stakers[i] = s
				bar.Increment()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	bar.Finish()

	report := &DepositReport{
		Members:  len(members),
		Deposits: new(uint256.Int),
		Rewards:  new(uint256.Int),
		Stakers:  stakers,
	}
	for _, s := range stakers {
		report.Deposits.Add(report.Deposits, s.Deposit)
		report.Rewards.Add(report.Rewards, s.Reward)
	}
	return report, nil
}

func (r *DepositReport) Print(w io.Writer, verbose bool) {
	if verbose {
		for _, s := range r.Stakers {
			fmt.Fprintf(w, "%v  deposit %s  reward %s\n", s.Address, pstake.FormatUnits(s.Deposit), pstake.FormatUnits(s.Reward))
		}
	}
	fmt.Fprintf(w, "members   %d\n", r.Members)
	fmt.Fprintf(w, "deposits  %s\n", pstake.FormatUnits(r.Deposits))
	fmt.Fprintf(w, "rewards   %s\n", pstake.FormatUnits(r.Rewards))
}

func printStakes(w io.Writer, s *api.Staker) {
	fmt.Fprintf(w, "staker   %v\n", s.Address)
	fmt.Fprintf(w, "deposit  %s\n", pstake.FormatUnits(s.Deposit))
	fmt.Fprintf(w, "reward   %s\n", pstake.FormatUnits(s.Reward))
	total := new(uint256.Int)
	for _, cs := range s.Contracts {
		total.Add(total, cs.Stake)
		fmt.Fprintf(w, "  %v  stake %s  pending unstake %s\n", cs.Contract, pstake.FormatUnits(cs.Stake), pstake.FormatUnits(cs.PendingUnstake))
	}
	fmt.Fprintf(w, "staked   %s over %d contracts\n", pstake.FormatUnits(total), len(s.Contracts))
}

// Reconciliation compares custody against the token flows recorded in the event log.
type Reconciliation struct {
	Deposited       *uint256.Int
	Withdrawn       *uint256.Int
	Rewarded        *uint256.Int
	Burned          *uint256.Int
	RewardWithdrawn *uint256.Int
	Expected        *uint256.Int
	Custody         *uint256.Int
}

// Balanced reports whether custody matches the event log.
func (r *Reconciliation) Balanced() bool {
	return r.Expected != nil && r.Expected.Eq(r.Custody)
}

func reconcile(c *client.Client) (*Reconciliation, error) {
	sum := func(kind staker.EventKind, extra bool) (*uint256.Int, error) {
		s, err := c.SumEvents(&api.EventFilter{Kinds: []string{string(kind)}})
		if err != nil {
			return nil, errors.WithMessagef(err, "sum %v", kind)
		}
		if extra {
			return s.Extra, nil
		}
		return s.Amount, nil
	}

	r := &Reconciliation{}
	var err error
	if r.Deposited, err = sum(staker.Deposited, false); err != nil {
		return nil, err
	}
	if r.Withdrawn, err = sum(staker.Withdrawn, false); err != nil {
		return nil, err
	}
	if r.Rewarded, err = sum(staker.Rewarded, false); err != nil {
		return nil, err
	}
	// Burned.Extra is what actually left custody, Amount is the request.
	if r.Burned, err = sum(staker.Burned, true); err != nil {
		return nil, err
	}
	if r.RewardWithdrawn, err = sum(staker.RewardWithdrawn, false); err != nil {
		return nil, err
	}
	status, err := c.Status()
	if err != nil {
		return nil, err
	}
	r.Custody = status.Custody

	in := new(uint256.Int).Add(r.Deposited, r.Rewarded)
	out := new(uint256.Int).Add(r.Withdrawn, r.Burned)
	out.Add(out, r.RewardWithdrawn)
	if out.Gt(in) {
		return r, errors.Errorf("event log outflow %s exceeds inflow %s", pstake.FormatUnits(out), pstake.FormatUnits(in))
	}
	r.Expected = in.Sub(in, out)
	return r, nil
}

func (r *Reconciliation) Print(w io.Writer) {
	fmt.Fprintf(w, "deposited         %s\n", pstake.FormatUnits(r.Deposited))
	fmt.Fprintf(w, "withdrawn         %s\n", pstake.FormatUnits(r.Withdrawn))
	fmt.Fprintf(w, "rewarded          %s\n", pstake.FormatUnits(r.Rewarded))
	fmt.Fprintf(w, "burned            %s\n", pstake.FormatUnits(r.Burned))
	fmt.Fprintf(w, "reward withdrawn  %s\n", pstake.FormatUnits(r.RewardWithdrawn))
	fmt.Fprintf(w, "expected custody  %s\n", pstake.FormatUnits(r.Expected))
	fmt.Fprintf(w, "actual custody    %s\n", pstake.FormatUnits(r.Custody))
	if r.Balanced() {
		fmt.Fprintln(w, "OK")
	} else {
		fmt.Fprintln(w, "MISMATCH")
	}
}
