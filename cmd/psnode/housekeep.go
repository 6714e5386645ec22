// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/beevik/ntp"

	"github.com/pooledstaking/pstake/pool"
)

const (
	ntpCheckInterval = 10 * time.Minute
	maxClockOffset   = 10 * time.Second
)

// autoProcess settles pending actions every interval until ctx is done.
func autoProcess(ctx context.Context, p *pool.Pool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			settlement, _, err := p.ProcessPendingActions()
			if err != nil {
				logger.Warn("auto process failed", "err", err)
				continue
			}
			if n := settlement.Processed(); n > 0 {
				logger.Debug("auto processed", "n", n)
			}
		}
	}
}

func clockCheckLoop(ctx context.Context) {
	ticker := time.NewTicker(ntpCheckInterval)
	defer ticker.Stop()

	checkClockOffset()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkClockOffset()
		}
	}
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		logger.Warn("clock offset detected, unstake maturity may be off", "offset", resp.ClockOffset)
	}
}
