// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import "github.com/pooledstaking/pstake/metrics"

var (
	metricOpCount             = metrics.LazyLoadCounterVec("pool_op_count", []string{"op", "status"})
	metricCommitChanges       = metrics.LazyLoadCounter("pool_commit_changes_count")
	metricSettlementDuration  = metrics.LazyLoadHistogram("settlement_duration_ms", metrics.BucketSettlement)
	metricSettlementBatchSize = metrics.LazyLoadHistogramVec("settlement_batch_size", []string{"kind"}, metrics.BucketBatchSize)
	metricPendingActions      = metrics.LazyLoadGauge("pending_actions_gauge")
)
