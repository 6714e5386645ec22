// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"os"
	"sync/atomic"

	"github.com/elastic/gosigar"
	"github.com/prometheus/client_golang/prometheus"
)

// processCollector reports memory and cpu time of the running node.
type processCollector struct {
	pid int

	residentDesc *prometheus.Desc
	cpuUserDesc  *prometheus.Desc
	cpuSysDesc   *prometheus.Desc
}

func newProcessCollector() *processCollector {
	return &processCollector{
		pid: os.Getpid(),
		residentDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "process", "resident_bytes"),
			"Resident memory size of the node process.",
			nil, nil,
		),
		cpuUserDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "process", "cpu_user_ms_total"),
			"User cpu time spent by the node process.",
			nil, nil,
		),
		cpuSysDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "process", "cpu_sys_ms_total"),
			"System cpu time spent by the node process.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *processCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.residentDesc
	ch <- c.cpuUserDesc
	ch <- c.cpuSysDesc
}

// Collect implements prometheus.Collector.
func (c *processCollector) Collect(ch chan<- prometheus.Metric) {
	var mem gosigar.ProcMem
	if err := mem.Get(c.pid); err == nil {
		ch <- prometheus.MustNewConstMetric(c.residentDesc, prometheus.GaugeValue, float64(mem.Resident))
	} else {
		logger.Debug("unable to read process memory", "err", err)
	}

	var cpu gosigar.ProcTime
	if err := cpu.Get(c.pid); err == nil {
		ch <- prometheus.MustNewConstMetric(c.cpuUserDesc, prometheus.CounterValue, float64(cpu.User))
		ch <- prometheus.MustNewConstMetric(c.cpuSysDesc, prometheus.CounterValue, float64(cpu.Sys))
	} else {
		logger.Debug("unable to read process cpu time", "err", err)
	}
}

var registered atomic.Bool

func registerProcessCollector() {
	if registered.CompareAndSwap(false, true) {
		register(newProcessCollector())
	}
}
