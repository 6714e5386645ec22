// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"os"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pooledstaking/pstake/access"
	"github.com/pooledstaking/pstake/builtin/params"
	"github.com/pooledstaking/pstake/pool"
	"github.com/pooledstaking/pstake/pstake"
)

// Config is the node configuration file.
//
//	roles:
//	  members: [0x...]
//	  internal: [0x...]
//	  governance: [0x...]
//	params:
//	  UnstakeLockTime: "86400"
//	balances:
//	  0x...: "1000.5"
//
// Param values are base units, balances are whole tokens.
type Config struct {
	Roles struct {
		Members    []string `yaml:"members"`
		Internal   []string `yaml:"internal"`
		Governance []string `yaml:"governance"`
	} `yaml:"roles"`
	Params   map[string]string `yaml:"params"`
	Balances map[string]string `yaml:"balances"`
}

func loadConfig(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		return &cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()
	return parseConfig(f)
}

func parseConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode config")
	}
	return &cfg, nil
}

func parseAddresses(list []string) ([]pstake.Address, error) {
	out := make([]pstake.Address, 0, len(list))
	for _, s := range list {
		addr, err := pstake.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessagef(err, "address %q", s)
		}
		out = append(out, addr)
	}
	return out, nil
}

// AccessList builds the role list.
func (c *Config) AccessList() (*access.List, error) {
	l := access.NewList()
	for role, list := range map[access.Role][]string{
		access.Member:     c.Roles.Members,
		access.Internal:   c.Roles.Internal,
		access.Governance: c.Roles.Governance,
	} {
		addrs, err := parseAddresses(list)
		if err != nil {
			return nil, errors.WithMessagef(err, "role %v", role)
		}
		l.Grant(role, addrs...)
	}
	return l, nil
}

// Genesis returns the initial state, nil when the file sets none.
func (c *Config) Genesis() (*pool.Genesis, error) {
	if len(c.Params) == 0 && len(c.Balances) == 0 {
		return nil, nil
	}
	g := &pool.Genesis{
		Balances: make(map[pstake.Address]*uint256.Int, len(c.Balances)),
		Params:   make(map[params.Key]*uint256.Int, len(c.Params)),
	}
	for name, value := range c.Params {
		key, err := params.ParseKey(name)
		if err != nil {
			return nil, err
		}
		v, err := pstake.ParseAmount(value)
		if err != nil {
			return nil, errors.WithMessagef(err, "param %v", name)
		}
		g.Params[key] = v
	}
	for holder, balance := range c.Balances {
		addr, err := pstake.ParseAddress(holder)
		if err != nil {
			return nil, errors.WithMessagef(err, "balance holder %q", holder)
		}
		v, err := pstake.ParseUnits(balance)
		if err != nil {
			return nil, errors.WithMessagef(err, "balance of %v", holder)
		}
		g.Balances[addr] = v
	}
	return g, nil
}
