// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/pooledstaking/pstake/builtin/reverts"
	"github.com/pooledstaking/pstake/builtin/solidity"
	"github.com/pooledstaking/pstake/pstake"
)

var (
	slotStakers         = pstake.BytesToBytes32([]byte("stakers"))
	slotAllocations     = pstake.BytesToBytes32([]byte("allocations"))
	slotStakerContracts = pstake.BytesToBytes32([]byte("staker-contracts"))
	slotContractStakers = pstake.BytesToBytes32([]byte("contract-stakers"))
)

// Service stores staker records, allocations and the two ordered membership lists.
// Records are created lazily and never deleted.
type Service struct {
	sctx        *solidity.Context
	stakers     *solidity.Mapping[pstake.Address, Staker]
	allocations *solidity.Mapping[pstake.Bytes32, Allocation]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		sctx:        sctx,
		stakers:     solidity.NewMapping[pstake.Address, Staker](sctx, slotStakers),
		allocations: solidity.NewMapping[pstake.Bytes32, Allocation](sctx, slotAllocations),
	}
}

func allocationKey(staker, contract pstake.Address) pstake.Bytes32 {
	return pstake.Blake2b(staker.Bytes(), contract.Bytes())
}

func (s *Service) stakerContracts(staker pstake.Address) *solidity.Array[pstake.Address] {
	return solidity.NewArray[pstake.Address](s.sctx, pstake.Blake2b(staker.Bytes(), slotStakerContracts.Bytes()))
}

func (s *Service) contractStakers(contract pstake.Address) *solidity.Array[pstake.Address] {
	return solidity.NewArray[pstake.Address](s.sctx, pstake.Blake2b(contract.Bytes(), slotContractStakers.Bytes()))
}

// GetStaker returns the staker record, zero valued when absent.
func (s *Service) GetStaker(staker pstake.Address) (*Staker, error) {
	rec, err := s.stakers.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staker")
	}
	return rec.normalize(), nil
}

func (s *Service) SetStaker(staker pstake.Address, rec *Staker) error {
	if err := s.stakers.Set(staker, *rec.normalize()); err != nil {
		return errors.Wrap(err, "failed to set staker")
	}
	return nil
}

// GetAllocation returns the allocation, zero valued when absent.
func (s *Service) GetAllocation(staker, contract pstake.Address) (*Allocation, error) {
	alloc, err := s.allocations.Get(allocationKey(staker, contract))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allocation")
	}
	return alloc.normalize(), nil
}

// SetAllocation stores the allocation. The first store of a pair appends the contract
// to the staker's list and the staker to the contract's list.
func (s *Service) SetAllocation(staker, contract pstake.Address, alloc *Allocation) error {
	alloc.normalize()
	if !alloc.Listed {
		if _, err := s.stakerContracts(staker).Push(contract); err != nil {
			return errors.Wrap(err, "failed to list contract")
		}
		if _, err := s.contractStakers(contract).Push(staker); err != nil {
			return errors.Wrap(err, "failed to list staker")
		}
		alloc.Listed = true
	}
	if err := s.allocations.Set(allocationKey(staker, contract), *alloc); err != nil {
		return errors.Wrap(err, "failed to set allocation")
	}
	return nil
}

// StakerContracts returns the contracts of staker in insertion order.
func (s *Service) StakerContracts(staker pstake.Address) ([]pstake.Address, error) {
	return s.stakerContracts(staker).All()
}

// ContractStakers returns the stakers of contract in first-allocation order.
func (s *Service) ContractStakers(contract pstake.Address) ([]pstake.Address, error) {
	return s.contractStakers(contract).All()
}

// Weight is a staker's current stake on a contract.
type Weight struct {
	Staker pstake.Address
	Stake  *uint256.Int
}

// ContractWeights returns every staker of contract with its stake, in first-allocation
// order, and the summed stake.
func (s *Service) ContractWeights(contract pstake.Address) ([]Weight, *uint256.Int, error) {
	stakers, err := s.ContractStakers(contract)
	if err != nil {
		return nil, nil, err
	}
	total := new(uint256.Int)
	weights := make([]Weight, 0, len(stakers))
	for _, staker := range stakers {
		alloc, err := s.GetAllocation(staker, contract)
		if err != nil {
			return nil, nil, err
		}
		if _, overflow := total.AddOverflow(total, alloc.Stake); overflow {
			return nil, nil, reverts.New(reverts.ArithmeticOverflow, "total stake of %v", contract)
		}
		weights = append(weights, Weight{Staker: staker, Stake: alloc.Stake})
	}
	return weights, total, nil
}

// ContractTotalStake sums the stakes of all stakers of contract.
func (s *Service) ContractTotalStake(contract pstake.Address) (*uint256.Int, error) {
	_, total, err := s.ContractWeights(contract)
	return total, err
}

// StakeTotals returns the summed and the largest stake of staker over all its contracts.
func (s *Service) StakeTotals(staker pstake.Address) (total, largest *uint256.Int, err error) {
	contracts, err := s.StakerContracts(staker)
	if err != nil {
		return nil, nil, err
	}
	total, largest = new(uint256.Int), new(uint256.Int)
	for _, contract := range contracts {
		alloc, err := s.GetAllocation(staker, contract)
		if err != nil {
			return nil, nil, err
		}
		if _, overflow := total.AddOverflow(total, alloc.Stake); overflow {
			return nil, nil, reverts.New(reverts.ArithmeticOverflow, "total stake of %v", staker)
		}
		if largest.Lt(alloc.Stake) {
			largest.Set(alloc.Stake)
		}
	}
	return total, largest, nil
}
