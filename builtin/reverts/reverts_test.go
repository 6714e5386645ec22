// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New(ZeroAmount, "amount is %d", 0)
	assert.Equal(t, "amount is 0", revert.Message())
	assert.Equal(t, "ZeroAmount: amount is 0", revert.Error())
	assert.Equal(t, ZeroAmount, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func TestWrappedKinds(t *testing.T) {
	overflow := New(ArithmeticOverflow, "reward share")
	failed := Wrap(ProcessingFailed, errors.Wrap(overflow, "action 3"), "settlement aborted")

	assert.True(t, Is(failed, ProcessingFailed))
	assert.True(t, Is(failed, ArithmeticOverflow))
	assert.False(t, Is(failed, ExposureExceeded))
	assert.Equal(t, "ProcessingFailed: settlement aborted: action 3: ArithmeticOverflow: reward share", failed.Error())

	kind, ok := KindOf(errors.WithMessage(failed, "pool"))
	assert.True(t, ok)
	assert.Equal(t, ProcessingFailed, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, Is(nil, Unauthorized))
}
