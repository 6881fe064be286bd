//go:build !linux

package worker

import (
	"fmt"
	"runtime"

	"github.com/jzx17/qops/pkg/types"
)

func applySchedule(policy SchedPolicy, priority int) error {
	if !policy.IsRealtime() {
		return nil
	}
	return fmt.Errorf("%w: %s on %s", types.ErrUnsupportedPolicy, policy, runtime.GOOS)
}
