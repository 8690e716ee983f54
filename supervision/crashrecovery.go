/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package supervision

import (
	"bufio"
	"fmt"
	"io"
)

// RecoveredPosition is the outcome of StartupRecover: either a snapshot
// held pending broker reconciliation, or confirmation the operator chose
// to continue flat after a corrupt snapshot.
type RecoveredPosition struct {
	Snapshot              PositionSnapshot
	PendingReconciliation bool
}

// ErrOperatorAborted is returned when the operator chooses Q on a
// corrupt snapshot prompt, telling main to exit with a non-zero code.
var ErrOperatorAborted = fmt.Errorf("supervision: operator aborted on corrupt position snapshot")

// StartupRecover implements the crash-recovery sequence: read the
// position snapshot file; if it is corrupt, prompt the operator (reading
// from in) to continue flat ('C') or abort ('Q'); if it is valid, return
// it marked pending reconciliation against the next broker position
// query; if it is absent or empty, return an empty result that is not
// pending.
func StartupRecover(p *PositionPersistence, in io.Reader, out io.Writer) (RecoveredPosition, error) {
	snap, ok, err := p.Load()
	if err == nil {
		if !ok {
			return RecoveredPosition{}, nil
		}
		return RecoveredPosition{Snapshot: snap, PendingReconciliation: true}, nil
	}

	fmt.Fprintln(out, "position snapshot is corrupt or unreadable:", err)
	fmt.Fprintln(out, "enter C to continue with zero position, Q to abort")

	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "> ")
		line, readErr := reader.ReadString('\n')
		switch trimResponse(line) {
		case "C", "c":
			return RecoveredPosition{}, nil
		case "Q", "q":
			return RecoveredPosition{}, ErrOperatorAborted
		}
		if readErr != nil {
			return RecoveredPosition{}, ErrOperatorAborted
		}
	}
}

func trimResponse(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r' || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	return s
}
