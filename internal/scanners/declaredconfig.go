// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package scanners

import (
	"context"

	"github.com/davetashner/locus/internal/scanner"
	"github.com/davetashner/locus/internal/signal"
)

// manifestProbe inspects one manifest convention at the project root and
// returns any signals it declares. Probes absorb their own failures: a
// missing or malformed manifest yields zero signals, never an error.
type manifestProbe func(root string) []signal.Signal

// manifestProbes is the ordered list of probes. All probes run; a repository
// can legitimately carry several manifests.
var manifestProbes = []manifestProbe{
	probeGoModule,
	probeGoWorkspace,
	probeNodePackage,
	probeCargo,
	probePyProject,
	probePythonSetup,
}

// Declared config signal strengths. A manifest is explicit but can be stale,
// so strengths sit below stub markers.
const (
	declaredDirStrength      = 0.75 // manifest names a concrete directory
	workspaceMemberStrength  = 0.75 // workspace/monorepo member directory
	conventionalDirStrength  = 0.7  // manifest plus its conventional layout dir
	manifestPresenceStrength = 0.55 // manifest present, no explicit layout
)

func init() {
	scanner.Register(&DeclaredConfigScanner{})
}

// DeclaredConfigScanner reads recognized build manifests at the project root
// and emits signals for the source roots and module paths they declare.
type DeclaredConfigScanner struct{}

// Compile-time interface check.
var _ scanner.Scanner = (*DeclaredConfigScanner)(nil)

// Family returns the signal family this scanner produces.
func (s *DeclaredConfigScanner) Family() signal.Family { return signal.FamilyDeclaredConfig }

// Scan runs every manifest probe against the root. Probes only stat and read
// fixed root-level files, so the scan is bounded without a walk.
func (s *DeclaredConfigScanner) Scan(ctx context.Context, root string, _ signal.ScanOpts) ([]signal.Signal, error) {
	var signals []signal.Signal
	for _, probe := range manifestProbes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		signals = append(signals, probe(root)...)
	}
	return signals, nil
}
