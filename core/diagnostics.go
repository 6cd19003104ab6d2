package core

import (
	"io"
	"strings"
)

// Diagnostics is a chip-info snapshot plus heap figures.
// Taken once per report and discarded after printing.
type Diagnostics struct {
	Chip            ChipInfo
	FreeHeap        uint32
	MinimumFreeHeap uint32
}

// TakeDiagnostics queries the platform for a fresh snapshot
func TakeDiagnostics(sys SystemInfo) Diagnostics {
	return Diagnostics{
		Chip:            sys.ChipInfo(),
		FreeHeap:        sys.FreeHeap(),
		MinimumFreeHeap: sys.MinimumFreeHeap(),
	}
}

// WriteTo prints the fixed-format chip info block
func (d Diagnostics) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	sb.WriteString("Chip Info:\n")
	sb.WriteString("  Model: " + d.Chip.Model + "\n")
	sb.WriteString("  Cores: " + utoa(uint32(d.Chip.Cores)) + "\n")
	sb.WriteString("  Revision: " + utoa(uint32(d.Chip.Revision)) + "\n")
	sb.WriteString("  Free Heap: " + utoa(d.FreeHeap) + " bytes\n")
	sb.WriteString("  Minimum Free Heap: " + utoa(d.MinimumFreeHeap) + " bytes\n")
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// ReportDiagnostics takes a snapshot and prints it
func ReportDiagnostics(w io.Writer, sys SystemInfo) Diagnostics {
	d := TakeDiagnostics(sys)
	_, _ = d.WriteTo(w)
	return d
}
