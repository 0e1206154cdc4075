package main

import (
	"fmt"
)

// ANSI color helpers
const (
	violet = "\033[38;2;138;124;251m"
	gray   = "\033[38;5;242m"
	white  = "\033[1;37m"
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
)

// Renders the welcome banner candidates outside the TUI so they can be
// compared side by side in a plain terminal.
func main() {
	info1 := white + "Letta CLI " + gray + "v0.1.0" + reset
	info2 := gray + "localhost:8283 · agent-6a2f...1a44" + reset

	fmt.Println()
	fmt.Println(bold + "═══ Pick a banner ═══" + reset)

	// ── Option A: Block letters ──
	fmt.Println()
	fmt.Println(dim + "Option A — Block letters" + reset)
	fmt.Println()
	for _, line := range []string{
		"██╗     ███████╗████████╗████████╗ █████╗",
		"██║     ██╔════╝╚══██╔══╝╚══██╔══╝██╔══██╗",
		"██║     █████╗     ██║      ██║   ███████║",
		"██║     ██╔══╝     ██║      ██║   ██╔══██║",
		"███████╗███████╗   ██║      ██║   ██║  ██║",
		"╚══════╝╚══════╝   ╚═╝      ╚═╝   ╚═╝  ╚═╝",
	} {
		fmt.Printf("   %s%s%s\n", violet, line, reset)
	}
	fmt.Printf("   %s\n", info1)
	fmt.Printf("   %s\n", info2)

	// ── Option B: Compact wordmark ──
	fmt.Println()
	fmt.Println(dim + "Option B — Compact wordmark" + reset)
	fmt.Println()
	fmt.Printf("   %s▐█▌%s %sLETTA%s   %s\n", violet, reset, bold, reset, info1)
	fmt.Printf("   %s▐█▌%s         %s\n", violet, reset, info2)

	// ── Option C: Speech bubble ──
	fmt.Println()
	fmt.Println(dim + "Option C — Speech bubble" + reset)
	fmt.Println()
	fmt.Printf("   %s▄▀▀▀▀▀▄%s\n", violet, reset)
	fmt.Printf("   %s█%s %s● ●%s %s█%s   %s\n", violet, reset, white, reset, violet, reset, info1)
	fmt.Printf("   %s▀▄▄▞▄▄▀%s   %s\n", violet, reset, info2)

	fmt.Println()
	fmt.Println(dim + "Which one? (A/B/C)" + reset)
	fmt.Println()
}
