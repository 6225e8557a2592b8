//  BYZRA ⸻ cmd/reclaim/main.go <>
// +-----------------------------------------------------------+
//  888PPP8b  888PPP8 ,dbPPPp 888     ,8b.   8888 888o   o888  |
//  d88  `8b  d88ooo  d88     888     88'8o  8888 88Y8o o8Y88  |____________________________
//  d88PP8P'  d88     d88     888     88PPY8. 8888 88 Y8P  88  .go <--| CLI entrypoint +
//  d88  `Yb  888PPP8 `Y8PPPP 888PPPP 8b   `Y' 8888 88  Y   88  |

package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

const version = "1.0.0"

func main() {
	root := newRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
