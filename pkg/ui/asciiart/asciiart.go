// Package asciiart renders the slipway logo shown by the bare root command.
package asciiart

import (
	"fmt"
	"io"
)

const logo = `
     ___  _ _ ____  _ _ _ ____ _   _
    / __|| | |  _ \| | | | _  | | | |
    \__ \| | | |_) | | | |(_| | |_| |
    |___/|_|_|  __/ \_____|__|_\__, |
       ~~~~~~|_|~~~~~~~~~~~~~~ |___/
      GitOps delivery, from the slip.
`

// PrintSlipwayLogo writes the slipway ASCII logo to the provided writer.
func PrintSlipwayLogo(writer io.Writer) {
	_, _ = fmt.Fprint(writer, logo)
}
